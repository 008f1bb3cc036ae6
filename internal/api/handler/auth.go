package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lumeon/visage/internal/domain"
	"github.com/lumeon/visage/internal/token"
)

// AuthService interface for the orchestrator
type AuthService interface {
	ValidateImage(ctx context.Context, image []byte) (bool, string, error)
	Enroll(ctx context.Context, identityID uuid.UUID, image []byte) (*domain.FaceEncoding, error)
	RegisterWithFace(ctx context.Context, name, email string, image []byte) (*domain.Identity, *domain.FaceEncoding, error)
	CountFaces(ctx context.Context, identityID uuid.UUID) (int, error)
	Authenticate(ctx context.Context, image []byte) (*domain.AuthResult, error)
	GetThreshold() float64
	SetThreshold(ctx context.Context, value float64) error
}

// AuthHandler handles registration and authentication requests
type AuthHandler struct {
	service    AuthService
	jwtService *token.JWTService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(service AuthService, jwtService *token.JWTService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:    service,
		jwtService: jwtService,
		logger:     logger,
	}
}

// RegisterRequest request body for the register endpoint
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// RegisterResponse response for the register endpoint
type RegisterResponse struct {
	IdentityID string `json:"identity_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	CreatedAt  string `json:"created_at"`
}

// LoginRequest request body for the login endpoint
type LoginRequest struct {
	Image string `json:"image"`
}

// LoginResponse response for the login endpoint
type LoginResponse struct {
	Authenticated bool    `json:"authenticated"`
	IdentityID    string  `json:"identity_id,omitempty"`
	Name          string  `json:"name,omitempty"`
	Confidence    float64 `json:"confidence"`
	Token         string  `json:"token,omitempty"`
}

// RefreshRequest request body for the refresh endpoint
type RefreshRequest struct {
	Token string `json:"token"`
}

// RefreshResponse response for the refresh endpoint
type RefreshResponse struct {
	Token string `json:"token"`
}

// Register POST /v1/register - create an identity with its first face
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return domain.ErrValidationFailed.WithError(errors.New("a valid email is required"))
	}

	imageBytes, err := decodeImagePayload(req.Image)
	if err != nil {
		return err
	}

	identity, _, err := h.service.RegisterWithFace(c.Context(), req.Name, req.Email, imageBytes)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		IdentityID: identity.ID.String(),
		Name:       identity.Name,
		Email:      identity.Email,
		CreatedAt:  identity.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// Login POST /v1/auth/login - authenticate by face
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	imageBytes, err := decodeImagePayload(req.Image)
	if err != nil {
		return err
	}

	result, err := h.service.Authenticate(c.Context(), imageBytes)
	if err != nil {
		return err
	}

	if !result.Success {
		return c.Status(fiber.StatusUnauthorized).JSON(LoginResponse{
			Authenticated: false,
			Confidence:    result.Confidence,
		})
	}

	bearer, err := h.jwtService.GenerateToken(result.Identity.ID, result.Identity.Email)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	return c.JSON(LoginResponse{
		Authenticated: true,
		IdentityID:    result.Identity.ID.String(),
		Name:          result.Identity.Name,
		Confidence:    result.Confidence,
		Token:         bearer,
	})
}

// Refresh POST /v1/auth/refresh - exchange a valid token for a fresh one
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	if strings.TrimSpace(req.Token) == "" {
		return domain.ErrValidationFailed.WithError(errors.New("token is required"))
	}

	fresh, err := h.jwtService.RefreshToken(req.Token)
	if err != nil {
		h.logger.Debug("token refresh rejected", "error", err)
		return domain.ErrUnauthorized
	}

	return c.JSON(RefreshResponse{Token: fresh})
}
