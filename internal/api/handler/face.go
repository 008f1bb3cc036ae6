package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/lumeon/visage/internal/api/middleware"
	"github.com/lumeon/visage/internal/domain"
)

// FaceHandler handles enrollment and validation requests
type FaceHandler struct {
	service AuthService
	logger  *slog.Logger
}

// NewFaceHandler creates a new FaceHandler instance
func NewFaceHandler(service AuthService, logger *slog.Logger) *FaceHandler {
	return &FaceHandler{
		service: service,
		logger:  logger,
	}
}

// EnrollRequest request body for the enroll endpoint
type EnrollRequest struct {
	Image string `json:"image"`
}

// EnrollResponse response for the enroll endpoint
type EnrollResponse struct {
	EncodingID string `json:"encoding_id"`
	IdentityID string `json:"identity_id"`
	CreatedAt  string `json:"created_at"`
}

// CountResponse response for the face count endpoint
type CountResponse struct {
	IdentityID string `json:"identity_id"`
	Count      int    `json:"count"`
}

// ValidateRequest request body for the validate endpoint
type ValidateRequest struct {
	Image string `json:"image"`
}

// ValidateResponse response for the validate endpoint
type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Enroll POST /v1/faces - enroll another face for the authenticated identity
func (h *FaceHandler) Enroll(c *fiber.Ctx) error {
	identityID, err := middleware.GetIdentityID(c)
	if err != nil {
		return err
	}

	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	imageBytes, err := decodeImagePayload(req.Image)
	if err != nil {
		return err
	}

	encoding, err := h.service.Enroll(c.Context(), identityID, imageBytes)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(EnrollResponse{
		EncodingID: encoding.ID.String(),
		IdentityID: encoding.IdentityID.String(),
		CreatedAt:  encoding.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// Count GET /v1/faces/count - number of faces enrolled for the identity
func (h *FaceHandler) Count(c *fiber.Ctx) error {
	identityID, err := middleware.GetIdentityID(c)
	if err != nil {
		return err
	}

	count, err := h.service.CountFaces(c.Context(), identityID)
	if err != nil {
		return err
	}

	return c.JSON(CountResponse{
		IdentityID: identityID.String(),
		Count:      count,
	})
}

// Validate POST /v1/faces/validate - run the quality gate without enrolling
func (h *FaceHandler) Validate(c *fiber.Ctx) error {
	var req ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	imageBytes, err := decodeImagePayload(req.Image)
	if err != nil {
		return err
	}

	valid, reason, err := h.service.ValidateImage(c.Context(), imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(ValidateResponse{
		Valid:  valid,
		Reason: reason,
	})
}
