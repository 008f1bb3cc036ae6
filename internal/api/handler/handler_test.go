package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumeon/visage/internal/api/middleware"
	"github.com/lumeon/visage/internal/domain"
	"github.com/lumeon/visage/internal/token"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ValidateImage(ctx context.Context, image []byte) (bool, string, error) {
	args := m.Called(ctx, image)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) Enroll(ctx context.Context, identityID uuid.UUID, image []byte) (*domain.FaceEncoding, error) {
	args := m.Called(ctx, identityID, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FaceEncoding), args.Error(1)
}

func (m *MockAuthService) RegisterWithFace(ctx context.Context, name, email string, image []byte) (*domain.Identity, *domain.FaceEncoding, error) {
	args := m.Called(ctx, name, email, image)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Identity), args.Get(1).(*domain.FaceEncoding), args.Error(2)
}

func (m *MockAuthService) CountFaces(ctx context.Context, identityID uuid.UUID) (int, error) {
	args := m.Called(ctx, identityID)
	return args.Int(0), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, image []byte) (*domain.AuthResult, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthService) GetThreshold() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *MockAuthService) SetThreshold(ctx context.Context, value float64) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

var testImageB64 = base64.StdEncoding.EncodeToString([]byte("not-a-real-jpeg"))

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(svc AuthService, jwtService *token.JWTService) *fiber.App {
	logger := discardLogger()
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	authHandler := NewAuthHandler(svc, jwtService, logger)
	faceHandler := NewFaceHandler(svc, logger)
	thresholdHandler := NewThresholdHandler(svc, logger)

	v1 := app.Group("/v1")
	v1.Post("/register", authHandler.Register)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/refresh", authHandler.Refresh)
	v1.Post("/faces/validate", faceHandler.Validate)

	protected := v1.Group("", middleware.Auth(middleware.AuthDependencies{
		JWTService: jwtService,
		Logger:     logger,
	}))
	protected.Post("/faces", faceHandler.Enroll)
	protected.Get("/faces/count", faceHandler.Count)
	protected.Get("/admin/threshold", thresholdHandler.Get)
	protected.Put("/admin/threshold", thresholdHandler.Update)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any, bearer string) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func TestAuthHandler_Register(t *testing.T) {
	jwtService := token.NewJWTService("test-secret", "visage-test", time.Hour)

	t.Run("successful registration", func(t *testing.T) {
		svc := &MockAuthService{}
		identity := &domain.Identity{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", IsActive: true, CreatedAt: time.Now()}
		svc.On("RegisterWithFace", mock.Anything, "Alice", "alice@example.com", mock.Anything).
			Return(identity, &domain.FaceEncoding{ID: uuid.New(), IdentityID: identity.ID}, nil)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "POST", "/v1/register", fiber.Map{
			"name":  "Alice",
			"email": "Alice@Example.com",
			"image": testImageB64,
		}, "")

		assert.Equal(t, 201, status)
		assert.Equal(t, identity.ID.String(), body["identity_id"])
		assert.Equal(t, "Alice", body["name"])
	})

	t.Run("missing name", func(t *testing.T) {
		svc := &MockAuthService{}
		app := newTestApp(svc, jwtService)

		status, _ := doJSON(t, app, "POST", "/v1/register", fiber.Map{
			"email": "alice@example.com",
			"image": testImageB64,
		}, "")

		assert.Equal(t, 422, status)
		svc.AssertNotCalled(t, "RegisterWithFace", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := &MockAuthService{}
		app := newTestApp(svc, jwtService)

		status, _ := doJSON(t, app, "POST", "/v1/register", fiber.Map{
			"name":  "Alice",
			"email": "not-an-email",
			"image": testImageB64,
		}, "")

		assert.Equal(t, 422, status)
	})

	t.Run("invalid base64 image", func(t *testing.T) {
		svc := &MockAuthService{}
		app := newTestApp(svc, jwtService)

		status, _ := doJSON(t, app, "POST", "/v1/register", fiber.Map{
			"name":  "Alice",
			"email": "alice@example.com",
			"image": "!!!not-base64!!!",
		}, "")

		assert.Equal(t, 400, status)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("RegisterWithFace", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, nil, domain.ErrEmailExists)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "POST", "/v1/register", fiber.Map{
			"name":  "Alice",
			"email": "alice@example.com",
			"image": testImageB64,
		}, "")

		assert.Equal(t, 409, status)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "EMAIL_EXISTS", errObj["code"])
	})
}

func TestAuthHandler_Login(t *testing.T) {
	jwtService := token.NewJWTService("test-secret", "visage-test", time.Hour)

	t.Run("successful login returns token", func(t *testing.T) {
		svc := &MockAuthService{}
		identity := &domain.Identity{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", IsActive: true}
		svc.On("Authenticate", mock.Anything, mock.Anything).Return(&domain.AuthResult{
			Success:    true,
			Identity:   identity,
			Confidence: 0.91,
		}, nil)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "POST", "/v1/auth/login", fiber.Map{"image": testImageB64}, "")

		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["authenticated"])
		assert.Equal(t, identity.ID.String(), body["identity_id"])
		assert.InDelta(t, 0.91, body["confidence"].(float64), 1e-9)

		claims, err := jwtService.ValidateToken(body["token"].(string))
		require.NoError(t, err)
		assert.Equal(t, identity.ID, claims.IdentityID)
	})

	t.Run("failed login returns 401 with confidence", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("Authenticate", mock.Anything, mock.Anything).Return(&domain.AuthResult{
			Success:    false,
			Confidence: 0.31,
		}, nil)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "POST", "/v1/auth/login", fiber.Map{"image": testImageB64}, "")

		assert.Equal(t, 401, status)
		assert.Equal(t, false, body["authenticated"])
		assert.InDelta(t, 0.31, body["confidence"].(float64), 1e-9)
		_, hasToken := body["token"]
		assert.False(t, hasToken)
	})

	t.Run("quality rejection surfaces as 422", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("Authenticate", mock.Anything, mock.Anything).Return(nil, domain.ErrImageTooDark)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "POST", "/v1/auth/login", fiber.Map{"image": testImageB64}, "")

		assert.Equal(t, 422, status)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "IMAGE_TOO_DARK", errObj["code"])
	})

	t.Run("missing image", func(t *testing.T) {
		svc := &MockAuthService{}
		app := newTestApp(svc, jwtService)

		status, _ := doJSON(t, app, "POST", "/v1/auth/login", fiber.Map{}, "")
		assert.Equal(t, 422, status)
		svc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	jwtService := token.NewJWTService("test-secret", "visage-test", time.Hour)

	t.Run("valid token refreshes", func(t *testing.T) {
		svc := &MockAuthService{}
		app := newTestApp(svc, jwtService)

		bearer, err := jwtService.GenerateToken(uuid.New(), "alice@example.com")
		require.NoError(t, err)

		status, body := doJSON(t, app, "POST", "/v1/auth/refresh", fiber.Map{"token": bearer}, "")
		assert.Equal(t, 200, status)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		svc := &MockAuthService{}
		app := newTestApp(svc, jwtService)

		status, _ := doJSON(t, app, "POST", "/v1/auth/refresh", fiber.Map{"token": "garbage"}, "")
		assert.Equal(t, 401, status)
	})
}

func TestFaceHandler_Enroll(t *testing.T) {
	jwtService := token.NewJWTService("test-secret", "visage-test", time.Hour)
	identityID := uuid.New()

	bearerFor := func(t *testing.T) string {
		t.Helper()
		bearer, err := jwtService.GenerateToken(identityID, "alice@example.com")
		require.NoError(t, err)
		return bearer
	}

	t.Run("successful enrollment", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("Enroll", mock.Anything, identityID, mock.Anything).Return(&domain.FaceEncoding{
			ID:         uuid.New(),
			IdentityID: identityID,
			CreatedAt:  time.Now(),
		}, nil)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "POST", "/v1/faces", fiber.Map{"image": testImageB64}, bearerFor(t))

		assert.Equal(t, 201, status)
		assert.Equal(t, identityID.String(), body["identity_id"])
	})

	t.Run("requires authentication", func(t *testing.T) {
		svc := &MockAuthService{}
		app := newTestApp(svc, jwtService)

		status, _ := doJSON(t, app, "POST", "/v1/faces", fiber.Map{"image": testImageB64}, "")
		assert.Equal(t, 401, status)
	})

	t.Run("capacity reached", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("Enroll", mock.Anything, identityID, mock.Anything).Return(nil, domain.ErrEnrollmentCapacity)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "POST", "/v1/faces", fiber.Map{"image": testImageB64}, bearerFor(t))

		assert.Equal(t, 409, status)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "ENROLLMENT_CAPACITY", errObj["code"])
	})
}

func TestFaceHandler_Count(t *testing.T) {
	jwtService := token.NewJWTService("test-secret", "visage-test", time.Hour)
	identityID := uuid.New()

	svc := &MockAuthService{}
	svc.On("CountFaces", mock.Anything, identityID).Return(3, nil)

	app := newTestApp(svc, jwtService)
	bearer, err := jwtService.GenerateToken(identityID, "alice@example.com")
	require.NoError(t, err)

	status, body := doJSON(t, app, "GET", "/v1/faces/count", nil, bearer)
	assert.Equal(t, 200, status)
	assert.Equal(t, float64(3), body["count"])
	assert.Equal(t, identityID.String(), body["identity_id"])
}

func TestFaceHandler_Validate(t *testing.T) {
	jwtService := token.NewJWTService("test-secret", "visage-test", time.Hour)

	t.Run("valid image", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("ValidateImage", mock.Anything, mock.Anything).Return(true, "", nil)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "POST", "/v1/faces/validate", fiber.Map{"image": testImageB64}, "")

		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["valid"])
		_, hasReason := body["reason"]
		assert.False(t, hasReason)
	})

	t.Run("rejected image includes reason", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("ValidateImage", mock.Anything, mock.Anything).Return(false, "too dark", nil)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "POST", "/v1/faces/validate", fiber.Map{"image": testImageB64}, "")

		assert.Equal(t, 200, status)
		assert.Equal(t, false, body["valid"])
		assert.Equal(t, "too dark", body["reason"])
	})
}

func TestThresholdHandler(t *testing.T) {
	jwtService := token.NewJWTService("test-secret", "visage-test", time.Hour)
	identityID := uuid.New()

	bearer := func(t *testing.T) string {
		t.Helper()
		b, err := jwtService.GenerateToken(identityID, "admin@example.com")
		require.NoError(t, err)
		return b
	}

	t.Run("get threshold", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("GetThreshold").Return(0.6)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "GET", "/v1/admin/threshold", nil, bearer(t))

		assert.Equal(t, 200, status)
		assert.InDelta(t, 0.6, body["threshold"].(float64), 1e-9)
	})

	t.Run("update threshold", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("SetThreshold", mock.Anything, 0.45).Return(nil)
		svc.On("GetThreshold").Return(0.45)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "PUT", "/v1/admin/threshold", fiber.Map{"threshold": 0.45}, bearer(t))

		assert.Equal(t, 200, status)
		assert.InDelta(t, 0.45, body["threshold"].(float64), 1e-9)
	})

	t.Run("invalid threshold", func(t *testing.T) {
		svc := &MockAuthService{}
		svc.On("SetThreshold", mock.Anything, 1.5).Return(domain.ErrInvalidThreshold)

		app := newTestApp(svc, jwtService)
		status, body := doJSON(t, app, "PUT", "/v1/admin/threshold", fiber.Map{"threshold": 1.5}, bearer(t))

		assert.Equal(t, 422, status)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "INVALID_THRESHOLD", errObj["code"])
	})

	t.Run("requires authentication", func(t *testing.T) {
		svc := &MockAuthService{}
		app := newTestApp(svc, jwtService)

		status, _ := doJSON(t, app, "GET", "/v1/admin/threshold", nil, "")
		assert.Equal(t, 401, status)
	})
}

func TestDecodeImagePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{name: "plain base64", payload: testImageB64, wantErr: false},
		{name: "data URI", payload: "data:image/jpeg;base64," + testImageB64, wantErr: false},
		{name: "empty", payload: "", wantErr: true},
		{name: "whitespace only", payload: "   ", wantErr: true},
		{name: "malformed data URI", payload: "data:image/jpeg;base64", wantErr: true},
		{name: "invalid base64", payload: "!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeImagePayload(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got)
		})
	}
}
