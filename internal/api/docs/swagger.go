package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// RegisterResponse represents the response for a successful registration
type RegisterResponse struct {
	IdentityID string `json:"identity_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name       string `json:"name" example:"Alice Smith"`
	Email      string `json:"email" example:"alice@example.com"`
	CreatedAt  string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name  string `json:"name" example:"Alice Smith"`
	Email string `json:"email" example:"alice@example.com"`
	Image string `json:"image" example:"/9j/4AAQSkZJRg..."`
}

// LoginRequest represents the request body for face login
type LoginRequest struct {
	Image string `json:"image" example:"/9j/4AAQSkZJRg..."`
}

// LoginResponse represents the response for face login
type LoginResponse struct {
	Authenticated bool    `json:"authenticated" example:"true"`
	IdentityID    string  `json:"identity_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name          string  `json:"name,omitempty" example:"Alice Smith"`
	Confidence    float64 `json:"confidence" example:"0.87"`
	Token         string  `json:"token,omitempty" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// RefreshRequest represents the request body for token refresh
type RefreshRequest struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// RefreshResponse represents the response for token refresh
type RefreshResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// EnrollRequest represents the request body for face enrollment
type EnrollRequest struct {
	Image string `json:"image" example:"/9j/4AAQSkZJRg..."`
}

// EnrollResponse represents the response for face enrollment
type EnrollResponse struct {
	EncodingID string `json:"encoding_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	IdentityID string `json:"identity_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CreatedAt  string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// CountResponse represents the response for the face count endpoint
type CountResponse struct {
	IdentityID string `json:"identity_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Count      int    `json:"count" example:"3"`
}

// ValidateRequest represents the request body for image validation
type ValidateRequest struct {
	Image string `json:"image" example:"/9j/4AAQSkZJRg..."`
}

// ValidateResponse represents the response for image validation
type ValidateResponse struct {
	Valid  bool   `json:"valid" example:"false"`
	Reason string `json:"reason,omitempty" example:"too dark"`
}

// ThresholdResponse represents the current match threshold
type ThresholdResponse struct {
	Threshold float64 `json:"threshold" example:"0.6"`
}

// UpdateThresholdRequest represents the request body for threshold updates
type UpdateThresholdRequest struct {
	Threshold float64 `json:"threshold" example:"0.5"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Visage Face Authentication API",
		Version:     "v1.0.0",
		Description: "Face-based authentication backend: enroll face encodings per identity and authenticate by matching probe images against the enrolled population",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/register - Register identity with first face
		endpoint.New(
			endpoint.POST,
			"/register",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Register a new identity with its first face"),
			endpoint.WithDescription("Creates an identity and enrolls its first face encoding in one operation. The image is a base64-encoded JPEG or PNG."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(RegisterRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RegisterResponse{}, "201", "Identity registered successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "EMAIL_EXISTS", Message: "Email already registered"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/auth/login - Face login
		endpoint.New(
			endpoint.POST,
			"/auth/login",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Authenticate by face"),
			endpoint.WithDescription("Matches the probe image against every enrolled identity and returns a JWT for the best match above the threshold"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(LoginRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LoginResponse{}, "200", "Authentication succeeded"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(LoginResponse{Authenticated: false}, "401", "No identity matched"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Too many requests"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/auth/refresh - Refresh token
		endpoint.New(
			endpoint.POST,
			"/auth/refresh",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Refresh an authentication token"),
			endpoint.WithDescription("Exchanges a valid token for a fresh one with extended expiration"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(RefreshRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RefreshResponse{}, "200", "Token refreshed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or expired token"}, "401", "Unauthorized"),
			}),
		),

		// POST /v1/faces - Enroll additional face
		endpoint.New(
			endpoint.POST,
			"/faces",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Enroll another face for the authenticated identity"),
			endpoint.WithDescription("Validates the image, extracts an encoding and stores it for the identity in the bearer token. Each identity holds a bounded number of encodings."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(EnrollRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnrollResponse{}, "201", "Face enrolled successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "ENROLLMENT_CAPACITY", Message: "Maximum faces per identity reached"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/faces/count - Count enrolled faces
		endpoint.New(
			endpoint.GET,
			"/faces/count",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Count enrolled faces"),
			endpoint.WithDescription("Returns the number of face encodings enrolled for the authenticated identity"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CountResponse{}, "200", "Count retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/faces/validate - Validate image quality
		endpoint.New(
			endpoint.POST,
			"/faces/validate",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Validate image quality"),
			endpoint.WithDescription("Runs the image quality gate without enrolling or matching. Returns the rejection reason when the image is unusable."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(ValidateRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ValidateResponse{}, "200", "Validation completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/admin/threshold - Current threshold
		endpoint.New(
			endpoint.GET,
			"/admin/threshold",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Get the current match threshold"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ThresholdResponse{}, "200", "Threshold retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing token"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// PUT /v1/admin/threshold - Update threshold
		endpoint.New(
			endpoint.PUT,
			"/admin/threshold",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Update the match threshold"),
			endpoint.WithDescription("Changes the distance threshold used by subsequent authentications. Must be between 0 and 1."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(UpdateThresholdRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ThresholdResponse{}, "200", "Threshold updated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_THRESHOLD", Message: "Threshold must be between 0 and 1"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing token"}, "401", "Unauthorized"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
