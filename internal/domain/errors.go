package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Is matches on the error code so copies produced by WithError or
// WithMessage still compare equal to the sentinel via errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy carrying a more specific user-facing message,
// e.g. the exact face count for MULTIPLE_FACES.
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    msg,
		StatusCode: e.StatusCode,
		Err:        e.Err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid or missing credentials",
		StatusCode: 401,
	}

	ErrAuthenticationFailed = &AppError{
		Code:       "AUTHENTICATION_FAILED",
		Message:    "Face authentication failed",
		StatusCode: 401,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrIdentityNotFound = &AppError{
		Code:       "IDENTITY_NOT_FOUND",
		Message:    "Identity not found",
		StatusCode: 404,
	}

	ErrEmailExists = &AppError{
		Code:       "EMAIL_EXISTS",
		Message:    "An identity with this email already exists",
		StatusCode: 409,
	}

	// ErrInvalidImage is the input-type error: the payload could not be
	// decoded into a pixel buffer at all. Caller bug, never retried.
	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 400,
	}

	// Quality gate rejections. Messages are the verbatim reasons the gate
	// reports and must stay in sync with internal/quality.
	ErrImageTooSmall = &AppError{
		Code:       "IMAGE_TOO_SMALL",
		Message:    "too small",
		StatusCode: 422,
	}

	ErrImageTooDark = &AppError{
		Code:       "IMAGE_TOO_DARK",
		Message:    "too dark",
		StatusCode: 422,
	}

	ErrImageTooBright = &AppError{
		Code:       "IMAGE_TOO_BRIGHT",
		Message:    "too bright",
		StatusCode: 422,
	}

	ErrFaceTooSmall = &AppError{
		Code:       "FACE_TOO_SMALL",
		Message:    "face too small in the image",
		StatusCode: 422,
	}

	ErrFaceTooClose = &AppError{
		Code:       "FACE_TOO_CLOSE_TO_EDGE",
		Message:    "face too close to the edge",
		StatusCode: 422,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "no face detected",
		StatusCode: 422,
	}

	ErrMultipleFaces = &AppError{
		Code:       "MULTIPLE_FACES",
		Message:    "multiple faces detected",
		StatusCode: 422,
	}

	ErrLowQualityImage = &AppError{
		Code:       "LOW_QUALITY_IMAGE",
		Message:    "Image quality too low for reliable recognition",
		StatusCode: 422,
	}

	ErrEnrollmentCapacity = &AppError{
		Code:       "ENROLLMENT_CAPACITY",
		Message:    "Identity already holds the maximum number of enrolled faces",
		StatusCode: 409,
	}

	ErrInvalidEncoding = &AppError{
		Code:       "INVALID_ENCODING",
		Message:    "Face encoding has the wrong dimensionality",
		StatusCode: 422,
	}

	ErrInvalidThreshold = &AppError{
		Code:       "INVALID_THRESHOLD",
		Message:    "Threshold must be between 0 and 1",
		StatusCode: 422,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}
)

// MultipleFacesError reports the exact count, e.g. "multiple faces detected: 3".
func MultipleFacesError(count int) *AppError {
	return ErrMultipleFaces.WithMessage(fmt.Sprintf("multiple faces detected: %d", count))
}
