package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is an enrolled subject a probe face may be matched to.
type Identity struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// FaceEncoding is one accepted enrollment: an immutable fixed-length vector
// plus a reference to the source image artifact.
type FaceEncoding struct {
	ID         uuid.UUID `json:"id"`
	IdentityID uuid.UUID `json:"identity_id"`
	Vector     []float64 `json:"-"`
	ImageRef   string    `json:"image_ref"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthRecord is the audit row written exactly once per authentication
// attempt. IdentityID is nil when no match was found; Confidence is nil on
// failure. Never mutated or deleted by this service.
type AuthRecord struct {
	ID         uuid.UUID  `json:"id"`
	IdentityID *uuid.UUID `json:"identity_id,omitempty"`
	Success    bool       `json:"success"`
	Confidence *float64   `json:"confidence,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
