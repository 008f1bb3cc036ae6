package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumeon/visage/internal/domain"
)

// IdentityRepositoryInterface defines operations for identity data access
type IdentityRepositoryInterface interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	ListAll(ctx context.Context) ([]domain.Identity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EncodingRepositoryInterface defines operations for face encoding data access
type EncodingRepositoryInterface interface {
	Create(ctx context.Context, enc *domain.FaceEncoding) error
	ListByIdentity(ctx context.Context, identityID uuid.UUID) ([]domain.FaceEncoding, error)
	CountByIdentity(ctx context.Context, identityID uuid.UUID) (int, error)
}

// AuthLogRepositoryInterface defines operations for authentication audit logging
type AuthLogRepositoryInterface interface {
	Create(ctx context.Context, record *domain.AuthRecord) error
}
