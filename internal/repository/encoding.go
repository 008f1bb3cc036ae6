package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/lumeon/visage/internal/domain"
)

// EncodingRepository stores the per-identity collections of accepted face
// encodings and enforces the enrollment cap.
type EncodingRepository struct {
	pool     PgxPool
	maxFaces int
}

func NewEncodingRepository(pool PgxPool, maxFacesPerUser int) *EncodingRepository {
	return &EncodingRepository{pool: pool, maxFaces: maxFacesPerUser}
}

// Create appends an encoding for an identity, rejecting with
// ErrEnrollmentCapacity once the identity holds maxFacesPerUser encodings.
// The capacity check and the insert run inside one transaction holding the
// identity's row lock, so concurrent enrollments for the same identity
// serialize instead of both slipping past the cap.
func (r *EncodingRepository) Create(ctx context.Context, enc *domain.FaceEncoding) error {
	if enc.ID == uuid.Nil {
		enc.ID = uuid.New()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin enrollment: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var identityID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM identities WHERE id = $1 FOR UPDATE`,
		enc.IdentityID,
	).Scan(&identityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrIdentityNotFound
	}
	if err != nil {
		return fmt.Errorf("lock identity: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM face_encodings WHERE identity_id = $1`,
		enc.IdentityID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("count encodings: %w", err)
	}

	if count >= r.maxFaces {
		return domain.ErrEnrollmentCapacity
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO face_encodings (id, identity_id, embedding, image_ref, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`,
		enc.ID,
		enc.IdentityID,
		toVector(enc.Vector),
		enc.ImageRef,
	).Scan(&enc.CreatedAt)
	if err != nil {
		return fmt.Errorf("create encoding: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit enrollment: %w", err)
	}

	return nil
}

// ListByIdentity returns the identity's encodings in enrollment order. An
// identity with zero enrollments yields an empty slice, not an error.
func (r *EncodingRepository) ListByIdentity(ctx context.Context, identityID uuid.UUID) ([]domain.FaceEncoding, error) {
	query := `
		SELECT id, identity_id, embedding, image_ref, created_at
		FROM face_encodings
		WHERE identity_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, fmt.Errorf("list encodings: %w", err)
	}
	defer rows.Close()

	encodings := []domain.FaceEncoding{}
	for rows.Next() {
		var enc domain.FaceEncoding
		var embedding pgvector.Vector
		if err := rows.Scan(
			&enc.ID,
			&enc.IdentityID,
			&embedding,
			&enc.ImageRef,
			&enc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan encoding: %w", err)
		}
		enc.Vector = fromVector(embedding)
		encodings = append(encodings, enc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list encodings: %w", err)
	}

	return encodings, nil
}

// CountByIdentity returns the current enrollment count for an identity.
func (r *EncodingRepository) CountByIdentity(ctx context.Context, identityID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM face_encodings WHERE identity_id = $1`,
		identityID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count encodings: %w", err)
	}
	return count, nil
}

func toVector(values []float64) pgvector.Vector {
	floats := make([]float32, len(values))
	for i, v := range values {
		floats[i] = float32(v)
	}
	return pgvector.NewVector(floats)
}

func fromVector(v pgvector.Vector) []float64 {
	slice := v.Slice()
	out := make([]float64, len(slice))
	for i, f := range slice {
		out[i] = float64(f)
	}
	return out
}
