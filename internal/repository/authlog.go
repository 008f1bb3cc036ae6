package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lumeon/visage/internal/domain"
)

type AuthLogRepository struct {
	pool PgxPool
}

func NewAuthLogRepository(pool PgxPool) *AuthLogRepository {
	return &AuthLogRepository{pool: pool}
}

// Create inserts one audit row for an authentication attempt. Rows are
// append-only; nothing in this service updates or deletes them.
func (r *AuthLogRepository) Create(ctx context.Context, record *domain.AuthRecord) error {
	query := `
		INSERT INTO auth_logs (id, identity_id, success, confidence, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		record.ID,
		record.IdentityID,
		record.Success,
		record.Confidence,
	).Scan(&record.CreatedAt)

	if err != nil {
		return fmt.Errorf("create auth log: %w", err)
	}

	return nil
}
