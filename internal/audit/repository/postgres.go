// Package repository persists the intake audit trail.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"detailing_portal_backend/platform/apperr"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type RecordEventParams struct {
	SessionID  uuid.UUID
	Name       string
	OccurredAt time.Time
	Body       []byte
}

// RecordEvent appends one intake event to the trail.
func (r *Repository) RecordEvent(ctx context.Context, params RecordEventParams) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO intake_events (id, session_id, name, occurred_at, body)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), params.SessionID, params.Name, params.OccurredAt, params.Body,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to record intake event", err).
			WithOp("audit.RecordEvent")
	}
	return nil
}
