package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/identity/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
)

// SQLSessionRepository implements domain.SessionRepository.
type SQLSessionRepository struct {
	conn database.Connection
}

func NewSQLSessionRepository(conn database.Connection) *SQLSessionRepository {
	return &SQLSessionRepository{conn: conn}
}

func (r *SQLSessionRepository) Save(ctx context.Context, s *domain.Session) error {
	var revokedAt *time.Time
	if s.RevokedAt != nil {
		utc := s.RevokedAt.UTC()
		revokedAt = &utc
	}
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO sessions (id, user_id, created_at, expires_at, revoked_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET revoked_at = excluded.revoked_at`,
		s.ID, s.UserID, s.CreatedAt.UTC(), s.ExpiresAt.UTC(), revokedAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SQLSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	var s domain.Session
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT id, user_id, created_at, expires_at, revoked_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &s.RevokedAt)
	if database.IsNoRows(err) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &s, nil
}
