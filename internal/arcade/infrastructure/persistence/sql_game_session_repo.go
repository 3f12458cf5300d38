package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/arcade/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
)

const sessionSelect = `
	SELECT g.user_id, u.username, g.state, g.score, g.is_active, g.started_at, g.last_seen_at
	FROM game_sessions g
	JOIN users u ON u.id = g.user_id`

// SQLGameSessionRepository implements domain.GameSessionRepository.
type SQLGameSessionRepository struct {
	conn database.Connection
}

func NewSQLGameSessionRepository(conn database.Connection) *SQLGameSessionRepository {
	return &SQLGameSessionRepository{conn: conn}
}

// Upsert keeps started_at while a session stays active and restarts it
// when an ended session is resumed.
func (r *SQLGameSessionRepository) Upsert(ctx context.Context, s *domain.GameSession) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO game_sessions (user_id, state, score, is_active, started_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			state = excluded.state,
			score = excluded.score,
			started_at = CASE WHEN game_sessions.is_active THEN game_sessions.started_at ELSE excluded.started_at END,
			is_active = excluded.is_active,
			last_seen_at = excluded.last_seen_at`,
		s.UserID, string(s.State), s.Score, s.Active, s.StartedAt.UTC(), s.LastSeenAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save game session: %w", err)
	}
	return nil
}

func (r *SQLGameSessionRepository) Deactivate(ctx context.Context, userID uuid.UUID) error {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE game_sessions SET is_active = ?, last_seen_at = ? WHERE user_id = ?`,
		false, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("end game session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNoGameSession
	}
	return nil
}

func (r *SQLGameSessionRepository) ActiveSince(ctx context.Context, since time.Time, excludeUserID uuid.UUID) ([]domain.GameSession, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx,
		sessionSelect+` WHERE g.is_active = ? AND g.last_seen_at >= ? AND g.user_id <> ? ORDER BY g.last_seen_at DESC`,
		true, since.UTC(), excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("query active sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.GameSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *SQLGameSessionRepository) FindByUsername(ctx context.Context, username string) (*domain.GameSession, error) {
	s, err := scanSession(database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		sessionSelect+` WHERE u.username = ?`, username))
	if database.IsNoRows(err) {
		return nil, domain.ErrNoGameSession
	}
	return s, err
}

func scanSession(row database.Row) (*domain.GameSession, error) {
	var (
		s     domain.GameSession
		state string
	)
	if err := row.Scan(&s.UserID, &s.Username, &state, &s.Score, &s.Active, &s.StartedAt, &s.LastSeenAt); err != nil {
		return nil, err
	}
	s.State = []byte(state)
	return &s, nil
}
