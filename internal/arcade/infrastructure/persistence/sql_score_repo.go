// Package persistence stores the score ledger and game sessions in SQL.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/arcade/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
)

const leaderboardQuery = `
	SELECT s.user_id, u.username, s.high_score, s.updated_at
	FROM score_records s
	JOIN users u ON u.id = s.user_id
	ORDER BY s.high_score DESC, u.username ASC`

// SQLScoreRepository implements domain.ScoreRepository.
type SQLScoreRepository struct {
	conn database.Connection
}

func NewSQLScoreRepository(conn database.Connection) *SQLScoreRepository {
	return &SQLScoreRepository{conn: conn}
}

func (r *SQLScoreRepository) EnsureRecord(ctx context.Context, userID uuid.UUID) error {
	return ensureRecord(ctx, database.ExecutorFromContext(ctx, r.conn), userID)
}

func ensureRecord(ctx context.Context, exec database.Executor, userID uuid.UUID) error {
	_, err := exec.Exec(ctx, `
		INSERT INTO score_records (user_id, high_score, current_score, updated_at)
		VALUES (?, 0, 0, ?)
		ON CONFLICT (user_id) DO NOTHING`,
		userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ensure score record: %w", err)
	}
	return nil
}

// Submit raises the high score with a conditional update, so two
// concurrent submissions can never lower it.
func (r *SQLScoreRepository) Submit(ctx context.Context, userID uuid.UUID, score int) (domain.Submission, error) {
	var sub domain.Submission
	err := database.RunInTx(ctx, r.conn, func(exec database.Executor) error {
		if err := database.LockKey(ctx, exec, r.conn.Driver(), "arcade:score:"+userID.String()); err != nil {
			return err
		}
		if err := ensureRecord(ctx, exec, userID); err != nil {
			return err
		}
		if err := exec.QueryRow(ctx,
			`SELECT high_score FROM score_records WHERE user_id = ?`, userID).Scan(&sub.Previous); err != nil {
			return fmt.Errorf("read high score: %w", err)
		}

		now := time.Now().UTC()
		res, err := exec.Exec(ctx,
			`UPDATE score_records SET high_score = ?, updated_at = ? WHERE user_id = ? AND high_score < ?`,
			score, now, userID, score)
		if err != nil {
			return fmt.Errorf("raise high score: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		sub.Accepted = n == 1

		if _, err := exec.Exec(ctx,
			`UPDATE score_records SET current_score = ? WHERE user_id = ?`, score, userID); err != nil {
			return fmt.Errorf("record current score: %w", err)
		}

		return exec.QueryRow(ctx,
			`SELECT high_score FROM score_records WHERE user_id = ?`, userID).Scan(&sub.HighScore)
	})
	return sub, err
}

func (r *SQLScoreRepository) Find(ctx context.Context, userID uuid.UUID) (*domain.ScoreRecord, error) {
	rec := domain.ScoreRecord{UserID: userID}
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT high_score, current_score, updated_at FROM score_records WHERE user_id = ?`, userID,
	).Scan(&rec.HighScore, &rec.CurrentScore, &rec.UpdatedAt)
	if database.IsNoRows(err) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find score record: %w", err)
	}
	return &rec, nil
}

func (r *SQLScoreRepository) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return r.query(ctx, leaderboardQuery+` LIMIT ?`, limit)
}

func (r *SQLScoreRepository) All(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return r.query(ctx, leaderboardQuery)
}

func (r *SQLScoreRepository) query(ctx context.Context, query string, args ...any) ([]domain.LeaderboardEntry, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.HighScore, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
