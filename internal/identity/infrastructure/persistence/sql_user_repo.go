// Package persistence stores accounts and sessions in SQL.
package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/identity/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
)

const userColumns = `id, username, email, password_hash, can_modify, is_active, created_at, updated_at`

// SQLUserRepository implements domain.UserRepository.
type SQLUserRepository struct {
	conn database.Connection
}

func NewSQLUserRepository(conn database.Connection) *SQLUserRepository {
	return &SQLUserRepository{conn: conn}
}

func (r *SQLUserRepository) Save(ctx context.Context, user *domain.User) error {
	s := user.State()
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			password_hash = excluded.password_hash,
			can_modify = excluded.can_modify,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		s.ID, s.Username, s.Email, s.PasswordHash, s.CanModify, s.Active, s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	if database.IsUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *SQLUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *SQLUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *SQLUserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var s domain.UserState
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.Username, &s.Email, &s.PasswordHash, &s.CanModify, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if database.IsNoRows(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return domain.RehydrateUser(s), nil
}
