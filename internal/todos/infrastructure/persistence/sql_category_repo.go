package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

const categoryColumns = `id, owner_id, name, ordinal, created_at, updated_at`

// SQLCategoryRepository implements domain.CategoryRepository.
type SQLCategoryRepository struct {
	conn database.Connection
}

// NewSQLCategoryRepository creates a category repository.
func NewSQLCategoryRepository(conn database.Connection) *SQLCategoryRepository {
	return &SQLCategoryRepository{conn: conn}
}

func (r *SQLCategoryRepository) Save(ctx context.Context, c *domain.Category) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			ordinal = excluded.ordinal,
			updated_at = excluded.updated_at`,
		c.ID(), c.OwnerID(), c.Name(), c.Ordinal(), c.CreatedAt().UTC(), c.UpdatedAt().UTC(),
	)
	if database.IsUniqueViolation(err) {
		return domain.ErrDuplicateCategory
	}
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

func (r *SQLCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, err := scanCategory(database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if database.IsNoRows(err) {
		return nil, domain.ErrCategoryNotFound
	}
	return c, err
}

func (r *SQLCategoryRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	return r.query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE owner_id = ? ORDER BY ordinal, name`, ownerID)
}

func (r *SQLCategoryRepository) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := database.In(
		`SELECT `+categoryColumns+` FROM categories WHERE owner_id = ? AND id IN (?) ORDER BY ordinal, name`, ownerID, ids)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, query, args...)
}

func (r *SQLCategoryRepository) NextOrdinal(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var next int
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx,
		`SELECT COALESCE(MAX(ordinal), -1) + 1 FROM categories WHERE owner_id = ?`, ownerID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next category ordinal: %w", err)
	}
	return next, nil
}

func (r *SQLCategoryRepository) UpdateOrdinals(ctx context.Context, ownerID uuid.UUID, ordinals map[uuid.UUID]int) error {
	now := time.Now().UTC()
	return database.RunInTx(ctx, r.conn, func(exec database.Executor) error {
		for id, ordinal := range ordinals {
			res, err := exec.Exec(ctx,
				`UPDATE categories SET ordinal = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
				ordinal, now, id, ownerID)
			if err != nil {
				return fmt.Errorf("update category ordinal: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return domain.ErrCategoryNotFound
			}
		}
		return nil
	})
}

func (r *SQLCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.RunInTx(ctx, r.conn, func(exec database.Executor) error {
		if _, err := exec.Exec(ctx, `DELETE FROM item_categories WHERE category_id = ?`, id); err != nil {
			return fmt.Errorf("detach category: %w", err)
		}
		res, err := exec.Exec(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrCategoryNotFound
		}
		return nil
	})
}

func (r *SQLCategoryRepository) LockOwner(ctx context.Context, ownerID uuid.UUID) error {
	return database.LockKey(ctx, database.ExecutorFromContext(ctx, r.conn), r.conn.Driver(), lockKey("categories", ownerID.String()))
}

func (r *SQLCategoryRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Category, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCategory(row database.Row) (*domain.Category, error) {
	var (
		id, ownerID          uuid.UUID
		name                 string
		ordinal              int
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &ownerID, &name, &ordinal, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateCategory(id, ownerID, name, ordinal, createdAt, updatedAt), nil
}
