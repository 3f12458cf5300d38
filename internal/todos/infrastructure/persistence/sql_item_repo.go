package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

const itemColumns = `id, owner_id, title, description, ordinal, effort, completed_at, due_at, created_at, updated_at`

// Incomplete first, then ordinal, then newest first.
const itemOrder = `ORDER BY CASE WHEN completed_at IS NULL THEN 0 ELSE 1 END, ordinal, created_at DESC`

// SQLItemRepository implements domain.ItemRepository.
type SQLItemRepository struct {
	conn database.Connection
}

// NewSQLItemRepository creates an item repository.
func NewSQLItemRepository(conn database.Connection) *SQLItemRepository {
	return &SQLItemRepository{conn: conn}
}

func (r *SQLItemRepository) Save(ctx context.Context, item *domain.Item) error {
	s := item.State()
	return database.RunInTx(ctx, r.conn, func(exec database.Executor) error {
		_, err := exec.Exec(ctx, `
			INSERT INTO items (`+itemColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				ordinal = excluded.ordinal,
				effort = excluded.effort,
				completed_at = excluded.completed_at,
				due_at = excluded.due_at,
				updated_at = excluded.updated_at`,
			s.ID, s.OwnerID, s.Title, s.Description, s.Ordinal, s.Effort,
			utcPtr(s.CompletedAt), utcPtr(s.DueAt), s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("save item: %w", err)
		}

		if _, err := exec.Exec(ctx, `DELETE FROM item_categories WHERE item_id = ?`, s.ID); err != nil {
			return fmt.Errorf("clear item categories: %w", err)
		}
		for _, categoryID := range s.CategoryIDs {
			if _, err := exec.Exec(ctx,
				`INSERT INTO item_categories (item_id, category_id) VALUES (?, ?)`, s.ID, categoryID); err != nil {
				return fmt.Errorf("tag item: %w", err)
			}
		}
		return nil
	})
}

func (r *SQLItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	items, err := r.query(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrItemNotFound
	}
	return items[0], nil
}

func (r *SQLItemRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter domain.ItemFilter) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ?`
	args := []any{ownerID}

	if !filter.IncludeCompleted {
		query += ` AND completed_at IS NULL`
	}
	if filter.CategoryID != nil {
		query += ` AND id IN (SELECT item_id FROM item_categories WHERE category_id = ?)`
		args = append(args, *filter.CategoryID)
	}

	return r.query(ctx, query+` `+itemOrder, args...)
}

func (r *SQLItemRepository) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := database.In(
		`SELECT `+itemColumns+` FROM items WHERE owner_id = ? AND id IN (?) `+itemOrder, ownerID, ids)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, query, args...)
}

func (r *SQLItemRepository) UpdateOrdinals(ctx context.Context, ownerID uuid.UUID, ordinals map[uuid.UUID]int) error {
	now := time.Now().UTC()
	return database.RunInTx(ctx, r.conn, func(exec database.Executor) error {
		for id, ordinal := range ordinals {
			res, err := exec.Exec(ctx,
				`UPDATE items SET ordinal = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
				ordinal, now, id, ownerID)
			if err != nil {
				return fmt.Errorf("update ordinal: %w", err)
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n == 0 {
				return domain.ErrItemNotFound
			}
		}
		return nil
	})
}

func (r *SQLItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.RunInTx(ctx, r.conn, func(exec database.Executor) error {
		if _, err := exec.Exec(ctx, `DELETE FROM item_categories WHERE item_id = ?`, id); err != nil {
			return err
		}
		res, err := exec.Exec(ctx, `DELETE FROM items WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrItemNotFound
		}
		return nil
	})
}

func (r *SQLItemRepository) LockOwner(ctx context.Context, ownerID uuid.UUID) error {
	return database.LockKey(ctx, database.ExecutorFromContext(ctx, r.conn), r.conn.Driver(), lockKey("items", ownerID.String()))
}

// query loads items and then their tags. Rows are closed before the tag
// query runs because SQLite has a single connection.
func (r *SQLItemRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)

	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	var states []domain.ItemState
	for rows.Next() {
		var s domain.ItemState
		if err := rows.Scan(
			&s.ID, &s.OwnerID, &s.Title, &s.Description, &s.Ordinal, &s.Effort,
			&s.CompletedAt, &s.DueAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan item: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	if len(states) == 0 {
		return nil, nil
	}

	tags, err := r.loadTags(ctx, exec, states)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Item, len(states))
	for i, s := range states {
		s.CategoryIDs = tags[s.ID]
		items[i] = domain.RehydrateItem(s)
	}
	return items, nil
}

func (r *SQLItemRepository) loadTags(ctx context.Context, exec database.Executor, states []domain.ItemState) (map[uuid.UUID][]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(states))
	for i, s := range states {
		ids[i] = s.ID
	}

	query, args, err := database.In(`
		SELECT ic.item_id, ic.category_id
		FROM item_categories ic
		JOIN categories c ON c.id = ic.category_id
		WHERE ic.item_id IN (?)
		ORDER BY c.ordinal, c.name`, ids)
	if err != nil {
		return nil, err
	}

	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query item categories: %w", err)
	}
	defer rows.Close()

	tags := make(map[uuid.UUID][]uuid.UUID)
	for rows.Next() {
		var itemID, categoryID uuid.UUID
		if err := rows.Scan(&itemID, &categoryID); err != nil {
			return nil, err
		}
		tags[itemID] = append(tags[itemID], categoryID)
	}
	return tags, rows.Err()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
