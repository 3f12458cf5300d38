package outbox

import (
	"context"
	"time"

	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
)

const selectColumns = `id, event_id, aggregate_type, aggregate_id, routing_key, payload, metadata,
	created_at, published_at, next_retry_at, retry_count, last_error, dead_lettered_at, dead_letter_reason`

// SQLRepository implements Repository for every supported backend.
type SQLRepository struct {
	conn database.Connection
}

// NewSQLRepository creates an outbox repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn}
}

func (r *SQLRepository) Save(ctx context.Context, msg *Message) error {
	return r.insert(ctx, database.ExecutorFromContext(ctx, r.conn), msg)
}

func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}

	if tx := database.TxFromContext(ctx); tx != nil {
		for _, msg := range msgs {
			if err := r.insert(ctx, tx, msg); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, msg := range msgs {
		if err := r.insert(ctx, tx, msg); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *SQLRepository) insert(ctx context.Context, exec database.Executor, msg *Message) error {
	var metadata *string
	if len(msg.Metadata) > 0 {
		s := string(msg.Metadata)
		metadata = &s
	}
	return exec.QueryRow(ctx, `
		INSERT INTO outbox (event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		msg.EventID, msg.AggregateType, msg.AggregateID, msg.RoutingKey, msg.RoutingKey,
		string(msg.Payload), metadata, msg.CreatedAt.UTC(),
	).Scan(&msg.ID)
}

func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT `+selectColumns+`
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`,
		time.Now().UTC(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE outbox SET published_at = ? WHERE id = ?`, time.Now().UTC(), id)
	return err
}

func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ? WHERE id = ?`,
		reason, nextRetryAt.UTC(), id)
	return err
}

func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE outbox SET retry_count = retry_count + 1, dead_lettered_at = ?, dead_letter_reason = ? WHERE id = ?`,
		time.Now().UTC(), reason, id)
	return err
}

func (r *SQLRepository) DeleteOld(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanMessage(row database.Row) (*Message, error) {
	var (
		msg      Message
		payload  string
		metadata *string
	)
	err := row.Scan(
		&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID, &msg.RoutingKey,
		&payload, &metadata, &msg.CreatedAt, &msg.PublishedAt, &msg.NextRetryAt,
		&msg.RetryCount, &msg.LastError, &msg.DeadLetteredAt, &msg.DeadLetterReason,
	)
	if err != nil {
		return nil, err
	}
	msg.Payload = []byte(payload)
	if metadata != nil {
		msg.Metadata = []byte(*metadata)
	}
	return &msg, nil
}
