package outbox

import (
	"context"
	"time"
)

// Repository persists outbox messages.
type Repository interface {
	// Save stores one message and sets its ID.
	Save(ctx context.Context, msg *Message) error
	// SaveBatch stores messages in the caller's transaction when there is
	// one.
	SaveBatch(ctx context.Context, msgs []*Message) error
	// GetUnpublished returns deliverable messages, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)
	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error
	// DeleteOld removes messages published before cutoff.
	DeleteOld(ctx context.Context, cutoff time.Time) (int64, error)
}
