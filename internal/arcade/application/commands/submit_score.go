// Package commands holds the arcade write side.
package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/arcade/domain"
	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
)

// SubmitScoreCommand records a finished game for the caller.
type SubmitScoreCommand struct {
	UserID   uuid.UUID
	Username string
	// ClaimedUsername is the username sent by the client; it must match
	// the authenticated caller.
	ClaimedUsername string
	Score           int
}

// SubmitScoreResult reports whether the high score moved.
type SubmitScoreResult struct {
	Updated   bool
	HighScore int
}

// SubmitScoreHandler handles SubmitScoreCommand.
type SubmitScoreHandler struct {
	scores     domain.ScoreRepository
	cache      domain.LeaderboardCache
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	logger     *slog.Logger
}

// NewSubmitScoreHandler creates the handler. cache may be nil.
func NewSubmitScoreHandler(scores domain.ScoreRepository, cache domain.LeaderboardCache, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, logger *slog.Logger) *SubmitScoreHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmitScoreHandler{scores: scores, cache: cache, outboxRepo: outboxRepo, uow: uow, logger: logger}
}

func (h *SubmitScoreHandler) Handle(ctx context.Context, cmd SubmitScoreCommand) (*SubmitScoreResult, error) {
	if cmd.ClaimedUsername != cmd.Username {
		return nil, domain.ErrUsernameMismatch
	}
	if err := domain.ValidateScore(cmd.Score); err != nil {
		return nil, err
	}

	var sub domain.Submission
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		sub, err = h.scores.Submit(txCtx, cmd.UserID, cmd.Score)
		if err != nil || !sub.Accepted {
			return err
		}

		events := []shared.DomainEvent{domain.NewScoreImproved(cmd.UserID, cmd.Username, sub.HighScore, sub.Previous)}
		sharedApplication.StampEvents(events, sharedApplication.NewEventMetadata(txCtx, cmd.UserID))
		msgs, err := outbox.FromEvents(events)
		if err != nil {
			return err
		}
		return h.outboxRepo.SaveBatch(txCtx, msgs)
	})
	if err != nil {
		return nil, err
	}

	// The cache subscriber applies the same raise when the outbox delivers
	// it; ZADD GT makes the two writes converge.
	if sub.Accepted && h.cache != nil {
		entry := domain.LeaderboardEntry{UserID: cmd.UserID, Username: cmd.Username, HighScore: sub.HighScore}
		if err := h.cache.Raise(ctx, entry); err != nil {
			h.logger.Warn("update leaderboard cache", "user_id", cmd.UserID, "error", err)
		}
	}

	return &SubmitScoreResult{Updated: sub.Accepted, HighScore: sub.HighScore}, nil
}
