package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
)

// SignupCommand registers a new account.
type SignupCommand struct {
	Username string
	Password string
	Email    string
}

// ScoreLedger opens the arcade score record of a new account.
type ScoreLedger interface {
	EnsureRecord(ctx context.Context, userID uuid.UUID) error
}

// SignupHandler handles SignupCommand.
type SignupHandler struct {
	users      domain.UserRepository
	hasher     domain.PasswordHasher
	scores     ScoreLedger
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewSignupHandler creates the handler. scores may be nil.
func NewSignupHandler(users domain.UserRepository, hasher domain.PasswordHasher, scores ScoreLedger, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SignupHandler {
	return &SignupHandler{users: users, hasher: hasher, scores: scores, outboxRepo: outboxRepo, uow: uow}
}

func (h *SignupHandler) Handle(ctx context.Context, cmd SignupCommand) (uuid.UUID, error) {
	username, err := domain.NewUsername(cmd.Username)
	if err != nil {
		return uuid.Nil, err
	}
	if err := domain.ValidatePassword(cmd.Password); err != nil {
		return uuid.Nil, err
	}
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return uuid.Nil, err
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return uuid.Nil, err
	}
	user := domain.NewUser(username, email, hash)

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.users.Save(txCtx, user); err != nil {
			return err
		}
		if err := openScoreRecord(txCtx, h.scores, user.ID()); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, user.ID(), user.DomainEvents())
	})
	if err != nil {
		return uuid.Nil, err
	}
	user.ClearDomainEvents()
	return user.ID(), nil
}

func openScoreRecord(ctx context.Context, scores ScoreLedger, userID uuid.UUID) error {
	if scores == nil {
		return nil
	}
	return scores.EnsureRecord(ctx, userID)
}
