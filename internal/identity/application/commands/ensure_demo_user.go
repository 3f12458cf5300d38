package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/ordo/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
)

// DemoPassword is the published password of the demo account.
const DemoPassword = "demo1234"

const demoEmail = "demo@example.com"

// EnsureDemoUserResult describes the demo account after the command.
type EnsureDemoUserResult struct {
	User    *domain.User
	Created bool
}

// EnsureDemoUserHandler creates the demo account or resets it to a
// read-only state with the published password.
type EnsureDemoUserHandler struct {
	users      domain.UserRepository
	hasher     domain.PasswordHasher
	scores     ScoreLedger
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewEnsureDemoUserHandler(users domain.UserRepository, hasher domain.PasswordHasher, scores ScoreLedger, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *EnsureDemoUserHandler {
	return &EnsureDemoUserHandler{users: users, hasher: hasher, scores: scores, outboxRepo: outboxRepo, uow: uow}
}

func (h *EnsureDemoUserHandler) Handle(ctx context.Context) (*EnsureDemoUserResult, error) {
	hash, err := h.hasher.Hash(DemoPassword)
	if err != nil {
		return nil, err
	}

	result := &EnsureDemoUserResult{}
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		user, err := h.users.FindByUsername(txCtx, domain.DemoUsername)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			username, _ := domain.NewUsername(domain.DemoUsername)
			email, _ := domain.NewEmail(demoEmail)
			user = domain.NewUser(username, email, hash)
			result.Created = true
		case err != nil:
			return err
		default:
			user.ChangePassword(hash)
			user.Activate()
		}
		user.RevokeModify()

		if err := h.users.Save(txCtx, user); err != nil {
			return err
		}
		if err := openScoreRecord(txCtx, h.scores, user.ID()); err != nil {
			return err
		}
		result.User = user
		return saveEvents(txCtx, h.outboxRepo, user.ID(), user.DomainEvents())
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
