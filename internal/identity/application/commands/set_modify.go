package commands

import (
	"context"

	"github.com/felixgeelhaar/ordo/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
)

// SetModifyCommand grants or revokes the can_modify capability.
type SetModifyCommand struct {
	Username  string
	CanModify bool
}

// SetModifyHandler handles SetModifyCommand.
type SetModifyHandler struct {
	users      domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewSetModifyHandler(users domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SetModifyHandler {
	return &SetModifyHandler{users: users, outboxRepo: outboxRepo, uow: uow}
}

// Handle reports whether the capability changed. Granting to the demo
// account is a no-op.
func (h *SetModifyHandler) Handle(ctx context.Context, cmd SetModifyCommand) (bool, error) {
	var changed bool
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		user, err := h.users.FindByUsername(txCtx, cmd.Username)
		if err != nil {
			return err
		}
		if cmd.CanModify {
			changed = user.GrantModify()
		} else {
			changed = user.RevokeModify()
		}
		if !changed {
			return nil
		}
		if err := h.users.Save(txCtx, user); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, user.ID(), user.DomainEvents())
	})
	return changed, err
}
