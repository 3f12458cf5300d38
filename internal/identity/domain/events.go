package domain

import (
	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
)

const (
	AggregateType = "User"

	RoutingKeyUserRegistered = "identity.user.registered"
	RoutingKeyModifyChanged  = "identity.user.modify_changed"
)

// UserRegistered is emitted when an account is created.
type UserRegistered struct {
	shared.BaseEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

func NewUserRegistered(userID uuid.UUID, username string) *UserRegistered {
	return &UserRegistered{
		BaseEvent: shared.NewBaseEvent(userID, AggregateType, RoutingKeyUserRegistered),
		UserID:    userID,
		Username:  username,
	}
}

// ModifyChanged is emitted when the can_modify capability flips.
type ModifyChanged struct {
	shared.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	CanModify bool      `json:"can_modify"`
}

func NewModifyChanged(userID uuid.UUID, canModify bool) *ModifyChanged {
	return &ModifyChanged{
		BaseEvent: shared.NewBaseEvent(userID, AggregateType, RoutingKeyModifyChanged),
		UserID:    userID,
		CanModify: canModify,
	}
}
