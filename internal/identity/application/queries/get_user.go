package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/identity/domain"
)

// UserDTO is the public view of an account.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CanModify bool      `json:"can_modify"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserDTO maps an account to its public view.
func ToUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Username:  u.Username().String(),
		Email:     u.Email().String(),
		CanModify: u.CanModify() && !u.IsDemo(),
		CreatedAt: u.CreatedAt(),
	}
}

// GetUserHandler loads an account by id.
type GetUserHandler struct {
	users domain.UserRepository
}

func NewGetUserHandler(users domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{users: users}
}

func (h *GetUserHandler) Handle(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}
