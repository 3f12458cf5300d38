// Package domain models local accounts and their login sessions.
package domain

import (
	"time"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
)

// DemoUsername is the shared read-only account.
const DemoUsername = "demo-mode"

// User is a local account.
type User struct {
	shared.BaseAggregateRoot
	username     Username
	email        Email
	passwordHash string
	canModify    bool
	active       bool
}

// NewUser registers an account. New accounts may modify their data.
func NewUser(username Username, email Email, passwordHash string) *User {
	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		username:          username,
		email:             email,
		passwordHash:      passwordHash,
		canModify:         true,
		active:            true,
	}
	u.AddDomainEvent(NewUserRegistered(u.ID(), username.String()))
	return u
}

// UserState is the persisted form of a User.
type UserState struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CanModify    bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RehydrateUser rebuilds a user from storage without validation.
func RehydrateUser(s UserState) *User {
	return &User{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(shared.RehydrateBaseEntity(s.ID, s.CreatedAt, s.UpdatedAt)),
		username:          Username{value: s.Username},
		email:             Email{value: s.Email},
		passwordHash:      s.PasswordHash,
		canModify:         s.CanModify,
		active:            s.Active,
	}
}

func (u *User) Username() Username   { return u.username }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) CanModify() bool      { return u.canModify }
func (u *User) IsActive() bool       { return u.active }
func (u *User) IsDemo() bool         { return u.username.value == DemoUsername }

func (u *User) State() UserState {
	return UserState{
		ID:           u.ID(),
		Username:     u.username.value,
		Email:        u.email.value,
		PasswordHash: u.passwordHash,
		CanModify:    u.canModify,
		Active:       u.active,
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

// ChangePassword replaces the stored hash.
func (u *User) ChangePassword(hash string) {
	u.passwordHash = hash
	u.Touch()
}

// GrantModify lets the user change their own data. The demo account
// never gets the capability.
func (u *User) GrantModify() bool {
	if u.canModify || u.IsDemo() {
		return false
	}
	u.canModify = true
	u.Touch()
	u.AddDomainEvent(NewModifyChanged(u.ID(), true))
	return true
}

// RevokeModify makes the user read-only.
func (u *User) RevokeModify() bool {
	if !u.canModify {
		return false
	}
	u.canModify = false
	u.Touch()
	u.AddDomainEvent(NewModifyChanged(u.ID(), false))
	return true
}

// Activate re-enables a disabled account.
func (u *User) Activate() {
	if u.active {
		return
	}
	u.active = true
	u.Touch()
}
