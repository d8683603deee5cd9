package model

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
)

type UserID string

func NewUserID() UserID {
	return UserID(xid.New().String())
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleUser:
		return Role(raw), nil
	default:
		return "", errors.WithStack(fmt.Errorf("unknown role %q", raw))
	}
}

type User struct {
	ID UserID

	Name  string
	Email string
	Role  Role

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the public projection of a user, exposed when resolving
// task references for admin views.
type Profile struct {
	ID    UserID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type AuthTokenID string

func NewAuthTokenID() AuthTokenID {
	return AuthTokenID(xid.New().String())
}

type AuthToken struct {
	ID      AuthTokenID
	OwnerID UserID

	Label string
	Value string

	CreatedAt time.Time
}
