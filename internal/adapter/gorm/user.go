package gorm

import (
	"time"

	"github.com/bornholm/taskboard/internal/core/model"
)

type User struct {
	ID string `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Name  string
	Email string `gorm:"unique"`
	Role  string `gorm:"index"`

	AuthTokens []*AuthToken `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;"`
}

type AuthToken struct {
	ID string `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time

	Owner   *User
	OwnerID string `gorm:"index"`

	Label string
	Value string `gorm:"unique"`
}

func fromUser(u *model.User) *User {
	return &User{
		ID:        string(u.ID),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
	}
}

func toUser(record *User) model.User {
	return model.User{
		ID:        model.UserID(record.ID),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		Name:      record.Name,
		Email:     record.Email,
		Role:      model.Role(record.Role),
	}
}

func fromAuthToken(t *model.AuthToken) *AuthToken {
	return &AuthToken{
		ID:        string(t.ID),
		CreatedAt: t.CreatedAt,
		OwnerID:   string(t.OwnerID),
		Label:     t.Label,
		Value:     t.Value,
	}
}
