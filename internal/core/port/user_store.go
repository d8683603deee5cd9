package port

import (
	"context"

	"github.com/bornholm/taskboard/internal/core/model"
)

type UserStore interface {
	// GetUserByID finds a user by its ID, or returns ErrNotFound
	GetUserByID(ctx context.Context, userID model.UserID) (model.User, error)

	// GetUsersByIDs returns the users matching the given IDs, keyed by
	// ID. Unknown IDs are simply absent from the result.
	GetUsersByIDs(ctx context.Context, userIDs []model.UserID) (map[model.UserID]model.User, error)

	// FindUserByEmail finds a user by its email, or returns ErrNotFound
	FindUserByEmail(ctx context.Context, email string) (model.User, error)

	// SaveUser creates or updates a user
	SaveUser(ctx context.Context, user model.User) error

	// FindUserByToken searches for the user owning the given auth token
	// value, or returns ErrNotFound
	FindUserByToken(ctx context.Context, token string) (model.User, error)

	// CreateAuthToken attaches a new auth token to a user
	CreateAuthToken(ctx context.Context, token model.AuthToken) error
}
