package testsuite

import (
	"context"
	"testing"
	"time"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/pkg/errors"
)

// TestUserStore runs the port.UserStore conformance suite against the
// store returned by the factory.
func TestUserStore(t *testing.T, factory func(t *testing.T) (port.UserStore, error)) {
	type testCase struct {
		Name string
		Run  func(t *testing.T, ctx context.Context, store port.UserStore) error
	}

	newUser := func(name string) model.User {
		now := time.Now().UTC().Truncate(time.Second)

		return model.User{
			ID:        model.NewUserID(),
			Name:      name,
			Email:     name + "@example.net",
			Role:      model.RoleUser,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	testCases := []testCase{
		{
			Name: "SaveThenGet",
			Run: func(t *testing.T, ctx context.Context, store port.UserStore) error {
				user := newUser("alice")

				if err := store.SaveUser(ctx, user); err != nil {
					return errors.WithStack(err)
				}

				found, err := store.GetUserByID(ctx, user.ID)
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := user.Email, found.Email; e != g {
					t.Errorf("found.Email: expected %s, got %s", e, g)
				}

				return nil
			},
		},
		{
			Name: "SaveIsUpsert",
			Run: func(t *testing.T, ctx context.Context, store port.UserStore) error {
				user := newUser("bob")

				if err := store.SaveUser(ctx, user); err != nil {
					return errors.WithStack(err)
				}

				user.Name = "Bob"
				if err := store.SaveUser(ctx, user); err != nil {
					return errors.WithStack(err)
				}

				found, err := store.GetUserByID(ctx, user.ID)
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := "Bob", found.Name; e != g {
					t.Errorf("found.Name: expected %s, got %s", e, g)
				}

				return nil
			},
		},
		{
			Name: "FindUserByEmail",
			Run: func(t *testing.T, ctx context.Context, store port.UserStore) error {
				user := newUser("dave")

				if err := store.SaveUser(ctx, user); err != nil {
					return errors.WithStack(err)
				}

				found, err := store.FindUserByEmail(ctx, user.Email)
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := user.ID, found.ID; e != g {
					t.Errorf("found.ID: expected %s, got %s", e, g)
				}

				_, err = store.FindUserByEmail(ctx, "unknown@example.net")
				if !errors.Is(err, port.ErrNotFound) {
					t.Errorf("expected port.ErrNotFound, got %+v", err)
				}

				return nil
			},
		},
		{
			Name: "GetUnknownIsNotFound",
			Run: func(t *testing.T, ctx context.Context, store port.UserStore) error {
				_, err := store.GetUserByID(ctx, model.UserID("missing"))
				if !errors.Is(err, port.ErrNotFound) {
					t.Errorf("expected port.ErrNotFound, got %+v", err)
				}

				return nil
			},
		},
		{
			Name: "GetUsersByIDsSkipsUnknown",
			Run: func(t *testing.T, ctx context.Context, store port.UserStore) error {
				alice := newUser("alice")
				bob := newUser("bob")

				if err := store.SaveUser(ctx, alice); err != nil {
					return errors.WithStack(err)
				}
				if err := store.SaveUser(ctx, bob); err != nil {
					return errors.WithStack(err)
				}

				users, err := store.GetUsersByIDs(ctx, []model.UserID{alice.ID, "missing", bob.ID})
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := 2, len(users); e != g {
					t.Fatalf("len(users): expected %d, got %d", e, g)
				}

				if e, g := alice.Name, users[alice.ID].Name; e != g {
					t.Errorf("users[alice].Name: expected %s, got %s", e, g)
				}

				return nil
			},
		},
		{
			Name: "FindUserByToken",
			Run: func(t *testing.T, ctx context.Context, store port.UserStore) error {
				user := newUser("carol")

				if err := store.SaveUser(ctx, user); err != nil {
					return errors.WithStack(err)
				}

				token := model.AuthToken{
					ID:        model.NewAuthTokenID(),
					OwnerID:   user.ID,
					Label:     "test",
					Value:     "secret-token",
					CreatedAt: time.Now().UTC(),
				}

				if err := store.CreateAuthToken(ctx, token); err != nil {
					return errors.WithStack(err)
				}

				found, err := store.FindUserByToken(ctx, "secret-token")
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := user.ID, found.ID; e != g {
					t.Errorf("found.ID: expected %s, got %s", e, g)
				}

				_, err = store.FindUserByToken(ctx, "wrong-token")
				if !errors.Is(err, port.ErrNotFound) {
					t.Errorf("expected port.ErrNotFound, got %+v", err)
				}

				return nil
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()

			store, err := factory(t)
			if err != nil {
				t.Fatalf("could not create store: %+v", errors.WithStack(err))
			}

			if err := tc.Run(t, ctx, store); err != nil {
				t.Fatalf("could not run test: %+v", errors.WithStack(err))
			}
		})
	}
}
