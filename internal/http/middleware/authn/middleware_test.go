package authn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bornholm/taskboard/internal/adapter/memory"
	"github.com/bornholm/taskboard/internal/core/model"
	httpCtx "github.com/bornholm/taskboard/internal/http/context"
	"github.com/pkg/errors"
)

func TestTokenMiddleware(t *testing.T) {
	ctx := context.Background()

	users := memory.NewUserStore()

	user := model.User{ID: model.NewUserID(), Name: "Alice", Email: "alice@example.net", Role: model.RoleUser}
	if err := users.SaveUser(ctx, user); err != nil {
		t.Fatalf("could not save user: %+v", errors.WithStack(err))
	}

	token := model.AuthToken{ID: model.NewAuthTokenID(), OwnerID: user.ID, Value: "valid-token"}
	if err := users.CreateAuthToken(ctx, token); err != nil {
		t.Fatalf("could not create auth token: %+v", errors.WithStack(err))
	}

	var authenticated *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authenticated = httpCtx.User(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Middleware(Unauthorized, NewTokenAuthenticator(users))(next)

	testCases := []struct {
		Name           string
		Authorization  string
		ExpectedStatus int
		ExpectedUser   *model.UserID
	}{
		{
			Name:           "ValidToken",
			Authorization:  "Bearer valid-token",
			ExpectedStatus: http.StatusOK,
			ExpectedUser:   &user.ID,
		},
		{
			Name:           "UnknownToken",
			Authorization:  "Bearer unknown-token",
			ExpectedStatus: http.StatusUnauthorized,
		},
		{
			Name:           "MissingHeader",
			Authorization:  "",
			ExpectedStatus: http.StatusUnauthorized,
		},
		{
			Name:           "NotABearerToken",
			Authorization:  "Basic dXNlcjpwYXNz",
			ExpectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			authenticated = nil

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.Authorization != "" {
				req.Header.Set("Authorization", tc.Authorization)
			}

			res := httptest.NewRecorder()
			handler.ServeHTTP(res, req)

			if e, g := tc.ExpectedStatus, res.Code; e != g {
				t.Errorf("res.Code: expected %d, got %d", e, g)
			}

			if tc.ExpectedUser != nil {
				if authenticated == nil {
					t.Fatalf("expected an authenticated user")
				}

				if e, g := *tc.ExpectedUser, authenticated.ID; e != g {
					t.Errorf("authenticated.ID: expected %s, got %s", e, g)
				}
			}
		})
	}
}
