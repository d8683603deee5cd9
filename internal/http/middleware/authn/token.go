package authn

import (
	"net/http"
	"strings"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/pkg/errors"
)

// TokenAuthenticator resolves "Authorization: Bearer <token>" headers
// against the stored auth tokens. Token issuance itself is out of band;
// the handlers only ever see the resolved user.
type TokenAuthenticator struct {
	users port.UserStore
}

// Authenticate implements [Authenticator].
func (a *TokenAuthenticator) Authenticate(w http.ResponseWriter, r *http.Request) (*model.User, error) {
	authorization := r.Header.Get("Authorization")
	token := strings.TrimPrefix(authorization, "Bearer ")

	if token == "" || token == authorization {
		return nil, nil
	}

	user, err := a.users.FindUserByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, nil
		}

		return nil, errors.WithStack(err)
	}

	return &user, nil
}

func NewTokenAuthenticator(users port.UserStore) *TokenAuthenticator {
	return &TokenAuthenticator{
		users: users,
	}
}

var _ Authenticator = &TokenAuthenticator{}
