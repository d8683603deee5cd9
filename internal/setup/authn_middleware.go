package setup

import (
	"context"
	"net/http"

	"github.com/bornholm/taskboard/internal/config"
	"github.com/bornholm/taskboard/internal/http/middleware/authn"
	"github.com/pkg/errors"
)

var getAuthnMiddlewareFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (func(http.Handler) http.Handler, error) {
	userStore, err := getUserStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	token := authn.NewTokenAuthenticator(userStore)

	return authn.Middleware(authn.Unauthorized, token), nil
})
