package setup

import (
	"context"
	"log/slog"

	"github.com/bornholm/taskboard/internal/config"
	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/bornholm/taskboard/internal/crypto"
	"github.com/pkg/errors"
)

// BootstrapFromConfig provisions the initial admin account and its auth
// token. When no token is configured a random one is generated and
// logged once, at creation time. Idempotent: an existing admin account
// is left untouched.
func BootstrapFromConfig(ctx context.Context, conf *config.Config) error {
	bootstrap := conf.Auth.Bootstrap

	userStore, err := getUserStoreFromConfig(ctx, conf)
	if err != nil {
		return errors.WithStack(err)
	}

	if _, err := userStore.FindUserByEmail(ctx, bootstrap.Email); err == nil {
		return nil
	} else if !errors.Is(err, port.ErrNotFound) {
		return errors.WithStack(err)
	}

	generated := false
	if bootstrap.Token == "" {
		token, err := crypto.GenerateSecureToken()
		if err != nil {
			return errors.WithStack(err)
		}

		bootstrap.Token = token
		generated = true
	}

	admin := model.User{
		ID:    model.NewUserID(),
		Name:  bootstrap.Name,
		Email: bootstrap.Email,
		Role:  model.RoleAdmin,
	}

	if err := userStore.SaveUser(ctx, admin); err != nil {
		return errors.WithStack(err)
	}

	token := model.AuthToken{
		ID:      model.NewAuthTokenID(),
		OwnerID: admin.ID,
		Label:   "bootstrap",
		Value:   bootstrap.Token,
	}

	if err := userStore.CreateAuthToken(ctx, token); err != nil {
		return errors.WithStack(err)
	}

	attrs := []any{slog.String("email", admin.Email)}
	if generated {
		attrs = append(attrs, slog.String("token", bootstrap.Token))
	}

	slog.InfoContext(ctx, "bootstrapped admin account", attrs...)

	return nil
}
