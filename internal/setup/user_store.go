package setup

import (
	"context"

	gormAdapter "github.com/bornholm/taskboard/internal/adapter/gorm"
	"github.com/bornholm/taskboard/internal/config"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/pkg/errors"
)

var getUserStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.UserStore, error) {
	db, err := getGormDatabaseFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return gormAdapter.NewUserStore(db), nil
})
