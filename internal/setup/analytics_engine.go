package setup

import (
	"context"

	"github.com/bornholm/taskboard/internal/config"
	"github.com/bornholm/taskboard/internal/core/service"
	"github.com/pkg/errors"
)

var getAnalyticsEngineFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*service.AnalyticsEngine, error) {
	taskStore, err := getTaskStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	policy, err := getAccessPolicyFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return service.NewAnalyticsEngine(taskStore, policy), nil
})
