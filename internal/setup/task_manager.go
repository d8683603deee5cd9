package setup

import (
	"context"

	"github.com/bornholm/taskboard/internal/config"
	"github.com/bornholm/taskboard/internal/core/service"
	"github.com/pkg/errors"
)

var getAccessPolicyFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*service.AccessPolicy, error) {
	return service.NewAccessPolicy(), nil
})

var getTaskManagerFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*service.TaskManager, error) {
	taskStore, err := getTaskStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	userStore, err := getUserStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	policy, err := getAccessPolicyFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return service.NewTaskManager(taskStore, userStore, policy), nil
})
