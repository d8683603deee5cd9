package gorm

import (
	"testing"

	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/bornholm/taskboard/internal/core/port/testsuite"
	"github.com/pkg/errors"
)

func TestTaskStore(t *testing.T) {
	testsuite.TestTaskStore(t, func(t *testing.T) (port.TaskStore, error) {
		db, err := newTestDatabase(t)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return NewTaskStore(db), nil
	})
}
