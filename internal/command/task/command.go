package task

import (
	"encoding/json"
	"os"
	"time"

	"github.com/bornholm/taskboard/internal/command/common"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/bornholm/taskboard/internal/http/handler/api"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	flagTitle       = "title"
	flagDescription = "description"
	flagDueDate     = "due-date"
	flagPriority    = "priority"
	flagStatus      = "status"
	flagAssignedTo  = "assigned-to"
	flagTags        = "tag"
	flagPage        = "page"
	flagLimit       = "limit"
	flagSortBy      = "sort-by"
	flagSortOrder   = "sort-order"
	flagAssigned    = "assigned"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "task",
		Usage: "Manage tasks",
		Subcommands: []*cli.Command{
			listCommand(),
			getCommand(),
			createCommand(),
			updateCommand(),
			deleteCommand(),
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List visible tasks",
		Flags: common.WithCommonFlags(
			&cli.IntFlag{Name: flagPage, Value: 1},
			&cli.IntFlag{Name: flagLimit, Value: port.DefaultLimit},
			&cli.StringFlag{Name: flagSortBy, Value: "createdAt"},
			&cli.StringFlag{Name: flagSortOrder, Value: "desc"},
			&cli.BoolFlag{Name: flagAssigned, Usage: "List tasks assigned to the authenticated user instead"},
		),
		Action: func(cCtx *cli.Context) error {
			ctx := cCtx.Context

			taskboard, err := common.GetTaskboardClient(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			opts := port.ListOptions{
				Page:      cCtx.Int(flagPage),
				Limit:     cCtx.Int(flagLimit),
				SortBy:    cCtx.String(flagSortBy),
				SortOrder: port.SortOrder(cCtx.String(flagSortOrder)),
			}

			var res *api.ListTasksResponse
			if cCtx.Bool(flagAssigned) {
				res, err = taskboard.ListAssignedTasks(ctx, opts)
			} else {
				res, err = taskboard.ListTasks(ctx, opts)
			}
			if err != nil {
				return errors.WithStack(err)
			}

			return errors.WithStack(printJSON(res))
		},
	}
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show a single task",
		ArgsUsage: "TASK_ID",
		Flags:     common.WithCommonFlags(),
		Action: func(cCtx *cli.Context) error {
			taskID := cCtx.Args().First()
			if taskID == "" {
				return errors.New("missing task id argument")
			}

			taskboard, err := common.GetTaskboardClient(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			task, err := taskboard.GetTask(cCtx.Context, taskID)
			if err != nil {
				return errors.WithStack(err)
			}

			return errors.WithStack(printJSON(task))
		},
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a new task",
		Flags: common.WithCommonFlags(
			&cli.StringFlag{Name: flagTitle, Required: true},
			&cli.StringFlag{Name: flagDescription, Required: true},
			&cli.TimestampFlag{Name: flagDueDate, Layout: time.RFC3339, Required: true},
			&cli.StringFlag{Name: flagPriority, Value: "medium"},
			&cli.StringFlag{Name: flagStatus},
			&cli.StringFlag{Name: flagAssignedTo},
			&cli.StringSliceFlag{Name: flagTags},
		),
		Action: func(cCtx *cli.Context) error {
			taskboard, err := common.GetTaskboardClient(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			req := api.CreateTaskRequest{
				Title:       cCtx.String(flagTitle),
				Description: cCtx.String(flagDescription),
				DueDate:     cCtx.Timestamp(flagDueDate),
				Priority:    cCtx.String(flagPriority),
				Status:      cCtx.String(flagStatus),
				Tags:        cCtx.StringSlice(flagTags),
			}

			if assignedTo := cCtx.String(flagAssignedTo); assignedTo != "" {
				req.AssignedTo = &assignedTo
			}

			task, err := taskboard.CreateTask(cCtx.Context, req)
			if err != nil {
				return errors.WithStack(err)
			}

			return errors.WithStack(printJSON(task))
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a task",
		ArgsUsage: "TASK_ID",
		Flags: common.WithCommonFlags(
			&cli.StringFlag{Name: flagTitle},
			&cli.StringFlag{Name: flagDescription},
			&cli.TimestampFlag{Name: flagDueDate, Layout: time.RFC3339},
			&cli.StringFlag{Name: flagPriority},
			&cli.StringFlag{Name: flagStatus},
			&cli.StringFlag{Name: flagAssignedTo},
			&cli.StringSliceFlag{Name: flagTags},
		),
		Action: func(cCtx *cli.Context) error {
			taskID := cCtx.Args().First()
			if taskID == "" {
				return errors.New("missing task id argument")
			}

			taskboard, err := common.GetTaskboardClient(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			var req api.UpdateTaskRequest

			if cCtx.IsSet(flagTitle) {
				title := cCtx.String(flagTitle)
				req.Title = &title
			}

			if cCtx.IsSet(flagDescription) {
				description := cCtx.String(flagDescription)
				req.Description = &description
			}

			if cCtx.IsSet(flagDueDate) {
				req.DueDate = cCtx.Timestamp(flagDueDate)
			}

			if cCtx.IsSet(flagPriority) {
				priority := cCtx.String(flagPriority)
				req.Priority = &priority
			}

			if cCtx.IsSet(flagStatus) {
				status := cCtx.String(flagStatus)
				req.Status = &status
			}

			if cCtx.IsSet(flagAssignedTo) {
				assignedTo := cCtx.String(flagAssignedTo)
				req.AssignedTo = &assignedTo
			}

			if cCtx.IsSet(flagTags) {
				tags := cCtx.StringSlice(flagTags)
				req.Tags = &tags
			}

			task, err := taskboard.UpdateTask(cCtx.Context, taskID, req)
			if err != nil {
				return errors.WithStack(err)
			}

			return errors.WithStack(printJSON(task))
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a task",
		ArgsUsage: "TASK_ID",
		Flags:     common.WithCommonFlags(),
		Action: func(cCtx *cli.Context) error {
			taskID := cCtx.Args().First()
			if taskID == "" {
				return errors.New("missing task id argument")
			}

			taskboard, err := common.GetTaskboardClient(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			if err := taskboard.DeleteTask(cCtx.Context, taskID); err != nil {
				return errors.WithStack(err)
			}

			return nil
		},
	}
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
