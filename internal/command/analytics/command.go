package analytics

import (
	"encoding/json"
	"os"
	"time"

	"github.com/bornholm/taskboard/internal/command/common"
	"github.com/bornholm/taskboard/pkg/client"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	flagFrom       = "from"
	flagTo         = "to"
	flagAssignedTo = "assigned-to"
	flagCreatedBy  = "created-by"
	flagStatus     = "status"
	flagTags       = "tag"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "analytics",
		Usage: "Fetch the aggregate task report (admin only)",
		Flags: common.WithCommonFlags(
			&cli.TimestampFlag{Name: flagFrom, Layout: time.RFC3339},
			&cli.TimestampFlag{Name: flagTo, Layout: time.RFC3339},
			&cli.StringFlag{Name: flagAssignedTo},
			&cli.StringFlag{Name: flagCreatedBy},
			&cli.StringFlag{Name: flagStatus},
			&cli.StringSliceFlag{Name: flagTags},
		),
		Action: func(cCtx *cli.Context) error {
			taskboard, err := common.GetTaskboardClient(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			filter := client.AnalyticsFilter{
				AssignedTo: cCtx.String(flagAssignedTo),
				CreatedBy:  cCtx.String(flagCreatedBy),
				Status:     cCtx.String(flagStatus),
				Tags:       cCtx.StringSlice(flagTags),
			}

			if from := cCtx.Timestamp(flagFrom); from != nil {
				filter.From = *from
			}

			if to := cCtx.Timestamp(flagTo); to != nil {
				filter.To = *to
			}

			report, err := taskboard.Analytics(cCtx.Context, filter)
			if err != nil {
				return errors.WithStack(err)
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")

			return errors.WithStack(encoder.Encode(report))
		},
	}
}
