package common

import (
	"net/url"

	"github.com/bornholm/taskboard/pkg/client"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	paramServer = "server"
	paramToken  = "token"
)

var (
	flagServer = &cli.StringFlag{
		Name:    paramServer,
		Aliases: []string{"s"},
		Value:   "http://localhost:3002",
		EnvVars: []string{"TASKBOARD_CLI_SERVER"},
		Usage:   "Taskboard server base url",
	}
	flagToken = &cli.StringFlag{
		Name:    paramToken,
		Aliases: []string{"t"},
		EnvVars: []string{"TASKBOARD_CLI_TOKEN"},
		Usage:   "Auth token",
	}
)

func WithCommonFlags(flags ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		flagServer,
		flagToken,
	}, flags...)
}

func GetTaskboardClient(ctx *cli.Context) (*client.Client, error) {
	rawServerURL := ctx.String(paramServer)

	serverURL, err := url.Parse(rawServerURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return client.New(
		client.WithBaseURL(serverURL),
		client.WithToken(ctx.String(paramToken)),
	), nil
}
