package main

import (
	"github.com/bornholm/taskboard/internal/command"
	"github.com/bornholm/taskboard/internal/command/analytics"
	"github.com/bornholm/taskboard/internal/command/task"
)

func main() {
	command.Main(
		"taskboard-cli",
		"Interact with a taskboard server",
		task.Command(),
		analytics.Command(),
	)
}
