package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameTasks           = "tasks"
	NameTaskTransitions = "task_transitions"
	LabelStatus         = "status"
	LabelFrom           = "from"
	LabelTo             = "to"
)

var Tasks = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name:      NameTasks,
		Help:      "Current tasks by status",
		Namespace: Namespace,
	},
	[]string{LabelStatus},
)

var TaskTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameTaskTransitions,
		Help:      "Accepted task status transitions",
		Namespace: Namespace,
	},
	[]string{LabelFrom, LabelTo},
)
