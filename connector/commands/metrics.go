package commands

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandsReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "busbridge_commands_received_total",
		Help: "Inbound commands received from the router.",
	})

	responsesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "busbridge_command_responses_sent_total",
		Help: "Command responses sent to the router, by outcome.",
	}, []string{"outcome"})

	dispatchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "busbridge_command_dispatch_failures_total",
		Help: "Outbound dispatches that completed exceptionally, by error code.",
	}, []string{"code"})

	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "busbridge_command_queue_depth",
		Help: "Inbound commands waiting for a worker.",
	})

	permitsGranted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "busbridge_command_permits_granted_total",
		Help: "Flow control permits granted to the router.",
	})
)

func init() {
	prometheus.MustRegister(
		commandsReceived,
		responsesSent,
		dispatchFailures,
		queueDepth,
		permitsGranted,
	)
}
