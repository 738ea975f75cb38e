package commands

import (
	"github.com/pkg/errors"

	"github.com/busbridge/busbridge/bus"
)

// RoutingStrategy derives the routing key the router uses to pick a target
// node for a command.
type RoutingStrategy func(msg *bus.Message) string

// PriorityCalculator derives the processing priority of a command. Higher
// values are dispatched earlier.
type PriorityCalculator func(msg *bus.Message) int64

const (
	defaultCommandThreads      = 10
	defaultInitialPermits      = 1000
	defaultNewPermits          = 500
	defaultNewPermitsThreshold = 500
)

// Config is the immutable configuration of a command connector.
type Config struct {
	// ClientID identifies this client instance to the router.
	ClientID string
	// ComponentName is the logical service group this client belongs to.
	ComponentName string

	// CommandThreads is the number of workers draining the inbound queue.
	CommandThreads int

	// InitialPermits is the credit granted when the inbound stream opens.
	InitialPermits int64
	// NewPermits is the size of each replenishment grant.
	NewPermits int64
	// NewPermitsThreshold is the number of command responses sent between
	// replenishment grants. Must not exceed InitialPermits.
	NewPermitsThreshold int64

	// RoutingStrategy computes routing keys. Defaults to the message ID.
	RoutingStrategy RoutingStrategy
	// Priority computes processing priorities. Defaults to zero.
	Priority PriorityCalculator
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.CommandThreads == 0 {
		out.CommandThreads = defaultCommandThreads
	}
	if out.InitialPermits == 0 {
		out.InitialPermits = defaultInitialPermits
	}
	if out.NewPermits == 0 {
		out.NewPermits = defaultNewPermits
	}
	if out.NewPermitsThreshold == 0 {
		out.NewPermitsThreshold = defaultNewPermitsThreshold
	}
	if out.RoutingStrategy == nil {
		out.RoutingStrategy = func(msg *bus.Message) string { return msg.ID }
	}
	if out.Priority == nil {
		out.Priority = func(*bus.Message) int64 { return 0 }
	}
	return out
}

// Validate reports the first configuration error, if any. The flow control
// invariant is checked against the effective configuration, with defaults
// applied, so an explicit threshold cannot outgrow a defaulted permit count.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("client ID is required")
	}
	if c.CommandThreads < 0 {
		return errors.New("command threads must be positive")
	}
	if c.InitialPermits < 0 || c.NewPermits < 0 || c.NewPermitsThreshold < 0 {
		return errors.New("flow control parameters must be positive")
	}
	eff := c.withDefaults()
	if eff.NewPermitsThreshold > eff.InitialPermits {
		return errors.New("new-permits threshold must not exceed initial permits")
	}
	return nil
}
