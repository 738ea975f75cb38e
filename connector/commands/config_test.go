package commands

import (
	"testing"

	"github.com/busbridge/busbridge/bus"
)

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name      string
		config    Config
		expectErr bool
	}{
		{
			name:   "minimal valid config",
			config: Config{ClientID: "client-1"},
		},
		{
			name:      "missing client ID",
			config:    Config{},
			expectErr: true,
		},
		{
			name:      "threshold above initial permits",
			config:    Config{ClientID: "client-1", InitialPermits: 10, NewPermitsThreshold: 20},
			expectErr: true,
		},
		{
			name:      "explicit threshold above defaulted initial permits",
			config:    Config{ClientID: "client-1", NewPermitsThreshold: 2000},
			expectErr: true,
		},
		{
			name:      "negative worker count",
			config:    Config{ClientID: "client-1", CommandThreads: -1},
			expectErr: true,
		},
		{
			name:      "negative permits",
			config:    Config{ClientID: "client-1", InitialPermits: -5},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.expectErr && err == nil {
				t.Fatal("Expecting a validation error")
			}
			if !tc.expectErr && err != nil {
				t.Fatalf("Unexpected validation error: %s", err)
			}
		})
	}
}

func TestNewConnectorRejectsOversizedThreshold(t *testing.T) {
	// An explicit threshold must be checked against the defaulted permit
	// count, not the zero value it replaces.
	cfg := Config{ClientID: "client-1", NewPermitsThreshold: 2000}
	if _, err := NewConnector(cfg, newFakeManager(), bus.NewSimple()); err == nil {
		t.Fatal("Expecting NewConnector to reject a threshold above the defaulted initial permits")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := (&Config{ClientID: "client-1"}).withDefaults()

	if cfg.CommandThreads != defaultCommandThreads {
		t.Fatalf("Expecting %d command threads, got %d", defaultCommandThreads, cfg.CommandThreads)
	}
	if cfg.InitialPermits != defaultInitialPermits {
		t.Fatalf("Expecting %d initial permits, got %d", defaultInitialPermits, cfg.InitialPermits)
	}
	if cfg.NewPermits != defaultNewPermits {
		t.Fatalf("Expecting %d new permits, got %d", defaultNewPermits, cfg.NewPermits)
	}
	if cfg.NewPermitsThreshold != defaultNewPermitsThreshold {
		t.Fatalf("Expecting threshold %d, got %d", defaultNewPermitsThreshold, cfg.NewPermitsThreshold)
	}

	msg := &bus.Message{ID: "m-1"}
	if got := cfg.RoutingStrategy(msg); got != "m-1" {
		t.Fatalf("Expecting the default routing key to be the message ID, got %s", got)
	}
	if got := cfg.Priority(msg); got != 0 {
		t.Fatalf("Expecting default priority 0, got %d", got)
	}
}
