package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/busbridge/busbridge/bus"
	"github.com/busbridge/busbridge/connector/commands"
	"github.com/busbridge/busbridge/connector/conn"
)

var localBus = bus.NewSimple()

var (
	routerAddr     string
	clientID       string
	componentName  string
	token          string
	routingContext string
	logLevel       string
)

// RootCmd is the busbridge diagnostic CLI.
var RootCmd = &cobra.Command{
	Use:   "busbridge",
	Short: "busbridge bridges a local command bus to a remote command router",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&routerAddr, "addr", "localhost:8124", "address of the command router")
	RootCmd.PersistentFlags().StringVar(&clientID, "client-id", "", "client identifier (defaults to the hostname)")
	RootCmd.PersistentFlags().StringVar(&componentName, "component", "busbridge", "logical component name")
	RootCmd.PersistentFlags().StringVar(&token, "token", "", "authentication token attached to every call")
	RootCmd.PersistentFlags().StringVar(&routingContext, "context", "", "routing context attached to every call")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", log.InfoLevel.String(), "log level, must be one of: panic, fatal, error, warn, info, debug")

	RootCmd.AddCommand(newCmdServe())
	RootCmd.AddCommand(newCmdSend())
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newConnector() (*commands.Connector, *conn.Manager, error) {
	id := clientID
	if id == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, nil, err
		}
		id = host
	}

	mgr := conn.NewManager(conn.Config{
		Address:        routerAddr,
		Token:          token,
		RoutingContext: routingContext,
	})

	connector, err := commands.NewConnector(commands.Config{
		ClientID:      id,
		ComponentName: componentName,
	}, mgr, localBus)
	if err != nil {
		return nil, nil, err
	}
	return connector, mgr, nil
}
