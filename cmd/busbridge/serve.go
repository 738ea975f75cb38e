package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/busbridge/busbridge/bus"
	"github.com/busbridge/busbridge/pkg/admin"
)

func newCmdServe() *cobra.Command {
	var (
		adminAddr string
		echoNames []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Subscribe echo handlers and serve until interrupted",
		Long: `Serve subscribes an echo handler for each given command name and keeps
the subscription alive across router reconnects. Useful for smoke-testing a
router deployment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			connector, mgr, err := newConnector()
			if err != nil {
				return err
			}
			defer mgr.Close()
			defer connector.Disconnect()

			for _, name := range echoNames {
				name := name
				connector.Subscribe(name, func(ctx context.Context, msg *bus.Message) (*bus.Result, error) {
					log.Infof("Echoing command %s (%s)", name, msg.ID)
					return &bus.Result{PayloadType: msg.PayloadType, Payload: msg.Payload}, nil
				})
				log.Infof("Subscribed %q", name)
			}

			adminSrv := admin.NewServer(adminAddr, nil)
			go func() {
				log.Infof("Starting admin server on %s", adminAddr)
				if err := adminSrv.ListenAndServe(); err != nil {
					log.Errorf("Admin server: %s", err)
				}
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			log.Info("Shutting down")
			return nil
		},
	}

	cmd.Flags().StringVar(&adminAddr, "admin-addr", ":9990", "address of the metrics/health endpoint")
	cmd.Flags().StringSliceVar(&echoNames, "echo", []string{"echoCommand"}, "command names to serve with an echo handler")
	return cmd
}
