package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/busbridge/busbridge/bus"
	"github.com/busbridge/busbridge/serialization"
)

func newCmdSend() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "send [name] [payload]",
		Short: "Dispatch a single command through the router and print the result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			connector, mgr, err := newConnector()
			if err != nil {
				return err
			}
			defer mgr.Close()
			defer connector.Disconnect()

			serializer := serialization.NewJSON()
			msg := &bus.Message{Name: args[0]}
			if len(args) == 2 {
				data, typeName, err := serializer.Serialize(args[1])
				if err != nil {
					return err
				}
				msg.Payload = data
				msg.PayloadType = typeName
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			results := make(chan bus.Result, 1)
			connector.Dispatch(ctx, msg, func(res bus.Result) {
				results <- res
			})

			select {
			case res := <-results:
				if res.IsError() {
					return res.Err
				}
				var payload interface{}
				if len(res.Payload) > 0 {
					if err := serializer.Deserialize(res.Payload, &payload); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%v\n", payload)
				return nil
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "awaiting command result")
			}
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "time to wait for the command result")
	return cmd
}
