package main

import (
	"fmt"
	"os"

	"github.com/aretw0/parley/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the dialogues as a JSON API over HTTP. Sessions live in memory;
visited nodes are persisted like in play, and shared through Redis when configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		err = cli.RunServe(ctx, cli.ServeOptions{Options: opts, Addr: addr}, os.Stdout)
		if sig := ctx.Signal(); sig != nil {
			fmt.Fprintf(os.Stderr, "\nInterrupted by %v\n", sig)
		}
		return err
	},
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (default: $PARLEY_HTTP_ADDR or :8080)")
	rootCmd.AddCommand(serveCmd)
}
