package main

import (
	"os"

	"github.com/aretw0/parley/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [dialogue]",
	Short: "Print a Mermaid flowchart of a dialogue",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		history, _ := cmd.Flags().GetBool("history")

		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return cli.RunGraph(cmd.Context(), opts, id, history, os.Stdout)
	},
}

func init() {
	graphCmd.Flags().Bool("history", false, "Highlight the nodes visited by earlier runs")
	rootCmd.AddCommand(graphCmd)
}
