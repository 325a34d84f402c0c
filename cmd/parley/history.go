package main

import (
	"os"

	"github.com/aretw0/parley/internal/cli"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or reset the visited nodes",
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the dialogues with visited nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		return cli.RunHistoryShow(cmd.Context(), opts, os.Stdout)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear [dialogue]",
	Short: "Forget the visited nodes of a dialogue, or of all dialogues",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return cli.RunHistoryClear(cmd.Context(), opts, id, os.Stdout)
	},
}

func init() {
	historyCmd.AddCommand(historyShowCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
