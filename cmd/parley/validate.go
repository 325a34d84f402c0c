package main

import (
	"os"

	"github.com/aretw0/parley/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the dialogues",
	Long:  `Compiles every dialogue in --dir and checks its graph for dead ends, selector cycles and unreachable nodes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			return cli.RunValidate(cmd.Context(), opts, os.Stdout)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.RunValidateWatch(ctx, opts, os.Stdout)
	},
}

func init() {
	validateCmd.Flags().BoolP("watch", "w", false, "Validate again whenever a document changes")
	rootCmd.AddCommand(validateCmd)
}
