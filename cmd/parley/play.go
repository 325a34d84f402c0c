package main

import (
	"fmt"
	"os"

	"github.com/aretw0/parley/internal/cli"
	"github.com/aretw0/parley/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [dialogue]",
	Short: "Play a dialogue in the terminal",
	Long: `Plays a dialogue with the participants it declares. Type the number of an option
to choose it, or "exit" to leave. The dialogue may be omitted when --dir holds only one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		headless, _ := cmd.Flags().GetBool("headless")
		fresh, _ := cmd.Flags().GetBool("fresh")

		play := cli.PlayOptions{
			Options:     opts,
			Headless:    headless,
			Fresh:       fresh,
			Interactive: tui.IsInteractive(os.Stdout),
		}
		if len(args) > 0 {
			play.Dialogue = args[0]
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		err = cli.RunPlay(ctx, play, os.Stdin, os.Stdout)
		if sig := ctx.Signal(); sig != nil {
			fmt.Fprintf(os.Stderr, "\nInterrupted by %v\n", sig)
		}
		return err
	},
}

func init() {
	playCmd.Flags().Bool("headless", false, "Always take the first option and print only the lines")
	playCmd.Flags().Bool("fresh", false, "Forget the nodes visited by earlier runs of this dialogue")
	rootCmd.AddCommand(playCmd)
}
