package main

import (
	"fmt"
	"os"

	"github.com/aretw0/parley/internal/cli"
	"github.com/aretw0/parley/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley plays branching dialogues",
	Long: `Parley traverses dialogue graphs written as YAML, JSON or Markdown documents.
Settings are read from PARLEY_* environment variables; flags take precedence.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the dialogues")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("language", "", "Language tag used to format numbers")
	rootCmd.PersistentFlags().String("scripts", "", "Directory of Lua hook scripts (default: --dir)")
	rootCmd.PersistentFlags().String("history-file", "", "File keeping the visited nodes")
	rootCmd.PersistentFlags().String("redis-addr", "", "Keep the visited nodes in Redis instead of a file")
}

// loadOptions reads the environment, then applies the flags the user set.
func loadOptions(cmd *cobra.Command) (cli.Options, error) {
	cfg, err := config.Load()
	if err != nil {
		return cli.Options{}, err
	}

	flags := cmd.Flags()
	override := func(name string, target *string) {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}
	override("log-level", &cfg.LogLevel)
	override("language", &cfg.Language)
	override("scripts", &cfg.Scripts)
	override("history-file", &cfg.HistoryFile)
	override("redis-addr", &cfg.RedisAddr)

	dir, _ := flags.GetString("dir")
	debug, _ := flags.GetBool("debug")
	return cli.Options{Dir: dir, Debug: debug, Config: cfg}, nil
}
