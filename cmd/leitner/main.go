package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debug      bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Printf("failed to execute a command: %+v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "leitner",
		Short:         "Study flashcards with the Leitner box system",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(debug)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yml or $HOME/.config/leitner/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newCardsCommand())
	rootCmd.AddCommand(newStudyCommand())
	rootCmd.AddCommand(newDueCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newProfileCommand())
	rootCmd.AddCommand(newSettingsCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newResetCommand())
	rootCmd.AddCommand(newDBCommand())
	return rootCmd
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))
	slog.SetDefault(logger)
}
