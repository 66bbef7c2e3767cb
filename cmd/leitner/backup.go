package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/leitner/internal/backup"
	"github.com/at-ishikawa/leitner/internal/cli"
)

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export every card, the profile and the settings as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				path := backup.DefaultFileName(app.clock.Now())
				if len(args) > 0 {
					path = args[0]
				}

				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("os.Create(%s) > %w", path, err)
				}
				if err := app.backup.Export(ctx, file); err != nil {
					_ = file.Close()
					return fmt.Errorf("backup.Export() > %w", err)
				}
				if err := file.Close(); err != nil {
					return fmt.Errorf("file.Close() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
				return nil
			})
		},
	}
}

func newImportCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace every card, the profile and the settings with an exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("os.Open(%s) > %w", args[0], err)
				}
				defer func() {
					_ = file.Close()
				}()

				result, err := app.backup.Import(ctx, file, backup.ImportOptions{DryRun: dryRun})
				if err != nil {
					return fmt.Errorf("backup.Import() > %w", err)
				}
				verb := "Imported"
				if result.DryRun {
					verb = "Would import"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d cards and %d study sessions\n", verb, result.Cards, result.Sessions)
				if result.SettingsApplied {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s the settings\n", verb)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without importing it")
	return cmd
}

func newResetCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every card, the profile and the settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				prompt := cli.NewInteractiveCLI(cmd.InOrStdin(), cmd.OutOrStdout())
				if !prompt.Confirm("Delete every card, the profile and the settings?") {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Canceled")
					return nil
				}
			}
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				if err := app.cards.Reset(ctx); err != nil {
					return fmt.Errorf("cards.Reset() > %w", err)
				}
				if err := app.tracker.Reset(ctx); err != nil {
					return fmt.Errorf("tracker.Reset() > %w", err)
				}
				if err := app.settings.Reset(ctx); err != nil {
					return fmt.Errorf("settings.Reset() > %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Deleted every card, the profile and the settings")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}
