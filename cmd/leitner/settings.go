package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSettingsCommand() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change the study settings",
	}

	settingsCmd.AddCommand(newSettingsShowCommand())
	settingsCmd.AddCommand(newSettingsTimerCommand())
	settingsCmd.AddCommand(newSettingsCardTimeCommand())
	settingsCmd.AddCommand(newSettingsDarkModeCommand())
	return settingsCmd
}

func newSettingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				current, err := app.settings.Load(ctx)
				if err != nil {
					return fmt.Errorf("settings.Load() > %w", err)
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "Timer: %s\n", onOff(current.TimerEnabled))
				_, _ = fmt.Fprintf(out, "Card time: %d seconds\n", current.MaxCardSeconds)
				_, _ = fmt.Fprintf(out, "Dark mode: %s\n", onOff(current.DarkMode))
				return nil
			})
		},
	}
}

func newSettingsTimerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "timer <on|off>",
		Short: "Turn the per-card timer on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseSwitch(args[0])
			if err != nil {
				return err
			}
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				if err := app.settings.SetTimerEnabled(ctx, enabled); err != nil {
					return fmt.Errorf("settings.SetTimerEnabled() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Timer: %s\n", onOff(enabled))
				return nil
			})
		},
	}
}

func newSettingsCardTimeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "card-time <seconds>",
		Short: "Set how many seconds a card is shown before its answer is revealed (5-120)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid seconds: %s", args[0])
			}
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				if err := app.settings.SetMaxCardSeconds(ctx, seconds); err != nil {
					return fmt.Errorf("settings.SetMaxCardSeconds() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Card time: %d seconds\n", seconds)
				return nil
			})
		},
	}
}

func newSettingsDarkModeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dark-mode <on|off>",
		Short: "Turn dark mode on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseSwitch(args[0])
			if err != nil {
				return err
			}
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				if err := app.settings.SetDarkMode(ctx, enabled); err != nil {
					return fmt.Errorf("settings.SetDarkMode() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dark mode: %s\n", onOff(enabled))
				return nil
			})
		},
	}
}
