package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/leitner/internal/progress"
	"github.com/at-ishikawa/leitner/internal/statistics"
)

func newProfileCommand() *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and update the learner profile",
	}

	profileCmd.AddCommand(newProfileShowCommand())
	profileCmd.AddCommand(newProfileUsernameCommand())
	profileCmd.AddCommand(newProfileGoalCommand())
	return profileCmd
}

func newProfileShowCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the profile and the recent study sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				profile := app.tracker.Profile()
				out := cmd.OutOrStdout()

				_, _ = fmt.Fprintf(out, "Username: %s\n", profile.Username)
				_, _ = fmt.Fprintf(out, "Level: %d (%s)\n", profile.Level, profile.Rank())
				_, _ = fmt.Fprintf(out, "XP: %d/%d\n", profile.XP, profile.XPToNextLevel)
				_, _ = fmt.Fprintf(out, "Answers: %d correct, %d incorrect (%d%%)\n", profile.TotalCorrect, profile.TotalIncorrect, profile.Accuracy())
				_, _ = fmt.Fprintf(out, "Daily goal: %s\n", statistics.FormatDuration(profile.DailyGoalSeconds))
				_, _ = fmt.Fprintf(out, "Weekly goal: %s\n", statistics.FormatDuration(profile.WeeklyGoalSeconds))

				history := profile.RecentHistory(limit)
				if len(history) == 0 {
					return nil
				}
				_, _ = fmt.Fprintln(out)
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(w, "DATE\tBOX\tTIME\tCORRECT\tINCORRECT\tSKIPPED")
				for _, entry := range history {
					_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%d\n",
						entry.Date.Local().Format("2006-01-02 15:04"), int(entry.Box),
						statistics.FormatDuration(entry.DurationSeconds),
						entry.Correct, entry.Incorrect, entry.Skipped)
				}
				_ = w.Flush()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", progress.DefaultRecentHistory, "number of recent sessions to show")
	return cmd
}

func newProfileUsernameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "username <name>",
		Short: "Set the username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				if err := app.tracker.SetUsername(ctx, args[0]); err != nil {
					return fmt.Errorf("tracker.SetUsername() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Username set to %s\n", app.tracker.Profile().Username)
				return nil
			})
		},
	}
}

func newProfileGoalCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "goal <daily|weekly> <hours> <minutes>",
		Short:     "Set the daily or weekly study goal",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"daily", "weekly"},
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid hours: %s", args[1])
			}
			minutes, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid minutes: %s", args[2])
			}

			return runApplication(cmd, func(ctx context.Context, app *application) error {
				switch args[0] {
				case "daily":
					if err := app.tracker.SetDailyGoal(ctx, hours, minutes); err != nil {
						return fmt.Errorf("tracker.SetDailyGoal() > %w", err)
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Daily goal set to %s\n", statistics.FormatDuration(app.tracker.Profile().DailyGoalSeconds))
				case "weekly":
					if err := app.tracker.SetWeeklyGoal(ctx, hours, minutes); err != nil {
						return fmt.Errorf("tracker.SetWeeklyGoal() > %w", err)
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Weekly goal set to %s\n", statistics.FormatDuration(app.tracker.Profile().WeeklyGoalSeconds))
				default:
					return fmt.Errorf("goal must be daily or weekly, got %s", args[0])
				}
				return nil
			})
		},
	}
}
