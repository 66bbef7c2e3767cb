package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/report"
	"github.com/at-ishikawa/leitner/internal/statistics"
)

func validatePeriod(year, month int) error {
	if month != 0 && year == 0 {
		return fmt.Errorf("--month requires --year to be specified")
	}
	if month < 0 || month > 12 {
		return fmt.Errorf("--month must be between 1 and 12")
	}
	return nil
}

func newStatsCommand() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard and monthly study statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePeriod(year, month); err != nil {
				return err
			}
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				profile := app.tracker.Profile()
				dashboard := statistics.CalculateDashboard(app.cards.List(), profile, app.clock.Now())
				writeDashboard(cmd.OutOrStdout(), dashboard)
				writePeriods(cmd.OutOrStdout(), statistics.CalculatePeriods(profile.History, year, month))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")
	return cmd
}

func writeDashboard(out io.Writer, dashboard statistics.Dashboard) {
	name := dashboard.Username
	if name == "" {
		name = "Learner"
	}
	_, _ = fmt.Fprintf(out, "%s: level %d (%s), %d/%d XP\n", name, dashboard.Level, dashboard.Rank, dashboard.XP, dashboard.XPToNextLevel)
	_, _ = fmt.Fprintf(out, "Cards: %d total, %d mastered, %d due today\n", dashboard.TotalCards, dashboard.Mastered, dashboard.DueToday)
	for _, box := range flashcard.Boxes {
		_, _ = fmt.Fprintf(out, "  Box %d (every %d days): %d\n", int(box), box.IntervalDays(), dashboard.BoxCounts[box])
	}
	_, _ = fmt.Fprintf(out, "Accuracy: %d%%\n", dashboard.Accuracy)
	_, _ = fmt.Fprintf(out, "Today: %s / %s (%d%%)\n",
		statistics.FormatDuration(dashboard.TodayStudySeconds),
		statistics.FormatDuration(dashboard.DailyGoalSeconds),
		dashboard.DailyGoalPercent)
	_, _ = fmt.Fprintf(out, "This week: %s / %s (%d%%)\n",
		statistics.FormatDuration(dashboard.WeekStudySeconds),
		statistics.FormatDuration(dashboard.WeeklyGoalSeconds),
		dashboard.WeeklyGoalPercent)
	_, _ = fmt.Fprintf(out, "Total study time: %s\n", statistics.FormatDuration(dashboard.TotalStudySeconds))
}

func writePeriods(out io.Writer, result statistics.StatisticsResult) {
	if len(result.Periods) == 0 {
		_, _ = fmt.Fprintln(out, "\nNo study sessions yet")
		return
	}

	_, _ = fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PERIOD\tSESSIONS\tTIME\tCORRECT\tINCORRECT\tSKIPPED")
	for _, period := range result.Periods {
		writePeriod(w, period.Period, period)
	}
	writePeriod(w, "Total", result.Aggregate)
	_ = w.Flush()
}

func writePeriod(w io.Writer, label string, period statistics.PeriodStatistics) {
	_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%d\n",
		label, period.Sessions, statistics.FormatDuration(period.StudySeconds),
		period.Correct, period.Incorrect, period.Skipped)
}

func newReportCommand() *cobra.Command {
	var (
		year, month int
		pdf         bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a markdown study report, optionally converted to PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePeriod(year, month); err != nil {
				return err
			}
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				now := app.clock.Now()
				profile := app.tracker.Profile()
				data := report.NewData(
					statistics.CalculateDashboard(app.cards.List(), profile, now),
					statistics.CalculatePeriods(profile.History, year, month),
					now,
				)

				path, err := report.WriteFile(app.config.Outputs.ReportDirectory, app.config.Templates.ReportTemplate, data)
				if err != nil {
					return fmt.Errorf("report.WriteFile() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				if !pdf {
					return nil
				}

				current, err := app.settings.Load(ctx)
				if err != nil {
					return fmt.Errorf("settings.Load() > %w", err)
				}
				pdfPath, err := report.ConvertMarkdownToPDF(path, current.DarkMode)
				if err != nil {
					return fmt.Errorf("report.ConvertMarkdownToPDF() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", pdfPath)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "also convert the report to PDF")
	return cmd
}
