// Package statistics summarizes cards and study history for the dashboard and the report.
package statistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/progress"
)

// Dashboard is the overview shown by the stats command
type Dashboard struct {
	TotalCards int
	Mastered   int
	DueToday   int
	BoxCounts  map[flashcard.Box]int

	Username      string
	Level         int
	XP            int
	XPToNextLevel int
	Rank          string
	Accuracy      int

	TotalStudySeconds int64
	TodayStudySeconds int64
	WeekStudySeconds  int64
	DailyGoalSeconds  int64
	WeeklyGoalSeconds int64
	DailyGoalPercent  int
	WeeklyGoalPercent int
	RecentSessions    []progress.HistoryEntry
}

func CalculateDashboard(cards []flashcard.Card, profile progress.Profile, now time.Time) Dashboard {
	boxCounts := make(map[flashcard.Box]int, len(flashcard.Boxes))
	for _, box := range flashcard.Boxes {
		boxCounts[box] = 0
	}
	for _, card := range cards {
		boxCounts[card.Box]++
	}

	today := profile.TodayStudyTime(now)
	week := profile.WeekStudyTime(now)
	return Dashboard{
		TotalCards: len(cards),
		Mastered:   flashcard.CountMastered(cards, now),
		DueToday:   len(flashcard.DueCards(cards, now)),
		BoxCounts:  boxCounts,

		Username:      profile.Username,
		Level:         profile.Level,
		XP:            profile.XP,
		XPToNextLevel: profile.XPToNextLevel,
		Rank:          profile.Rank(),
		Accuracy:      profile.Accuracy(),

		TotalStudySeconds: profile.TotalStudySeconds,
		TodayStudySeconds: today,
		WeekStudySeconds:  week,
		DailyGoalSeconds:  profile.DailyGoalSeconds,
		WeeklyGoalSeconds: profile.WeeklyGoalSeconds,
		DailyGoalPercent:  progress.GoalPercent(today, profile.DailyGoalSeconds),
		WeeklyGoalPercent: progress.GoalPercent(week, profile.WeeklyGoalSeconds),
		RecentSessions:    profile.RecentHistory(progress.DefaultRecentHistory),
	}
}

// PeriodStatistics holds the sessions of one month
type PeriodStatistics struct {
	Period       string // "2025-01"
	Sessions     int
	StudySeconds int64
	Correct      int
	Incorrect    int
	Skipped      int
}

// StatisticsResult holds per-period statistics and their totals
type StatisticsResult struct {
	Periods   []PeriodStatistics
	Aggregate PeriodStatistics
}

// CalculatePeriods groups study history by month of the session date.
// It accepts optional year and month filters (0 means no filter).
func CalculatePeriods(history []progress.HistoryEntry, year, month int) StatisticsResult {
	stats := make(map[string]*PeriodStatistics)
	for _, entry := range history {
		if entry.Date.IsZero() {
			continue
		}
		local := entry.Date.Local()
		entryYear := local.Year()
		entryMonth := int(local.Month())
		if !matchesFilter(entryYear, entryMonth, year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", entryYear, entryMonth)
		if stats[period] == nil {
			stats[period] = &PeriodStatistics{Period: period}
		}
		add(stats[period], entry)
	}
	return buildResult(stats)
}

func add(stats *PeriodStatistics, entry progress.HistoryEntry) {
	stats.Sessions++
	stats.StudySeconds += entry.DurationSeconds
	stats.Correct += entry.Correct
	stats.Incorrect += entry.Incorrect
	stats.Skipped += entry.Skipped
}

func matchesFilter(entryYear, entryMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if entryYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return entryMonth == filterMonth
}

func buildResult(stats map[string]*PeriodStatistics) StatisticsResult {
	periods := make([]PeriodStatistics, 0, len(stats))
	var aggregate PeriodStatistics
	for _, data := range stats {
		periods = append(periods, *data)
		aggregate.Sessions += data.Sessions
		aggregate.StudySeconds += data.StudySeconds
		aggregate.Correct += data.Correct
		aggregate.Incorrect += data.Incorrect
		aggregate.Skipped += data.Skipped
	}

	// Newest first
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{
		Periods:   periods,
		Aggregate: aggregate,
	}
}
