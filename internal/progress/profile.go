// Package progress tracks the learner's lifetime statistics, XP levels, study goals and session history.
package progress

import (
	"math"
	"sort"
	"time"

	"github.com/at-ishikawa/leitner/internal/flashcard"
)

const (
	DefaultLevel             = 1
	DefaultXPToNextLevel     = 100
	DefaultDailyGoalSeconds  = 60 * 60
	DefaultWeeklyGoalSeconds = 5 * 60 * 60

	// DefaultRecentHistory is how many sessions RecentHistory shows when no limit is given.
	DefaultRecentHistory = 10
)

type Profile struct {
	Username          string         `yaml:"username" json:"username"`
	TotalCorrect      int            `yaml:"total_correct" json:"totalCorrect"`
	TotalIncorrect    int            `yaml:"total_incorrect" json:"totalIncorrect"`
	TotalStudySeconds int64          `yaml:"total_study_seconds" json:"totalStudyTime"`
	Level             int            `yaml:"level" json:"level"`
	XP                int            `yaml:"xp" json:"xp"`
	XPToNextLevel     int            `yaml:"xp_to_next_level" json:"xpToNextLevel"`
	DailyGoalSeconds  int64          `yaml:"daily_goal_seconds" json:"dailyStudyGoal"`
	WeeklyGoalSeconds int64          `yaml:"weekly_goal_seconds" json:"weeklyStudyGoal"`
	History           []HistoryEntry `yaml:"history" json:"studyHistory"`
}

// HistoryEntry is one completed study session. Entries are never modified once appended.
type HistoryEntry struct {
	SessionID       string        `yaml:"session_id,omitempty" json:"sessionId,omitempty"`
	Date            time.Time     `yaml:"date" json:"date"`
	DurationSeconds int64         `yaml:"duration" json:"duration"`
	Box             flashcard.Box `yaml:"box" json:"box"`
	Correct         int           `yaml:"correct" json:"correct"`
	Incorrect       int           `yaml:"incorrect" json:"incorrect"`
	Skipped         int           `yaml:"skipped" json:"skipped"`
}

func DefaultProfile() Profile {
	return Profile{
		Level:             DefaultLevel,
		XPToNextLevel:     DefaultXPToNextLevel,
		DailyGoalSeconds:  DefaultDailyGoalSeconds,
		WeeklyGoalSeconds: DefaultWeeklyGoalSeconds,
	}
}

func (p Profile) clone() Profile {
	if p.History != nil {
		p.History = append([]HistoryEntry(nil), p.History...)
	}
	return p
}

// normalize repairs values that would break leveling, e.g. from a hand-edited import.
func (p *Profile) normalize() {
	if p.Level < DefaultLevel {
		p.Level = DefaultLevel
	}
	if p.XPToNextLevel <= 0 {
		p.XPToNextLevel = DefaultXPToNextLevel
	}
	if p.XP < 0 {
		p.XP = 0
	}
}

// addXP adds experience and levels up as many times as the XP covers.
// Every level up raises the threshold by half, rounded down. It returns the number of levels gained.
func (p *Profile) addXP(amount int) int {
	if amount <= 0 {
		return 0
	}
	p.normalize()
	p.XP += amount
	gained := 0
	for p.XP >= p.XPToNextLevel {
		p.XP -= p.XPToNextLevel
		p.Level++
		p.XPToNextLevel = p.XPToNextLevel * 3 / 2
		gained++
	}
	return gained
}

// Accuracy returns the lifetime share of correct answers as a rounded percentage.
func (p Profile) Accuracy() int {
	total := p.TotalCorrect + p.TotalIncorrect
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(p.TotalCorrect) * 100 / float64(total)))
}

func (p Profile) Rank() string {
	switch {
	case p.Level >= 30:
		return "Master"
	case p.Level >= 20:
		return "Expert"
	case p.Level >= 15:
		return "Advanced"
	case p.Level >= 10:
		return "Intermediate"
	case p.Level >= 5:
		return "Novice"
	default:
		return "Beginner"
	}
}

// TodayStudyTime sums the sessions recorded on the local calendar day of now.
func (p Profile) TodayStudyTime(now time.Time) int64 {
	year, month, day := now.Date()
	var total int64
	for _, entry := range p.History {
		y, m, d := entry.Date.In(now.Location()).Date()
		if y == year && m == month && d == day {
			total += entry.DurationSeconds
		}
	}
	return total
}

// WeekStudyTime sums the sessions recorded since Sunday 00:00 of the week containing now.
func (p Profile) WeekStudyTime(now time.Time) int64 {
	year, month, day := now.Date()
	start := time.Date(year, month, day-int(now.Weekday()), 0, 0, 0, 0, now.Location())
	var total int64
	for _, entry := range p.History {
		if !entry.Date.Before(start) {
			total += entry.DurationSeconds
		}
	}
	return total
}

// RecentHistory returns up to n sessions, newest first. n <= 0 means DefaultRecentHistory.
func (p Profile) RecentHistory(n int) []HistoryEntry {
	if n <= 0 {
		n = DefaultRecentHistory
	}
	sorted := append([]HistoryEntry(nil), p.History...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// GoalPercent returns how much of a goal is reached, capped at 100.
func GoalPercent(current, goal int64) int {
	if goal <= 0 {
		return 0
	}
	percent := int(math.Round(float64(current) * 100 / float64(goal)))
	if percent > 100 {
		return 100
	}
	return percent
}
