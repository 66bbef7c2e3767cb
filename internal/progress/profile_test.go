package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfile_AddXP(t *testing.T) {
	tests := []struct {
		name          string
		profile       Profile
		amount        int
		wantLevel     int
		wantXP        int
		wantThreshold int
		wantGained    int
	}{
		{
			name:          "below threshold",
			profile:       DefaultProfile(),
			amount:        40,
			wantLevel:     1,
			wantXP:        40,
			wantThreshold: 100,
		},
		{
			name:          "exactly the threshold",
			profile:       DefaultProfile(),
			amount:        100,
			wantLevel:     2,
			wantXP:        0,
			wantThreshold: 150,
			wantGained:    1,
		},
		{
			name:          "multiple levels at once",
			profile:       DefaultProfile(),
			amount:        250,
			wantLevel:     3,
			wantXP:        0,
			wantThreshold: 225,
			wantGained:    2,
		},
		{
			name:          "threshold is rounded down",
			profile:       Profile{Level: 3, XP: 220, XPToNextLevel: 225},
			amount:        10,
			wantLevel:     4,
			wantXP:        5,
			wantThreshold: 337,
			wantGained:    1,
		},
		{
			name:          "negative amount is ignored",
			profile:       Profile{Level: 2, XP: 30, XPToNextLevel: 150},
			amount:        -10,
			wantLevel:     2,
			wantXP:        30,
			wantThreshold: 150,
		},
		{
			name:          "broken threshold is repaired",
			profile:       Profile{Level: 0, XP: 10, XPToNextLevel: 0},
			amount:        5,
			wantLevel:     1,
			wantXP:        15,
			wantThreshold: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := tt.profile
			gained := profile.addXP(tt.amount)
			assert.Equal(t, tt.wantGained, gained)
			assert.Equal(t, tt.wantLevel, profile.Level)
			assert.Equal(t, tt.wantXP, profile.XP)
			assert.Equal(t, tt.wantThreshold, profile.XPToNextLevel)
		})
	}
}

func TestProfile_Rank(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{level: 1, want: "Beginner"},
		{level: 4, want: "Beginner"},
		{level: 5, want: "Novice"},
		{level: 10, want: "Intermediate"},
		{level: 15, want: "Advanced"},
		{level: 19, want: "Advanced"},
		{level: 20, want: "Expert"},
		{level: 30, want: "Master"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Profile{Level: tt.level}.Rank())
		})
	}
}

func TestProfile_Accuracy(t *testing.T) {
	assert.Equal(t, 0, Profile{}.Accuracy())
	assert.Equal(t, 67, Profile{TotalCorrect: 2, TotalIncorrect: 1}.Accuracy())
	assert.Equal(t, 100, Profile{TotalCorrect: 5}.Accuracy())
}

func TestGoalPercent(t *testing.T) {
	assert.Equal(t, 0, GoalPercent(100, 0))
	assert.Equal(t, 50, GoalPercent(1800, 3600))
	assert.Equal(t, 33, GoalPercent(1, 3))
	assert.Equal(t, 100, GoalPercent(7200, 3600))
}

func TestProfile_StudyTime(t *testing.T) {
	// Wednesday
	now := time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)
	profile := Profile{History: []HistoryEntry{
		{Date: time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC), DurationSeconds: 600},
		{Date: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), DurationSeconds: 60},
		{Date: time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC), DurationSeconds: 300},
		{Date: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), DurationSeconds: 120},
		{Date: time.Date(2025, 6, 7, 23, 59, 59, 0, time.UTC), DurationSeconds: 1000},
	}}

	assert.Equal(t, int64(660), profile.TodayStudyTime(now))
	assert.Equal(t, int64(1080), profile.WeekStudyTime(now))
}

func TestProfile_WeekStudyTimeOnSunday(t *testing.T) {
	now := time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC)
	profile := Profile{History: []HistoryEntry{
		{Date: time.Date(2025, 6, 8, 1, 0, 0, 0, time.UTC), DurationSeconds: 30},
		{Date: time.Date(2025, 6, 7, 22, 0, 0, 0, time.UTC), DurationSeconds: 40},
	}}
	assert.Equal(t, int64(30), profile.WeekStudyTime(now))
}

func TestProfile_RecentHistory(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var profile Profile
	for i := 0; i < 12; i++ {
		profile.History = append(profile.History, HistoryEntry{
			Date:    base.Add(time.Duration(i) * time.Hour),
			Correct: i,
		})
	}

	recent := profile.RecentHistory(0)
	assert.Len(t, recent, DefaultRecentHistory)
	assert.Equal(t, 11, recent[0].Correct)
	assert.Equal(t, 2, recent[9].Correct)

	assert.Len(t, profile.RecentHistory(3), 3)
	assert.Equal(t, 0, profile.History[0].Correct)
}
