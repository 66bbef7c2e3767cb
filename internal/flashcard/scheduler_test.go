package flashcard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func reviewedAt(t time.Time) *time.Time {
	return &t
}

func TestIsDue(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		card Card
		want bool
	}{
		{
			name: "box 1 reviewed 2 days ago",
			card: Card{Box: 1, LastReviewed: reviewedAt(now.Add(-48 * time.Hour))},
			want: true,
		},
		{
			name: "box 2 reviewed 2 days ago",
			card: Card{Box: 2, LastReviewed: reviewedAt(now.Add(-48 * time.Hour))},
			want: false,
		},
		{
			name: "box 2 reviewed 3 days ago",
			card: Card{Box: 2, LastReviewed: reviewedAt(now.Add(-72 * time.Hour))},
			want: true,
		},
		{
			name: "box 3 never reviewed",
			card: Card{Box: 3},
			want: true,
		},
		{
			name: "box 1 reviewed an hour ago counts as one day",
			card: Card{Box: 1, LastReviewed: reviewedAt(now.Add(-time.Hour))},
			want: true,
		},
		{
			name: "box 1 reviewed just now",
			card: Card{Box: 1, LastReviewed: reviewedAt(now)},
			want: false,
		},
		{
			name: "box 3 reviewed 6 days and 1 hour ago",
			card: Card{Box: 3, LastReviewed: reviewedAt(now.Add(-(6*day + time.Hour)))},
			want: true,
		},
		{
			name: "box 3 reviewed 5 days ago",
			card: Card{Box: 3, LastReviewed: reviewedAt(now.Add(-5 * day))},
			want: false,
		},
		{
			name: "invalid box is never due once reviewed",
			card: Card{Box: 7, LastReviewed: reviewedAt(now.Add(-30 * day))},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDue(tt.card, now))
		})
	}
}

func TestIsMastered(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		card Card
		want bool
	}{
		{
			name: "box 3 reviewed 8 days ago",
			card: Card{Box: 3, LastReviewed: reviewedAt(now.Add(-8 * day))},
			want: true,
		},
		{
			name: "box 3 reviewed yesterday",
			card: Card{Box: 3, LastReviewed: reviewedAt(now.Add(-day))},
			want: false,
		},
		{
			name: "box 3 never reviewed",
			card: Card{Box: 3},
			want: false,
		},
		{
			name: "box 2 reviewed long ago",
			card: Card{Box: 2, LastReviewed: reviewedAt(now.Add(-60 * day))},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMastered(tt.card, now))
		})
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysSince(now, now))
	assert.Equal(t, 1, DaysSince(now.Add(-time.Minute), now))
	assert.Equal(t, 1, DaysSince(now.Add(-day), now))
	assert.Equal(t, 2, DaysSince(now.Add(-day-time.Second), now))
	assert.Equal(t, 1, DaysSince(now.Add(time.Hour), now))
}

func TestDueCardsAndCountMastered(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	cards := []Card{
		{ID: 1, Box: 1},
		{ID: 2, Box: 2, LastReviewed: reviewedAt(now.Add(-day))},
		{ID: 3, Box: 3, LastReviewed: reviewedAt(now.Add(-10 * day))},
	}

	due := DueCards(cards, now)
	assert.Len(t, due, 2)
	assert.Equal(t, int64(1), due[0].ID)
	assert.Equal(t, int64(3), due[1].ID)
	assert.Equal(t, 1, CountMastered(cards, now))
}
