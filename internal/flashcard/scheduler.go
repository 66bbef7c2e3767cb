package flashcard

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// DaysSince returns the absolute distance between two times in days, rounded up.
// Any partial day counts as a whole one, so a review an hour ago is one day old.
func DaysSince(last, now time.Time) int {
	diff := now.Sub(last)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(day)))
}

// IsDue reports whether the card's box interval has elapsed since its last review.
// Cards that were never reviewed are always due.
func IsDue(card Card, now time.Time) bool {
	if card.LastReviewed == nil {
		return true
	}
	if !card.Box.Valid() {
		return false
	}
	return DaysSince(*card.LastReviewed, now) >= card.Box.IntervalDays()
}

// IsMastered reports whether a box 3 card has gone a full box 3 interval without review.
func IsMastered(card Card, now time.Time) bool {
	if card.Box != MaxBox || card.LastReviewed == nil {
		return false
	}
	return DaysSince(*card.LastReviewed, now) >= MaxBox.IntervalDays()
}

func DueCards(cards []Card, now time.Time) []Card {
	var due []Card
	for _, card := range cards {
		if IsDue(card, now) {
			due = append(due, card)
		}
	}
	return due
}

func CountMastered(cards []Card, now time.Time) int {
	count := 0
	for _, card := range cards {
		if IsMastered(card, now) {
			count++
		}
	}
	return count
}
