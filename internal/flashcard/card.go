// Package flashcard owns flashcards, their Leitner box state and the due-date rules.
package flashcard

import (
	"errors"
	"time"
)

var (
	ErrCardNotFound  = errors.New("flashcard: card not found")
	ErrEmptyCardText = errors.New("flashcard: question and answer are required")
	ErrInvalidBox    = errors.New("flashcard: invalid box")
	ErrDuplicateID   = errors.New("flashcard: duplicate card id")
)

type Card struct {
	ID           int64      `yaml:"id" json:"id"`
	Question     string     `yaml:"question" json:"question"`
	Answer       string     `yaml:"answer" json:"answer"`
	Category     string     `yaml:"category,omitempty" json:"category"`
	Box          Box        `yaml:"box" json:"box"`
	Created      time.Time  `yaml:"created" json:"created"`
	LastReviewed *time.Time `yaml:"last_reviewed" json:"lastReviewed"`
}

// Outcome is the result of answering a card during a study session.
type Outcome int

const (
	OutcomeCorrect Outcome = iota + 1
	OutcomeIncorrect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// review returns the card after an answer given at the specified time.
// A correct answer promotes by one box, capped at MaxBox. An incorrect answer always goes back to MinBox.
func (c Card) review(outcome Outcome, at time.Time) Card {
	switch outcome {
	case OutcomeCorrect:
		c.Box = c.Box.Next()
	case OutcomeIncorrect:
		c.Box = MinBox
	}
	reviewed := at
	c.LastReviewed = &reviewed
	return c
}

func (c Card) clone() Card {
	if c.LastReviewed != nil {
		v := *c.LastReviewed
		c.LastReviewed = &v
	}
	return c
}
