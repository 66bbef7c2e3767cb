package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/study"
	"github.com/at-ishikawa/leitner/internal/testutil"
)

func TestStudyCommand(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("answer a card and finish", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := testutil.SetupTestConfig(t, tmpDir)
		setClock(t, now)
		testutil.SeedCards(t, testutil.DataDirectory(tmpDir), testutil.NewCard(1, "capital of France", "Paris"))

		out, err := executeCommand(t, cfgPath, "\nc\nf\n", "study", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Starting a study session with 1 cards in box 1")
		assert.Contains(t, out, "capital of France")
		assert.Contains(t, out, "Paris")
		assert.Contains(t, out, "Study session complete!")
		assert.Contains(t, out, "Correct: 1, Incorrect: 0, Skipped: 0")

		cards := loadCards(t, tmpDir)
		require.Len(t, cards, 1)
		assert.Equal(t, flashcard.Box(2), cards[0].Box)
		require.NotNil(t, cards[0].LastReviewed)
		assert.True(t, now.Equal(*cards[0].LastReviewed))

		profile := loadProfile(t, tmpDir)
		assert.Equal(t, 1, profile.TotalCorrect)
		assert.Equal(t, 35, profile.XP)
		require.Len(t, profile.History, 1)
		assert.Equal(t, flashcard.Box(1), profile.History[0].Box)
		assert.Equal(t, 1, profile.History[0].Correct)
	})

	t.Run("quit without recording the session", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := testutil.SetupTestConfig(t, tmpDir)
		setClock(t, now)
		testutil.SeedCards(t, testutil.DataDirectory(tmpDir),
			testutil.NewCard(1, "capital of France", "Paris"),
			testutil.NewCard(2, "2 + 2", "4"),
		)

		out, err := executeCommand(t, cfgPath, "s\nq\ny\n", "study", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Skipped")
		assert.Contains(t, out, "Exited the study session")

		for _, card := range loadCards(t, tmpDir) {
			assert.Equal(t, flashcard.MinBox, card.Box)
			assert.Nil(t, card.LastReviewed)
		}
		assert.Empty(t, loadProfile(t, tmpDir).History)
	})

	t.Run("empty box", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := testutil.SetupTestConfig(t, tmpDir)
		testutil.SeedCards(t, testutil.DataDirectory(tmpDir), testutil.NewCard(1, "capital of France", "Paris"))

		_, err := executeCommand(t, cfgPath, "", "study", "2")
		assert.ErrorIs(t, err, study.ErrEmptyBox)
	})

	t.Run("invalid box", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := testutil.SetupTestConfig(t, tmpDir)

		_, err := executeCommand(t, cfgPath, "", "study", "4")
		assert.ErrorIs(t, err, flashcard.ErrInvalidBox)
	})
}
