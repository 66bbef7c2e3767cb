package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/testutil"
)

func TestCardsCommands(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	setClock(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	out, err := executeCommand(t, cfgPath, "", "cards", "add", "capital of France", "Paris", "--category", "geography")
	require.NoError(t, err)
	assert.Contains(t, out, "Added card 1 to box 1")

	out, err = executeCommand(t, cfgPath, "", "cards", "add", "2 + 2", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Added card 2 to box 1")

	out, err = executeCommand(t, cfgPath, "", "cards", "edit", "1", "--answer", "Paris, France")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated card 1")

	out, err = executeCommand(t, cfgPath, "", "cards", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Paris, France")
	assert.Contains(t, out, "geography")
	assert.Contains(t, out, "2 + 2")

	out, err = executeCommand(t, cfgPath, "", "cards", "delete", "2", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted card 2")

	out, err = executeCommand(t, cfgPath, "", "cards", "list", "--box", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "No cards found")

	cards := loadCards(t, tmpDir)
	require.Len(t, cards, 1)
	assert.Equal(t, int64(1), cards[0].ID)
	assert.Equal(t, "capital of France", cards[0].Question)
	assert.Equal(t, "Paris, France", cards[0].Answer)
	assert.Equal(t, "geography", cards[0].Category)
	assert.Equal(t, flashcard.MinBox, cards[0].Box)
	assert.Nil(t, cards[0].LastReviewed)
}

func TestCardsDeleteCommand(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		wantCards int
		wantOut   string
	}{
		{
			name:      "declined",
			stdin:     "n\n",
			wantCards: 1,
			wantOut:   "Canceled",
		},
		{
			name:      "no answer",
			stdin:     "",
			wantCards: 1,
			wantOut:   "Canceled",
		},
		{
			name:      "confirmed",
			stdin:     "y\n",
			wantCards: 0,
			wantOut:   "Deleted card 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			cfgPath := testutil.SetupTestConfig(t, tmpDir)
			testutil.SeedCards(t, testutil.DataDirectory(tmpDir), testutil.NewCard(1, "capital of France", "Paris"))

			out, err := executeCommand(t, cfgPath, tt.stdin, "cards", "delete", "1")
			require.NoError(t, err)
			assert.Contains(t, out, `Delete card 1 "capital of France"?`)
			assert.Contains(t, out, tt.wantOut)
			assert.Len(t, loadCards(t, tmpDir), tt.wantCards)
		})
	}
}

func TestCardsCommands_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty question",
			args:    []string{"cards", "add", "  ", "Paris"},
			wantErr: flashcard.ErrEmptyCardText,
		},
		{
			name:    "edit unknown card",
			args:    []string{"cards", "edit", "99", "--answer", "x"},
			wantErr: flashcard.ErrCardNotFound,
		},
		{
			name:    "delete unknown card",
			args:    []string{"cards", "delete", "99"},
			wantErr: flashcard.ErrCardNotFound,
		},
		{
			name:    "invalid id",
			args:    []string{"cards", "delete", "abc"},
			wantMsg: "invalid card id",
		},
		{
			name:    "invalid box",
			args:    []string{"cards", "list", "--box", "4"},
			wantMsg: "invalid box",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			cfgPath := testutil.SetupTestConfig(t, tmpDir)

			_, err := executeCommand(t, cfgPath, "", tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			assert.Empty(t, loadCards(t, tmpDir))
		})
	}
}

func TestDueCommand(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	setClock(t, now)

	testutil.SeedCards(t, testutil.DataDirectory(tmpDir),
		testutil.NewCard(1, "due question", "due answer", testutil.WithLastReviewed(now.AddDate(0, 0, -2))),
		testutil.NewCard(2, "resting question", "resting answer",
			testutil.WithBox(flashcard.MaxBox), testutil.WithLastReviewed(now.AddDate(0, 0, -1))),
	)

	out, err := executeCommand(t, cfgPath, "", "due")
	require.NoError(t, err)
	assert.Contains(t, out, "1 cards are due today")
	assert.Contains(t, out, "due question")
	assert.NotContains(t, out, "resting question")
}
