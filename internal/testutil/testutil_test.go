package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/progress"
	"github.com/at-ishikawa/leitner/internal/storage"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	want := filepath.Join(tmpDir, "config.yml")
	assert.Equal(t, want, got)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(content), "driver: yaml")
	assert.Contains(t, string(content), DataDirectory(tmpDir))

	for _, d := range []string{"data", "reports"} {
		info, err := os.Stat(filepath.Join(tmpDir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestNewCard(t *testing.T) {
	reviewed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		opts []CardOption
		want flashcard.Card
	}{
		{
			name: "defaults to a new card",
			want: flashcard.Card{
				ID: 1, Question: "Q", Answer: "A",
				Box:     flashcard.MinBox,
				Created: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "with box and review time",
			opts: []CardOption{WithBox(flashcard.MaxBox), WithLastReviewed(reviewed)},
			want: flashcard.Card{
				ID: 1, Question: "Q", Answer: "A",
				Box:          flashcard.MaxBox,
				Created:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				LastReviewed: &reviewed,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCard(1, "Q", "A", tt.opts...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeed(t *testing.T) {
	directory := t.TempDir()
	cards := []flashcard.Card{
		NewCard(1, "capital of France", "Paris"),
		NewCard(2, "2 + 2", "4", WithBox(2)),
	}
	SeedCards(t, directory, cards...)

	profile := progress.DefaultProfile()
	profile.Username = "tester"
	SeedProfile(t, directory, profile)

	store, err := storage.NewFileStore(directory)
	require.NoError(t, err)

	gotCards, ok, err := storage.Get[[]flashcard.Card](context.Background(), store, storage.KeyFlashcards)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cards, gotCards)

	gotProfile, ok, err := storage.Get[progress.Profile](context.Background(), store, storage.KeyUserProfile)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tester", gotProfile.Username)
}
