// Package testutil provides shared test helpers for creating config files and card fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/progress"
	"github.com/at-ishikawa/leitner/internal/storage"
)

// SetupTestConfig creates a config file that keeps every record as YAML under tmpDir/data
// and writes reports to tmpDir/reports. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	for _, d := range []string{"data", "reports"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`storage:
  driver: yaml
  directory: %s
  retry:
    attempts: 1
    delay_ms: 0
study:
  timer_enabled: false
  max_card_seconds: 30
outputs:
  report_directory: %s
`,
		DataDirectory(tmpDir),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// DataDirectory returns the record directory used by SetupTestConfig.
func DataDirectory(tmpDir string) string {
	return filepath.Join(tmpDir, "data")
}

// CardOption configures a card fixture.
type CardOption func(*flashcard.Card)

// WithBox places the card in box.
func WithBox(box flashcard.Box) CardOption {
	return func(card *flashcard.Card) {
		card.Box = box
	}
}

// WithLastReviewed stamps the card as reviewed at the given time.
func WithLastReviewed(at time.Time) CardOption {
	return func(card *flashcard.Card) {
		card.LastReviewed = &at
	}
}

// NewCard builds a never-reviewed box-1 card. Use options to override.
func NewCard(id int64, question, answer string, opts ...CardOption) flashcard.Card {
	card := flashcard.Card{
		ID:       id,
		Question: question,
		Answer:   answer,
		Box:      flashcard.MinBox,
		Created:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&card)
	}
	return card
}

// SeedCards writes cards as the flashcards record of the YAML store in directory.
func SeedCards(t *testing.T, directory string, cards ...flashcard.Card) {
	t.Helper()

	store, err := storage.NewFileStore(directory)
	require.NoError(t, err)
	require.NoError(t, storage.Put(context.Background(), store, storage.KeyFlashcards, cards))
}

// SeedProfile writes profile as the userProfile record of the YAML store in directory.
func SeedProfile(t *testing.T, directory string, profile progress.Profile) {
	t.Helper()

	store, err := storage.NewFileStore(directory)
	require.NoError(t, err)
	require.NoError(t, storage.Put(context.Background(), store, storage.KeyUserProfile, profile))
}
