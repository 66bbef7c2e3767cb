// Package backup exports and imports every flashcard, the profile and the settings as one JSON document.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/progress"
	"github.com/at-ishikawa/leitner/internal/settings"
)

var ErrImportFormat = errors.New("backup: invalid data format")

type Bundle struct {
	Flashcards  []flashcard.Card   `json:"flashcards"`
	UserProfile progress.Profile   `json:"userProfile"`
	Settings    *settings.Settings `json:"settings,omitempty"`
}

type ImportOptions struct {
	// DryRun validates the document without applying it.
	DryRun bool
}

type ImportResult struct {
	Cards           int
	Sessions        int
	SettingsApplied bool
	DryRun          bool
}

// DefaultFileName is the export file name for the day of now.
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("leitner_system_backup_%s.json", now.UTC().Format("2006-01-02"))
}

type Service struct {
	cards    *flashcard.Store
	tracker  *progress.Tracker
	settings *settings.Repository
}

func NewService(cards *flashcard.Store, tracker *progress.Tracker, settingsRepository *settings.Repository) *Service {
	return &Service{
		cards:    cards,
		tracker:  tracker,
		settings: settingsRepository,
	}
}

func (s *Service) Export(ctx context.Context, w io.Writer) error {
	current, err := s.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("settings.Load() > %w", err)
	}
	cards := s.cards.List()
	if cards == nil {
		cards = []flashcard.Card{}
	}
	profile := s.tracker.Profile()
	if profile.History == nil {
		profile.History = []progress.HistoryEntry{}
	}
	bundle := Bundle{
		Flashcards:  cards,
		UserProfile: profile,
		Settings:    &current,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(bundle); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	return nil
}

// Import replaces the cards and the profile, and the settings when the document has them.
// Nothing is applied when the document is invalid.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	current, err := s.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("settings.Load() > %w", err)
	}
	bundle, err := decode(r, current)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Cards:           len(bundle.Flashcards),
		Sessions:        len(bundle.UserProfile.History),
		SettingsApplied: bundle.Settings != nil,
		DryRun:          opts.DryRun,
	}
	if opts.DryRun {
		return result, nil
	}

	if err := s.cards.Replace(ctx, bundle.Flashcards); err != nil {
		return nil, fmt.Errorf("cards.Replace() > %w", err)
	}
	if err := s.tracker.Replace(ctx, bundle.UserProfile); err != nil {
		return nil, fmt.Errorf("tracker.Replace() > %w", err)
	}
	if bundle.Settings != nil {
		if err := s.settings.Save(ctx, *bundle.Settings); err != nil {
			return nil, fmt.Errorf("settings.Save() > %w", err)
		}
	}
	slog.Default().InfoContext(ctx, "Imported a backup",
		"cards", result.Cards,
		"sessions", result.Sessions,
		"settings", result.SettingsApplied)
	return result, nil
}

func isMissing(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decode reads and validates a backup document. Settings fields missing from the document keep their current values.
func decode(r io.Reader, current settings.Settings) (*Bundle, error) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportFormat, err)
	}
	if isMissing(fields["flashcards"]) || isMissing(fields["userProfile"]) {
		return nil, fmt.Errorf("%w: flashcards and userProfile are required", ErrImportFormat)
	}

	var bundle Bundle
	if err := json.Unmarshal(fields["flashcards"], &bundle.Flashcards); err != nil {
		return nil, fmt.Errorf("%w: flashcards: %w", ErrImportFormat, err)
	}
	for _, card := range bundle.Flashcards {
		if !card.Box.Valid() {
			return nil, fmt.Errorf("%w: card %d: %w", ErrImportFormat, card.ID, flashcard.ErrInvalidBox)
		}
	}
	if id, ok := flashcard.DuplicateID(bundle.Flashcards); ok {
		return nil, fmt.Errorf("%w: card %d: %w", ErrImportFormat, id, flashcard.ErrDuplicateID)
	}

	bundle.UserProfile = progress.DefaultProfile()
	if err := json.Unmarshal(fields["userProfile"], &bundle.UserProfile); err != nil {
		return nil, fmt.Errorf("%w: userProfile: %w", ErrImportFormat, err)
	}

	if !isMissing(fields["settings"]) {
		imported := current
		if err := json.Unmarshal(fields["settings"], &imported); err != nil {
			return nil, fmt.Errorf("%w: settings: %w", ErrImportFormat, err)
		}
		if err := imported.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrImportFormat, err)
		}
		bundle.Settings = &imported
	}
	return &bundle, nil
}
