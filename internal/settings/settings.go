// Package settings stores the study preferences: the per-card timer and the display theme.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/at-ishikawa/leitner/internal/storage"
)

const (
	MinCardSeconds        = 5
	MaxCardSeconds        = 120
	DefaultMaxCardSeconds = 30
)

var ErrInvalidCardTime = fmt.Errorf("settings: card time must be between %d and %d seconds", MinCardSeconds, MaxCardSeconds)

type Settings struct {
	TimerEnabled   bool `json:"timerEnabled"`
	MaxCardSeconds int  `json:"maxCardTime"`
	DarkMode       bool `json:"darkMode"`
}

func Default() Settings {
	return Settings{
		TimerEnabled:   true,
		MaxCardSeconds: DefaultMaxCardSeconds,
	}
}

func ValidateMaxCardSeconds(seconds int) error {
	if seconds < MinCardSeconds || seconds > MaxCardSeconds {
		return fmt.Errorf("%w: got %d", ErrInvalidCardTime, seconds)
	}
	return nil
}

func (s Settings) Validate() error {
	return ValidateMaxCardSeconds(s.MaxCardSeconds)
}

// Repository reads and writes each setting under its own key.
// A key that was never written falls back to the configured default.
type Repository struct {
	kv       storage.Store
	defaults Settings
}

func NewRepository(kv storage.Store, defaults Settings) *Repository {
	return &Repository{
		kv:       kv,
		defaults: defaults,
	}
}

func (r *Repository) Load(ctx context.Context) (Settings, error) {
	result := r.defaults

	timerEnabled, found, err := storage.Get[bool](ctx, r.kv, storage.KeyTimerEnabled)
	if err != nil {
		return Settings{}, fmt.Errorf("storage.Get(%s) > %w", storage.KeyTimerEnabled, err)
	}
	if found {
		result.TimerEnabled = timerEnabled
	}

	maxCardSeconds, found, err := storage.Get[int](ctx, r.kv, storage.KeyMaxCardTime)
	if err != nil {
		return Settings{}, fmt.Errorf("storage.Get(%s) > %w", storage.KeyMaxCardTime, err)
	}
	if found && ValidateMaxCardSeconds(maxCardSeconds) == nil {
		result.MaxCardSeconds = maxCardSeconds
	}

	darkMode, found, err := storage.Get[bool](ctx, r.kv, storage.KeyDarkMode)
	if err != nil {
		return Settings{}, fmt.Errorf("storage.Get(%s) > %w", storage.KeyDarkMode, err)
	}
	if found {
		result.DarkMode = darkMode
	}
	return result, nil
}

func (r *Repository) SetTimerEnabled(ctx context.Context, enabled bool) error {
	return storage.Put(ctx, r.kv, storage.KeyTimerEnabled, enabled)
}

func (r *Repository) SetMaxCardSeconds(ctx context.Context, seconds int) error {
	if err := ValidateMaxCardSeconds(seconds); err != nil {
		return err
	}
	return storage.Put(ctx, r.kv, storage.KeyMaxCardTime, seconds)
}

func (r *Repository) SetDarkMode(ctx context.Context, enabled bool) error {
	return storage.Put(ctx, r.kv, storage.KeyDarkMode, enabled)
}

// Save writes every setting, as an import does.
func (r *Repository) Save(ctx context.Context, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return errors.Join(
		r.SetTimerEnabled(ctx, s.TimerEnabled),
		r.SetMaxCardSeconds(ctx, s.MaxCardSeconds),
		r.SetDarkMode(ctx, s.DarkMode),
	)
}

// Reset deletes every stored setting so the defaults apply again.
func (r *Repository) Reset(ctx context.Context) error {
	if err := r.kv.Delete(ctx, storage.KeyTimerEnabled, storage.KeyMaxCardTime, storage.KeyDarkMode); err != nil {
		return fmt.Errorf("kv.Delete() > %w", err)
	}
	return nil
}
