package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/storage"
)

const (
	XPCorrectAnswer   = 10
	XPIncorrectAnswer = 2

	xpSessionBase       = 20
	xpSessionPerCorrect = 5
)

var ErrInvalidGoal = errors.New("progress: goal hours and minutes must not be negative")

// SessionSummary is what a completed study session reports.
type SessionSummary struct {
	SessionID       string
	Box             flashcard.Box
	EndedAt         time.Time
	DurationSeconds int64
	Correct         int
	Incorrect       int
	Skipped         int
}

// SessionXP is the bonus granted for completing a session.
func SessionXP(correct int) int {
	return xpSessionBase + xpSessionPerCorrect*correct
}

// Tracker owns the profile record and saves it after every mutation.
type Tracker struct {
	mu      sync.Mutex
	kv      storage.Store
	profile Profile
}

func NewTracker(ctx context.Context, kv storage.Store) (*Tracker, error) {
	profile, found, err := storage.Get[Profile](ctx, kv, storage.KeyUserProfile)
	if err != nil {
		return nil, fmt.Errorf("storage.Get(%s) > %w", storage.KeyUserProfile, err)
	}
	if !found {
		profile = DefaultProfile()
	}
	profile.normalize()
	return &Tracker{
		kv:      kv,
		profile: profile,
	}, nil
}

// Profile returns a copy of the current profile.
func (t *Tracker) Profile() Profile {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.profile.clone()
}

// update applies fn to a copy of the profile and commits it once saved.
func (t *Tracker) update(ctx context.Context, fn func(p *Profile)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	profile := t.profile.clone()
	fn(&profile)
	if err := storage.Put(ctx, t.kv, storage.KeyUserProfile, profile); err != nil {
		return fmt.Errorf("storage.Put(%s) > %w", storage.KeyUserProfile, err)
	}
	t.profile = profile
	return nil
}

// AddXP adds experience and returns the number of levels gained.
func (t *Tracker) AddXP(ctx context.Context, amount int) (int, error) {
	var gained int
	err := t.update(ctx, func(p *Profile) {
		gained = p.addXP(amount)
	})
	if err != nil {
		return 0, err
	}
	t.logLevelUp(gained)
	return gained, nil
}

// RecordAnswer counts an answer in the lifetime totals and grants its XP.
func (t *Tracker) RecordAnswer(ctx context.Context, correct bool) (int, error) {
	var gained int
	err := t.update(ctx, func(p *Profile) {
		if correct {
			p.TotalCorrect++
			gained = p.addXP(XPCorrectAnswer)
		} else {
			p.TotalIncorrect++
			gained = p.addXP(XPIncorrectAnswer)
		}
	})
	if err != nil {
		return 0, err
	}
	t.logLevelUp(gained)
	return gained, nil
}

// RecordSession appends a history entry and adds its duration to the lifetime study time.
func (t *Tracker) RecordSession(ctx context.Context, summary SessionSummary) error {
	return t.update(ctx, func(p *Profile) {
		p.record(summary)
	})
}

// CompleteSession records the session and grants the completion bonus in a single save.
func (t *Tracker) CompleteSession(ctx context.Context, summary SessionSummary) (int, error) {
	var gained int
	err := t.update(ctx, func(p *Profile) {
		p.record(summary)
		gained = p.addXP(SessionXP(summary.Correct))
	})
	if err != nil {
		return 0, err
	}
	slog.Default().Debug("Recorded a study session",
		"session_id", summary.SessionID,
		"box", int(summary.Box),
		"duration", summary.DurationSeconds)
	t.logLevelUp(gained)
	return gained, nil
}

func (p *Profile) record(summary SessionSummary) {
	duration := summary.DurationSeconds
	if duration < 0 {
		duration = 0
	}
	p.TotalStudySeconds += duration
	p.History = append(p.History, HistoryEntry{
		SessionID:       summary.SessionID,
		Date:            summary.EndedAt,
		DurationSeconds: duration,
		Box:             summary.Box,
		Correct:         summary.Correct,
		Incorrect:       summary.Incorrect,
		Skipped:         summary.Skipped,
	})
}

func (t *Tracker) logLevelUp(gained int) {
	if gained == 0 {
		return
	}
	t.mu.Lock()
	level := t.profile.Level
	t.mu.Unlock()
	slog.Default().Info("Level up", "level", level, "gained", gained)
}

func (t *Tracker) SetUsername(ctx context.Context, name string) error {
	return t.update(ctx, func(p *Profile) {
		p.Username = strings.TrimSpace(name)
	})
}

func goalSeconds(hours, minutes int) (int64, error) {
	if hours < 0 || minutes < 0 {
		return 0, ErrInvalidGoal
	}
	return int64(hours)*3600 + int64(minutes)*60, nil
}

func (t *Tracker) SetDailyGoal(ctx context.Context, hours, minutes int) error {
	seconds, err := goalSeconds(hours, minutes)
	if err != nil {
		return err
	}
	return t.update(ctx, func(p *Profile) {
		p.DailyGoalSeconds = seconds
	})
}

func (t *Tracker) SetWeeklyGoal(ctx context.Context, hours, minutes int) error {
	seconds, err := goalSeconds(hours, minutes)
	if err != nil {
		return err
	}
	return t.update(ctx, func(p *Profile) {
		p.WeeklyGoalSeconds = seconds
	})
}

// Replace swaps the whole profile, as an import does.
func (t *Tracker) Replace(ctx context.Context, profile Profile) error {
	profile = profile.clone()
	profile.normalize()
	return t.update(ctx, func(p *Profile) {
		*p = profile
	})
}

// Reset deletes the stored profile and starts over from the defaults.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.kv.Delete(ctx, storage.KeyUserProfile); err != nil {
		return fmt.Errorf("kv.Delete(%s) > %w", storage.KeyUserProfile, err)
	}
	t.profile = DefaultProfile()
	return nil
}
