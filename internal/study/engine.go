// Package study runs Leitner study sessions over the cards of one box.
package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/leitner/internal/clock"
	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/progress"
	"github.com/at-ishikawa/leitner/internal/settings"
)

var (
	ErrEmptyBox        = errors.New("study: no cards in the box")
	ErrSessionComplete = errors.New("study: no cards left in the session")
	ErrNoActiveSession = errors.New("study: no active session")
	ErrNotComplete     = errors.New("study: session is not complete")
)

// ExitMessage is passed to the confirmation prompt when a session is abandoned.
const ExitMessage = "Are you sure you want to exit this study session? Your progress will not be saved."

type State int

const (
	StateIdle State = iota
	StateActive
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

//go:generate mockgen -source=engine.go -destination=../mocks/study/mock_engine.go -package=mock_study CardRepository ProgressRecorder

// CardRepository is the part of the card store a session needs.
type CardRepository interface {
	FindByBox(box flashcard.Box) []flashcard.Card
	Review(ctx context.Context, id int64, outcome flashcard.Outcome) (flashcard.Card, error)
}

// ProgressRecorder is the part of the progress tracker a session reports to.
type ProgressRecorder interface {
	RecordAnswer(ctx context.Context, correct bool) (int, error)
	CompleteSession(ctx context.Context, summary progress.SessionSummary) (int, error)
}

type Options struct {
	TimerEnabled   bool
	MaxCardSeconds int
	// TickInterval is how often the per-card timer counts one second. Defaults to time.Second.
	TickInterval time.Duration
	// OnAutoFlip is called outside the engine lock when the timer reveals an answer.
	OnAutoFlip func(card flashcard.Card)
	Shuffle    func(n int, swap func(i, j int))
	NewID      func() string
}

func (o Options) withDefaults() Options {
	if o.MaxCardSeconds <= 0 {
		o.MaxCardSeconds = settings.DefaultMaxCardSeconds
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.Shuffle == nil {
		o.Shuffle = rand.Shuffle
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

type session struct {
	id          string
	box         flashcard.Box
	cards       []flashcard.Card
	position    int
	correct     int
	incorrect   int
	skipped     int
	startedAt   time.Time
	endedAt     time.Time
	duration    int64
	cardSeconds int
	revealed    bool
}

// Engine is the study state machine: Idle, Active, Complete and back to Idle.
// Every operation holds one lock for its whole duration, including persistence.
type Engine struct {
	mu       sync.Mutex
	cards    CardRepository
	progress ProgressRecorder
	clock    clock.Clock
	options  Options

	state   State
	session session

	timerGeneration uint64
	cancelTimer     context.CancelFunc
	timers          sync.WaitGroup
}

func NewEngine(cards CardRepository, recorder ProgressRecorder, clk clock.Clock, options Options) *Engine {
	return &Engine{
		cards:    cards,
		progress: recorder,
		clock:    clk,
		options:  options.withDefaults(),
	}
}

func (e *Engine) logger() *slog.Logger {
	return slog.Default().With("session_id", e.session.id, "box", int(e.session.box))
}

// Start begins a session over every card in the box, due or not, in shuffled order.
func (e *Engine) Start(ctx context.Context, box flashcard.Box) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(ctx, box)
}

func (e *Engine) startLocked(ctx context.Context, box flashcard.Box) error {
	if !box.Valid() {
		return fmt.Errorf("%w: %d", flashcard.ErrInvalidBox, int(box))
	}
	cards := e.cards.FindByBox(box)
	if len(cards) == 0 {
		return fmt.Errorf("%w: box %d", ErrEmptyBox, int(box))
	}
	shuffleCards(cards, e.options.Shuffle)

	if e.state == StateActive {
		e.logger().WarnContext(ctx, "Abandoning the active session")
	}
	e.stopTimerLocked()
	e.session = session{
		id:        e.options.NewID(),
		box:       box,
		cards:     cards,
		startedAt: e.clock.Now(),
	}
	e.state = StateActive
	e.restartTimerLocked()
	e.logger().InfoContext(ctx, "Started a study session", "cards", len(cards))
	return nil
}

// shuffleCards reorders cards in place with shuffle, so the result is a permutation of its input.
func shuffleCards(cards []flashcard.Card, shuffle func(n int, swap func(i, j int))) {
	shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Retry starts a new session over the same box from the completion screen.
func (e *Engine) Retry(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.id == "" {
		return ErrNoActiveSession
	}
	if e.state != StateComplete {
		return ErrNotComplete
	}
	return e.startLocked(ctx, e.session.box)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) checkActiveLocked() error {
	switch e.state {
	case StateActive:
		return nil
	case StateComplete:
		return ErrSessionComplete
	default:
		return ErrNoActiveSession
	}
}

func (e *Engine) CurrentCard() (flashcard.Card, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLocked()
}

func (e *Engine) currentLocked() (flashcard.Card, error) {
	if err := e.checkActiveLocked(); err != nil {
		return flashcard.Card{}, err
	}
	if e.session.position >= len(e.session.cards) {
		return flashcard.Card{}, ErrSessionComplete
	}
	return e.session.cards[e.session.position], nil
}

// Flip toggles whether the answer of the current card is shown and returns the new state.
func (e *Engine) Flip() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.currentLocked(); err != nil {
		return false, err
	}
	e.session.revealed = !e.session.revealed
	return e.session.revealed, nil
}

// MarkCorrect promotes the current card and moves to the next one.
func (e *Engine) MarkCorrect(ctx context.Context) (flashcard.Card, error) {
	return e.answer(ctx, flashcard.OutcomeCorrect)
}

// MarkIncorrect sends the current card back to box 1 and moves to the next one.
func (e *Engine) MarkIncorrect(ctx context.Context) (flashcard.Card, error) {
	return e.answer(ctx, flashcard.OutcomeIncorrect)
}

func (e *Engine) answer(ctx context.Context, outcome flashcard.Outcome) (flashcard.Card, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	card, err := e.currentLocked()
	if err != nil {
		return flashcard.Card{}, err
	}
	reviewed, err := e.cards.Review(ctx, card.ID, outcome)
	if err != nil {
		return flashcard.Card{}, fmt.Errorf("cards.Review(%d) > %w", card.ID, err)
	}

	correct := outcome == flashcard.OutcomeCorrect
	if correct {
		e.session.correct++
	} else {
		e.session.incorrect++
	}
	e.session.cards[e.session.position] = reviewed
	e.logger().DebugContext(ctx, "Answered a card", "card_id", card.ID, "outcome", outcome.String(), "new_box", int(reviewed.Box))

	var errs []error
	if _, err := e.progress.RecordAnswer(ctx, correct); err != nil {
		errs = append(errs, fmt.Errorf("progress.RecordAnswer() > %w", err))
	}
	if err := e.advanceLocked(ctx); err != nil {
		errs = append(errs, err)
	}
	return reviewed, errors.Join(errs...)
}

// Skip moves to the next card without touching the current one.
func (e *Engine) Skip(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.currentLocked(); err != nil {
		return err
	}
	e.session.skipped++
	return e.advanceLocked(ctx)
}

func (e *Engine) advanceLocked(ctx context.Context) error {
	e.session.position++
	e.session.revealed = false
	if e.session.position < len(e.session.cards) {
		e.restartTimerLocked()
		return nil
	}
	return e.completeLocked(ctx)
}

func (e *Engine) completeLocked(ctx context.Context) error {
	e.stopTimerLocked()
	e.session.endedAt = e.clock.Now()
	duration := e.session.endedAt.Sub(e.session.startedAt)
	if duration < 0 {
		duration = 0
	}
	e.session.duration = int64(duration / time.Second)
	e.state = StateComplete

	summary := progress.SessionSummary{
		SessionID:       e.session.id,
		Box:             e.session.box,
		EndedAt:         e.session.endedAt,
		DurationSeconds: e.session.duration,
		Correct:         e.session.correct,
		Incorrect:       e.session.incorrect,
		Skipped:         e.session.skipped,
	}
	e.logger().InfoContext(ctx, "Completed a study session",
		"correct", summary.Correct,
		"incorrect", summary.Incorrect,
		"skipped", summary.Skipped,
		"duration", summary.DurationSeconds)
	if _, err := e.progress.CompleteSession(ctx, summary); err != nil {
		return fmt.Errorf("progress.CompleteSession() > %w", err)
	}
	return nil
}

// Exit abandons the active session once confirm returns true. Nothing is recorded for an abandoned session.
// confirm is called without holding the engine lock.
func (e *Engine) Exit(confirm func(message string) bool) (bool, error) {
	e.mu.Lock()
	if e.state != StateActive {
		e.mu.Unlock()
		return false, ErrNoActiveSession
	}
	id := e.session.id
	e.mu.Unlock()

	if confirm != nil && !confirm(ExitMessage) {
		return false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive || e.session.id != id {
		return false, ErrNoActiveSession
	}
	e.stopTimerLocked()
	e.state = StateIdle
	e.logger().Info("Exited a study session", "position", e.session.position)
	return true, nil
}

// Finish leaves the completion screen.
func (e *Engine) Finish() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateComplete {
		return ErrNotComplete
	}
	e.state = StateIdle
	return nil
}

// SetTimerEnabled turns the per-card timer on or off for the current and later sessions.
func (e *Engine) SetTimerEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.options.TimerEnabled = enabled
	if enabled {
		e.restartTimerLocked()
	} else {
		e.stopTimerLocked()
	}
}

// Progress returns how many cards were answered or skipped, and the size of the working set.
func (e *Engine) Progress() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.position, len(e.session.cards)
}

type Snapshot struct {
	ID              string
	State           State
	Box             flashcard.Box
	Cards           []flashcard.Card
	Position        int
	Correct         int
	Incorrect       int
	Skipped         int
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int64
	CardSeconds     int
	TimerEnabled    bool
	MaxCardSeconds  int
	Revealed        bool
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		ID:              e.session.id,
		State:           e.state,
		Box:             e.session.box,
		Cards:           append([]flashcard.Card(nil), e.session.cards...),
		Position:        e.session.position,
		Correct:         e.session.correct,
		Incorrect:       e.session.incorrect,
		Skipped:         e.session.skipped,
		StartedAt:       e.session.startedAt,
		EndedAt:         e.session.endedAt,
		DurationSeconds: e.session.duration,
		CardSeconds:     e.session.cardSeconds,
		TimerEnabled:    e.options.TimerEnabled,
		MaxCardSeconds:  e.options.MaxCardSeconds,
		Revealed:        e.session.revealed,
	}
}

// Close stops the timer and discards an active session. It waits for the timer goroutine to return.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.stopTimerLocked()
	if e.state == StateActive {
		e.logger().Info("Discarding the active session on close", "position", e.session.position)
		e.state = StateIdle
	}
	e.mu.Unlock()

	e.timers.Wait()
	return nil
}
