package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/statistics"
	"github.com/at-ishikawa/leitner/internal/study"
)

// Studier is the study engine as the terminal drives it.
type Studier interface {
	CurrentCard() (flashcard.Card, error)
	Flip() (bool, error)
	MarkCorrect(ctx context.Context) (flashcard.Card, error)
	MarkIncorrect(ctx context.Context) (flashcard.Card, error)
	Skip(ctx context.Context) error
	Exit(confirm func(message string) bool) (bool, error)
	Retry(ctx context.Context) error
	Finish() error
	SetTimerEnabled(enabled bool)
	Snapshot() study.Snapshot
}

const studyHelp = "[enter] flip  [c] correct  [i] incorrect  [s] skip  [t] toggle timer  [q] quit"

// StudySession shows one card per step and applies the typed command to the engine.
type StudySession struct {
	*InteractiveCLI
	engine Studier
	shown  string
}

func NewStudySession(cli *InteractiveCLI, engine Studier) *StudySession {
	return &StudySession{
		InteractiveCLI: cli,
		engine:         engine,
	}
}

// AnnounceAutoFlip prints the answer revealed by the timer. It is safe to call from the timer goroutine.
func (s *StudySession) AnnounceAutoFlip(card flashcard.Card) {
	s.colorPrintf(s.yellow, "\n⏰ Time's up!\n")
	s.printf("Answer: %s\n", s.italic.Sprint(card.Answer))
}

func (s *StudySession) Session(ctx context.Context) error {
	snapshot := s.engine.Snapshot()
	switch snapshot.State {
	case study.StateComplete:
		return s.complete(ctx, snapshot)
	case study.StateIdle:
		return errEnd
	}

	card, err := s.engine.CurrentCard()
	if err != nil {
		return fmt.Errorf("engine.CurrentCard() > %w", err)
	}
	key := fmt.Sprintf("%s/%d", snapshot.ID, snapshot.Position)
	if s.shown != key {
		s.shown = key
		s.showQuestion(snapshot, card)
	}

	command, err := s.Prompt("> ")
	if err != nil {
		return err
	}
	switch strings.ToLower(command) {
	case "", "f":
		revealed, err := s.engine.Flip()
		if err != nil {
			return fmt.Errorf("engine.Flip() > %w", err)
		}
		if revealed {
			s.printf("Answer: %s\n", s.italic.Sprint(card.Answer))
		} else {
			s.printf("Question: %s\n", s.bold.Sprint(card.Question))
		}
	case "c":
		reviewed, err := s.engine.MarkCorrect(ctx)
		if err != nil {
			return fmt.Errorf("engine.MarkCorrect() > %w", err)
		}
		s.colorPrintf(s.green, "✅ Correct. Moved to box %d\n\n", int(reviewed.Box))
	case "i":
		reviewed, err := s.engine.MarkIncorrect(ctx)
		if err != nil {
			return fmt.Errorf("engine.MarkIncorrect() > %w", err)
		}
		s.colorPrintf(s.red, "❌ Incorrect. The answer is %q. Moved to box %d\n\n", card.Answer, int(reviewed.Box))
	case "s":
		if err := s.engine.Skip(ctx); err != nil {
			return fmt.Errorf("engine.Skip() > %w", err)
		}
		s.printf("Skipped\n\n")
	case "t":
		s.engine.SetTimerEnabled(!snapshot.TimerEnabled)
		if snapshot.TimerEnabled {
			s.printf("Timer disabled\n")
		} else {
			s.printf("Timer enabled: %d seconds per card\n", snapshot.MaxCardSeconds)
		}
	case "q":
		exited, err := s.engine.Exit(s.Confirm)
		if err != nil {
			return fmt.Errorf("engine.Exit() > %w", err)
		}
		if exited {
			s.printf("Exited the study session\n")
			return errEnd
		}
	default:
		s.printf("%s\n", studyHelp)
	}
	return nil
}

func (s *StudySession) showQuestion(snapshot study.Snapshot, card flashcard.Card) {
	s.printf("Card %d/%d in box %d", snapshot.Position+1, len(snapshot.Cards), int(snapshot.Box))
	if card.Category != "" {
		s.printf(" [%s]", card.Category)
	}
	if snapshot.TimerEnabled {
		s.printf(" (%ds)", snapshot.MaxCardSeconds)
	}
	s.printf("\n")
	s.printf("Question: %s\n", s.bold.Sprint(card.Question))
	s.printf("%s\n", studyHelp)
}

func (s *StudySession) complete(ctx context.Context, snapshot study.Snapshot) error {
	s.colorPrintf(s.bold, "Study session complete!\n")
	s.printf("Correct: %d, Incorrect: %d, Skipped: %d\n", snapshot.Correct, snapshot.Incorrect, snapshot.Skipped)
	s.printf("Study time: %s\n", statistics.FormatDuration(snapshot.DurationSeconds))

	command, err := s.Prompt("[r] retry  [f] finish: ")
	if err != nil {
		return err
	}
	if strings.ToLower(command) == "r" {
		if err := s.engine.Retry(ctx); err != nil {
			if errors.Is(err, study.ErrEmptyBox) {
				s.printf("No cards left in box %d\n", int(snapshot.Box))
				return s.finish()
			}
			return fmt.Errorf("engine.Retry() > %w", err)
		}
		s.printf("\n")
		return nil
	}
	return s.finish()
}

func (s *StudySession) finish() error {
	if err := s.engine.Finish(); err != nil {
		return fmt.Errorf("engine.Finish() > %w", err)
	}
	s.printf("Study session completed!\n")
	return errEnd
}
