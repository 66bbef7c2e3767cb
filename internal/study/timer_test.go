package study

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/leitner/internal/clock"
	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/progress"
)

type stubCards struct {
	cards []flashcard.Card
}

func (s stubCards) FindByBox(box flashcard.Box) []flashcard.Card {
	return append([]flashcard.Card(nil), s.cards...)
}

func (s stubCards) Review(_ context.Context, id int64, _ flashcard.Outcome) (flashcard.Card, error) {
	for _, card := range s.cards {
		if card.ID == id {
			return card, nil
		}
	}
	return flashcard.Card{}, flashcard.ErrCardNotFound
}

type stubRecorder struct{}

func (stubRecorder) RecordAnswer(context.Context, bool) (int, error) {
	return 0, nil
}

func (stubRecorder) CompleteSession(context.Context, progress.SessionSummary) (int, error) {
	return 0, nil
}

func TestEngine_StaleTickIsIgnored(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(stubCards{cards: []flashcard.Card{{ID: 1, Box: 1}, {ID: 2, Box: 1}}}, stubRecorder{}, clock.System(), Options{
		TimerEnabled:   true,
		MaxCardSeconds: 2,
		TickInterval:   time.Hour,
	})
	require.NoError(t, engine.Start(ctx, 1))

	engine.mu.Lock()
	generation := engine.timerGeneration
	engine.mu.Unlock()

	assert.True(t, engine.tick(generation))
	assert.Equal(t, 1, engine.Snapshot().CardSeconds)

	require.NoError(t, engine.Skip(ctx))
	assert.False(t, engine.tick(generation))
	assert.Equal(t, 0, engine.Snapshot().CardSeconds)

	engine.mu.Lock()
	current := engine.timerGeneration
	engine.mu.Unlock()
	require.NoError(t, engine.Close())
	assert.False(t, engine.tick(current))
	assert.Equal(t, StateIdle, engine.State())
}

func TestEngine_TickRevealsOnce(t *testing.T) {
	ctx := context.Background()
	var flips int
	engine := NewEngine(stubCards{cards: []flashcard.Card{{ID: 1, Box: 1}}}, stubRecorder{}, clock.System(), Options{
		TimerEnabled:   true,
		MaxCardSeconds: 2,
		TickInterval:   time.Hour,
		OnAutoFlip: func(flashcard.Card) {
			flips++
		},
	})
	defer engine.Close()
	require.NoError(t, engine.Start(ctx, 1))

	engine.mu.Lock()
	generation := engine.timerGeneration
	engine.mu.Unlock()

	for i := 0; i < 4; i++ {
		assert.True(t, engine.tick(generation))
	}
	assert.Equal(t, 1, flips)
	assert.True(t, engine.Snapshot().Revealed)
}
