package study

import (
	"context"
	"time"

	"github.com/at-ishikawa/leitner/internal/flashcard"
)

// restartTimerLocked cancels the running timer and starts counting from zero for the current card.
func (e *Engine) restartTimerLocked() {
	e.stopTimerLocked()
	e.session.cardSeconds = 0
	if e.state != StateActive || !e.options.TimerEnabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancelTimer = cancel
	generation := e.timerGeneration
	e.timers.Add(1)
	go e.runTimer(ctx, generation, e.options.TickInterval)
}

// stopTimerLocked cancels the running timer. Bumping the generation makes any tick already waiting for the lock a no-op.
func (e *Engine) stopTimerLocked() {
	e.timerGeneration++
	if e.cancelTimer != nil {
		e.cancelTimer()
		e.cancelTimer = nil
	}
}

func (e *Engine) runTimer(ctx context.Context, generation uint64, interval time.Duration) {
	defer e.timers.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.tick(generation) {
				return
			}
		}
	}
}

// tick counts one second for the current card and reveals the answer once the limit is reached.
// It returns false when the timer run is stale.
func (e *Engine) tick(generation uint64) bool {
	e.mu.Lock()
	if generation != e.timerGeneration || e.state != StateActive {
		e.mu.Unlock()
		return false
	}
	e.session.cardSeconds++

	var flipped *flashcard.Card
	if e.session.cardSeconds >= e.options.MaxCardSeconds && !e.session.revealed &&
		e.session.position < len(e.session.cards) {
		e.session.revealed = true
		card := e.session.cards[e.session.position]
		flipped = &card
		e.logger().Debug("Revealed the answer after the time limit", "card_id", card.ID, "seconds", e.session.cardSeconds)
	}
	onAutoFlip := e.options.OnAutoFlip
	e.mu.Unlock()

	if flipped != nil && onAutoFlip != nil {
		onAutoFlip(*flipped)
	}
	return true
}
