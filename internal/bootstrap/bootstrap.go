// Package bootstrap owns the lifetime of the resources a command opens.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
)

// App releases registered resources when a command ends or is interrupted.
type App struct {
	mu    sync.Mutex
	hooks []namedHook
	done  bool
}

type namedHook struct {
	name string
	fn   func(ctx context.Context) error
}

func New() *App {
	return &App{}
}

// AddShutdownHook registers fn under name. Hooks run in reverse order of registration.
// A hook added after Shutdown runs immediately.
func (a *App) AddShutdownHook(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	if !a.done {
		a.hooks = append(a.hooks, namedHook{name: name, fn: fn})
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	if err := fn(context.Background()); err != nil {
		slog.Default().Warn("shutdown hook failed", "hook", name, "error", err)
	}
}

// Run executes run until it returns or the process receives an interrupt.
// Shutdown hooks run in both cases and their errors are joined with the run error.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Default().Debug("interrupted, shutting down")
	case runErr = <-errCh:
	}
	return errors.Join(runErr, a.Shutdown(context.Background()))
}

// Shutdown runs the registered hooks once, last registered first.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if a.done {
		a.mu.Unlock()
		return nil
	}
	a.done = true
	hooks := a.hooks
	a.hooks = nil
	a.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i].fn(ctx); err != nil {
			slog.Default().Warn("shutdown hook failed", "hook", hooks[i].name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
