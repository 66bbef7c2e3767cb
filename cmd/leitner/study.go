package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/leitner/internal/cli"
	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/study"
)

func newStudyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "study <box>",
		Short: "Study every card in a box (1-3)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := flashcard.ParseBox(args[0])
			if err != nil {
				return err
			}
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				return runStudy(ctx, cmd, app, box)
			})
		},
	}
}

func runStudy(ctx context.Context, cmd *cobra.Command, app *application, box flashcard.Box) error {
	current, err := app.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("settings.Load() > %w", err)
	}

	interactiveCLI := cli.NewInteractiveCLI(cmd.InOrStdin(), cmd.OutOrStdout())
	var session *cli.StudySession
	engine := study.NewEngine(app.cards, app.tracker, app.clock, study.Options{
		TimerEnabled:   current.TimerEnabled,
		MaxCardSeconds: current.MaxCardSeconds,
		OnAutoFlip: func(card flashcard.Card) {
			session.AnnounceAutoFlip(card)
		},
	})
	session = cli.NewStudySession(interactiveCLI, engine)
	app.lifecycle.AddShutdownHook("study engine", func(ctx context.Context) error {
		return engine.Close()
	})

	if err := engine.Start(ctx, box); err != nil {
		if errors.Is(err, study.ErrEmptyBox) {
			return fmt.Errorf("box %d has no cards: %w", int(box), err)
		}
		return fmt.Errorf("engine.Start() > %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting a study session with %d cards in box %d\n\n", len(engine.Snapshot().Cards), int(box))
	return interactiveCLI.Run(ctx, session)
}

func newDueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List the cards due for review today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				now := app.clock.Now()
				due := flashcard.DueCards(app.cards.List(), now)
				if len(due) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No cards are due today")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d cards are due today\n", len(due))
				writeCards(cmd, due, now)
				return nil
			})
		},
	}
}
