package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/leitner/internal/cli"
	"github.com/at-ishikawa/leitner/internal/flashcard"
)

func newCardsCommand() *cobra.Command {
	cardsCmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage flashcards",
	}

	cardsCmd.AddCommand(newCardsAddCommand())
	cardsCmd.AddCommand(newCardsEditCommand())
	cardsCmd.AddCommand(newCardsDeleteCommand())
	cardsCmd.AddCommand(newCardsListCommand())
	return cardsCmd
}

func newCardsAddCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Add a card to box 1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				card, err := app.cards.Upsert(ctx, flashcard.Create(), flashcard.CardInput{
					Question: args[0],
					Answer:   args[1],
					Category: category,
				})
				if err != nil {
					return fmt.Errorf("cards.Upsert() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added card %d to box %d\n", card.ID, int(card.Box))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category of the card")
	return cmd
}

func newCardsEditCommand() *cobra.Command {
	var question, answer, category string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit the text of a card without changing its box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				current, err := app.cards.Get(id)
				if err != nil {
					return fmt.Errorf("cards.Get() > %w", err)
				}
				input := flashcard.CardInput{
					Question: current.Question,
					Answer:   current.Answer,
					Category: current.Category,
				}
				if cmd.Flags().Changed("question") {
					input.Question = question
				}
				if cmd.Flags().Changed("answer") {
					input.Answer = answer
				}
				if cmd.Flags().Changed("category") {
					input.Category = category
				}

				card, err := app.cards.Upsert(ctx, flashcard.Edit(id), input)
				if err != nil {
					return fmt.Errorf("cards.Upsert() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated card %d\n", card.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&question, "question", "", "new question")
	cmd.Flags().StringVar(&answer, "answer", "", "new answer")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	return cmd
}

func newCardsDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				card, err := app.cards.Get(id)
				if err != nil {
					return fmt.Errorf("cards.Get() > %w", err)
				}
				if !yes {
					prompt := cli.NewInteractiveCLI(cmd.InOrStdin(), cmd.OutOrStdout())
					if !prompt.Confirm(fmt.Sprintf("Delete card %d %q?", card.ID, card.Question)) {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Canceled")
						return nil
					}
				}
				if err := app.cards.Delete(ctx, id); err != nil {
					return fmt.Errorf("cards.Delete() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func newCardsListCommand() *cobra.Command {
	var box flashcard.Box

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApplication(cmd, func(ctx context.Context, app *application) error {
				cards := app.cards.List()
				if box.Valid() {
					cards = app.cards.FindByBox(box)
				}
				if len(cards) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No cards found")
					return nil
				}
				writeCards(cmd, cards, app.clock.Now())
				return nil
			})
		},
	}
	cmd.Flags().Var(&box, "box", "only list cards in this box (1-3)")
	return cmd
}

func writeCards(cmd *cobra.Command, cards []flashcard.Card, now time.Time) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tBOX\tDUE\tCATEGORY\tQUESTION\tANSWER")
	for _, card := range cards {
		due := "no"
		if flashcard.IsDue(card, now) {
			due = "yes"
		}
		_, _ = fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", card.ID, int(card.Box), due, card.Category, card.Question, card.Answer)
	}
	_ = w.Flush()
}
