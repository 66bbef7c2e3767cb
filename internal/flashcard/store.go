package flashcard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/at-ishikawa/leitner/internal/clock"
	"github.com/at-ishikawa/leitner/internal/storage"
)

// UpsertMode tells Store.Upsert whether to create a new card or edit an existing one.
type UpsertMode struct {
	edit bool
	id   int64
}

func Create() UpsertMode {
	return UpsertMode{}
}

func Edit(id int64) UpsertMode {
	return UpsertMode{edit: true, id: id}
}

func (m UpsertMode) IsEdit() bool {
	return m.edit
}

// CardInput holds the user-editable fields of a card.
type CardInput struct {
	Question string
	Answer   string
	Category string
}

func (in CardInput) normalize() (CardInput, error) {
	in.Question = strings.TrimSpace(in.Question)
	in.Answer = strings.TrimSpace(in.Answer)
	in.Category = strings.TrimSpace(in.Category)
	if in.Question == "" || in.Answer == "" {
		return in, ErrEmptyCardText
	}
	return in, nil
}

// Store owns the flashcard collection and persists it under storage.KeyFlashcards after every change.
// A mutation is committed in memory only after it was saved.
type Store struct {
	mu     sync.RWMutex
	kv     storage.Store
	clock  clock.Clock
	cards  []Card
	nextID int64
}

func NewStore(ctx context.Context, kv storage.Store, clk clock.Clock) (*Store, error) {
	cards, _, err := storage.Get[[]Card](ctx, kv, storage.KeyFlashcards)
	if err != nil {
		return nil, fmt.Errorf("storage.Get(%s) > %w", storage.KeyFlashcards, err)
	}
	for i := range cards {
		if !cards[i].Box.Valid() {
			slog.Default().Warn("Card has an invalid box, moving it to box 1",
				"id", cards[i].ID,
				"box", int(cards[i].Box))
			cards[i].Box = MinBox
		}
	}
	renumberDuplicates(cards)
	return &Store{
		kv:     kv,
		clock:  clk,
		cards:  cards,
		nextID: nextID(cards),
	}, nil
}

func nextID(cards []Card) int64 {
	var maxID int64
	for _, card := range cards {
		if card.ID > maxID {
			maxID = card.ID
		}
	}
	return maxID + 1
}

// renumberDuplicates gives every card whose id was already seen a fresh id above the current maximum.
func renumberDuplicates(cards []Card) {
	next := nextID(cards)
	seen := make(map[int64]struct{}, len(cards))
	for i := range cards {
		if _, ok := seen[cards[i].ID]; ok {
			slog.Default().Warn("Card has a duplicate id, assigning a new one",
				"id", cards[i].ID,
				"newID", next)
			cards[i].ID = next
			next++
		}
		seen[cards[i].ID] = struct{}{}
	}
}

// DuplicateID returns the first id used by more than one card.
func DuplicateID(cards []Card) (int64, bool) {
	seen := make(map[int64]struct{}, len(cards))
	for _, card := range cards {
		if _, ok := seen[card.ID]; ok {
			return card.ID, true
		}
		seen[card.ID] = struct{}{}
	}
	return 0, false
}

func cloneCards(cards []Card) []Card {
	result := make([]Card, len(cards))
	for i, card := range cards {
		result[i] = card.clone()
	}
	return result
}

func (s *Store) indexOf(id int64) int {
	for i, card := range s.cards {
		if card.ID == id {
			return i
		}
	}
	return -1
}

// commit saves cards and replaces the in-memory collection once the save succeeded.
func (s *Store) commit(ctx context.Context, cards []Card) error {
	if err := storage.Put(ctx, s.kv, storage.KeyFlashcards, cards); err != nil {
		return fmt.Errorf("storage.Put(%s) > %w", storage.KeyFlashcards, err)
	}
	s.cards = cards
	return nil
}

// List returns every card in creation order.
func (s *Store) List() []Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCards(s.cards)
}

func (s *Store) Get(id int64) (Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return Card{}, fmt.Errorf("%w: id %d", ErrCardNotFound, id)
	}
	return s.cards[i].clone(), nil
}

// FindByBox returns every card currently in the box regardless of its due date.
func (s *Store) FindByBox(box Box) []Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []Card
	for _, card := range s.cards {
		if card.Box == box {
			result = append(result, card.clone())
		}
	}
	return result
}

func (s *Store) BoxCounts() map[Box]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[Box]int, len(Boxes))
	for _, box := range Boxes {
		counts[box] = 0
	}
	for _, card := range s.cards {
		counts[card.Box]++
	}
	return counts
}

// Upsert creates a card in box 1 or edits the text of an existing card.
// Editing never changes the box or the review date.
func (s *Store) Upsert(ctx context.Context, mode UpsertMode, input CardInput) (Card, error) {
	input, err := input.normalize()
	if err != nil {
		return Card{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cards := cloneCards(s.cards)
	var card Card
	if mode.edit {
		i := s.indexOf(mode.id)
		if i < 0 {
			return Card{}, fmt.Errorf("%w: id %d", ErrCardNotFound, mode.id)
		}
		cards[i].Question = input.Question
		cards[i].Answer = input.Answer
		cards[i].Category = input.Category
		card = cards[i]
	} else {
		card = Card{
			ID:       s.nextID,
			Question: input.Question,
			Answer:   input.Answer,
			Category: input.Category,
			Box:      MinBox,
			Created:  s.clock.Now(),
		}
		cards = append(cards, card)
	}

	if err := s.commit(ctx, cards); err != nil {
		return Card{}, err
	}
	if !mode.edit {
		s.nextID++
	}
	return card.clone(), nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: id %d", ErrCardNotFound, id)
	}
	cards := make([]Card, 0, len(s.cards)-1)
	cards = append(cards, cloneCards(s.cards[:i])...)
	cards = append(cards, cloneCards(s.cards[i+1:])...)
	return s.commit(ctx, cards)
}

// Review applies an answer to the stored card and stamps its review date.
func (s *Store) Review(ctx context.Context, id int64, outcome Outcome) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Card{}, fmt.Errorf("%w: id %d", ErrCardNotFound, id)
	}
	cards := cloneCards(s.cards)
	cards[i] = cards[i].review(outcome, s.clock.Now())
	if err := s.commit(ctx, cards); err != nil {
		return Card{}, err
	}
	return cards[i].clone(), nil
}

// Replace swaps the whole collection, as an import does.
func (s *Store) Replace(ctx context.Context, cards []Card) error {
	for _, card := range cards {
		if !card.Box.Valid() {
			return fmt.Errorf("%w: card %d has box %d", ErrInvalidBox, card.ID, int(card.Box))
		}
	}
	if id, ok := DuplicateID(cards); ok {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cards = cloneCards(cards)
	if err := s.commit(ctx, cards); err != nil {
		return err
	}
	if id := nextID(cards); id > s.nextID {
		s.nextID = id
	}
	return nil
}

// Reset deletes every card.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, storage.KeyFlashcards); err != nil {
		return fmt.Errorf("kv.Delete(%s) > %w", storage.KeyFlashcards, err)
	}
	s.cards = nil
	return nil
}
