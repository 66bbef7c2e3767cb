// Package storage provides the key-value persistence used for flashcards, the profile and settings.
package storage

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Record keys. Each one is an independent record.
const (
	KeyFlashcards   = "flashcards"
	KeyUserProfile  = "userProfile"
	KeyTimerEnabled = "timerEnabled"
	KeyMaxCardTime  = "maxCardTime"
	KeyDarkMode     = "darkMode"
)

// AllKeys lists every key written by the application.
var AllKeys = []string{
	KeyFlashcards,
	KeyUserProfile,
	KeyTimerEnabled,
	KeyMaxCardTime,
	KeyDarkMode,
}

var ErrNotFound = errors.New("storage: record not found")

//go:generate mockgen -source=store.go -destination=../mocks/storage/mock_store.go -package=mock_storage Store

// Store is a key-value persistence provider.
// Load returns ErrNotFound when the key has never been saved.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Get decodes the YAML record stored under key into T.
// The boolean is false when the key does not exist.
func Get[T any](ctx context.Context, store Store, key string) (T, bool, error) {
	var result T
	data, err := store.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return result, false, nil
	}
	if err != nil {
		return result, false, fmt.Errorf("store.Load(%s) > %w", key, err)
	}
	if err := yaml.Unmarshal(data, &result); err != nil {
		return result, false, fmt.Errorf("yaml.Unmarshal(%s) > %w", key, err)
	}
	return result, true, nil
}

// Put encodes value as YAML and saves it under key.
func Put[T any](ctx context.Context, store Store, key string, value T) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("yaml.Marshal(%s) > %w", key, err)
	}
	if err := store.Save(ctx, key, data); err != nil {
		return fmt.Errorf("store.Save(%s) > %w", key, err)
	}
	return nil
}
