package flashcards

import (
	"context"

	"flashcard-server-go/internal/platform/errors"
	"flashcard-server-go/internal/platform/logging"
)

// Store driver names accepted in configuration.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// ErrDeckNotFound is returned by DeckStore.Get for unknown deck ids.
var ErrDeckNotFound = errors.New(errors.KindStorage, "flashcards.store", "deck not found")

// DeckStore persists generated decks.
type DeckStore interface {
	Save(ctx context.Context, deck *Deck) error
	Get(ctx context.Context, id string) (*Deck, error)
	Close() error
}

// StoreConfig selects and configures a deck store backend.
type StoreConfig struct {
	Driver string
	SQLite SQLiteConfig
}

// SQLiteConfig holds the sqlite backend settings.
type SQLiteConfig struct {
	DSN string
}

// NewStore builds a deck store from configuration.
func NewStore(cfg StoreConfig, logger *logging.Logger) (DeckStore, error) {
	switch cfg.Driver {
	case StoreMemory, "":
		return NewMemoryStore(), nil
	case StoreSQLite:
		return NewSQLiteStore(cfg.SQLite, logger)
	default:
		return nil, errors.New(errors.KindConfig, "flashcards.store.new", "unknown deck store driver: "+cfg.Driver)
	}
}
