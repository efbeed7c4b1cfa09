package flashcards

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	platformtesting "flashcard-server-go/internal/platform/testing"
)

func sampleDeck(id string) *Deck {
	return &Deck{
		ID:         id,
		Topic:      "goroutines",
		Difficulty: DifficultyIntermediate,
		Cards: []Flashcard{
			{Question: "q1", Answer: "a1", Difficulty: DifficultyBasic, Tag: "concept"},
			{Question: "q2", Answer: "a2", Difficulty: DifficultyAdvanced, Tag: "warning"},
		},
	}
}

func runStoreTests(t *testing.T, store DeckStore) {
	ctx := context.Background()

	t.Run("save and get round trip", func(t *testing.T) {
		deck := sampleDeck("deck-1")
		platformtesting.AssertNoError(t, store.Save(ctx, deck))

		got, err := store.Get(ctx, "deck-1")
		platformtesting.AssertNoError(t, err)
		platformtesting.AssertEqual(t, deck.Topic, got.Topic)
		platformtesting.AssertEqual(t, deck.Difficulty, got.Difficulty)
		if len(got.Cards) != 2 {
			t.Fatalf("expected 2 cards, got %d", len(got.Cards))
		}
		platformtesting.AssertEqual(t, "q2", got.Cards[1].Question)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Get(ctx, "no-such-deck")
		if !stderrors.Is(err, ErrDeckNotFound) {
			t.Fatalf("expected ErrDeckNotFound, got %v", err)
		}
	})

	t.Run("save overwrites", func(t *testing.T) {
		deck := sampleDeck("deck-2")
		platformtesting.AssertNoError(t, store.Save(ctx, deck))

		deck.Topic = "channels"
		deck.Cards = deck.Cards[:1]
		platformtesting.AssertNoError(t, store.Save(ctx, deck))

		got, err := store.Get(ctx, "deck-2")
		platformtesting.AssertNoError(t, err)
		platformtesting.AssertEqual(t, "channels", got.Topic)
		platformtesting.AssertEqual(t, 1, len(got.Cards))
	})

	t.Run("empty card set survives", func(t *testing.T) {
		deck := &Deck{ID: "deck-3", Topic: "empty", Difficulty: DifficultyBasic, Cards: []Flashcard{}}
		platformtesting.AssertNoError(t, store.Save(ctx, deck))

		got, err := store.Get(ctx, "deck-3")
		platformtesting.AssertNoError(t, err)
		platformtesting.AssertEqual(t, 0, len(got.Cards))
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	runStoreTests(t, store)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	platformtesting.AssertNoError(t, store.Save(ctx, sampleDeck("deck-1")))

	first, err := store.Get(ctx, "deck-1")
	platformtesting.AssertNoError(t, err)
	first.Cards[0].Question = "mutated"
	first.Topic = "mutated"

	second, err := store.Get(ctx, "deck-1")
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertEqual(t, "goroutines", second.Topic)
	platformtesting.AssertEqual(t, "q1", second.Cards[0].Question)
}

func TestSQLiteStore(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	store, err := NewSQLiteStore(SQLiteConfig{DSN: filepath.Join(t.TempDir(), "decks.db")}, logger)
	platformtesting.AssertNoError(t, err)
	defer store.Close()

	runStoreTests(t, store)
}

func TestNewStoreSelectsDriver(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)

	mem, err := NewStore(StoreConfig{Driver: StoreMemory}, logger)
	platformtesting.AssertNoError(t, err)
	if _, ok := mem.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", mem)
	}
	mem.Close()

	def, err := NewStore(StoreConfig{}, logger)
	platformtesting.AssertNoError(t, err)
	if _, ok := def.(*MemoryStore); !ok {
		t.Fatalf("expected memory store for empty driver, got %T", def)
	}
	def.Close()

	sq, err := NewStore(StoreConfig{
		Driver: StoreSQLite,
		SQLite: SQLiteConfig{DSN: filepath.Join(t.TempDir(), "decks.db")},
	}, logger)
	platformtesting.AssertNoError(t, err)
	if _, ok := sq.(*SQLiteStore); !ok {
		t.Fatalf("expected sqlite store, got %T", sq)
	}
	sq.Close()

	if _, err := NewStore(StoreConfig{Driver: "cassandra"}, logger); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
