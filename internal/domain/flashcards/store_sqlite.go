package flashcards

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"flashcard-server-go/internal/platform/errors"
	"flashcard-server-go/internal/platform/logging"
)

type deckRecord struct {
	ID         string `gorm:"primaryKey;size:36"`
	Topic      string `gorm:"size:255;index"`
	Difficulty string `gorm:"size:32"`
	Cards      datatypes.JSON
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (deckRecord) TableName() string { return "decks" }

// SQLiteStore persists decks in a sqlite database through gorm.
type SQLiteStore struct {
	db     *gorm.DB
	logger *logging.Logger
}

func NewSQLiteStore(cfg SQLiteConfig, logger *logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.DefaultLogger
	}
	dsn := cfg.DSN
	if dsn == "" {
		dsn = "decks.db"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "flashcards.store.sqlite", "open database", err)
	}
	if err := db.AutoMigrate(&deckRecord{}); err != nil {
		return nil, errors.Wrap(errors.KindStorage, "flashcards.store.sqlite", "migrate schema", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, deck *Deck) error {
	cards, err := json.Marshal(deck.Cards)
	if err != nil {
		return errors.Wrap(errors.KindStorage, "flashcards.store.save", "encode cards", err)
	}
	rec := deckRecord{
		ID:         deck.ID,
		Topic:      deck.Topic,
		Difficulty: deck.Difficulty,
		Cards:      datatypes.JSON(cards),
	}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "flashcards.store.save", "persist deck", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Deck, error) {
	var rec deckRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, errors.Wrap(errors.KindStorage, "flashcards.store.get", "load deck", err)
	}

	deck := &Deck{
		ID:         rec.ID,
		Topic:      rec.Topic,
		Difficulty: rec.Difficulty,
	}
	if len(rec.Cards) > 0 {
		if err := json.Unmarshal(rec.Cards, &deck.Cards); err != nil {
			return nil, errors.Wrap(errors.KindStorage, "flashcards.store.get", "decode cards", err)
		}
	}
	return deck, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
