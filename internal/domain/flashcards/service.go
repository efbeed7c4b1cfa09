package flashcards

import (
	"context"

	"github.com/google/uuid"

	"flashcard-server-go/internal/domain/eventbus"
	"flashcard-server-go/internal/platform/errors"
	"flashcard-server-go/internal/platform/logging"
)

// Service coordinates providers, persistence and event publication for
// deck generation.
type Service struct {
	registry *Registry
	store    DeckStore
	bus      *eventbus.AsyncEventBus
	logger   *logging.Logger
}

func NewService(registry *Registry, store DeckStore, bus *eventbus.AsyncEventBus, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Service{
		registry: registry,
		store:    store,
		bus:      bus,
		logger:   logger,
	}
}

// GenerateDeck asks the named provider for cards, persists the resulting
// deck and announces it on the event bus.
func (s *Service) GenerateDeck(ctx context.Context, deviceID, topic, difficulty, providerName string) (*Deck, error) {
	provider, ok := s.registry.Get(providerName)
	if !ok {
		return nil, errors.New(errors.KindProvider, "flashcards.generate", "no such provider: "+providerName)
	}

	cards, err := provider.GenerateFlashcards(ctx, topic, difficulty)
	if err != nil {
		return nil, err
	}

	deck := &Deck{
		ID:         uuid.NewString(),
		Topic:      topic,
		Difficulty: difficulty,
		Cards:      cards,
	}
	if err := s.store.Save(ctx, deck); err != nil {
		return nil, err
	}

	s.logger.InfoTag("flashcards", "deck %s generated for device %s (%d cards, provider %s)",
		deck.ID, deviceID, len(cards), providerName)

	if s.bus != nil {
		s.bus.PublishAsync(eventbus.EventDeckGenerated, eventbus.DeckGeneratedData{
			DeckID:    deck.ID,
			DeviceID:  deviceID,
			Topic:     topic,
			Provider:  providerName,
			CardCount: len(cards),
		})
	}

	return deck, nil
}

// GetDeck loads a stored deck. Returns ErrDeckNotFound for unknown ids.
func (s *Service) GetDeck(ctx context.Context, id string) (*Deck, error) {
	return s.store.Get(ctx, id)
}
