package flashcards

import (
	"context"
	"sync"
)

// MemoryStore keeps decks in process memory. Suitable for tests and
// single-node deployments without persistence requirements.
type MemoryStore struct {
	mu    sync.RWMutex
	decks map[string]*Deck
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{decks: make(map[string]*Deck)}
}

func (s *MemoryStore) Save(_ context.Context, deck *Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *deck
	cp.Cards = append([]Flashcard(nil), deck.Cards...)
	s.decks[deck.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deck, ok := s.decks[id]
	if !ok {
		return nil, ErrDeckNotFound
	}
	cp := *deck
	cp.Cards = append([]Flashcard(nil), deck.Cards...)
	return &cp, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks = make(map[string]*Deck)
	return nil
}
