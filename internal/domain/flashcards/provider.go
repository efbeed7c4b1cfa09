package flashcards

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates study flashcards for a topic. Implementations return
// transport errors (network, auth, rate limits) as errors, but absorb
// malformed model output into an empty slice: a model that rambles instead
// of emitting JSON is not a reason to fail the request.
type Provider interface {
	GenerateFlashcards(ctx context.Context, topic, difficulty string) ([]Flashcard, error)
}

// ParseFlashcards decodes the model's reply into cards. Anything that is
// not a JSON array of card objects yields an empty slice.
func ParseFlashcards(content string) []Flashcard {
	content = strings.TrimSpace(content)
	if content == "" {
		return []Flashcard{}
	}

	var cards []Flashcard
	if err := json.Unmarshal([]byte(content), &cards); err != nil || cards == nil {
		return []Flashcard{}
	}
	return cards
}
