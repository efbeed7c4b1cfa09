package flashcards

import (
	"flashcard-server-go/internal/platform/config"
	"flashcard-server-go/internal/platform/logging"
)

const geminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// NewGeminiProvider builds a provider that talks to Gemini through its
// OpenAI compatible endpoint, so the chat completion plumbing is shared.
func NewGeminiProvider(name string, cfg config.AIProviderConfig, logger *logging.Logger) (*OpenAIProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = geminiOpenAIBaseURL
	}
	return NewOpenAIProvider(name, cfg, logger)
}
