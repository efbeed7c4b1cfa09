package flashcards

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"flashcard-server-go/internal/platform/config"
	"flashcard-server-go/internal/platform/errors"
	"flashcard-server-go/internal/platform/logging"
)

// OpenAIProvider generates flashcards through the OpenAI chat completion
// API, or any endpoint that speaks the same protocol when BaseURL is set.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	name        string
	logger      *logging.Logger
}

// NewOpenAIProvider builds a provider from one AI configuration block.
func NewOpenAIProvider(name string, cfg config.AIProviderConfig, logger *logging.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.KindConfig, "flashcards.provider.new", name+" api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New(errors.KindConfig, "flashcards.provider.new", name+" model is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		name:        name,
		logger:      logger,
	}, nil
}

func (p *OpenAIProvider) GenerateFlashcards(ctx context.Context, topic, difficulty string) ([]Flashcard, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(topic, difficulty),
			},
		},
	}
	if p.maxTokens > 0 {
		req.MaxTokens = p.maxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, errors.Wrap(
			errors.KindProvider,
			"flashcards.generate",
			p.name+" completion failed",
			err,
		)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	cards := ParseFlashcards(content)
	if len(cards) == 0 && content != "" {
		p.logger.WarnTag("flashcards", "%s returned unparseable output for topic %q", p.name, topic)
	}
	return cards, nil
}

func buildPrompt(topic, difficulty string) string {
	return fmt.Sprintf(`Generate between 5 and 8 study flashcards about the topic: %q.

Difficulty: %s.

Answer STRICTLY with a valid JSON array, nothing else. Exact format:
[
  {
    "question": "....",
    "answer": "....",
    "difficulty": "basic|intermediate|advanced",
    "tag": "concept|example|use-case|warning|tip"
  }
]
Do not add any text outside the JSON, no comments, no markdown, no code fences.`, topic, difficulty)
}
