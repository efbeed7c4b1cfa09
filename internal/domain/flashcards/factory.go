package flashcards

import (
	"sort"

	"flashcard-server-go/internal/platform/config"
	"flashcard-server-go/internal/platform/errors"
	"flashcard-server-go/internal/platform/logging"
)

type providerCtor func(name string, cfg config.AIProviderConfig, logger *logging.Logger) (*OpenAIProvider, error)

var providerCtors = map[string]providerCtor{
	config.ProviderOpenAI: NewOpenAIProvider,
	config.ProviderGemini: NewGeminiProvider,
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry instantiates one provider per configured AI block. Unknown
// provider names are a configuration error; blocks without an API key are
// skipped so the server can start with a partial setup.
func NewRegistry(cfgs map[string]config.AIProviderConfig, logger *logging.Logger) (*Registry, error) {
	if logger == nil {
		logger = logging.DefaultLogger
	}
	reg := &Registry{providers: make(map[string]Provider, len(cfgs))}
	for name, cfg := range cfgs {
		ctor, ok := providerCtors[name]
		if !ok {
			return nil, errors.New(errors.KindConfig, "flashcards.registry", "unknown AI provider: "+name)
		}
		if cfg.APIKey == "" {
			logger.WarnTag("flashcards", "provider %s has no api key, skipping", name)
			continue
		}
		p, err := ctor(name, cfg, logger)
		if err != nil {
			return nil, err
		}
		reg.providers[name] = p
	}
	return reg, nil
}

// NewRegistryWithProviders wraps pre-built providers, mainly for wiring
// fakes in tests.
func NewRegistryWithProviders(providers map[string]Provider) *Registry {
	reg := &Registry{providers: make(map[string]Provider, len(providers))}
	for name, p := range providers {
		reg.providers[name] = p
	}
	return reg
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names lists the registered provider names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
