package config

import "time"

// ProviderOpenAI and ProviderGemini are the keys of the AI provider map.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default returns the baseline configuration used before any file or
// environment overrides are applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
		Web: WebConfig{
			Enabled:   true,
			StaticDir: "./web",
		},
		Auth: AuthConfig{
			TokenTTL: 7 * 24 * time.Hour,
			Issuer:   "flashcard-server",
		},
		Cache: CacheConfig{
			Driver:     "memory",
			DefaultTTL: time.Hour,
			Memory: MemoryCacheConfig{
				GCInterval: 5 * time.Minute,
			},
		},
		Decks: DeckStoreConfig{
			Driver: "memory",
			SQLite: SQLiteFileConfig{
				DSN: "decks.db",
			},
		},
		AI: map[string]AIProviderConfig{
			ProviderOpenAI: {
				Model:       "gpt-4o-mini",
				Temperature: 0.7,
				Timeout:     30 * time.Second,
			},
			ProviderGemini: {
				Model:       "gemini-2.5-flash",
				BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai/",
				Temperature: 0.7,
				Timeout:     30 * time.Second,
			},
		},
		Spotify: SpotifyConfig{
			TokenURL:    "https://accounts.spotify.com/api/token",
			SearchURL:   "https://api.spotify.com/v1/search",
			Timeout:     10 * time.Second,
			SearchLimit: 5,
		},
	}
}
