package config

import (
	"time"
)

type Config struct {
	Server  ServerConfig                `yaml:"server"`
	Log     LogConfig                   `yaml:"log"`
	Web     WebConfig                   `yaml:"web"`
	Auth    AuthConfig                  `yaml:"auth"`
	Cache   CacheConfig                 `yaml:"cache"`
	Decks   DeckStoreConfig             `yaml:"decks"`
	AI      map[string]AIProviderConfig `yaml:"ai"`
	Spotify SpotifyConfig               `yaml:"spotify"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	StaticDir string `yaml:"static_dir"`
}

// AuthConfig drives device token issuance and verification.
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
	Issuer   string        `yaml:"issuer"`
}

type CacheConfig struct {
	Driver     string            `yaml:"driver"`
	DefaultTTL time.Duration     `yaml:"default_ttl"`
	Redis      RedisCacheConfig  `yaml:"redis,omitempty"`
	Memory     MemoryCacheConfig `yaml:"memory,omitempty"`
}

type RedisCacheConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

type MemoryCacheConfig struct {
	GCInterval time.Duration `yaml:"gc_interval"`
}

type DeckStoreConfig struct {
	Driver string           `yaml:"driver"`
	SQLite SQLiteFileConfig `yaml:"sqlite,omitempty"`
}

type SQLiteFileConfig struct {
	DSN string `yaml:"dsn,omitempty"`
}

// AIProviderConfig configures one flashcard generation backend.
type AIProviderConfig struct {
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"url,omitempty"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// SpotifyConfig holds the service-credential pair and endpoints for the
// music catalog integration.
type SpotifyConfig struct {
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	TokenURL     string        `yaml:"token_url"`
	SearchURL    string        `yaml:"search_url"`
	Timeout      time.Duration `yaml:"timeout"`
	SearchLimit  int           `yaml:"search_limit"`
}
