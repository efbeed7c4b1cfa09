package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is consulted when no explicit config path is provided.
const DefaultPath = ".config.yaml"

// Loader reads configuration from an optional yaml file and the process
// environment, in that order. A .env file is loaded first so local
// deployments can keep secrets out of the shell.
type Loader struct {
	path      string
	useDotEnv bool
}

func NewLoader() *Loader {
	return &Loader{
		path:      DefaultPath,
		useDotEnv: true,
	}
}

// WithPath overrides the yaml file location.
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// WithDotEnv toggles loading variables from a .env file.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			// Missing .env is fine, the process environment still applies.
		}
	}

	cfg := Default()

	path := l.path
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		path = env
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	} else {
		path = ""
	}

	applyEnv(cfg)

	return &Result{Config: cfg, Path: path}, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.IP, "APP_IP")
	setInt(&cfg.Server.Port, "APP_PORT")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Dir, "LOG_DIR")
	setString(&cfg.Log.File, "LOG_FILE")

	setString(&cfg.Auth.Secret, "JWT_SECRET")
	setDuration(&cfg.Auth.TokenTTL, "JWT_EXPIRES_IN")

	setString(&cfg.Cache.Driver, "CACHE_DRIVER")
	setDuration(&cfg.Cache.DefaultTTL, "CACHE_DEFAULT_TTL")
	setString(&cfg.Cache.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Cache.Redis.Username, "REDIS_USERNAME")
	setString(&cfg.Cache.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Cache.Redis.DB, "REDIS_DB")

	setString(&cfg.Decks.Driver, "DECK_STORE_DRIVER")
	setString(&cfg.Decks.SQLite.DSN, "DECK_STORE_SQLITE_DSN")

	if cfg.AI != nil {
		openai := cfg.AI[ProviderOpenAI]
		setString(&openai.APIKey, "OPENAI_API_KEY")
		setString(&openai.Model, "OPENAI_MODEL")
		setString(&openai.BaseURL, "OPENAI_BASE_URL")
		cfg.AI[ProviderOpenAI] = openai

		gemini := cfg.AI[ProviderGemini]
		setString(&gemini.APIKey, "GEMINI_API_KEY")
		setString(&gemini.Model, "GEMINI_MODEL")
		setString(&gemini.BaseURL, "GEMINI_BASE_URL")
		cfg.AI[ProviderGemini] = gemini
	}

	setString(&cfg.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	setString(&cfg.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	setString(&cfg.Spotify.TokenURL, "SPOTIFY_TOKEN_URL")
	setString(&cfg.Spotify.SearchURL, "SPOTIFY_SEARCH_URL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
		}
	}
}
