package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"flashcard-server-go/internal/domain/cache"
	"flashcard-server-go/internal/platform/config"
	"flashcard-server-go/internal/platform/errors"
	"flashcard-server-go/internal/platform/logging"
)

// AccessTokenCacheKey is the single credential slot shared by all requests.
const AccessTokenCacheKey = "spotify:access_token"

// ttlSafetyMargin shortens the cached TTL relative to the credential's real
// expiry so a cache hit is always still valid when consumed.
const ttlSafetyMargin = 60 * time.Second

// TokenBroker acquires the upstream service credential with a cache-aside
// read path. Concurrent cache misses are collapsed into one upstream call
// through a singleflight group keyed on the credential slot.
type TokenBroker struct {
	cache        cache.Cache
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	logger       *logging.Logger
	flight       singleflight.Group
}

// NewTokenBroker wires a broker from the spotify configuration block.
func NewTokenBroker(cfg config.SpotifyConfig, store cache.Cache, logger *logging.Logger) (*TokenBroker, error) {
	if store == nil {
		return nil, errors.New(errors.KindConfig, "catalog.broker.new", "cache is required")
	}
	if cfg.TokenURL == "" {
		return nil, errors.New(errors.KindConfig, "catalog.broker.new", "token url is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &TokenBroker{
		cache:        store,
		httpClient:   &http.Client{Timeout: timeout},
		tokenURL:     cfg.TokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		logger:       logger,
	}, nil
}

// GetAccessToken returns a currently valid access token for the upstream
// catalog. A cache hit is trusted without re-checking expiry because the
// stored TTL already subtracts the safety margin. Upstream failures are not
// swallowed: the caller cannot proceed without a credential.
func (b *TokenBroker) GetAccessToken(ctx context.Context) (string, error) {
	if token, ok := b.cache.Get(ctx, AccessTokenCacheKey); ok {
		return token, nil
	}

	value, err, _ := b.flight.Do(AccessTokenCacheKey, func() (interface{}, error) {
		return b.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

func (b *TokenBroker) refresh(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		b.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", errors.Wrap(errors.KindCatalog, "broker.refresh", "build token request", err)
	}
	req.SetBasicAuth(b.clientID, b.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.KindCatalog, "broker.refresh", "token request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.New(
			errors.KindCatalog,
			"broker.refresh",
			fmt.Sprintf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		)
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(errors.KindCatalog, "broker.refresh", "decode token response", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New(errors.KindCatalog, "broker.refresh", "token response missing access_token")
	}

	ttl := time.Duration(payload.ExpiresIn)*time.Second - ttlSafetyMargin
	if ttl > 0 {
		b.cache.Set(ctx, AccessTokenCacheKey, payload.AccessToken, ttl)
	} else {
		b.logger.WarnTag(
			"catalog",
			"credential lifetime %ds is within the safety margin, not caching",
			payload.ExpiresIn,
		)
	}

	b.logger.DebugTag("catalog", "refreshed service credential, expires in %ds", payload.ExpiresIn)
	return payload.AccessToken, nil
}
