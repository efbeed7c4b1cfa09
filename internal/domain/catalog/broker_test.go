package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"flashcard-server-go/internal/domain/cache"
	"flashcard-server-go/internal/platform/config"
)

func newTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c := cache.NewMemory(cache.Config{DefaultTTL: time.Minute}, nil)
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c
}

func tokenServer(t *testing.T, calls *atomic.Int64, expiresIn int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Errorf("unexpected basic auth: %s / %s / %v", user, pass, ok)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("unexpected grant_type %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"token-%d","token_type":"Bearer","expires_in":%d}`, calls.Load(), expiresIn)
	}))
	t.Cleanup(server.Close)
	return server
}

func testSpotifyConfig(tokenURL string) config.SpotifyConfig {
	return config.SpotifyConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TokenURL:     tokenURL,
		SearchURL:    "http://unused",
		Timeout:      2 * time.Second,
	}
}

func TestGetAccessTokenCacheAside(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	server := tokenServer(t, &calls, 3600)

	broker, err := NewTokenBroker(testSpotifyConfig(server.URL), newTestCache(t), nil)
	if err != nil {
		t.Fatalf("NewTokenBroker error: %v", err)
	}

	first, err := broker.GetAccessToken(ctx)
	if err != nil {
		t.Fatalf("first GetAccessToken error: %v", err)
	}
	second, err := broker.GetAccessToken(ctx)
	if err != nil {
		t.Fatalf("second GetAccessToken error: %v", err)
	}

	if first != second {
		t.Fatalf("expected cached token, got %q then %q", first, second)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", calls.Load())
	}
}

func TestGetAccessTokenAppliesSafetyMargin(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	// 61s lifetime leaves a 1s cached TTL after the 60s margin.
	server := tokenServer(t, &calls, 61)

	store := newTestCache(t)
	broker, err := NewTokenBroker(testSpotifyConfig(server.URL), store, nil)
	if err != nil {
		t.Fatalf("NewTokenBroker error: %v", err)
	}

	if _, err := broker.GetAccessToken(ctx); err != nil {
		t.Fatalf("GetAccessToken error: %v", err)
	}
	if _, ok := store.Get(ctx, AccessTokenCacheKey); !ok {
		t.Fatal("expected credential to be cached")
	}

	time.Sleep(1100 * time.Millisecond)

	if _, ok := store.Get(ctx, AccessTokenCacheKey); ok {
		t.Fatal("cached credential must expire after the margined ttl")
	}
	if _, err := broker.GetAccessToken(ctx); err != nil {
		t.Fatalf("refresh after expiry error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected a second upstream call after expiry, got %d", calls.Load())
	}
}

func TestGetAccessTokenSkipsCachingShortLivedCredential(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	// 30s lifetime clamps the margined TTL to zero: never cached.
	server := tokenServer(t, &calls, 30)

	store := newTestCache(t)
	broker, err := NewTokenBroker(testSpotifyConfig(server.URL), store, nil)
	if err != nil {
		t.Fatalf("NewTokenBroker error: %v", err)
	}

	if _, err := broker.GetAccessToken(ctx); err != nil {
		t.Fatalf("GetAccessToken error: %v", err)
	}
	if _, ok := store.Get(ctx, AccessTokenCacheKey); ok {
		t.Fatal("short lived credential must not be cached")
	}

	if _, err := broker.GetAccessToken(ctx); err != nil {
		t.Fatalf("second GetAccessToken error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected upstream call per request, got %d", calls.Load())
	}
}

func TestGetAccessTokenSingleFlightUnderConcurrentMisses(t *testing.T) {
	ctx := context.Background()

	var calls atomic.Int64
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"shared","token_type":"Bearer","expires_in":3600}`)
	}))
	t.Cleanup(server.Close)

	broker, err := NewTokenBroker(testSpotifyConfig(server.URL), newTestCache(t), nil)
	if err != nil {
		t.Fatalf("NewTokenBroker error: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], errs[n] = broker.GetAccessToken(ctx)
		}(i)
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d error: %v", i, errs[i])
		}
		if results[i] != "shared" {
			t.Fatalf("worker %d got %q", i, results[i])
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream refresh for concurrent misses, got %d", calls.Load())
	}
}

func TestGetAccessTokenPropagatesUpstreamFailure(t *testing.T) {
	ctx := context.Background()
	var status atomic.Int64
	status.Store(http.StatusInternalServerError)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code := int(status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"recovered","token_type":"Bearer","expires_in":3600}`)
	}))
	t.Cleanup(server.Close)

	store := newTestCache(t)
	broker, err := NewTokenBroker(testSpotifyConfig(server.URL), store, nil)
	if err != nil {
		t.Fatalf("NewTokenBroker error: %v", err)
	}

	if _, err := broker.GetAccessToken(ctx); err == nil {
		t.Fatal("expected upstream failure to propagate")
	}
	if _, ok := store.Get(ctx, AccessTokenCacheKey); ok {
		t.Fatal("failed refresh must not cache anything")
	}

	// The flight must be released after the failure: a later call succeeds.
	status.Store(http.StatusOK)
	token, err := broker.GetAccessToken(ctx)
	if err != nil {
		t.Fatalf("recovery call error: %v", err)
	}
	if token != "recovered" {
		t.Fatalf("unexpected token %q", token)
	}
}
