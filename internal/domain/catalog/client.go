package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flashcard-server-go/internal/platform/config"
	"flashcard-server-go/internal/platform/errors"
	"flashcard-server-go/internal/platform/logging"
)

const defaultSearchLimit = 5

// Client queries the upstream music catalog with a bearer credential
// obtained from the TokenBroker. Search failures propagate unmodified: a
// catalog outage is an internal failure, not something to absorb here.
type Client struct {
	httpClient  *http.Client
	searchURL   string
	searchLimit int
	logger      *logging.Logger
}

// NewClient wires a search client from the spotify configuration block.
func NewClient(cfg config.SpotifyConfig, logger *logging.Logger) (*Client, error) {
	if cfg.SearchURL == "" {
		return nil, errors.New(errors.KindConfig, "catalog.client.new", "search url is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		searchURL:   cfg.SearchURL,
		searchLimit: limit,
		logger:      logger,
	}, nil
}

// SearchByArtist looks up tracks for the given artist name.
func (c *Client) SearchByArtist(ctx context.Context, artist, token string) ([]Song, error) {
	query := url.Values{
		"q":     {artist},
		"type":  {"track"},
		"limit": {strconv.Itoa(c.searchLimit)},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.searchURL+"?"+query.Encode(),
		nil,
	)
	if err != nil {
		return nil, errors.Wrap(errors.KindCatalog, "client.search", "build search request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.KindCatalog, "client.search", "search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.New(
			errors.KindCatalog,
			"client.search",
			fmt.Sprintf("search endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(errors.KindCatalog, "client.search", "decode search response", err)
	}

	songs := make([]Song, 0, len(payload.Tracks.Items))
	for _, item := range payload.Tracks.Items {
		songs = append(songs, item.toSong())
	}

	c.logger.DebugTag("catalog", "search for %q returned %d tracks", artist, len(songs))
	return songs, nil
}
