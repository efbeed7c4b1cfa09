// Package karaokeapi exposes the song catalog search over HTTP.
package karaokeapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"flashcard-server-go/internal/domain/catalog"
	"flashcard-server-go/internal/domain/eventbus"
	"flashcard-server-go/internal/platform/errors"
	"flashcard-server-go/internal/platform/logging"
	httptransport "flashcard-server-go/internal/transport/http"
)

// AccessTokenProvider hands out a valid catalog access token.
type AccessTokenProvider interface {
	GetAccessToken(ctx context.Context) (string, error)
}

// SongRepository searches the upstream catalog.
type SongRepository interface {
	SearchByArtist(ctx context.Context, artist, accessToken string) ([]catalog.Song, error)
}

type Service struct {
	tokens    AccessTokenProvider
	songs     SongRepository
	validator *httptransport.Validator
	bus       *eventbus.AsyncEventBus
	logger    *logging.Logger
}

func NewService(tokens AccessTokenProvider, songs SongRepository, validator *httptransport.Validator, bus *eventbus.AsyncEventBus, logger *logging.Logger) (*Service, error) {
	if tokens == nil {
		return nil, errors.New(errors.KindConfig, "karaokeapi.new", "access token provider is required")
	}
	if songs == nil {
		return nil, errors.New(errors.KindConfig, "karaokeapi.new", "song repository is required")
	}
	if validator == nil {
		return nil, errors.New(errors.KindConfig, "karaokeapi.new", "validator is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Service{tokens: tokens, songs: songs, validator: validator, bus: bus, logger: logger}, nil
}

// Register mounts the karaoke routes on the guarded API group.
func (s *Service) Register(ctx context.Context, router *gin.RouterGroup) error {
	router.GET("/karaoke/search", s.handleSearch)
	s.logger.InfoTag("HTTP", "karaoke routes registered")
	return nil
}

type searchSongsRequest struct {
	Artist string `form:"artist" json:"artist" validate:"required,max=100"`
}

func (s *Service) handleSearch(c *gin.Context) {
	req := searchSongsRequest{Artist: c.Query("artist")}
	if err := s.validator.Struct(&req); err != nil {
		httptransport.RespondError(c, s.logger, err)
		return
	}

	deviceID := httptransport.DeviceID(c)
	s.logger.DebugTag("karaoke", "device %s is searching for songs by %q", deviceID, req.Artist)

	token, err := s.tokens.GetAccessToken(c.Request.Context())
	if err != nil {
		httptransport.RespondError(c, s.logger, err)
		return
	}

	songs, err := s.songs.SearchByArtist(c.Request.Context(), req.Artist, token)
	if err != nil {
		httptransport.RespondError(c, s.logger, err)
		return
	}

	if s.bus != nil {
		s.bus.PublishAsync(eventbus.EventSearchCompleted, eventbus.SearchCompletedData{
			DeviceID: deviceID,
			Artist:   req.Artist,
			Results:  len(songs),
		})
	}

	httptransport.RespondSuccess(c, http.StatusOK, songs)
}
