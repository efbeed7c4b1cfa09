// Package flashcardsapi exposes deck generation and retrieval over HTTP.
package flashcardsapi

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"flashcard-server-go/internal/domain/flashcards"
	"flashcard-server-go/internal/platform/errors"
	"flashcard-server-go/internal/platform/logging"
	httptransport "flashcard-server-go/internal/transport/http"
)

type Service struct {
	decks     *flashcards.Service
	validator *httptransport.Validator
	logger    *logging.Logger
}

func NewService(decks *flashcards.Service, validator *httptransport.Validator, logger *logging.Logger) (*Service, error) {
	if decks == nil {
		return nil, errors.New(errors.KindConfig, "flashcardsapi.new", "deck service is required")
	}
	if validator == nil {
		return nil, errors.New(errors.KindConfig, "flashcardsapi.new", "validator is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Service{decks: decks, validator: validator, logger: logger}, nil
}

// Register mounts the flashcard routes on the guarded API group.
func (s *Service) Register(ctx context.Context, router *gin.RouterGroup) error {
	router.POST("/flashcards/generate", s.handleGenerate)
	router.GET("/flashcards/:id", s.handleGet)
	s.logger.InfoTag("HTTP", "flashcard routes registered")
	return nil
}

type generateDeckRequest struct {
	Topic      string `json:"topic" validate:"required"`
	Difficulty string `json:"difficulty" validate:"required,oneof=basic intermediate advanced"`
	Provider   string `json:"provider" validate:"required,oneof=openai gemini"`
}

func (s *Service) handleGenerate(c *gin.Context) {
	var req generateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, s.logger,
			errors.NewBusinessMessage("Invalid request body", http.StatusBadRequest))
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		httptransport.RespondError(c, s.logger, err)
		return
	}

	deviceID := httptransport.DeviceID(c)
	deck, err := s.decks.GenerateDeck(c.Request.Context(), deviceID, req.Topic, req.Difficulty, req.Provider)
	if err != nil {
		httptransport.RespondError(c, s.logger, err)
		return
	}

	httptransport.RespondSuccess(c, http.StatusCreated, deck)
}

func (s *Service) handleGet(c *gin.Context) {
	id := c.Param("id")

	deck, err := s.decks.GetDeck(c.Request.Context(), id)
	if err != nil {
		if stderrors.Is(err, flashcards.ErrDeckNotFound) {
			httptransport.RespondError(c, s.logger,
				errors.NewBusiness(map[string]string{"id": "deck not found"}, http.StatusNotFound))
			return
		}
		httptransport.RespondError(c, s.logger, err)
		return
	}

	httptransport.RespondSuccess(c, http.StatusOK, deck)
}
