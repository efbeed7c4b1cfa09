// Package authapi exposes device token issuance over HTTP.
package authapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flashcard-server-go/internal/domain/auth"
	"flashcard-server-go/internal/domain/eventbus"
	"flashcard-server-go/internal/platform/errors"
	"flashcard-server-go/internal/platform/logging"
	httptransport "flashcard-server-go/internal/transport/http"
)

type Service struct {
	codec     *auth.AuthToken
	validator *httptransport.Validator
	bus       *eventbus.AsyncEventBus
	logger    *logging.Logger
}

func NewService(codec *auth.AuthToken, validator *httptransport.Validator, bus *eventbus.AsyncEventBus, logger *logging.Logger) (*Service, error) {
	if codec == nil {
		return nil, errors.New(errors.KindConfig, "authapi.new", "token codec is required")
	}
	if validator == nil {
		return nil, errors.New(errors.KindConfig, "authapi.new", "validator is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Service{codec: codec, validator: validator, bus: bus, logger: logger}, nil
}

// Register mounts the auth routes on the open API group.
func (s *Service) Register(ctx context.Context, router *gin.RouterGroup) error {
	router.POST("/auth/token", s.handleIssueToken)
	s.logger.InfoTag("HTTP", "auth routes registered")
	return nil
}

type issueTokenRequest struct {
	DeviceID string `json:"deviceId" validate:"required,uuid4_strict"`
}

func (s *Service) handleIssueToken(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, s.logger,
			errors.NewBusinessMessage("Invalid request body", http.StatusBadRequest))
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		httptransport.RespondError(c, s.logger, err)
		return
	}

	token, err := s.codec.Issue(req.DeviceID)
	if err != nil {
		httptransport.RespondError(c, s.logger, err)
		return
	}

	s.logger.DebugTag("auth", "token issued for device %s", req.DeviceID)
	if s.bus != nil {
		s.bus.PublishAsync(eventbus.EventTokenIssued, eventbus.TokenIssuedData{
			DeviceID: req.DeviceID,
			IssuedAt: time.Now(),
		})
	}

	httptransport.RespondSuccess(c, http.StatusCreated, gin.H{"token": token})
}
