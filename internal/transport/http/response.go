package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"flashcard-server-go/internal/platform/errors"
	"flashcard-server-go/internal/platform/logging"
)

// Envelope status values. Every response body is exactly one of
// {status, data} for success and fail, or {status, message} for error.
const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

const errorMessagePrefix = "Consult support for error"

// RespondSuccess writes a success envelope.
func RespondSuccess(c *gin.Context, httpStatus int, data interface{}) {
	c.JSON(httpStatus, gin.H{
		"status": statusSuccess,
		"data":   data,
	})
}

// RespondFail writes a fail envelope carrying a business error object.
func RespondFail(c *gin.Context, httpStatus int, data interface{}) {
	c.JSON(httpStatus, gin.H{
		"status": statusFail,
		"data":   data,
	})
}

// RespondError translates any handler error into the wire envelope. A
// BusinessError becomes a fail envelope with its own HTTP status. Anything
// else is logged in full with a generated correlation id and surfaced as an
// error envelope whose message carries the same id, so a support request can
// be matched to the log line without exposing internals.
func RespondError(c *gin.Context, logger *logging.Logger, err error) {
	if be, ok := errors.AsBusiness(err); ok {
		RespondFail(c, be.StatusCode, be.Messages)
		return
	}

	correlationID := uuid.NewString()
	if logger != nil {
		logger.ErrorTag("HTTP", "[%s] %s %s failed: %v",
			correlationID, c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  statusError,
		"message": errorMessagePrefix + ": " + correlationID + ": " + err.Error(),
	})
}
