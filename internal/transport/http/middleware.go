package httptransport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"flashcard-server-go/internal/domain/auth"
	"flashcard-server-go/internal/platform/errors"
)

const deviceIDKey = "device_id"

const bearerPrefix = "Bearer "

// AuthMiddleware admits only requests carrying a verifiable device token.
// Every rejection is a 401 fail envelope; the message never reveals which
// verification step failed beyond the three coarse branches below.
func AuthMiddleware(codec *auth.AuthToken) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		deviceID, ok := codec.Verify(token)
		if !ok {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		if deviceID == "" {
			// guards against a token schema change slipping past Verify
			abortUnauthorized(c, "Invalid token payload: missing deviceId")
			return
		}

		c.Set(deviceIDKey, deviceID)
		c.Next()
	}
}

// DeviceID returns the authenticated device id attached by AuthMiddleware.
func DeviceID(c *gin.Context) string {
	return c.GetString(deviceIDKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	be := errors.NewBusinessMessage(message, http.StatusUnauthorized)
	RespondFail(c, be.StatusCode, be.Messages)
	c.Abort()
}
