package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeDeviceAccess is the only claim type accepted for authentication.
const TokenTypeDeviceAccess = "device_access"

const defaultTokenTTL = 7 * 24 * time.Hour

// AuthToken signs and verifies device scoped JWT tokens.
type AuthToken struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
}

// NewAuthToken builds a token helper using the provided secret.
func NewAuthToken(secretKey string) *AuthToken {
	return &AuthToken{
		secretKey: []byte(secretKey),
		ttl:       defaultTokenTTL,
		issuer:    "flashcard-server",
	}
}

// WithTTL allows customising the expiration duration.
func (at *AuthToken) WithTTL(ttl time.Duration) *AuthToken {
	if ttl > 0 {
		at.ttl = ttl
	}
	return at
}

// WithIssuer overrides the issuer claim.
func (at *AuthToken) WithIssuer(issuer string) *AuthToken {
	if issuer != "" {
		at.issuer = issuer
	}
	return at
}

// TTL reports the configured token lifetime.
func (at *AuthToken) TTL() time.Duration {
	return at.ttl
}

// Issue signs a device access JWT for the provided device identifier.
func (at *AuthToken) Issue(deviceID string) (string, error) {
	if at == nil || len(at.secretKey) == 0 {
		return "", errors.New("auth token secret is empty")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"device_id": deviceID,
		"type":      TokenTypeDeviceAccess,
		"iss":       at.issuer,
		"iat":       now.Unix(),
		"exp":       now.Add(at.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(at.secretKey)
}

// Verify validates the JWT and extracts the device identifier.
//
// Every failure mode collapses to ok == false: bad signature, expiry,
// malformed input, a non-HMAC algorithm, a wrong claim type or a missing
// device_id. Callers cannot tell the reasons apart, which keeps the token
// structure opaque to probing clients.
func (at *AuthToken) Verify(tokenString string) (string, bool) {
	if at == nil || len(at.secretKey) == 0 {
		return "", false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return at.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeDeviceAccess {
		return "", false
	}
	deviceID, ok := claims["device_id"].(string)
	if !ok || deviceID == "" {
		return "", false
	}
	return deviceID, true
}
