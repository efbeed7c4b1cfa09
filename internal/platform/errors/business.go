package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// BusinessError is a structured, caller-facing failure: validation errors,
// admission rejections and domain rule violations. It maps field names to
// human-readable messages and carries the HTTP status the transport layer
// should answer with. Anything that is not a BusinessError is treated as an
// unexpected internal failure at the response boundary.
type BusinessError struct {
	Messages   map[string]string
	StatusCode int
}

func (e *BusinessError) Error() string {
	fields := make([]string, 0, len(e.Messages))
	for field := range e.Messages {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Messages[field])
	}
	return "business error: " + strings.Join(parts, "; ")
}

// NewBusiness builds a BusinessError from a field-message map. A zero status
// defaults to 400.
func NewBusiness(messages map[string]string, statusCode int) *BusinessError {
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	return &BusinessError{
		Messages:   messages,
		StatusCode: statusCode,
	}
}

// NewBusinessMessage builds a BusinessError carrying a single message under
// the "message" key, for failures that are not tied to one input field.
func NewBusinessMessage(message string, statusCode int) *BusinessError {
	return NewBusiness(map[string]string{"message": message}, statusCode)
}

// AsBusiness extracts a BusinessError from anywhere in the chain.
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
