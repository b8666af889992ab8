package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pharaohs/pitchside/internal/domain"
)

// Category groups HTTP failures by how the client reacts to them
type Category string

const (
	CategoryUnauthenticated Category = "UNAUTHENTICATED"
	CategoryForbidden       Category = "FORBIDDEN"
	CategoryNetwork         Category = "NETWORK"
	CategoryServer          Category = "SERVER"
	CategoryValidation      Category = "VALIDATION"
	CategoryClient          Category = "CLIENT"
)

// Metadata describes the client reaction for a category
type Metadata struct {
	Sentinel      error
	ForceLogout   bool
	PublicMessage string // empty: derive from the response body
}

var metadataByCategory = map[Category]Metadata{
	CategoryUnauthenticated: {
		Sentinel:      domain.ErrUnauthorized,
		ForceLogout:   true,
		PublicMessage: "Your session has expired. Please log in again.",
	},
	CategoryForbidden: {
		Sentinel:      domain.ErrForbidden,
		PublicMessage: "You do not have permission to access this resource.",
	},
	CategoryNetwork: {
		Sentinel:      domain.ErrServerOffline,
		PublicMessage: "Cannot connect to the server. Please check your internet connection.",
	},
	CategoryServer: {
		PublicMessage: "Server error. Please try again later.",
	},
	CategoryValidation: {
		Sentinel: domain.ErrValidation,
	},
	CategoryClient: {},
}

var defaultMessageByStatus = map[int]string{
	http.StatusBadRequest:          "Bad request. Please check your input.",
	http.StatusUnauthorized:        "Unauthorized. Please log in.",
	http.StatusForbidden:           "Forbidden. You do not have permission.",
	http.StatusNotFound:            "Resource not found.",
	http.StatusConflict:            "Conflict with existing data.",
	http.StatusUnprocessableEntity: "Validation error. Please check your input.",
	http.StatusTooManyRequests:     "Too many requests. Please try again later.",
	0:                              "Network error. Please check your connection.",
}

// MetadataFor returns the reaction table entry for c
func MetadataFor(c Category) Metadata {
	return metadataByCategory[c]
}

// Error is a classified request failure. Message is safe to show the user.
type Error struct {
	Status   int
	Category Category
	Message  string
	Method   string
	Path     string
	Err      error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the category sentinel, and ErrNotFound for 404
func (e *Error) Is(target error) bool {
	if s := MetadataFor(e.Category).Sentinel; s != nil && target == s {
		return true
	}
	return e.Status == http.StatusNotFound && target == domain.ErrNotFound
}

// As extracts a gateway error from err
func As(err error) *Error {
	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}
	return nil
}

// StatusOf returns the HTTP status behind err, or 0 when there is none
func StatusOf(err error) int {
	if ge := As(err); ge != nil {
		return ge.Status
	}
	return 0
}

// Classify maps an HTTP status to its category. Status 0 means the request
// never produced a response.
func Classify(status int) Category {
	switch {
	case status == 0:
		return CategoryNetwork
	case status == http.StatusUnauthorized:
		return CategoryUnauthenticated
	case status == http.StatusForbidden:
		return CategoryForbidden
	case status >= 500:
		return CategoryServer
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return CategoryValidation
	default:
		return CategoryClient
	}
}

// newError builds a classified error from a status and raw response body
func newError(method, path string, status int, body []byte, cause error) *Error {
	cat := Classify(status)
	msg := MetadataFor(cat).PublicMessage
	if msg == "" {
		msg = MessageFromBody(status, body)
	}
	return &Error{
		Status:   status,
		Category: cat,
		Message:  msg,
		Method:   method,
		Path:     path,
		Err:      cause,
	}
}

// MessageFromBody extracts a user-facing message from an error response:
// the "message" field, then the "error" field, then a bare string body,
// then a default for the status.
func MessageFromBody(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			if s, ok := obj["message"].(string); ok && s != "" {
				return s
			}
			if s, ok := obj["error"].(string); ok && s != "" {
				return s
			}
		} else {
			var s string
			if err := json.Unmarshal([]byte(trimmed), &s); err == nil && s != "" {
				return s
			}
			if !strings.HasPrefix(trimmed, "<") && len(trimmed) <= 200 {
				return trimmed
			}
		}
	}

	if msg, ok := defaultMessageByStatus[status]; ok {
		return msg
	}
	return fmt.Sprintf("An error occurred (%d). Please try again.", status)
}
