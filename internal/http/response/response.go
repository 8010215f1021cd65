// Package response writes JSON envelopes for handlers and middleware that run
// outside huma, such as the rate limiter and the billing webhook signature
// check. The shapes match the envelopes huma operations produce.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/store"
)

// Version is the envelope format version, sent as "v".
const Version = 1

// Envelope wraps successful responses and simple errors.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorEnvelope is the body of a coded error.
type ErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func write(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// JSON writes data in a success envelope.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Envelope{
		Version: Version,
		Success: status < 400,
		Data:    data,
	}, logger)
}

// Success writes a 200 OK response.
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes a coded error envelope.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, details any, logger *slog.Logger) {
	write(w, status, ErrorEnvelope{
		Version: Version,
		Code:    string(code),
		Message: message,
		Details: details,
	}, logger)
}

// Unauthorized writes a 401 Unauthorized response.
func Unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusUnauthorized, domainerrors.CodeUnauthorized, message, nil, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, domainerrors.CodeNotFound, message, nil, logger)
}

// TooManyRequests writes a 429 response. A positive retryAfter is sent as a
// Retry-After header in whole seconds.
func TooManyRequests(w http.ResponseWriter, message string, retryAfter time.Duration, logger *slog.Logger) {
	var details any
	if retryAfter > 0 {
		secs := int(math.Ceil(retryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		details = map[string]int{"retry_after_seconds": secs}
	}
	Error(w, http.StatusTooManyRequests, domainerrors.CodeRateLimited, message, details, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, domainerrors.CodeInternal, message, nil, logger)
}

// HandleError writes the response err maps to. Domain and store errors carry
// their own status; anything else is a 500 and is logged.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		Error(w, domainErr.HTTPStatus(), domainErr.Code, domainErr.Message, domainErr.Details, logger)
		return
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		Error(w, storeErr.HTTPCode(), CodeForStatus(storeErr.HTTPCode()), storeErr.Message, nil, logger)
		return
	}

	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	InternalError(w, "internal server error", logger)
}

// CodeForStatus maps an HTTP status onto the closest error code.
func CodeForStatus(status int) domainerrors.Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domainerrors.CodeValidation
	case http.StatusUnauthorized:
		return domainerrors.CodeUnauthorized
	case http.StatusForbidden:
		return domainerrors.CodeForbidden
	case http.StatusNotFound:
		return domainerrors.CodeNotFound
	case http.StatusConflict:
		return domainerrors.CodeConflict
	case http.StatusTooManyRequests:
		return domainerrors.CodeRateLimited
	case http.StatusBadGateway:
		return domainerrors.CodeUpstream
	case http.StatusServiceUnavailable:
		return domainerrors.CodeUnavailable
	default:
		return domainerrors.CodeInternal
	}
}
