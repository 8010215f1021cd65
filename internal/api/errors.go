package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/http/response"
	"github.com/coloredin/coloredin-server/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	var fieldErrs []*huma.ErrorDetail
	for _, err := range errs {
		// Check if any of the errors are domain errors
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			return &APIError{
				status:  storeErr.HTTPCode(),
				Code:    string(response.CodeForStatus(storeErr.HTTPCode())),
				Message: storeErr.Message,
			}
		}

		// Request validation failures from huma itself
		var detailer huma.ErrorDetailer
		if errors.As(err, &detailer) {
			fieldErrs = append(fieldErrs, detailer.ErrorDetail())
		}
	}

	apiErr := &APIError{
		status:  status,
		Code:    string(response.CodeForStatus(status)),
		Message: message,
	}
	if len(fieldErrs) > 0 {
		apiErr.Details = fieldErrs
	}
	return apiErr
}
