package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// UnknownErrorExplanation is used for error codes missing from the table.
const UnknownErrorExplanation = "Unknown error. Please try again or contact support."

var errorExplanations = map[string]string{
	"invalid_app_id":    "Invalid App ID provided. Please check your API Key.",
	"missing_app_id":    "No App ID provided. Please provide an API Key.",
	"not_allowed":       "This App ID does not have access to the requested feature.",
	"access_restricted": "Access restricted due to overuse or account limits.",
	"invalid_base":      "The requested base currency is not supported.",
	"not_found":         "The requested API route or resource does not exist.",
}

// Explain maps a provider error code to a sentence a user can act on.
func Explain(code string) string {
	if e, ok := errorExplanations[code]; ok {
		return e
	}
	return UnknownErrorExplanation
}

// APIError is a failure reported by the provider in a structured response.
type APIError struct {
	StatusCode  int    `json:"status"`
	Code        string `json:"message"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Code)
}

// Explanation is the user-facing text for the error code.
func (e *APIError) Explanation() string {
	return Explain(e.Code)
}

// IsPermission reports whether the key lacks access rather than the request
// being malformed.
func (e *APIError) IsPermission() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// AsAPIError unwraps err into an *APIError when it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
