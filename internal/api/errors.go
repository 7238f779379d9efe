package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
)

// Error codes returned by the JSON API.
const (
	CodeInvalidInput      = "invalid_input"
	CodeInvalidRequest    = "invalid_request"
	CodeSitemapFetch      = "sitemap_fetch_failed"
	CodeSitemapEmpty      = "sitemap_empty"
	CodeMalformedResponse = "malformed_response"
	CodeProvider          = "provider_error"
	CodeInternal          = "internal_error"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// mapError converts a run error into an HTTP status and a user-facing
// response.
func mapError(err error) (int, ErrorResponse) {
	var (
		inputErr    *domain.InputValidationError
		fetchErr    *domain.FetchError
		emptyErr    *domain.EmptyResultError
		providerErr *domain.ProviderError
	)

	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, ErrorResponse{
			Error:   CodeInvalidInput,
			Message: "Please fill all fields.",
			Fields:  inputErr.Fields,
		}
	case errors.As(err, &fetchErr):
		msg := fmt.Sprintf("Could not reach the sitemap: %v", fetchErr.Err)
		if fetchErr.StatusCode != 0 {
			msg = fmt.Sprintf("Server blocked the request. Status Code: %d", fetchErr.StatusCode)
		}
		return http.StatusBadGateway, ErrorResponse{Error: CodeSitemapFetch, Message: msg}
	case errors.As(err, &emptyErr):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error: CodeSitemapEmpty,
			Message: fmt.Sprintf("Sitemap properly fetched but 0 URLs extracted. Please verify if '%s' contains <loc> tags.",
				emptyErr.URL),
		}
	case errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway, ErrorResponse{
			Error:   CodeMalformedResponse,
			Message: "AI returned malformed JSON. Please generate again.",
		}
	case errors.As(err, &providerErr):
		return http.StatusBadGateway, ErrorResponse{
			Error:   CodeProvider,
			Message: fmt.Sprintf("System Error: %v", providerErr.Err),
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   CodeInternal,
			Message: fmt.Sprintf("System Error: %v", err),
		}
	}
}

// noMatchesMessage is shown when verification left no links.
func noMatchesMessage(mainSubject string) string {
	return fmt.Sprintf("AI scanned everything and successfully ignored '%s'. However, no other exact matches "+
		"(like co-stars or movies) were found in your sitemap.", mainSubject)
}
