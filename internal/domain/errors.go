package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is checks against the run taxonomy.
var (
	ErrInputValidation   = errors.New("input validation failed")
	ErrFetch             = errors.New("sitemap fetch failed")
	ErrEmptyResult       = errors.New("sitemap contained no URLs")
	ErrPageFetch         = errors.New("page fetch failed")
	ErrMalformedResponse = errors.New("malformed model response")
	ErrProvider          = errors.New("llm provider error")
)

// InputValidationError lists the required fields that were missing.
type InputValidationError struct {
	Fields []string
}

func (e *InputValidationError) Error() string {
	return "please fill all fields: missing " + strings.Join(e.Fields, ", ")
}

func (e *InputValidationError) Is(target error) bool { return target == ErrInputValidation }

// FetchError reports a sitemap that could not be retrieved. StatusCode is 0
// when no response was received at all.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("server blocked the request for %s: status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch sitemap %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error        { return e.Err }
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// EmptyResultError reports a sitemap that was fetched but yielded no URLs.
type EmptyResultError struct {
	URL string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("sitemap fetched but 0 URLs extracted: verify that %q contains <loc> tags", e.URL)
}

func (e *EmptyResultError) Is(target error) bool { return target == ErrEmptyResult }

// PageFetchError is recorded per page and never aborts a run.
type PageFetchError struct {
	URL string
	Err error
}

func (e *PageFetchError) Error() string        { return fmt.Sprintf("fetch page %s: %v", e.URL, e.Err) }
func (e *PageFetchError) Unwrap() error        { return e.Err }
func (e *PageFetchError) Is(target error) bool { return target == ErrPageFetch }

// MalformedResponseError reports model output that is not the expected JSON.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("AI returned malformed JSON, please generate again: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error        { return e.Err }
func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// ProviderError wraps a failed chat-completion call.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("system error: %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error        { return e.Err }
func (e *ProviderError) Is(target error) bool { return target == ErrProvider }
