package sanitizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/domain"
)

var (
	errNotObject   = errors.New("top-level value is not a JSON object")
	errNullElement = errors.New("links contains a null element")
)

type envelope struct {
	Links []*domain.ProposedLink `json:"links"`
}

// Parse decodes unwrapped model output into proposed links. A missing or
// null "links" key yields an empty list. Anything that is not a JSON object
// whose "links" is an array of objects with string fields is reported as a
// *domain.MalformedResponseError and yields no links.
func Parse(text string) ([]domain.ProposedLink, error) {
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 || data[0] != '{' {
		if !json.Valid(data) {
			return nil, &domain.MalformedResponseError{Err: invalidJSONError(data)}
		}
		return nil, &domain.MalformedResponseError{Err: errNotObject}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &domain.MalformedResponseError{Err: err}
	}

	links := make([]domain.ProposedLink, 0, len(env.Links))
	for i, l := range env.Links {
		if l == nil {
			return nil, &domain.MalformedResponseError{Err: fmt.Errorf("%w at index %d", errNullElement, i)}
		}
		links = append(links, *l)
	}

	return links, nil
}

// invalidJSONError returns the decoder's own error for data, which is known
// to be invalid.
func invalidJSONError(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return errNotObject
}
