// Utilities for parsing OAuth redirects pasted from a browser.
package shared

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseCallback extracts the query parameters from a pasted OAuth redirect.
//
// Accepts a full URL ("http://127.0.0.1:3000/callback?code=..."), a bare query string with or without the leading "?",
// or a URL whose parameters sit in the fragment.
func ParseCallback(input string) (url.Values, error) {
	input = strings.TrimSpace(input)
	input = strings.Trim(input, `"'`)
	if input == "" {
		return nil, fmt.Errorf("%w: empty callback", ErrMissingArgument)
	}

	if strings.Contains(input, "://") {
		u, err := url.Parse(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if u.RawQuery != "" {
			return u.Query(), nil
		}
		input = u.Fragment
	}

	input = strings.TrimPrefix(input, "?")
	input = strings.TrimPrefix(input, "#")

	values, err := url.ParseQuery(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if values.Get("code") == "" && values.Get("error") == "" {
		return nil, fmt.Errorf("%w: callback has neither code nor error parameter", ErrInvalidInput)
	}

	return values, nil
}
