// ABOUTME: Error types returned by the API client
// ABOUTME: Classifies failures as network, authorization, validation or not-found

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized matches 401 responses (missing or expired credential).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrValidation matches 400/422 responses carrying field errors.
	ErrValidation = errors.New("validation failed")
	// ErrNetwork matches connectivity failures where no response was received.
	ErrNetwork = errors.New("network error")

	ErrCanceled = errors.New("request canceled")
	ErrTimeout  = errors.New("request timed out")
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
	// Fields holds per-field validation messages keyed by field name.
	Fields map[string][]string
	// Retried is set on 401 responses. The request is not re-issued.
	Retried bool
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.Details != "":
		return fmt.Sprintf("backend error: %s (%s)", e.Message, e.Details)
	case e.Message != "":
		return "backend error: " + e.Message
	case len(e.Fields) > 0:
		return "backend error: " + e.FieldSummary()
	default:
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
}

// Is lets callers classify with errors.Is(err, client.ErrNotFound) and friends.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// FieldSummary renders field errors as "field: msg; other: msg" in key order.
func (e *APIError) FieldSummary() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return strings.Join(parts, "; ")
}

// NetworkError wraps a transport failure where no response arrived.
type NetworkError struct {
	BaseURL string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot connect to backend at %s: %v", e.BaseURL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

const maxErrorBody = 64 << 10

// parseErrorResponse decodes the error shapes the backend produces:
// {"detail": "..."}, {"error": "...", "details": "..."} and DRF field maps
// {"field": ["msg", ...], "non_field_errors": [...]}.
func parseErrorResponse(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if resp.StatusCode == http.StatusUnauthorized {
		apiErr.Retried = true
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		// A bare JSON list of messages is also valid DRF output.
		var list []string
		if json.Unmarshal(data, &list) == nil && len(list) > 0 {
			apiErr.Message = strings.Join(list, "; ")
		}
		return apiErr
	}

	for key, val := range raw {
		switch key {
		case "detail", "error", "message":
			if s, ok := val.(string); ok && apiErr.Message == "" {
				apiErr.Message = s
			}
		case "details":
			if s, ok := val.(string); ok {
				apiErr.Details = s
			}
		case "code":
			// numeric or string code; not surfaced
		case "non_field_errors":
			if msgs := toStrings(val); len(msgs) > 0 && apiErr.Message == "" {
				apiErr.Message = strings.Join(msgs, "; ")
			}
		default:
			if msgs := toStrings(val); len(msgs) > 0 {
				if apiErr.Fields == nil {
					apiErr.Fields = make(map[string][]string)
				}
				apiErr.Fields[key] = msgs
			}
		}
	}
	return apiErr
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
