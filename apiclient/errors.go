package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-lecturer-console/internal/errors"
)

const (
	GenericMessage        = "Unexpected error occurred."
	SessionExpiredMessage = "Session expired, please log in again."
)

// APIError is a non-2xx backend response
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message())
}

// Message returns the first field-level error in the body: the value of the
// first member in document order, the first string of an array, recursing
// into nested objects. Bodies without one yield GenericMessage.
func (e *APIError) Message() string {
	if msg, ok := firstMessage(e.Body); ok {
		return msg
	}
	return GenericMessage
}

// FieldErrors returns every field-level message keyed by field name, for
// rendering errors next to form inputs.
func (e *APIError) FieldErrors() map[string]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &raw); err != nil {
		return nil
	}
	fields := make(map[string]string, len(raw))
	for name, value := range raw {
		if msg, ok := firstMessage(value); ok {
			fields[name] = msg
		}
	}
	return fields
}

// UserMessage turns any error from the pipeline into text fit for a notification
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	if errors.Is(err, errors.ErrRefreshFailed) {
		return SessionExpiredMessage
	}
	if errors.Is(err, errors.ErrDuplicateSubmission) {
		return errors.ErrDuplicateSubmission.Error()
	}
	return GenericMessage
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// firstMessage walks data in document order and returns the first non-blank
// string. Members and elements that hold none are skipped whole.
func firstMessage(data []byte) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return "", false
	}

	switch v := tok.(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case json.Delim:
		if v != '{' && v != '[' {
			return "", false
		}
		for dec.More() {
			if v == '{' {
				if _, err := dec.Token(); err != nil {
					return "", false
				}
			}
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return "", false
			}
			if msg, ok := firstMessage(value); ok {
				return msg, true
			}
		}
	}
	return "", false
}
