package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable = errors.New("could not reach the server")
	ErrTimeout     = errors.New("request timed out")
	ErrEmptyBody   = errors.New("empty response received")
	ErrForeignURL  = errors.New("url does not belong to the backend")
	ErrTooLarge    = errors.New("response too large")
)

// MsgUnavailable is shown for network failures and timeouts.
const MsgUnavailable = "Could not reach the server. Please try again."

type FieldError struct {
	Field    string
	Messages []string
}

// APIError is a non-2xx backend response. Fields keep the key order of the
// response body.
type APIError struct {
	Status int
	Detail string
	Fields []FieldError
}

func (e *APIError) Error() string {
	msg := e.FirstMessage()
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("backend: %d: %s", e.Status, msg)
}

// FirstMessage is the first message of the first field, falling back to
// the detail text.
func (e *APIError) FirstMessage() string {
	for _, f := range e.Fields {
		if len(f.Messages) > 0 {
			return f.Messages[0]
		}
	}
	return e.Detail
}

// Field returns the messages for one field.
func (e *APIError) Field(name string) []string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Messages
		}
	}
	return nil
}

// Lines renders every field as "field: a,b".
func (e *APIError) Lines() []string {
	lines := make([]string, 0, len(e.Fields)+1)
	if e.Detail != "" {
		lines = append(lines, e.Detail)
	}
	for _, f := range e.Fields {
		lines = append(lines, f.Field+": "+strings.Join(f.Messages, ","))
	}
	return lines
}

const maxDetailLen = 200

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return apiErr
	}
	if trimmed[0] != '{' {
		if trimmed[0] != '<' {
			apiErr.Detail = truncate(string(trimmed), maxDetailLen)
		}
		return apiErr
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return apiErr
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return apiErr
		}
		key, ok := tok.(string)
		if !ok {
			return apiErr
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return apiErr
		}
		messages := flattenMessages(raw)
		switch key {
		case "detail", "error", "message":
			if apiErr.Detail == "" && len(messages) > 0 {
				apiErr.Detail = messages[0]
			}
		default:
			apiErr.Fields = append(apiErr.Fields, FieldError{Field: key, Messages: messages})
		}
	}
	return apiErr
}

func flattenMessages(raw json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		var out []string
		for _, item := range list {
			out = append(out, flattenMessages(item)...)
		}
		return out
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		var out []string
		for _, v := range obj {
			out = append(out, flattenMessages(v)...)
		}
		return out
	}
	return []string{string(raw)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Status returns the HTTP status carried by err, or 0.
func Status(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool { return Status(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return Status(err) == http.StatusForbidden }
func IsNotFound(err error) bool     { return Status(err) == http.StatusNotFound }
func IsValidation(err error) bool   { return Status(err) == http.StatusBadRequest }

// IsNetwork reports transport failures and timeouts.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout)
}

// Message turns err into text for the user. Validation errors yield the first
// field's first message; everything without a better message uses fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if IsNetwork(err) {
		return MsgUnavailable
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.FirstMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
