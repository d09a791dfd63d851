package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// Error is a non-2xx answer from the booking backend.
type Error struct {
	Status  int
	Message string              // what to show the user
	Fields  map[string][]string // per-field validation messages, if any
	Body    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// TransportError means the backend could not be reached or answered garbage.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func statusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsNotFound(err error) bool     { return statusOf(err) == http.StatusNotFound }
func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }
func IsValidation(err error) bool   { return statusOf(err) == http.StatusBadRequest }

func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}

var genericMessages = map[string]string{
	"uz": "Xatolik yuz berdi",
	"ru": "Произошла ошибка",
	"en": "An error occurred",
}

// GenericMessage is the fallback error text for lang.
func GenericMessage(lang string) string {
	if m, ok := genericMessages[lang]; ok {
		return m
	}
	return genericMessages["en"]
}

// newError picks the user-facing message the way the backend's payloads are
// shaped: non_field_errors, then detail, then the first field error, then the
// raw JSON, then a generic fallback.
func newError(status int, body []byte, lang string) *Error {
	e := &Error{Status: status, Body: body}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) > 0 && json.Valid(trimmed) {
			e.Message = string(trimmed)
		} else {
			e.Message = GenericMessage(lang)
		}
		return e
	}

	keys := make([]string, 0, len(payload))
	for k, raw := range payload {
		if k == "detail" {
			continue
		}
		if msgs := messages(raw); len(msgs) > 0 {
			if e.Fields == nil {
				e.Fields = make(map[string][]string)
			}
			e.Fields[k] = msgs
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	switch {
	case len(e.Fields["non_field_errors"]) > 0:
		e.Message = e.Fields["non_field_errors"][0]
	case detail(payload) != "":
		e.Message = detail(payload)
	case len(keys) > 0:
		e.Message = e.Fields[keys[0]][0]
	case len(payload) > 0:
		e.Message = string(bytes.TrimSpace(body))
	default:
		e.Message = GenericMessage(lang)
	}
	return e
}

func detail(payload map[string]json.RawMessage) string {
	if raw, ok := payload["detail"]; ok {
		if msgs := messages(raw); len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

// messages accepts "text" and ["text", ...].
func messages(raw json.RawMessage) []string {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if one == "" {
			return nil
		}
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}
