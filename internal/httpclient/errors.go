package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies every failure surfaced by the backend client
type Kind string

const (
	KindTimeout            Kind = "timeout"
	KindServerError        Kind = "server_error"
	KindNotFound           Kind = "not_found"
	KindValidationRejected Kind = "validation_rejected"
	KindRequestFailed      Kind = "request_failed"
)

const (
	MessageTimeout       = "Request timeout - server tidak merespons"
	MessageServerError   = "Server error - silakan coba lagi nanti"
	MessageNotFound      = "Endpoint tidak ditemukan"
	MessageUnreachable   = "Tidak dapat terhubung ke server"
	MessageNotPDF        = "Hanya file PDF yang diperbolehkan"
	messageRequestFailed = "Permintaan gagal (HTTP %d)"
)

// Error is the normalized client error. Status is 0 when no response was received.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = e.Detail
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a client-side rejection; nothing is sent when this is returned.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidationRejected, Message: message}
}

// IsKind reports whether err (or anything it wraps) is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Kind == kind
	}
	return false
}

// UserMessage picks the text shown to the user: backend detail, then the kind's message, then fallback.
func UserMessage(err error, fallback string) string {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		if clientErr.Detail != "" {
			return clientErr.Detail
		}
		if clientErr.Message != "" {
			return clientErr.Message
		}
	}
	return fallback
}

// statusError maps a non-2xx response to an *Error. The backend detail is kept for every status.
func statusError(status int, body []byte) *Error {
	clientErr := &Error{Status: status, Detail: extractDetail(body)}
	switch {
	case status == 404:
		clientErr.Kind = KindNotFound
		clientErr.Message = MessageNotFound
	case status >= 500:
		clientErr.Kind = KindServerError
		clientErr.Message = MessageServerError
	default:
		clientErr.Kind = KindRequestFailed
		clientErr.Message = fmt.Sprintf(messageRequestFailed, status)
	}
	return clientErr
}

// extractDetail reads {"detail": ...}. The detail is either a string or a list of
// validation items carrying "msg".
func extractDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
