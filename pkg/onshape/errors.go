package onshape

import (
	"errors"
	"fmt"
)

// Kind classifies an API failure. Every remote status code maps to
// exactly one kind at the HTTP boundary; callers never inspect raw
// status codes.
type Kind uint8

const (
	// KindTransient covers rate limits (429), server errors (5xx) and
	// network failures. Retried in-client with bounded backoff.
	KindTransient Kind = iota
	// KindAuth means the credentials were rejected (401). Fatal for the
	// whole sweep: every subsequent call would fail the same way.
	KindAuth
	// KindAuthEncoding means the credentials are malformed locally and
	// no request was ever sent.
	KindAuthEncoding
	// KindVariableNotFound means the variable table has no entry with
	// the requested name.
	KindVariableNotFound
	// KindElementNotFound means the document/workspace/element triple
	// does not resolve (404).
	KindElementNotFound
	// KindExportFailed means the translation job reached the FAILED state.
	KindExportFailed
	// KindExportTimeout means the translation job did not reach a
	// terminal state within the polling deadline.
	KindExportTimeout
	// KindRemote covers unexpected remote statuses outside the
	// documented contract. Not retried.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindAuth:
		return "auth"
	case KindAuthEncoding:
		return "auth_encoding"
	case KindVariableNotFound:
		return "variable_not_found"
	case KindElementNotFound:
		return "element_not_found"
	case KindExportFailed:
		return "export_failed"
	case KindExportTimeout:
		return "export_timeout"
	default:
		return "remote"
	}
}

// Error is a classified API failure. Status is the remote HTTP status
// when one was received, 0 otherwise.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("onshape: %s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("onshape: %s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is an API error of the given kind.
func IsKind(err error, k Kind) bool {
	var oe *Error
	return errors.As(err, &oe) && oe.Kind == k
}

// Fatal reports whether err invalidates the whole sweep rather than a
// single iteration.
func Fatal(err error) bool {
	return IsKind(err, KindAuth) || IsKind(err, KindAuthEncoding)
}

// classifyStatus maps a non-2xx response to an error kind. The body is
// included so users can self-diagnose from the remote payload.
func classifyStatus(status int, body []byte) *Error {
	msg := string(body)
	switch {
	case status == 401:
		if msg == "" {
			msg = "unauthorized"
		}
		return &Error{Kind: KindAuth, Status: status, Message: msg + " (check API keys)"}
	case status == 404:
		if msg == "" {
			msg = "not found"
		}
		return &Error{Kind: KindElementNotFound, Status: status, Message: msg + " (check document/workspace/element ids)"}
	case status == 429 || status >= 500:
		return &Error{Kind: KindTransient, Status: status, Message: msg}
	default:
		return &Error{Kind: KindRemote, Status: status, Message: msg}
	}
}
