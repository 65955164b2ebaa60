package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Kind is the closed taxonomy of failures the adapter is allowed to surface.
// No raw transport or vendor error escapes this package.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindRateLimited
	KindServerError
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindServerError:
		return "server_error"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error carries the classified failure of a single GitHub call.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("github: %s: %s (status %d)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("github: %s: %s", e.Kind, e.Message)
}

// ErrorKind extracts the taxonomy kind from err, KindUnknown when err did
// not originate in this package.
func ErrorKind(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return ErrorKind(err) == kind
}

// retryable reports whether err represents transient server state worth
// another attempt. Terminal 4xx conditions are excluded.
func retryable(err error) bool {
	switch ErrorKind(err) {
	case KindServerError, KindNetwork, KindRateLimited:
		return true
	}
	return false
}

func netError(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: fmt.Sprintf("%s: %v", op, err)}
}

// classify maps a non-2xx response to a typed error. It consumes and closes
// the response body; callers must not touch the body afterwards. A 2xx
// response yields nil and the body stays open.
func classify(resp *http.Response, op string) *Error {
	if resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	msg := vendorMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("%s failed: %s", op, resp.Status)
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, Message: msg, StatusCode: resp.StatusCode}
	case http.StatusForbidden:
		// GitHub overloads 403 for both permission denial and exhausted
		// quota; the remaining-quota header disambiguates.
		if strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining")) == "0" {
			return &Error{Kind: KindRateLimited, Message: msg, StatusCode: resp.StatusCode}
		}
		return &Error{Kind: KindForbidden, Message: msg, StatusCode: resp.StatusCode}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: msg, StatusCode: resp.StatusCode}
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Message: msg, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode >= 500 {
		return &Error{Kind: KindServerError, Message: msg, StatusCode: resp.StatusCode}
	}
	return &Error{Kind: KindUnknown, Message: msg, StatusCode: resp.StatusCode}
}

// vendorMessage extracts GitHub's "message" field from an error payload.
func vendorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}
