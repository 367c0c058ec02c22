// Package resilience classifies transport failures and retries transient ones.
package resilience

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// Kind is the class of a transport failure.
type Kind string

const (
	KindTimeout           Kind = "timeout"
	KindConnectionRefused Kind = "connection_refused"
	KindNetwork           Kind = "network"
	KindServerError       Kind = "server_error"
	KindClientError       Kind = "client_error"
	KindDecode            Kind = "decode"
	KindCanceled          Kind = "canceled"
	KindUnknown           Kind = "unknown"
)

// Transient reports whether a failure of this kind may succeed on retry.
func (k Kind) Transient() bool {
	switch k {
	case KindTimeout, KindConnectionRefused, KindNetwork, KindServerError:
		return true
	default:
		return false
	}
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := http.StatusText(e.StatusCode)
	if msg == "" {
		msg = "unexpected status"
	}
	if e.Body != "" {
		return msg + ": " + e.Body
	}
	return msg
}

// DecodeError marks a response body that could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode response: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// KindForStatus maps a non-2xx HTTP status to a failure kind. 408 and 429
// count as transient server-side conditions.
func KindForStatus(code int) Kind {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		return KindTimeout
	case code == http.StatusTooManyRequests, code >= 500:
		return KindServerError
	case code >= 400:
		return KindClientError
	default:
		return KindUnknown
	}
}

// Classify determines the kind of err by inspecting its chain: HTTP status,
// decode failures, context expiry, syscall errors and net.Error timeouts, in
// that order, with message heuristics for errors that lost their type.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var se *StatusError
	if errors.As(err, &se) {
		return KindForStatus(se.StatusCode)
	}

	var decErr *DecodeError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &decErr) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return KindDecode
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return KindConnectionRefused
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNABORTED) {
		return KindNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return KindConnectionRefused
	case strings.Contains(msg, "i/o timeout"),
		strings.Contains(msg, "tls handshake timeout"),
		strings.Contains(msg, "client.timeout exceeded"):
		return KindTimeout
	case strings.Contains(msg, "connection reset by peer"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "temporary failure in name resolution"),
		strings.Contains(msg, "server closed idle connection"):
		return KindNetwork
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return KindNetwork
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindNetwork
	}
	return KindUnknown
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return err != nil && Classify(err).Transient()
}
