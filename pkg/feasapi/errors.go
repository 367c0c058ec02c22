package feasapi

import (
	"errors"
	"fmt"

	"github.com/sells-group/feasibility-cli/internal/resilience"
)

// TransportError is returned for every failed call to the analysis API.
type TransportError struct {
	Op         string
	Kind       resilience.Kind
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feasapi: %s: %s (status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("feasapi: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Transient reports whether retrying the call may succeed.
func (e *TransportError) Transient() bool { return e.Kind.Transient() }

// AsTransportError extracts a *TransportError from err's chain.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// KindOf returns the failure kind of err, classifying errors that did not
// come from the client.
func KindOf(err error) resilience.Kind {
	if te, ok := AsTransportError(err); ok {
		return te.Kind
	}
	return resilience.Classify(err)
}

func newTransportError(op string, err error) *TransportError {
	te := &TransportError{Op: op, Kind: resilience.Classify(err), Err: err}
	var se *resilience.StatusError
	if errors.As(err, &se) {
		te.StatusCode = se.StatusCode
	}
	return te
}
