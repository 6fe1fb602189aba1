package protocol

import "github.com/go-errors/errors"

// errorCode distinguishes a peer-reportable failure from an invariant
// violation, so a caller can tell at a glance whether an Error packet
// belongs on the wire or a bug belongs in a log.
type errorCode uint8

const (
	// ErrPeerReportable covers a malformed field, an economic violation
	// ("cannot afford..."), a bad signature or preimage, or a parameter
	// outside local policy — exactly the failures accept_pkt_* used to
	// reject with a string and tear the session down for.
	ErrPeerReportable errorCode = iota

	// ErrInvariantFatal covers a balance-conservation failure or a
	// packet received outside its legal state: a bug in this
	// implementation, not peer misbehavior.
	ErrInvariantFatal
)

// protocolError wraps the failures this package raises with the code that
// tells the caller how to dispose of it.
type protocolError struct {
	err  *errors.Error
	code errorCode
}

func (e *protocolError) Error() string { return e.err.Error() }

var _ error = (*protocolError)(nil)

// IsFatal reports whether err is an invariant violation this core raised,
// as opposed to a peer-reportable rejection or an error from elsewhere.
func IsFatal(err error) bool {
	pe, ok := err.(*protocolError)
	return ok && pe.code == ErrInvariantFatal
}

func newPeerError(format string, a ...interface{}) *protocolError {
	return &protocolError{code: ErrPeerReportable, err: errors.Errorf(format, a...)}
}

func newFatalError(format string, a ...interface{}) *protocolError {
	return &protocolError{code: ErrInvariantFatal, err: errors.Errorf(format, a...)}
}
