package key

import (
	"errors"
	"fmt"
)

// Kind classifies why a key could not be constructed. A Kind is itself
// an error so it can be used as the target of errors.Is.
type Kind uint8

const (
	// UnrecognizedInput means the input matched no construction path.
	UnrecognizedInput Kind = iota + 1
	// MissingData means required input was absent.
	MissingData
	// ZeroOrMissingScalar means the private scalar was zero, out of range,
	// or could not be parsed.
	ZeroOrMissingScalar
	// UnresolvedNetwork means no network could be determined.
	UnresolvedNetwork
	// NetworkMismatch means the network encoded in the data disagrees
	// with the network that was asked for.
	NetworkMismatch
	// MalformedKeyBuffer means a length or marker byte was wrong.
	MalformedKeyBuffer
	// InvalidEncoding means the structured public key codec rejected
	// the bytes.
	InvalidEncoding
	// ChecksumFailure means checksummed text failed its integrity check.
	ChecksumFailure
)

var kindNames = map[Kind]string{
	UnrecognizedInput:   "unrecognized input",
	MissingData:         "missing data",
	ZeroOrMissingScalar: "zero or missing scalar",
	UnresolvedNetwork:   "unresolved network",
	NetworkMismatch:     "network mismatch",
	MalformedKeyBuffer:  "malformed key buffer",
	InvalidEncoding:     "invalid encoding",
	ChecksumFailure:     "checksum failure",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) Error() string { return k.String() }

// Error is returned by every fallible key constructor.
type Error struct {
	Kind Kind
	Msg  string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether the target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the Kind of the first key error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	var k Kind
	if errors.As(err, &k) {
		return k, true
	}
	return 0, false
}

func newError(kind Kind, format string, v ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, v...)}
}

func wrapError(kind Kind, cause error, format string, v ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, v...), Err: cause}
}
