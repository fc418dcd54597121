// Package errs is the core's shared error taxonomy (spec.md §7). It lives
// in internal/ rather than the root package so that every internal
// package (ctxeng, resmgr, mboxproto, errmon, regmap) can construct and
// return these errors without creating an import cycle back to the root
// package, which wires all of them together.
package errs

import "fmt"

// Code names one entry of the core's error taxonomy (spec.md §7). It is a
// closed set: callers match on these with errors.Is against the sentinel
// *Error values below, never on Code directly.
type Code uint8

const (
	CodeInvalidParam Code = iota
	CodeNoMemory
	CodeBusy
	CodeTimeout
	CodeInvalidConfigBar
	CodeBarNotFound
	CodeFeatureNotSupported
	CodeResourceExists
	CodeResourceNotExists
	CodeNoQueuesLeft
	CodeQmaxConfRejected
	CodeInvalidRingSize
	CodeInvalidBufSize
	CodeInvalidTimerIdx
	CodeInvalidCounterIdx
	CodeMboxBusy
	CodeMboxTimeout
	CodeMboxAllZero
	CodeMboxInvalidQid
	CodeMboxNoMessage
)

func (c Code) String() string {
	switch c {
	case CodeInvalidParam:
		return "InvalidParam"
	case CodeNoMemory:
		return "NoMemory"
	case CodeBusy:
		return "Busy"
	case CodeTimeout:
		return "Timeout"
	case CodeInvalidConfigBar:
		return "InvalidConfigBar"
	case CodeBarNotFound:
		return "BarNotFound"
	case CodeFeatureNotSupported:
		return "FeatureNotSupported"
	case CodeResourceExists:
		return "ResourceExists"
	case CodeResourceNotExists:
		return "ResourceNotExists"
	case CodeNoQueuesLeft:
		return "NoQueuesLeft"
	case CodeQmaxConfRejected:
		return "QmaxConfRejected"
	case CodeInvalidRingSize:
		return "InvalidRingSize"
	case CodeInvalidBufSize:
		return "InvalidBufSize"
	case CodeInvalidTimerIdx:
		return "InvalidTimerIdx"
	case CodeInvalidCounterIdx:
		return "InvalidCounterIdx"
	case CodeMboxBusy:
		return "Mbox.Busy"
	case CodeMboxTimeout:
		return "Mbox.Pipe"
	case CodeMboxAllZero:
		return "Mbox.AllZeroMessage"
	case CodeMboxInvalidQid:
		return "Mbox.InvalidQid"
	case CodeMboxNoMessage:
		return "Mbox.NoMessage"
	default:
		return "Unknown"
	}
}

// Error is the error type returned from every public entry point in the
// core. It wraps an underlying cause (if any) with a stable Code so
// callers can do errors.Is(err, qdma.ErrTimeout) etc.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("qdma: %s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("qdma: %s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, sentinel) match purely on Code, the same way the
// teacher's ErrSQFull/ErrRingClosed are compared by identity; here the
// identity is the Code field since every call site constructs a fresh
// *Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New constructs an *Error for the given operation and code, optionally
// wrapping a lower-level cause.
func New(op string, code Code, cause error) *Error {
	return &Error{Op: op, Code: code, Err: cause}
}

// Sentinel errors for errors.Is comparisons, one per Code.
var (
	ErrInvalidParam        = &Error{Code: CodeInvalidParam}
	ErrNoMemory            = &Error{Code: CodeNoMemory}
	ErrBusy                = &Error{Code: CodeBusy}
	ErrTimeout             = &Error{Code: CodeTimeout}
	ErrInvalidConfigBar    = &Error{Code: CodeInvalidConfigBar}
	ErrBarNotFound         = &Error{Code: CodeBarNotFound}
	ErrFeatureNotSupported = &Error{Code: CodeFeatureNotSupported}
	ErrResourceExists      = &Error{Code: CodeResourceExists}
	ErrResourceNotExists   = &Error{Code: CodeResourceNotExists}
	ErrNoQueuesLeft        = &Error{Code: CodeNoQueuesLeft}
	ErrQmaxConfRejected    = &Error{Code: CodeQmaxConfRejected}
	ErrInvalidRingSize     = &Error{Code: CodeInvalidRingSize}
	ErrInvalidBufSize      = &Error{Code: CodeInvalidBufSize}
	ErrInvalidTimerIdx     = &Error{Code: CodeInvalidTimerIdx}
	ErrInvalidCounterIdx   = &Error{Code: CodeInvalidCounterIdx}
	ErrMboxBusy            = &Error{Code: CodeMboxBusy}
	ErrMboxTimeout         = &Error{Code: CodeMboxTimeout} // Err(Pipe), §5/§7/§8 property 5
	ErrMboxAllZero         = &Error{Code: CodeMboxAllZero}
	ErrMboxInvalidQid      = &Error{Code: CodeMboxInvalidQid}
	ErrMboxNoMessage       = &Error{Code: CodeMboxNoMessage} // Err(NoMessage), §4.6 Receive primitive
)
