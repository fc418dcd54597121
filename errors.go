package qdma

import "github.com/xlnx/qdma-core/internal/errs"

// Code and Error are re-exported from internal/errs so callers never need
// to import the internal package directly; every error returned by this
// module's public API is a *Error.
type (
	Code  = errs.Code
	Error = errs.Error
)

const (
	CodeInvalidParam        = errs.CodeInvalidParam
	CodeNoMemory            = errs.CodeNoMemory
	CodeBusy                = errs.CodeBusy
	CodeTimeout             = errs.CodeTimeout
	CodeInvalidConfigBar    = errs.CodeInvalidConfigBar
	CodeBarNotFound         = errs.CodeBarNotFound
	CodeFeatureNotSupported = errs.CodeFeatureNotSupported
	CodeResourceExists      = errs.CodeResourceExists
	CodeResourceNotExists   = errs.CodeResourceNotExists
	CodeNoQueuesLeft        = errs.CodeNoQueuesLeft
	CodeQmaxConfRejected    = errs.CodeQmaxConfRejected
	CodeInvalidRingSize     = errs.CodeInvalidRingSize
	CodeInvalidBufSize      = errs.CodeInvalidBufSize
	CodeInvalidTimerIdx     = errs.CodeInvalidTimerIdx
	CodeInvalidCounterIdx   = errs.CodeInvalidCounterIdx
	CodeMboxBusy            = errs.CodeMboxBusy
	CodeMboxTimeout         = errs.CodeMboxTimeout
	CodeMboxAllZero         = errs.CodeMboxAllZero
	CodeMboxInvalidQid      = errs.CodeMboxInvalidQid
	CodeMboxNoMessage       = errs.CodeMboxNoMessage
)

var (
	ErrInvalidParam        = errs.ErrInvalidParam
	ErrNoMemory            = errs.ErrNoMemory
	ErrBusy                = errs.ErrBusy
	ErrTimeout             = errs.ErrTimeout
	ErrInvalidConfigBar    = errs.ErrInvalidConfigBar
	ErrBarNotFound         = errs.ErrBarNotFound
	ErrFeatureNotSupported = errs.ErrFeatureNotSupported
	ErrResourceExists      = errs.ErrResourceExists
	ErrResourceNotExists   = errs.ErrResourceNotExists
	ErrNoQueuesLeft        = errs.ErrNoQueuesLeft
	ErrQmaxConfRejected    = errs.ErrQmaxConfRejected
	ErrInvalidRingSize     = errs.ErrInvalidRingSize
	ErrInvalidBufSize      = errs.ErrInvalidBufSize
	ErrInvalidTimerIdx     = errs.ErrInvalidTimerIdx
	ErrInvalidCounterIdx   = errs.ErrInvalidCounterIdx
	ErrMboxBusy            = errs.ErrMboxBusy
	ErrMboxTimeout         = errs.ErrMboxTimeout
	ErrMboxAllZero         = errs.ErrMboxAllZero
	ErrMboxInvalidQid      = errs.ErrMboxInvalidQid
	ErrMboxNoMessage       = errs.ErrMboxNoMessage
)
