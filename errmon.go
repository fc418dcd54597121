package qdma

import "github.com/xlnx/qdma-core/internal/errmon"

// ErrorAggregator, ErrorEvent and related types are re-exported from
// internal/errmon so callers never import it directly (§2 C8).
type (
	ErrorAggregator = errmon.Aggregator
	ErrorEvent      = errmon.Event
	ErrorLeafID     = errmon.LeafID
	ErrorSeverity   = errmon.Severity
)

const (
	SeverityCorrectable   = errmon.Correctable
	SeverityUncorrectable = errmon.Uncorrectable
	SeverityFatal         = errmon.Fatal
)

// errmonBackend adapts the root Backend to the narrower interface
// internal/errmon depends on.
type errmonBackend struct{ be Backend }

func (b errmonBackend) RegRead(addr uint32) uint32          { return b.be.RegRead(addr) }
func (b errmonBackend) RegWrite(addr uint32, val uint32)     { b.be.RegWrite(addr, val) }
func (b errmonBackend) Logf(format string, args ...any)      { b.be.Logf(format, args...) }

// NewErrorAggregator constructs the two-level hardware error aggregator
// for a device (§2 C8). streamingCapable gates the streaming-only leaves.
func NewErrorAggregator(be Backend, streamingCapable bool) *ErrorAggregator {
	return errmon.New(errmonBackend{be: be}, streamingCapable)
}
