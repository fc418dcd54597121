package qdma

// Backend is the seam between the core and the host/OS (spec.md §4.1 "C1
// Platform shim"). The host implements it and injects one instance per
// device; no code below this interface ever does direct register I/O,
// allocation, or timing. This mirrors the teacher's own stance (ring.go:
// "no direct I/O... the platform shim provides the correct barrier
// behavior") generalized from a single kernel facility (io_uring) to an
// arbitrary host-supplied register window.
type Backend interface {
	// RegRead/RegWrite perform a single 32-bit register access at addr,
	// relative to the device's BAR0. Implementations must use the
	// volatile-equivalent access the host platform requires (spec.md §9
	// design notes: "never inline MMIO through a non-volatile path").
	RegRead(addr uint32) uint32
	RegWrite(addr uint32, val uint32)

	// RegAccessLock/RegAccessRelease serialize access to the single
	// indirect-context command window (§4.1, §5 "Register-access lock").
	RegAccessLock()
	RegAccessRelease()

	// ResourceLockTake/ResourceLockGive serialize the resource manager
	// (§4.1, §5 "Resource lock").
	ResourceLockTake()
	ResourceLockGive()

	// UDelay busy-waits (or yields, at the host's discretion) for usec
	// microseconds — used only by the indirect-context busy-bit poll.
	UDelay(usec uint32)

	// Logf emits one diagnostic/log line. The core never formats output
	// on its own io.Writer; every message funnels through here so a host
	// can route it into its own structured logger.
	Logf(format string, args ...any)
}
