package qdma

import "fmt"

// fakeBackend is the in-memory Backend used across this package's tests:
// a flat register file plus captured log lines, with no real MMIO, lock
// contention, or delay.
type fakeBackend struct {
	regs map[uint32]uint32
	logs []string
}

func newFakeBackend() *fakeBackend { return &fakeBackend{regs: make(map[uint32]uint32)} }

func (b *fakeBackend) RegRead(addr uint32) uint32       { return b.regs[addr] }
func (b *fakeBackend) RegWrite(addr uint32, val uint32)  { b.regs[addr] = val }
func (b *fakeBackend) RegAccessLock()                   {}
func (b *fakeBackend) RegAccessRelease()                {}
func (b *fakeBackend) ResourceLockTake()                {}
func (b *fakeBackend) ResourceLockGive()                {}
func (b *fakeBackend) UDelay(usec uint32)               {}
func (b *fakeBackend) Logf(format string, args ...any) {
	b.logs = append(b.logs, fmt.Sprintf(format, args...))
}

var _ Backend = (*fakeBackend)(nil)
