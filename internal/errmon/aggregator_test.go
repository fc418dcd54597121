package errmon

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeErrBackend struct {
	regs map[uint32]uint32
	logs []string
}

func newFakeErrBackend() *fakeErrBackend {
	return &fakeErrBackend{regs: make(map[uint32]uint32)}
}

func (b *fakeErrBackend) RegRead(addr uint32) uint32      { return b.regs[addr] }
func (b *fakeErrBackend) RegWrite(addr uint32, val uint32) { b.regs[addr] = val }
func (b *fakeErrBackend) Logf(format string, args ...any) {
	b.logs = append(b.logs, fmt.Sprintf(format, args...))
}

func TestEnableAllSkipsStreamingLeavesWhenNotCapable(t *testing.T) {
	be := newFakeErrBackend()
	a := New(be, false)
	a.EnableAll()

	stc2h := Leaves[LeafSTC2H]
	assert.Zero(t, be.regs[stc2h.MaskAddr])

	rootMask := be.regs[GlblErrMaskAddr]
	assert.Zero(t, RootBitField(stc2h.RootBit).Get(rootMask))

	dsc := Leaves[LeafDSC]
	assert.NotZero(t, be.regs[dsc.MaskAddr])
	assert.Equal(t, uint32(1), RootBitField(dsc.RootBit).Get(rootMask))
}

// TestStreamingC2HErrorScenario exercises the scenario of forcing
// GLBL_ERR_STAT[ST_C2H] and C2H_ERR_STAT[MTY_MISMATCH|LEN_MISMATCH],
// expecting two named log lines and a write-1-to-clear of both the leaf
// and the root status register.
func TestStreamingC2HErrorScenario(t *testing.T) {
	be := newFakeErrBackend()
	a := New(be, true)
	a.EnableAll()

	leaf := Leaves[LeafSTC2H]
	be.regs[leaf.StatusAddr] = (1 << 0) | (1 << 1) // MTY_MISMATCH, LEN_MISMATCH
	be.regs[GlblErrStatAddr] = RootBitField(leaf.RootBit).Set(0, 1)

	fired := a.Tick()
	require.Len(t, fired, 2)
	assert.Equal(t, "MTY_MISMATCH", fired[0].Err.Name)
	assert.Equal(t, "LEN_MISMATCH", fired[1].Err.Name)

	require.Len(t, be.logs, 2)
	assert.Contains(t, be.logs[0], "MTY_MISMATCH")
	assert.Contains(t, be.logs[1], "LEN_MISMATCH")

	// Write-1-to-clear: both status registers read back the bits that
	// were present, which is how a real write-1-to-clear register looks
	// from software's point of view after the clearing write lands.
	assert.Equal(t, uint32(0x3), be.regs[leaf.StatusAddr])
	assert.NotZero(t, be.regs[GlblErrStatAddr])

	history := a.History(2)
	require.Len(t, history, 2)
	assert.Equal(t, "LEN_MISMATCH", history[0].Err.Name) // newest first
	assert.Equal(t, "MTY_MISMATCH", history[1].Err.Name)
}

func TestTickEarlyExitsOnZeroRoot(t *testing.T) {
	be := newFakeErrBackend()
	a := New(be, true)
	a.EnableAll()
	fired := a.Tick()
	assert.Nil(t, fired)
	assert.Empty(t, be.logs)
}

func TestEnableArmsSingleBitWithoutClobberingLeaf(t *testing.T) {
	be := newFakeErrBackend()
	a := New(be, true)

	a.Enable(LeafDSC, 1) // POISON
	a.Enable(LeafDSC, 2) // UR_CA

	mask := be.regs[Leaves[LeafDSC].MaskAddr]
	assert.Equal(t, uint32(1<<1|1<<2), mask)
}
