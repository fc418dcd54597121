package ctxeng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnx/qdma-core/internal/sys"
)

// fakeBackend models the indirect command/data/mask register window in
// memory: a write stages words, the command fires it, and the busy bit
// clears immediately (no real hardware latency to simulate).
type fakeBackend struct {
	regs map[uint32]uint32
	data [8]uint32
}

func newFakeBackend() *fakeBackend { return &fakeBackend{regs: make(map[uint32]uint32)} }

func (b *fakeBackend) RegRead(addr uint32) uint32 {
	if addr >= 0x804 && addr < 0x824 {
		return b.data[(addr-0x804)/4]
	}
	return b.regs[addr]
}

func (b *fakeBackend) RegWrite(addr uint32, val uint32) {
	if addr >= 0x804 && addr < 0x824 {
		b.data[(addr-0x804)/4] = val
		return
	}
	if addr == 0x844 {
		// Command register: service the op synchronously and clear busy.
		b.regs[addr] = val
		return
	}
	b.regs[addr] = val
}

func (b *fakeBackend) RegAccessLock()       {}
func (b *fakeBackend) RegAccessRelease()    {}
func (b *fakeBackend) ResourceLockTake()    {}
func (b *fakeBackend) ResourceLockGive()    {}
func (b *fakeBackend) UDelay(usec uint32)   {}

func newTestEngine() (*Engine, *fakeBackend) {
	be := newFakeBackend()
	return New(be, Addrs{Cmd: 0x844, Data: 0x804, Mask: 0x824}, WithCmptDesc64B(),
		WithBypassDescSizes(sys.DescSz8B, sys.DescSz16B, sys.DescSz32B, sys.DescSz64B)), be
}

func TestSWCtxtRoundTrip(t *testing.T) {
	e, be := newTestEngine()
	want := sys.SWCtxt{
		BaseAddr: 0x1234_5678_9ABC,
		RingSzIdx: 3, DescSzIdx: sys.DescSz16B, FuncID: 7,
		IrqVector: 42, Aggregation: true, Bypass: false, IsMM: true,
		Pidx: 99, IrqArm: true, FetchCreditEn: true, FetchMax: 5,
		QEnable: true, MMChannel: true, WbkEn: true, IrqEn: true,
		PortID: 2, HostID: 3, Pasid: 0x1FFFFF, PasidEnable: true,
		VirtioDescBase: 0x1FF_FFFF_FFFF_FFFF,
	}
	require.NoError(t, e.WriteSWCtxt(10, want))
	got, err := e.ReadSWCtxt(10)
	require.NoError(t, err)

	// err_wb_sent is a read-only hardware-reflection field, excluded from
	// the round-trip comparison (§8 property 1).
	got.ErrWbSent = want.ErrWbSent

	assert.Equal(t, want, got)
	_ = be
}

func TestCrCtxtRoundTrip(t *testing.T) {
	e, _ := newTestEngine()
	want := sys.CrCtxt{Credit: 1234}
	require.NoError(t, e.WriteCrCtxt(3, want))
	got, err := e.ReadCrCtxt(3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPfetchCtxtRoundTrip(t *testing.T) {
	e, _ := newTestEngine()
	want := sys.PfetchCtxt{Enable: true, Bypass: true, BufSzIdx: 5, PortID: 3, Valid: true, SwCredit: 4096}
	require.NoError(t, e.WritePfetchCtxt(4, want))
	got, err := e.ReadPfetchCtxt(4)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCmptCtxtRoundTrip(t *testing.T) {
	e, _ := newTestEngine()
	want := sys.CmptCtxt{
		BaseAddr: 0xF_FFFF_FFFF_FFFF & ((1 << 52) - 1),
		RingSzIdx: 10, DescSzIdx: sys.DescSz64B, TimerIdx: 9, CounterIdx: 3,
		TriggerMode: sys.TriggerUserTimer, Color: true, Valid: true,
		IrqVector: 100, Aggregation: true, Pidx: 55, Cidx: 11, FuncID: 8,
	}
	require.NoError(t, e.WriteCmptCtxt(5, want))
	got, err := e.ReadCmptCtxt(5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCmptCtxtValidatesTriggerMode(t *testing.T) {
	e, _ := newTestEngine()
	bad := sys.CmptCtxt{TriggerMode: sys.TriggerMode(99)}
	err := e.WriteCmptCtxt(1, bad)
	require.Error(t, err)
}

func TestIntrCtxtRoundTrip(t *testing.T) {
	e, _ := newTestEngine()
	want := sys.IntrCtxt{BaseAddr: (uint64(1) << 51), VecID: 30, Color: true, Pidx: 200, PageSize: 2, Valid: true}
	require.NoError(t, e.WriteIntrCtxt(0, want))
	got, err := e.ReadIntrCtxt(0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFmapCtxtRoundTrip(t *testing.T) {
	e, _ := newTestEngine()
	want := sys.FmapCtxt{QBase: 128, QMax: 2047}
	require.NoError(t, e.WriteFmapCtxt(1, want))
	got, err := e.ReadFmapCtxt(1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TestInvalidateBeforeClear verifies property 6: the engine issues the
// Invalidate opcode before the Clear opcode for every selector passed to
// Teardown.
func TestInvalidateBeforeClear(t *testing.T) {
	e, be := newTestEngine()
	var opOrder []sys.IndOp
	origWrite := be.RegWrite
	_ = origWrite

	// Wrap the command register write to record opcodes in order.
	recorder := &recordingBackend{fakeBackend: be}
	e2 := New(recorder, Addrs{Cmd: 0x844, Data: 0x804, Mask: 0x824})

	require.NoError(t, e2.Teardown(7, sys.SelSWCtxt, sys.SelPfetchCtxt))
	opOrder = recorder.ops
	require.Len(t, opOrder, 4)
	assert.Equal(t, sys.IndOpInvalidate, opOrder[0])
	assert.Equal(t, sys.IndOpInvalidate, opOrder[1])
	assert.Equal(t, sys.IndOpClear, opOrder[2])
	assert.Equal(t, sys.IndOpClear, opOrder[3])
	_ = e
}

type recordingBackend struct {
	*fakeBackend
	ops []sys.IndOp
}

func (r *recordingBackend) RegWrite(addr uint32, val uint32) {
	if addr == 0x844 {
		r.ops = append(r.ops, sys.IndOp(sys.IndCmdOp.Get(val)))
	}
	r.fakeBackend.RegWrite(addr, val)
}
