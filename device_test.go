package qdma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnx/qdma-core/internal/sys"
)

func testDeviceAddrs() DeviceAddrs {
	return DeviceAddrs{
		IndCmd: 0x844, IndData: 0x804, IndMask: 0x824,
		CSR:   testCSRAddrs(),
		Probe: testProbeAddrs(),
	}
}

func bringUpPF(t *testing.T) (*Device, *fakeBackend) {
	t.Helper()
	be := newFakeBackend()
	addrs := testDeviceAddrs()
	be.regs[addrs.Probe.ChannelCap] = sys.CapNumQueues.Set(0, 64)
	be.regs[addrs.Probe.ChannelMDMA] = sys.CapMMC2H.SetBool(0, true) | sys.CapMMH2C.SetBool(0, true)
	be.regs[addrs.Probe.BarVisible[0]] = 0

	d, err := NewPFDevice(be, 0, addrs, nil)
	require.NoError(t, err)
	return d, be
}

func TestNewPFDeviceBringUp(t *testing.T) {
	d, be := bringUpPF(t)

	assert.EqualValues(t, 64, d.Cap.NumQueues)
	require.NotNil(t, d.Ctx)
	require.NotNil(t, d.CSR)
	require.NotNil(t, d.Errors)
	require.NotNil(t, d.Res)

	// CSR defaults were programmed as part of bring-up.
	v, err := d.CSR.RingSize(0)
	require.NoError(t, err)
	assert.Equal(t, sys.DefaultRingSizes[0], v)

	// The resource manager has a self entry sized to the probed queue count.
	info, err := d.Res.QInfoGet(d.selfKey)
	require.NoError(t, err)
	assert.EqualValues(t, 64, info.Count)

	_ = be
}

func TestPFCreateAndDestroyQueue(t *testing.T) {
	d, _ := bringUpPF(t)

	sw := SWCtxt{BaseAddr: 0x1000, IsMM: true, FuncID: 0}
	require.NoError(t, d.CreateQueue(3, sw, false))

	count, err := d.Res.GetActiveQueueCount(d.selfKey, QTypeH2C)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	got, err := d.Ctx.ReadSW(3)
	require.NoError(t, err)
	assert.Equal(t, sw.BaseAddr, got.BaseAddr)

	require.NoError(t, d.DestroyQueue(3, false))
}

// cmdRecorder wraps fakeBackend to capture the (op, selector) pair of
// every indirect-context command issued, in order, so a test can assert
// on the exact command sequence the engine drives (§8 S2). Like the
// hardware, it keeps each context type's data words apart: a write
// command saves the data window for its selector and a read command
// restores it, so a later write of another context does not change what
// a read returns.
type cmdRecorder struct {
	*fakeBackend
	cmdAddr  uint32
	dataAddr uint32
	ops      []sys.IndOp
	sels     []sys.CtxSelector
	saved    map[sys.CtxSelector][8]uint32
}

func (r *cmdRecorder) RegWrite(addr uint32, val uint32) {
	if addr == r.cmdAddr {
		op, sel := sys.IndOp(sys.IndCmdOp.Get(val)), sys.CtxSelector(sys.IndCmdSelector.Get(val))
		r.ops = append(r.ops, op)
		r.sels = append(r.sels, sel)
		var w [8]uint32
		switch op {
		case sys.IndOpWrite:
			for i := range w {
				w[i] = r.regs[r.dataAddr+uint32(4*i)]
			}
			r.saved[sel] = w
		case sys.IndOpRead:
			w = r.saved[sel]
			for i := range w {
				r.regs[r.dataAddr+uint32(4*i)] = w[i]
			}
		}
	}
	r.fakeBackend.RegWrite(addr, val)
}

// TestPFCreateStreamingQueueResolvesIndicesAndOrdersCommands exercises §8
// S2: creating a streaming C2H queue resolves every descq_conf size/
// threshold to its CSR table index, then issues three clear commands on
// (sw, pfetch, cmpt) followed by three write commands, in that order.
func TestPFCreateStreamingQueueResolvesIndicesAndOrdersCommands(t *testing.T) {
	d, be := bringUpPF(t)
	addrs := testDeviceAddrs()

	ringIdx, err := d.CSR.ResolveRingSizeIndex(257)
	require.NoError(t, err)
	bufIdx, err := d.CSR.ResolveC2HBufSizeIndex(2048)
	require.NoError(t, err)
	timerIdx, err := d.CSR.ResolveTimerThresholdIndex(25)
	require.NoError(t, err)
	counterIdx, err := d.CSR.ResolveCounterThresholdIndex(32)
	require.NoError(t, err)

	recorder := &cmdRecorder{fakeBackend: be, cmdAddr: addrs.IndCmd, dataAddr: addrs.IndData, saved: map[sys.CtxSelector][8]uint32{}}
	d.Ctx = NewContextEngine(recorder, addrs.IndCmd, addrs.IndData, addrs.IndMask)

	sw := SWCtxt{RingSzIdx: ringIdx, IsMM: false}
	conf := StreamingQueueConf{
		Pfetch: PfetchCtxt{BufSzIdx: bufIdx},
		Cmpt: CmptCtxt{
			RingSzIdx: ringIdx, DescSzIdx: sys.DescSz16B,
			TimerIdx: timerIdx, CounterIdx: counterIdx,
			TriggerMode: sys.UserTimerCount,
		},
	}
	require.NoError(t, d.CreateQueue(10, sw, true, conf))

	require.GreaterOrEqual(t, len(recorder.ops), 6)
	assert.Equal(t, []sys.IndOp{
		sys.IndOpClear, sys.IndOpClear, sys.IndOpClear,
		sys.IndOpWrite, sys.IndOpWrite, sys.IndOpWrite,
	}, recorder.ops[:6])
	assert.Equal(t, []sys.CtxSelector{
		sys.SelSWCtxt, sys.SelPfetchCtxt, sys.SelCmptCtxt,
		sys.SelSWCtxt, sys.SelPfetchCtxt, sys.SelCmptCtxt,
	}, recorder.sels[:6])

	got, err := d.Ctx.ReadCmpt(10)
	require.NoError(t, err)
	assert.Equal(t, timerIdx, got.TimerIdx)
	assert.Equal(t, counterIdx, got.CounterIdx)

	count, err := d.Res.GetActiveQueueCount(d.selfKey, QTypeC2H)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestVFDeviceHasNoLocalContextEngine(t *testing.T) {
	be := newFakeBackend()
	d := NewVFDevice(be, 0, 1, nil)
	assert.Nil(t, d.Ctx)
	assert.Nil(t, d.CSR)
	assert.Nil(t, d.Errors)
}
