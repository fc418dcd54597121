package mboxproto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnx/qdma-core/internal/errs"
	"github.com/xlnx/qdma-core/internal/mboxhw"
	"github.com/xlnx/qdma-core/internal/sys"
)

const (
	pfFnStatus, pfFnCmd, pfFnTarget, pfAckBase, pfInMsg, pfOutMsg = 0x1000, 0x1004, 0x1008, 0x1010, 0x1100, 0x1200
	vfFnStatus, vfFnCmd, vfInMsg, vfOutMsg                       = 0x2000, 0x2004, 0x2100, 0x2200
)

// bus models the loopback register fabric a PF and one VF's mailbox
// windows actually share: a send on one side lands in the other side's
// inbox and flips its in-msg status bit; a receive-ack flips the
// sender's busy bit back off (§4.6).
type bus struct {
	pfStatus, vfStatus uint32
	pfIn, vfIn         [sys.MboxMsgWords]uint32
	pfOut, vfOut       [sys.MboxMsgWords]uint32
}

type pfSide struct{ b *bus }
type vfSide struct{ b *bus }

func (s pfSide) RegRead(addr uint32) uint32 {
	switch {
	case addr == pfFnStatus:
		return s.b.pfStatus
	case addr >= pfInMsg && addr < pfInMsg+sys.MboxMsgWords*4:
		return s.b.pfIn[(addr-pfInMsg)/4]
	default:
		return 0
	}
}

func (s pfSide) RegWrite(addr uint32, val uint32) {
	switch {
	case addr >= pfOutMsg && addr < pfOutMsg+sys.MboxMsgWords*4:
		s.b.pfOut[(addr-pfOutMsg)/4] = val
	case addr == pfFnCmd && val == mboxhw.FnCmdSend:
		s.b.vfIn = s.b.pfOut
		s.b.vfStatus = sys.FnStatusInMsg.SetBool(s.b.vfStatus, true)
		s.b.pfStatus = sys.FnStatusOutMsg.SetBool(s.b.pfStatus, true)
	case addr == pfFnCmd && val == mboxhw.FnCmdRcv:
		s.b.pfStatus = sys.FnStatusInMsg.SetBool(s.b.pfStatus, false)
		s.b.vfStatus = sys.FnStatusOutMsg.SetBool(s.b.vfStatus, false)
	}
}

func (s vfSide) RegRead(addr uint32) uint32 {
	switch {
	case addr == vfFnStatus:
		return s.b.vfStatus
	case addr >= vfInMsg && addr < vfInMsg+sys.MboxMsgWords*4:
		return s.b.vfIn[(addr-vfInMsg)/4]
	default:
		return 0
	}
}

func (s vfSide) RegWrite(addr uint32, val uint32) {
	switch {
	case addr >= vfOutMsg && addr < vfOutMsg+sys.MboxMsgWords*4:
		s.b.vfOut[(addr-vfOutMsg)/4] = val
	case addr == vfFnCmd && val == mboxhw.FnCmdSend:
		s.b.pfIn = s.b.vfOut
		// The PF's FN_STATUS reports which function the message came from.
		s.b.pfStatus = sys.FnStatusSrcFunc.Set(s.b.pfStatus, sys.MsgSrcFunc.Get(s.b.vfOut[0]))
		s.b.pfStatus = sys.FnStatusInMsg.SetBool(s.b.pfStatus, true)
		s.b.vfStatus = sys.FnStatusOutMsg.SetBool(s.b.vfStatus, true)
	case addr == vfFnCmd && val == mboxhw.FnCmdRcv:
		s.b.vfStatus = sys.FnStatusInMsg.SetBool(s.b.vfStatus, false)
		s.b.pfStatus = sys.FnStatusOutMsg.SetBool(s.b.pfStatus, false)
	}
}

func newPair() (*Endpoint, *Endpoint) { return newPairWithVF(1) }

// newPairWithVF is newPair with the VF side bound to function id vfID.
func newPairWithVF(vfID uint16) (*Endpoint, *Endpoint) {
	b := &bus{}
	pfTr := mboxhw.New(pfSide{b}, mboxhw.Addrs{FnStatus: pfFnStatus, FnCmd: pfFnCmd, FnTarget: pfFnTarget, AckBase: pfAckBase, InMsg: pfInMsg, OutMsg: pfOutMsg}, true, 0)
	vfTr := mboxhw.New(vfSide{b}, mboxhw.Addrs{FnStatus: vfFnStatus, FnCmd: vfFnCmd, InMsg: vfInMsg, OutMsg: vfOutMsg}, false, vfID)
	return NewEndpoint(pfTr, 0, nil), NewEndpoint(vfTr, vfID, nil)
}

// pump ticks one endpoint n times; tests drive Request synchronously on
// one side while manually ticking the other.
func pump(other *Endpoint, n int) {
	for i := 0; i < n; i++ {
		other.Tick()
	}
}

func TestRequestResponsePairing(t *testing.T) {
	pf, vf := newPair()
	pf.handler = func(req sys.MboxMsg) (sys.MboxMsg, PFAction) {
		resp := sys.MboxMsg{}
		resp.Payload[0] = req.Payload[0] + 1
		return resp, ActionNone
	}

	done := make(chan struct{})
	var resp sys.MboxMsg
	var err error
	go func() {
		resp, err = vf.Request(0, OpHello, [31]uint32{41}, 200)
		close(done)
	}()

	// Service the PF side until the VF's waiter is satisfied.
	for i := 0; i < 50; i++ {
		pf.Tick()
		select {
		case <-done:
			i = 50
		default:
		}
		time.Sleep(time.Millisecond)
	}
	<-done

	require.NoError(t, err)
	assert.EqualValues(t, 42, resp.Payload[0])
}

func TestMailboxTimeoutWhenPartnerSilent(t *testing.T) {
	b := &bus{}
	vfTr := mboxhw.New(vfSide{b}, mboxhw.Addrs{FnStatus: vfFnStatus, FnCmd: vfFnCmd, InMsg: vfInMsg, OutMsg: vfOutMsg}, false, 1)
	vf := NewEndpoint(vfTr, 1, nil)

	_, err := vf.Request(0, OpQAddOrDel, [31]uint32{}, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrMboxTimeout)
}

func TestNotifyIsFireAndForget(t *testing.T) {
	pf, vf := newPair()
	received := false
	pf.handler = func(req sys.MboxMsg) (sys.MboxMsg, PFAction) {
		received = true
		return sys.MboxMsg{}, ActionNone
	}
	vf.Notify(0, OpQNotifyAdd, [31]uint32{7})
	pump(vf, 1) // Notify only queues; the VF's next tick sends it
	pump(pf, 3)
	assert.True(t, received)
}

func TestResponseNeverDeliveredToWrongWaiter(t *testing.T) {
	pf, vf := newPair()
	pf.handler = func(req sys.MboxMsg) (sys.MboxMsg, PFAction) {
		return sys.MboxMsg{}, ActionNone
	}

	key := pendingKey{op: OpHello.Response(), src: 0, dst: 9}
	ch := make(chan sys.MboxMsg, 1)
	vf.pending[key] = ch // a stale waiter for a different src/dst pairing

	done := make(chan struct{})
	go func() {
		_, _ = vf.Request(0, OpHello, [31]uint32{}, 50)
		close(done)
	}()
	for i := 0; i < 60; i++ {
		pf.Tick()
		time.Sleep(time.Millisecond)
	}
	<-done

	select {
	case <-ch:
		t.Fatal("stale waiter must never receive a response for a different pairing")
	default:
	}
}
