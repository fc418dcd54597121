// Package mboxhw implements the mailbox transport (spec.md §2 C6): the
// bit-exact FN_STATUS/outbox/inbox register layout and the send/receive
// primitives that move one fixed-size message at a time between a PF and
// one of its VFs.
package mboxhw

import (
	"github.com/xlnx/qdma-core/internal/errs"
	"github.com/xlnx/qdma-core/internal/sys"
)

// Backend is the subset of the host platform shim this package needs.
type Backend interface {
	RegRead(addr uint32) uint32
	RegWrite(addr uint32, val uint32)
}

// Addrs names the mailbox register window for one function (§4.6,
// grounded on QDMA_OFFSET_MBOX_BASE_PF/VF in regmap). InMsg/OutMsg are
// the 32-word payload windows; FnStatus/FnCmd/FnTarget/AckBase are the
// control registers.
type Addrs struct {
	FnStatus uint32
	FnCmd    uint32
	FnTarget uint32 // PF only: destination function id for a send
	AckBase  uint32 // PF only: per-function ack-bit array
	InMsg    uint32
	OutMsg   uint32
}

// FnCmd opcodes, written to FnCmd to kick a send or acknowledge a receive
// (§4.6).
const (
	FnCmdSend uint32 = 1
	FnCmdRcv  uint32 = 2
)

// Transport drives one function's mailbox register window.
type Transport struct {
	be     Backend
	addrs  Addrs
	isPF   bool
	selfID uint16
}

// New constructs a Transport. isPF selects the PF-only send-path fields
// (FN_TARGET, per-function ack clearing); selfID is this function's own
// id, stamped into outgoing VF messages so a PF can always trust
// src_func (§4.6 "the source function id is read from status and
// overwrites the payload's src field to prevent spoofing").
func New(be Backend, addrs Addrs, isPF bool, selfID uint16) *Transport {
	return &Transport{be: be, addrs: addrs, isPF: isPF, selfID: selfID}
}

// Send writes one message to the outbox and kicks the send command
// (§4.6 "Send primitive"). For a PF, dstFunc selects which VF's ack bit
// is cleared and which FN_TARGET is programmed before the payload copy.
func (t *Transport) Send(dstFunc uint16, msg sys.MboxMsg) error {
	status := t.be.RegRead(t.addrs.FnStatus)
	if sys.FnStatusOutMsg.GetBool(status) {
		return errs.New("mboxhw.send", errs.CodeMboxBusy, nil)
	}

	if t.isPF {
		t.be.RegWrite(t.addrs.FnTarget, uint32(dstFunc))
		ackBit := sys.Field{Lo: uint8(dstFunc % 32), Hi: uint8(dstFunc % 32)}
		ackReg := t.addrs.AckBase + uint32(dstFunc/32)*4
		cur := t.be.RegRead(ackReg)
		t.be.RegWrite(ackReg, ackBit.Set(cur, 0))
	}

	msg.SrcFunc = t.selfID
	msg.DstFunc = dstFunc
	words := msg.Words()
	for i, w := range words {
		t.be.RegWrite(t.addrs.OutMsg+uint32(i*4), w)
	}
	t.be.RegWrite(t.addrs.FnCmd, FnCmdSend)
	return nil
}

// Recv reads one message from the inbox, if present (§4.6 "Receive
// primitive"). Returns Err(NoMessage) if the in-message bit is clear,
// Err(AllZeroMessage) if every word reads zero (the observed hardware
// quirk the core never trusts).
func (t *Transport) Recv() (sys.MboxMsg, error) {
	status := t.be.RegRead(t.addrs.FnStatus)
	if !sys.FnStatusInMsg.GetBool(status) {
		return sys.MboxMsg{}, errs.New("mboxhw.recv", errs.CodeMboxNoMessage, nil)
	}

	var words [sys.MboxMsgWords]uint32
	for i := range words {
		words[i] = t.be.RegRead(t.addrs.InMsg + uint32(i*4))
	}
	if sys.AllZeroWords(words) {
		return sys.MboxMsg{}, errs.New("mboxhw.recv", errs.CodeMboxAllZero, nil)
	}

	msg := sys.MboxMsgFromWords(words)
	if t.isPF {
		msg.SrcFunc = uint16(sys.FnStatusSrcFunc.Get(status))
	}

	t.be.RegWrite(t.addrs.FnCmd, FnCmdRcv)
	return msg, nil
}
