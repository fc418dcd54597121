package qdma

import (
	"context"

	"github.com/xlnx/qdma-core/internal/ctxeng"
	"github.com/xlnx/qdma-core/internal/mboxhw"
	"github.com/xlnx/qdma-core/internal/mboxproto"
	"github.com/xlnx/qdma-core/internal/sys"
)

// MboxOp and MboxAction are re-exported from internal/mboxproto so
// callers never import it directly (§2 C7).
type (
	MboxOp     = mboxproto.Op
	MboxAction = mboxproto.PFAction
)

const (
	MboxOpHello         = mboxproto.OpHello
	MboxOpBye           = mboxproto.OpBye
	MboxOpFMap          = mboxproto.OpFMap
	MboxOpCSRConf       = mboxproto.OpCSRConf
	MboxOpQCtxtWrite    = mboxproto.OpQCtxtWrite
	MboxOpQCtxtRead     = mboxproto.OpQCtxtRead
	MboxOpQCtxtClear    = mboxproto.OpQCtxtClear
	MboxOpResetPrepare  = mboxproto.OpResetPrepare
	MboxOpResetDone     = mboxproto.OpResetDone

	MboxActionNone        = mboxproto.ActionNone
	MboxActionVFOnline    = mboxproto.ActionVFOnline
	MboxActionVFOffline   = mboxproto.ActionVFOffline
	MboxActionVFReset     = mboxproto.ActionVFReset
	MboxActionPFResetDone = mboxproto.ActionPFResetDone
	MboxActionPFBye       = mboxproto.ActionPFBye
	MboxActionVFResetBye  = mboxproto.ActionVFResetBye
)

// MailboxAddrs names one function's mailbox register window (§4.6).
type MailboxAddrs struct {
	FnStatus uint32
	FnCmd    uint32
	FnTarget uint32
	AckBase  uint32
	InMsg    uint32
	OutMsg   uint32
}

func (a MailboxAddrs) toInternal() mboxhw.Addrs {
	return mboxhw.Addrs{
		FnStatus: a.FnStatus, FnCmd: a.FnCmd, FnTarget: a.FnTarget,
		AckBase: a.AckBase, InMsg: a.InMsg, OutMsg: a.OutMsg,
	}
}

// Mailbox is the public handle onto one endpoint of the mailbox protocol
// (§2 C6+C7 combined).
type Mailbox struct {
	ep *mboxproto.Endpoint
}

// PFMailboxConfig carries the device-facing fields a PF dispatch handler
// needs beyond ctx/res/csrConf: the HELLO_RESP capability word and DMA
// device index (§4.7), and the IP variant/active-mode/debug-capability
// triple REG_LIST_READ gates its dump on (§4.2).
type PFMailboxConfig struct {
	DevCap       sys.DevCap
	DmaDevIdx    uint32
	Variant      sys.IPVariant
	ActiveModes  sys.ModeMask
	DebugCapable bool
	RegRead      func(addr uint32) uint32
}

// NewPFMailbox constructs a PF-side mailbox endpoint that dispatches
// inbound VF requests by driving ctx/res against the given device index
// (§4.7 "PF dispatch handler").
func NewPFMailbox(be Backend, addrs MailboxAddrs, selfID uint16, deviceIdx uint32, ctx *ContextEngine, res *ResourceManager, csrConf func(req sys.MboxMsg) sys.MboxMsg, cfg PFMailboxConfig) *Mailbox {
	tr := mboxhw.New(be, addrs.toInternal(), true, selfID)
	disp := &mboxproto.PFDispatcher{
		Ctx: ctxengOf(ctx), Res: res, DeviceIdx: deviceIdx, CSRConf: csrConf,
		DevCap: cfg.DevCap, DmaDevIdx: cfg.DmaDevIdx, Variant: cfg.Variant,
		ActiveModes: cfg.ActiveModes, DebugCapable: cfg.DebugCapable, RegRead: cfg.RegRead,
	}
	return &Mailbox{ep: mboxproto.NewEndpoint(tr, selfID, disp.Handle)}
}

// NewVFMailbox constructs a VF-side mailbox endpoint. A VF never
// dispatches inbound requests of its own; it only issues requests to its
// PF and consumes responses.
func NewVFMailbox(be Backend, addrs MailboxAddrs, selfID uint16) *Mailbox {
	tr := mboxhw.New(be, addrs.toInternal(), false, selfID)
	return &Mailbox{ep: mboxproto.NewEndpoint(tr, selfID, nil)}
}

// Tick advances the mailbox protocol by one step (§4.7 "triggered on a
// 1 ms timer").
func (m *Mailbox) Tick() MboxAction { return m.ep.Tick() }

// Request sends op to dstFunc and blocks until the matching response
// arrives or timeoutMs elapses.
func (m *Mailbox) Request(dstFunc uint16, op MboxOp, payload [31]uint32, timeoutMs uint32) (sys.MboxMsg, error) {
	return m.ep.Request(dstFunc, op, payload, timeoutMs)
}

// Notify sends op to dstFunc without waiting for a response.
func (m *Mailbox) Notify(dstFunc uint16, op MboxOp, payload [31]uint32) {
	m.ep.Notify(dstFunc, op, payload)
}

// ResetCoordinator fans RESET_PREPARE out across a set of VF mailboxes
// and waits for every VF's RESET_PREPARE response (§4.7 step 4); it does
// not wait for a separate PF_RESET_VF_BYE message.
type ResetCoordinator struct {
	rc *mboxproto.ResetCoordinator
}

// NewResetCoordinator builds a coordinator over one PF-side mailbox
// endpoint per online VF, keyed by VF function id.
func NewResetCoordinator(byVF map[uint16]*Mailbox) *ResetCoordinator {
	eps := make(map[uint16]*mboxproto.Endpoint, len(byVF))
	for id, m := range byVF {
		eps[id] = m.ep
	}
	return &ResetCoordinator{rc: mboxproto.NewResetCoordinator(eps)}
}

// PrepareAll drives the fan-out reset handshake (§4.7), waiting up to
// timeoutMs for each VF's response.
func (r *ResetCoordinator) PrepareAll(ctx context.Context, timeoutMs uint32) error {
	return r.rc.PrepareAll(ctx, timeoutMs)
}

// NotifyResetDone tells every VF the PF-side reset sequence completed.
func (r *ResetCoordinator) NotifyResetDone() { r.rc.NotifyResetDone() }

// ctxengOf reaches into a ContextEngine for its internal engine handle,
// needed to build a PFDispatcher without exporting internal/ctxeng from
// the root package's public surface.
func ctxengOf(c *ContextEngine) *ctxeng.Engine { return c.eng }
