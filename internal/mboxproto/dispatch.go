package mboxproto

import (
	"github.com/xlnx/qdma-core/internal/ctxeng"
	"github.com/xlnx/qdma-core/internal/errs"
	"github.com/xlnx/qdma-core/internal/regmap"
	"github.com/xlnx/qdma-core/internal/resmgr"
	"github.com/xlnx/qdma-core/internal/sys"
)

// PFDispatcher builds a Handler that serves a VF's mailbox requests by
// driving the PF's own indirect-context engine and resource manager on
// its behalf (§4.7 "PF dispatch handler invoking C3/C4/C5"). CSRConf and
// RegRead, if set, handle OpCSRConf and OpRegListRead respectively; both
// are injected rather than reached via a direct import because the
// Backend they need lives in the root package, which this internal
// package must not import (it would cycle back through the root package
// that wires mboxproto in).
type PFDispatcher struct {
	Ctx       *ctxeng.Engine
	Res       *resmgr.Manager
	DeviceIdx uint32
	CSRConf   func(req sys.MboxMsg) sys.MboxMsg
	RegRead   func(addr uint32) uint32

	// DevCap, Variant, ActiveModes and DebugCapable describe the device
	// this dispatcher serves, needed to answer HELLO_RESP (§4.7 "receive
	// (qbase, qmax, dev_cap, dma_dev_idx)") and REG_LIST_READ (§4.2
	// "mode_mask capability gating on register dump").
	DevCap       sys.DevCap
	DmaDevIdx    uint32
	Variant      sys.IPVariant
	ActiveModes  sys.ModeMask
	DebugCapable bool
}

// decodeQid and decodeSelector read mbox_descq_conf's wire layout for the
// context-opcode family: word0 = qid (or, for intr_ctxt/fmap_ctxt,
// ring id / func id), word1 = selector (reusing sys.CtxSelector, unused
// by the INTR_CTXT_* opcodes which are already selector-specific),
// remaining words carry the marshaled context for write requests (§4.6
// struct mbox_descq_conf).
func decodeQid(req sys.MboxMsg) uint16     { return uint16(req.Payload[0]) }
func decodeSelector(req sys.MboxMsg) uint8 { return uint8(req.Payload[1]) }

// Handle implements Handler (§4.7).
func (d *PFDispatcher) Handle(req sys.MboxMsg) (sys.MboxMsg, PFAction) {
	resp := sys.MboxMsg{}
	switch Op(req.Op) {
	case OpHello:
		return d.handleHello(req)

	case OpBye:
		key := resmgr.FuncKey{DeviceIndex: d.DeviceIdx, FuncID: req.SrcFunc}
		d.Res.DestroyEntry(key) //nolint:errcheck
		return resp, ActionVFOffline

	case OpFMap:
		key := resmgr.FuncKey{DeviceIndex: d.DeviceIdx, FuncID: req.SrcFunc}
		info, err := d.Res.QInfoGet(key)
		if err == nil {
			err = d.Ctx.WriteFmapCtxt(req.SrcFunc, sys.FmapCtxt{QBase: info.Base, QMax: info.Count})
		}
		resp.Status = statusOf(err)
		return resp, ActionNone

	case OpQAddOrDel:
		key := resmgr.FuncKey{DeviceIndex: d.DeviceIdx, FuncID: req.SrcFunc}
		requested := uint16(req.Payload[0])
		base, err := d.Res.Allocate(key, requested)
		if err == nil {
			err = d.Ctx.WriteFmapCtxt(req.SrcFunc, sys.FmapCtxt{QBase: base, QMax: requested})
		}
		resp.Status = statusOf(err)
		resp.Payload[0] = uint32(base)
		resp.Payload[1] = uint32(requested)
		return resp, ActionNone

	case OpQNotifyAdd:
		key := resmgr.FuncKey{DeviceIndex: d.DeviceIdx, FuncID: req.SrcFunc}
		err := d.Res.IncrementActiveQueue(key, sys.QType(req.Payload[0]))
		resp.Status = statusOf(err)
		return resp, ActionNone

	case OpQNotifyDel:
		key := resmgr.FuncKey{DeviceIndex: d.DeviceIdx, FuncID: req.SrcFunc}
		err := d.Res.DecrementActiveQueue(key, sys.QType(req.Payload[0]))
		resp.Status = statusOf(err)
		return resp, ActionNone

	case OpQCtxtWrite:
		qid := decodeQid(req)
		sel := sys.CtxSelector(decodeSelector(req))
		err := d.writeCtxt(sel, qid, req.Payload[2:])
		resp.Status = statusOf(err)
		return resp, ActionNone

	case OpQCtxtRead:
		qid := decodeQid(req)
		sel := sys.CtxSelector(decodeSelector(req))
		words, err := d.readCtxt(sel, qid)
		resp.Status = statusOf(err)
		copy(resp.Payload[:], words)
		return resp, ActionNone

	case OpQCtxtClear:
		qid := decodeQid(req)
		sel := sys.CtxSelector(decodeSelector(req))
		err := d.Ctx.Teardown(qid, sel)
		resp.Status = statusOf(err)
		return resp, ActionNone

	case OpQCtxtInvalidate:
		qid := decodeQid(req)
		sel := sys.CtxSelector(decodeSelector(req))
		_, err := d.invalidateOnly(sel, qid)
		resp.Status = statusOf(err)
		return resp, ActionNone

	case OpIntrCtxtWrite:
		ringID := decodeQid(req)
		err := d.Ctx.WriteIntrCtxt(ringID, unmarshalIntrCtxt(req.Payload[2:]))
		resp.Status = statusOf(err)
		return resp, ActionNone

	case OpIntrCtxtRead:
		ringID := decodeQid(req)
		c, err := d.Ctx.ReadIntrCtxt(ringID)
		resp.Status = statusOf(err)
		copy(resp.Payload[:], marshalIntrCtxt(c))
		return resp, ActionNone

	case OpIntrCtxtClear:
		ringID := decodeQid(req)
		err := d.Ctx.ClearIntrCtxt(ringID)
		resp.Status = statusOf(err)
		return resp, ActionNone

	case OpIntrCtxtInvalidate:
		ringID := decodeQid(req)
		err := d.Ctx.InvalidateIntrCtxt(ringID)
		resp.Status = statusOf(err)
		return resp, ActionNone

	case OpQActiveCntGet:
		key := resmgr.FuncKey{DeviceIndex: d.DeviceIdx, FuncID: req.SrcFunc}
		qt := sys.QType(req.Payload[0])
		count, err := d.Res.GetActiveQueueCount(key, qt)
		resp.Status = statusOf(err)
		resp.Payload[0] = count
		return resp, ActionNone

	case OpRegListRead:
		return d.regListRead(req), ActionNone

	case OpCSRConf:
		if d.CSRConf != nil {
			return d.CSRConf(req), ActionNone
		}
		return resp, ActionNone

	case OpResetPrepare:
		return resp, ActionVFReset

	case OpResetDone:
		return resp, ActionPFResetDone

	case OpPFBye:
		return resp, ActionPFBye

	case OpPFResetVFBye:
		return resp, ActionVFResetBye

	default:
		resp.Status = -1
		return resp, ActionNone
	}
}

// handleHello registers the VF (a fresh, zero-width resource-manager
// entry if it isn't already known) and answers with its current
// (qbase, qmax, dev_cap, dma_dev_idx) (§4.7 "HELLO... register, receive
// (qbase, qmax, dev_cap, dma_dev_idx)"). Queue ranges are handed out by
// the separate QREQ opcode, not HELLO, so the function-map register
// written here is the zero placeholder S1 describes ("VF function-map
// register written with {qbase:0, qmax:0}"), not the VF's eventual
// allocation.
func (d *PFDispatcher) handleHello(req sys.MboxMsg) (sys.MboxMsg, PFAction) {
	resp := sys.MboxMsg{}
	key := resmgr.FuncKey{DeviceIndex: d.DeviceIdx, FuncID: req.SrcFunc}

	info, err := d.Res.QInfoGet(key)
	if err != nil {
		if err := d.Res.CreateEntry(key, 0, 0); err != nil {
			resp.Status = statusOf(err)
			return resp, ActionNone
		}
		info, _ = d.Res.QInfoGet(key)
	}

	if err := d.Ctx.WriteFmapCtxt(req.SrcFunc, sys.FmapCtxt{QBase: 0, QMax: 0}); err != nil {
		resp.Status = statusOf(err)
		return resp, ActionNone
	}

	resp.Payload[0] = uint32(info.Base)
	resp.Payload[1] = uint32(info.Count)
	resp.Payload[2] = marshalDevCap(d.DevCap)
	resp.Payload[3] = d.DmaDevIdx
	return resp, ActionVFOnline
}

// marshalDevCap packs the HELLO_RESP dev_cap word: NumPFs in the low
// byte, NumQueues in the next two, one flag bit per remaining capability
// (§4.7, §6 DevCap).
func marshalDevCap(c sys.DevCap) uint32 {
	v := uint32(c.NumPFs) | uint32(c.NumQueues)<<8
	if c.FLRPresent {
		v |= 1 << 24
	}
	if c.MMEnable {
		v |= 1 << 25
	}
	if c.STEnable {
		v |= 1 << 26
	}
	if c.MMCmptEnable {
		v |= 1 << 27
	}
	if c.MailboxEn {
		v |= 1 << 28
	}
	if c.DebugMode {
		v |= 1 << 29
	}
	if c.CmptDesc64B {
		v |= 1 << 30
	}
	return v
}

// regsPerGroup bounds how many (addr, value) pairs fit in one
// REG_LIST_READ response alongside its leading count word, within the
// mailbox's fixed 31-word payload.
const regsPerGroup = 15

// regListRead answers REG_LIST_READ by paging through the visible
// register table for this device's IP variant, regsPerGroup registers
// per group, the group selected by group_num in Payload[0] (§4.2 "grouped register dump", SPEC_FULL.md §12 supplemented feature;
// grounded on qdma_xdebug.c's qdma_mbox_compose_reg_read / struct
// qdma_reg_data {addr, val}, which carries register addresses and
// values over the wire and leaves name lookup to the receiver's own
// register table rather than transmitting names).
func (d *PFDispatcher) regListRead(req sys.MboxMsg) sys.MboxMsg {
	resp := sys.MboxMsg{}
	if d.RegRead == nil {
		resp.Status = -1
		return resp
	}

	visible := regmap.ForVariant(d.Variant).Visible(d.ActiveModes, d.DebugCapable)
	start := int(req.Payload[0]) * regsPerGroup
	if start >= len(visible) {
		return resp
	}
	end := start + regsPerGroup
	if end > len(visible) {
		end = len(visible)
	}

	group := visible[start:end]
	resp.Payload[0] = uint32(len(group))
	for i, r := range group {
		resp.Payload[1+2*i] = r.Addr
		resp.Payload[2+2*i] = d.RegRead(r.Addr)
	}
	return resp
}

func statusOf(err error) int8 {
	if err != nil {
		return -1
	}
	return 0
}

func (d *PFDispatcher) writeCtxt(sel sys.CtxSelector, key uint16, words []uint32) error {
	switch sel {
	case sys.SelSWCtxt:
		return d.Ctx.WriteSWCtxt(key, sys.SWCtxt{
			BaseAddr: sys.JoinHiLo64(words[0], words[1]),
			FuncID:   uint16(words[2]),
		})
	case sys.SelHWCtxt:
		// hw_ctxt is hardware-reflection only; software never writes it.
		return errs.New("mboxproto.write_ctxt", errs.CodeInvalidParam, nil)
	case sys.SelCrCtxt:
		return d.Ctx.WriteCrCtxt(key, sys.CrCtxt{Credit: uint16(words[0])})
	case sys.SelPfetchCtxt:
		return d.Ctx.WritePfetchCtxt(key, sys.PfetchCtxt{
			Enable: words[0] != 0, BufSzIdx: uint8(words[1]), PortID: uint8(words[2]),
		})
	case sys.SelCmptCtxt:
		return d.Ctx.WriteCmptCtxt(key, unmarshalCmptCtxt(words))
	case sys.SelIntrCtxt:
		return d.Ctx.WriteIntrCtxt(key, unmarshalIntrCtxt(words))
	case sys.SelFmapCtxt:
		return d.Ctx.WriteFmapCtxt(key, sys.FmapCtxt{QBase: uint16(words[0]), QMax: uint16(words[1])})
	default:
		return errs.New("mboxproto.write_ctxt", errs.CodeInvalidParam, nil)
	}
}

func (d *PFDispatcher) readCtxt(sel sys.CtxSelector, key uint16) ([]uint32, error) {
	switch sel {
	case sys.SelSWCtxt:
		c, err := d.Ctx.ReadSWCtxt(key)
		lo, hi := sys.SplitHiLo64(c.BaseAddr)
		return []uint32{lo, hi, uint32(c.FuncID)}, err
	case sys.SelHWCtxt:
		c, err := d.Ctx.ReadHWCtxt(key)
		return []uint32{uint32(c.Cidx), uint32(c.CreditsUsed)}, err
	case sys.SelCrCtxt:
		c, err := d.Ctx.ReadCrCtxt(key)
		return []uint32{uint32(c.Credit)}, err
	case sys.SelPfetchCtxt:
		c, err := d.Ctx.ReadPfetchCtxt(key)
		enable := uint32(0)
		if c.Enable {
			enable = 1
		}
		return []uint32{enable, uint32(c.BufSzIdx), uint32(c.PortID)}, err
	case sys.SelCmptCtxt:
		c, err := d.Ctx.ReadCmptCtxt(key)
		return marshalCmptCtxt(c), err
	case sys.SelIntrCtxt:
		c, err := d.Ctx.ReadIntrCtxt(key)
		return marshalIntrCtxt(c), err
	case sys.SelFmapCtxt:
		c, err := d.Ctx.ReadFmapCtxt(key)
		return []uint32{uint32(c.QBase), uint32(c.QMax)}, err
	default:
		return nil, errs.New("mboxproto.read_ctxt", errs.CodeInvalidParam, nil)
	}
}

func (d *PFDispatcher) invalidateOnly(sel sys.CtxSelector, key uint16) (struct{}, error) {
	var err error
	switch sel {
	case sys.SelSWCtxt:
		err = d.Ctx.InvalidateSWCtxt(key)
	case sys.SelHWCtxt:
		err = d.Ctx.InvalidateHWCtxt(key)
	case sys.SelCrCtxt:
		err = d.Ctx.InvalidateCrCtxt(key)
	case sys.SelPfetchCtxt:
		err = d.Ctx.InvalidatePfetchCtxt(key)
	case sys.SelCmptCtxt:
		err = d.Ctx.InvalidateCmptCtxt(key)
	case sys.SelIntrCtxt:
		err = d.Ctx.InvalidateIntrCtxt(key)
	case sys.SelFmapCtxt:
		// fmap_ctxt has no hardware invalidate operation, only write/read/clear.
		err = errs.New("mboxproto.invalidate_ctxt", errs.CodeInvalidParam, nil)
	default:
		err = errs.New("mboxproto.invalidate_ctxt", errs.CodeInvalidParam, nil)
	}
	return struct{}{}, err
}

// marshalCmptCtxt and unmarshalCmptCtxt flatten/restore cmpt_ctxt's
// fields across the selector family's 6-word budget
// (sys.CmptCtxtWords): base address split hi/lo, the four table-index
// bytes packed into one word, the mode flags packed into a second, then
// irq_vector/pidx and cidx/func_id pairs.
func marshalCmptCtxt(c sys.CmptCtxt) []uint32 {
	lo, hi := sys.SplitHiLo64(c.BaseAddr)
	w2 := uint32(c.RingSzIdx) | uint32(c.DescSzIdx)<<8 | uint32(c.TimerIdx)<<16 | uint32(c.CounterIdx)<<24
	w3 := uint32(c.TriggerMode)
	if c.Color {
		w3 |= 1 << 8
	}
	if c.OverflowChkDis {
		w3 |= 1 << 9
	}
	if c.Aggregation {
		w3 |= 1 << 10
	}
	w4 := uint32(c.IrqVector) | uint32(c.Pidx)<<16
	w5 := uint32(c.Cidx) | uint32(c.FuncID)<<16
	return []uint32{lo, hi, w2, w3, w4, w5}
}

func unmarshalCmptCtxt(words []uint32) sys.CmptCtxt {
	return sys.CmptCtxt{
		BaseAddr:       sys.JoinHiLo64(words[0], words[1]),
		RingSzIdx:      uint8(words[2]),
		DescSzIdx:      uint8(words[2] >> 8),
		TimerIdx:       uint8(words[2] >> 16),
		CounterIdx:     uint8(words[2] >> 24),
		TriggerMode:    sys.TriggerMode(words[3] & 0xFF),
		Color:          words[3]&(1<<8) != 0,
		OverflowChkDis: words[3]&(1<<9) != 0,
		Aggregation:    words[3]&(1<<10) != 0,
		IrqVector:      uint16(words[4]),
		Pidx:           uint16(words[4] >> 16),
		Cidx:           uint16(words[5]),
		FuncID:         uint16(words[5] >> 16),
	}
}

// marshalIntrCtxt and unmarshalIntrCtxt flatten/restore intr_ctxt across
// its 4-word budget (sys.IntrCtxtWords): base address split hi/lo,
// vec_id/color packed into one word, pidx/page_size into the last.
func marshalIntrCtxt(c sys.IntrCtxt) []uint32 {
	lo, hi := sys.SplitHiLo64(c.BaseAddr)
	w2 := uint32(c.VecID)
	if c.Color {
		w2 |= 1 << 16
	}
	w3 := uint32(c.Pidx) | uint32(c.PageSize)<<16
	return []uint32{lo, hi, w2, w3}
}

func unmarshalIntrCtxt(words []uint32) sys.IntrCtxt {
	return sys.IntrCtxt{
		BaseAddr: sys.JoinHiLo64(words[0], words[1]),
		VecID:    uint16(words[2]),
		Color:    words[2]&(1<<16) != 0,
		Pidx:     uint16(words[3]),
		PageSize: uint8(words[3] >> 16),
	}
}
