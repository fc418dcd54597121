// Package qdma is the core of a PCIe DMA engine driver: an
// indirect-context engine, a PF<->VF mailbox protocol, a two-level
// hardware error aggregator, a queue-id resource manager, a global CSR
// service, and a device-attribute probe. It never touches hardware
// directly; every device interaction goes through the host-supplied
// Backend.
package qdma

import (
	"github.com/xlnx/qdma-core/internal/sys"
)

// DeviceAddrs groups the register windows a Device is configured with:
// the indirect context engine, the CSR tables, and the capability probe
// (§4.1-§4.9). The error-status tree uses the fixed addresses of the
// error aggregator and is not configured here.
type DeviceAddrs struct {
	IndCmd, IndData, IndMask uint32
	CSR                      csrAddrs
	Probe                    probeAddrs
}

// Device is one PF or VF instance, wired up per the bring-up sequence
// (§4 control-flow note: "probe classifies the device, the resource
// manager creates an entry, global CSRs are programmed to defaults, and
// error masks are enabled").
type Device struct {
	be     Backend
	Index  uint32
	Cap    sys.DevCap
	Ctx    *ContextEngine // nil on a VF: queue contexts are PF-mediated
	Res    *ResourceManager
	CSR    *CSR // nil on a VF
	Errors *ErrorAggregator
	Mbox   *Mailbox

	isPF     bool
	funcID   uint16
	selfKey  FuncKey
}

// NewPFDevice brings up a PF device: probe, resource-manager entry,
// CSR defaults, and error-mask enable, in that order (§4 control-flow
// note).
func NewPFDevice(be Backend, index uint32, addrs DeviceAddrs, mbox *Mailbox) (*Device, error) {
	cap, _, _, err := Probe(be, addrs.Probe)
	if err != nil {
		return nil, err
	}

	d := &Device{
		be:    be,
		Index: index,
		Cap:   cap,
		isPF:  true,
		Res:   NewResourceManager(),
		Mbox:  mbox,
	}
	d.selfKey = FuncKey{DeviceIndex: index, FuncID: 0}
	if err := d.Res.CreateEntry(d.selfKey, 0, cap.NumQueues); err != nil {
		return nil, err
	}

	d.Ctx = NewContextEngine(be, addrs.IndCmd, addrs.IndData, addrs.IndMask, pfContextOptions(cap)...)
	d.CSR = newCSR(be, addrs.CSR)
	d.Errors = NewErrorAggregator(be, cap.STEnable)
	d.Errors.EnableAll()
	return d, nil
}

// NewVFDevice brings up a VF device. A VF owns no indirect-context
// engine, CSR service, or error aggregator of its own: every one of
// those operations is redirected through the mailbox to its PF (§4
// control-flow note: "On a VF, the same upper-layer calls are redirected
// through the mailbox protocol to the owning PF").
func NewVFDevice(be Backend, index uint32, funcID uint16, mbox *Mailbox) *Device {
	return &Device{
		be:     be,
		Index:  index,
		isPF:   false,
		funcID: funcID,
		Mbox:   mbox,
	}
}

func pfContextOptions(cap sys.DevCap) []ContextOption {
	var opts []ContextOption
	if cap.CmptDesc64B {
		opts = append(opts, WithCmptDesc64B())
	}
	opts = append(opts, WithBypassDescSizes(sys.DescSz8B, sys.DescSz16B, sys.DescSz32B, sys.DescSz64B))
	return opts
}

// StreamingQueueConf carries the pfetch_ctxt/cmpt_ctxt fields a streaming
// queue needs beyond sw_ctxt (§3 "pfetch_ctxt", "cmpt_ctxt"); it is
// unused for an MM queue. Pfetch.Enable is forced true regardless of the
// caller's value, since a disabled prefetch context has no reason to
// exist on a streaming queue.
type StreamingQueueConf struct {
	Pfetch PfetchCtxt
	Cmpt   CmptCtxt
}

// CreateQueue provisions one queue's full context bundle: sw_ctxt and
// cr_ctxt always, pfetch_ctxt and cmpt_ctxt when streaming (§4
// control-flow note: "the indirect-context engine writes SW/HW/credit/
// prefetch/completion contexts as appropriate"). On a VF this is
// redirected through the mailbox to the owning PF.
//
// conf is required when streaming is true and ignored otherwise. Before
// any write, a streaming queue issues a bare Clear on sw, pfetch and
// cmpt, in that order, to reset whatever the slot's previous occupant
// left behind, then writes sw, pfetch and cmpt in that same order (§8
// S2).
func (d *Device) CreateQueue(qid uint16, sw SWCtxt, streaming bool, conf ...StreamingQueueConf) error {
	if !d.isPF {
		return d.createQueueViaMailbox(qid, sw, streaming)
	}

	if streaming {
		if err := d.Ctx.ClearSW(qid); err != nil {
			return err
		}
		if err := d.Ctx.ClearPfetch(qid); err != nil {
			return err
		}
		if err := d.Ctx.ClearCmpt(qid); err != nil {
			return err
		}
	}

	if err := d.Ctx.WriteSW(qid, sw); err != nil {
		return err
	}
	if streaming {
		var c StreamingQueueConf
		if len(conf) > 0 {
			c = conf[0]
		}
		c.Pfetch.Enable = true
		if err := d.Ctx.WritePfetch(qid, c.Pfetch); err != nil {
			return err
		}
		if err := d.Ctx.WriteCmpt(qid, c.Cmpt); err != nil {
			return err
		}
	}
	if err := d.Ctx.WriteCr(qid, CrCtxt{}); err != nil {
		return err
	}

	qt := sys.QTypeH2C
	if !sw.IsMM && streaming {
		qt = sys.QTypeC2H
	}
	return d.Res.IncrementActiveQueue(d.selfKey, qt)
}

func (d *Device) createQueueViaMailbox(qid uint16, sw SWCtxt, streaming bool) error {
	var payload [31]uint32
	payload[0] = uint32(qid)
	payload[1] = uint32(sys.SelSWCtxt)
	lo, hi := sys.SplitHiLo64(sw.BaseAddr)
	payload[2] = lo
	payload[3] = hi
	payload[4] = uint32(sw.FuncID)
	_, err := d.Mbox.Request(0, MboxOpQCtxtWrite, payload, sys.MboxDefaultTimeoutMs)
	return err
}

// DestroyQueue tears a queue's contexts down in invalidate-before-clear
// order (§4.3, §8 property 6).
func (d *Device) DestroyQueue(qid uint16, streaming bool) error {
	if !d.isPF {
		var payload [31]uint32
		payload[0] = uint32(qid)
		payload[1] = uint32(sys.SelSWCtxt)
		_, err := d.Mbox.Request(0, MboxOpQCtxtClear, payload, sys.MboxDefaultTimeoutMs)
		return err
	}
	return d.Ctx.TeardownQueue(qid, streaming)
}
