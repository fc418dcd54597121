package qdma

import (
	"github.com/xlnx/qdma-core/internal/ctxeng"
	"github.com/xlnx/qdma-core/internal/sys"
)

// Context types re-exported so callers never import internal/sys
// directly (§3 "Per-queue context bundle").
type (
	SWCtxt     = sys.SWCtxt
	HWCtxt     = sys.HWCtxt
	CrCtxt     = sys.CrCtxt
	PfetchCtxt = sys.PfetchCtxt
	CmptCtxt   = sys.CmptCtxt
	IntrCtxt   = sys.IntrCtxt
	FmapCtxt   = sys.FmapCtxt
)

// ContextEngine is the public handle onto the indirect-context engine
// (§2 C3). A PF constructs one per device; a VF never does (its queue
// contexts are programmed by the PF, over the mailbox, on its behalf).
type ContextEngine struct {
	eng *ctxeng.Engine
}

// ContextOption configures a ContextEngine.
type ContextOption = ctxeng.Option

// WithCmptDesc64B marks the device as supporting 64-byte completion
// descriptors (§4.3).
func WithCmptDesc64B() ContextOption { return ctxeng.WithCmptDesc64B() }

// WithBypassDescSizes enumerates the legal bypass descriptor sizes.
func WithBypassDescSizes(sizes ...uint8) ContextOption {
	return ctxeng.WithBypassDescSizes(sizes...)
}

// NewContextEngine binds a ContextEngine to the device's indirect
// command/data/mask registers.
func NewContextEngine(be Backend, cmd, data, mask uint32, opts ...ContextOption) *ContextEngine {
	return &ContextEngine{eng: ctxeng.New(be, ctxeng.Addrs{Cmd: cmd, Data: data, Mask: mask}, opts...)}
}

func (c *ContextEngine) WriteSW(qid uint16, ctx SWCtxt) error     { return c.eng.WriteSWCtxt(qid, ctx) }
func (c *ContextEngine) ReadSW(qid uint16) (SWCtxt, error)        { return c.eng.ReadSWCtxt(qid) }
func (c *ContextEngine) ReadHW(qid uint16) (HWCtxt, error)        { return c.eng.ReadHWCtxt(qid) }
func (c *ContextEngine) WriteCr(qid uint16, ctx CrCtxt) error     { return c.eng.WriteCrCtxt(qid, ctx) }
func (c *ContextEngine) ReadCr(qid uint16) (CrCtxt, error)        { return c.eng.ReadCrCtxt(qid) }
func (c *ContextEngine) WritePfetch(qid uint16, ctx PfetchCtxt) error {
	return c.eng.WritePfetchCtxt(qid, ctx)
}
func (c *ContextEngine) ReadPfetch(qid uint16) (PfetchCtxt, error) { return c.eng.ReadPfetchCtxt(qid) }
func (c *ContextEngine) WriteCmpt(qid uint16, ctx CmptCtxt) error  { return c.eng.WriteCmptCtxt(qid, ctx) }
func (c *ContextEngine) ReadCmpt(qid uint16) (CmptCtxt, error)     { return c.eng.ReadCmptCtxt(qid) }

// ClearSW, ClearPfetch and ClearCmpt issue a bare Clear (no Invalidate) on
// one context type, used by a fresh queue create to reset state left over
// from the slot's previous occupant (§8 S2 "three clear commands on (sw,
// pfetch, cmpt) followed by three write commands, in that order").
func (c *ContextEngine) ClearSW(qid uint16) error     { return c.eng.ClearSWCtxt(qid) }
func (c *ContextEngine) ClearPfetch(qid uint16) error { return c.eng.ClearPfetchCtxt(qid) }
func (c *ContextEngine) ClearCmpt(qid uint16) error   { return c.eng.ClearCmptCtxt(qid) }
func (c *ContextEngine) WriteIntr(ring uint16, ctx IntrCtxt) error { return c.eng.WriteIntrCtxt(ring, ctx) }
func (c *ContextEngine) ReadIntr(ring uint16) (IntrCtxt, error)    { return c.eng.ReadIntrCtxt(ring) }
func (c *ContextEngine) WriteFmap(funcID uint16, ctx FmapCtxt) error {
	return c.eng.WriteFmapCtxt(funcID, ctx)
}
func (c *ContextEngine) ReadFmap(funcID uint16) (FmapCtxt, error) { return c.eng.ReadFmapCtxt(funcID) }

// TeardownQueue invalidates then clears every context type bound to a
// queue, in that order (§4.3 "invalidate precedes clear", §8 property 6).
func (c *ContextEngine) TeardownQueue(qid uint16, streaming bool) error {
	sels := []sys.CtxSelector{sys.SelSWCtxt, sys.SelHWCtxt, sys.SelCrCtxt}
	if streaming {
		sels = append(sels, sys.SelPfetchCtxt, sys.SelCmptCtxt)
	}
	return c.eng.Teardown(qid, sels...)
}
