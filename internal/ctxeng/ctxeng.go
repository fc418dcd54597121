// Package ctxeng implements the indirect-context engine (spec.md §2 C3):
// the single register-mediated channel through which every per-queue
// context (sw_ctxt, hw_ctxt, cr_ctxt, pfetch_ctxt, cmpt_ctxt, intr_ctxt,
// fmap) is written, read, cleared or invalidated.
package ctxeng

import (
	"github.com/xlnx/qdma-core/internal/errs"
	"github.com/xlnx/qdma-core/internal/sys"
)

// Backend is the subset of the host platform shim this package needs.
type Backend interface {
	RegRead(addr uint32) uint32
	RegWrite(addr uint32, val uint32)
	RegAccessLock()
	RegAccessRelease()
	UDelay(usec uint32)
}

// Addrs names the four registers the indirect engine drives: the command
// register plus the data/mask window used for write/read payloads (§4.3,
// grounded on IND_CTXT_DATA/IND_CTXT_MASK/IND_CTXT_CMD in regmap).
type Addrs struct {
	Cmd  uint32
	Data uint32
	Mask uint32
}

// Engine drives the indirect-context command register for one device.
type Engine struct {
	be        Backend
	addrs     Addrs
	pollUS    uint32 // busy-bit poll timeout, §5 "Cancellation / timeout"
	cmptDesc64B bool  // capability gate, §4.3 validation rule
	bypassDescSizes map[uint8]bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithPollTimeoutUS overrides the default busy-bit poll timeout.
func WithPollTimeoutUS(us uint32) Option {
	return func(e *Engine) { e.pollUS = us }
}

// WithCmptDesc64B marks the device as supporting 64-byte completion
// descriptors, relaxing the descriptor-size validation rule for cmpt_ctxt
// (§4.3 "if cmpt_desc_64b capability, allow the 64-byte size").
func WithCmptDesc64B() Option {
	return func(e *Engine) { e.cmptDesc64B = true }
}

// WithBypassDescSizes enumerates the legal bypass descriptor sizes for
// sw_ctxt (§4.3 "enumerated legal values for bypass mode").
func WithBypassDescSizes(sizes ...uint8) Option {
	return func(e *Engine) {
		e.bypassDescSizes = make(map[uint8]bool, len(sizes))
		for _, s := range sizes {
			e.bypassDescSizes[s] = true
		}
	}
}

// New constructs an Engine bound to addrs.
func New(be Backend, addrs Addrs, opts ...Option) *Engine {
	e := &Engine{be: be, addrs: addrs, pollUS: sys.RegPollDefaultTimeoutUS}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Access is one indirect-context operation request (§4.3 "ctx_T_conf(dev,
// [direction,] qid_hw, &ctxt, access)").
type Access uint8

const (
	AccessWrite Access = Access(sys.IndOpWrite)
	AccessRead  Access = Access(sys.IndOpRead)
	AccessClear Access = Access(sys.IndOpClear)
	AccessInvalidate Access = Access(sys.IndOpInvalidate)
)

// execute serializes one indirect-context command: acquire the
// register-access lock, optionally stage words into the data/mask
// window, fire the command, poll the busy bit, optionally read back the
// result words, and release the lock (§4.3, §5 "Register-access lock").
func (e *Engine) execute(op sys.IndOp, sel sys.CtxSelector, qid uint16, words []uint32, nwords int) ([]uint32, error) {
	e.be.RegAccessLock()
	defer e.be.RegAccessRelease()

	if op == sys.IndOpWrite {
		for i, w := range words {
			e.be.RegWrite(e.addrs.Data+uint32(i*4), w)
			e.be.RegWrite(e.addrs.Mask+uint32(i*4), 0xFFFFFFFF)
		}
	}

	cmd := uint32(0)
	cmd = sys.IndCmdOp.Set(cmd, uint32(op))
	cmd = sys.IndCmdSelector.Set(cmd, uint32(sel))
	cmd = sys.IndCmdQid.Set(cmd, uint32(qid))
	e.be.RegWrite(e.addrs.Cmd, cmd)

	if err := e.pollBusy(); err != nil {
		return nil, err
	}

	if op == sys.IndOpRead {
		out := make([]uint32, nwords)
		for i := range out {
			out[i] = e.be.RegRead(e.addrs.Data + uint32(i*4))
		}
		return out, nil
	}
	return nil, nil
}

// pollBusy waits for the command-busy bit to clear, bounded by pollUS
// (§5 "Cancellation / timeout": "a bounded busy-wait/poll with a fixed
// ceiling; exceeding it is a hard error, not a silent partial result").
func (e *Engine) pollBusy() error {
	const stepUS = 10
	waited := uint32(0)
	for {
		cmd := e.be.RegRead(e.addrs.Cmd)
		if sys.IndCmdBusy.Get(cmd) == 0 {
			return nil
		}
		if waited >= e.pollUS {
			return errs.New("ctxeng.poll", errs.CodeTimeout, nil)
		}
		e.be.UDelay(stepUS)
		waited += stepUS
	}
}

// ValidateSWCtxt applies the write-path validation rules for sw_ctxt
// (§4.3): trigger-mode is not meaningful here (that's cmpt_ctxt), but
// descriptor size in bypass mode must be one of the enumerated legal
// values.
func (e *Engine) ValidateSWCtxt(c sys.SWCtxt) error {
	if c.Bypass && len(e.bypassDescSizes) > 0 && !e.bypassDescSizes[c.DescSzIdx] {
		return errs.New("ctxeng.validate.sw_ctxt", errs.CodeInvalidParam, nil)
	}
	return nil
}

// ValidateCmptCtxt applies the write-path validation rules for cmpt_ctxt
// (§4.3: "trigger-mode <= USER_TIMER_COUNT"; "64-byte completion
// descriptor only legal if cmpt_desc_64b capability").
func (e *Engine) ValidateCmptCtxt(c sys.CmptCtxt) error {
	if c.TriggerMode > sys.UserTimerCount {
		return errs.New("ctxeng.validate.cmpt_ctxt", errs.CodeInvalidParam, nil)
	}
	if c.DescSzIdx == sys.DescSz64B && !e.cmptDesc64B {
		return errs.New("ctxeng.validate.cmpt_ctxt", errs.CodeFeatureNotSupported, nil)
	}
	return nil
}

// Teardown issues Invalidate then Clear, in that order, for each listed
// context type on qid (§4.3 "invalidate precedes clear"; §8 property 6).
// It stops at the first error: an invalidate error leaves later selectors
// untouched; a clear error leaves later selectors invalidated but not
// cleared.
func (e *Engine) Teardown(qid uint16, sels ...sys.CtxSelector) error {
	for _, sel := range sels {
		if _, err := e.execute(sys.IndOpInvalidate, sel, qid, nil, 0); err != nil {
			return err
		}
	}
	for _, sel := range sels {
		if _, err := e.execute(sys.IndOpClear, sel, qid, nil, 0); err != nil {
			return err
		}
	}
	return nil
}
