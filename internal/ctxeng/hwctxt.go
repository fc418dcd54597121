package ctxeng

import "github.com/xlnx/qdma-core/internal/sys"

func unmarshalHWCtxt(w []uint32) sys.HWCtxt {
	var c sys.HWCtxt
	c.Cidx = uint16(sys.HWCidx.Get(w[0]))
	c.CreditsUsed = uint16(sys.HWCreditsUsed.Get(w[0]))
	c.DescPending = sys.HWDescPending.GetBool(w[1])
	c.EventPending = sys.HWEventPending.GetBool(w[1])
	c.FetchPending = uint8(sys.HWFetchPending.Get(w[1]))
	c.Idle = sys.HWIdle.GetBool(w[1])
	return c
}

// ReadHWCtxt reads the hardware-reflected context for a queue (§3
// "hw_ctxt", read-only).
func (e *Engine) ReadHWCtxt(qid uint16) (sys.HWCtxt, error) {
	w, err := e.execute(sys.IndOpRead, sys.SelHWCtxt, qid, nil, sys.HWCtxtWords)
	if err != nil {
		return sys.HWCtxt{}, err
	}
	return unmarshalHWCtxt(w), nil
}

// InvalidateHWCtxt invalidates the hardware context.
func (e *Engine) InvalidateHWCtxt(qid uint16) error {
	_, err := e.execute(sys.IndOpInvalidate, sys.SelHWCtxt, qid, nil, 0)
	return err
}

// ClearHWCtxt clears the hardware context.
func (e *Engine) ClearHWCtxt(qid uint16) error {
	_, err := e.execute(sys.IndOpClear, sys.SelHWCtxt, qid, nil, 0)
	return err
}
