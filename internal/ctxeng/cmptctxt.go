package ctxeng

import "github.com/xlnx/qdma-core/internal/sys"

// cmpt_ctxt's base address is 52 bits, split across three words: the low
// 4 bits share word 3 with the valid/err/overflow/intr flags, the middle
// 32 bits occupy word 2 whole, and the high 16 bits share word 1 with the
// consumer index (§3 "cmpt_ctxt", §6).

func marshalCmptCtxt(c sys.CmptCtxt) []uint32 {
	w := make([]uint32, sys.CmptCtxtWords)

	w[0] = sys.CmptColor.SetBool(w[0], c.Color)
	w[0] = sys.CmptRingSzIdx.Set(w[0], uint32(c.RingSzIdx))
	w[0] = sys.CmptDescSzIdx.Set(w[0], uint32(c.DescSzIdx))
	w[0] = sys.CmptTimerIdx.Set(w[0], uint32(c.TimerIdx))
	w[0] = sys.CmptCounterIdx.Set(w[0], uint32(c.CounterIdx))
	w[0] = sys.CmptTriggerMode.Set(w[0], uint32(c.TriggerMode))
	w[0] = sys.CmptFuncID.Set(w[0], uint32(c.FuncID))

	w[1] = sys.CmptCidx.Set(w[1], uint32(c.Cidx))
	w[1] = sys.CmptBaseHiHi.Set(w[1], uint32(c.BaseAddr>>36))

	w[2] = uint32(c.BaseAddr >> 4)

	w[3] = sys.CmptBaseLo4.Set(w[3], uint32(c.BaseAddr)&0xF)
	w[3] = sys.CmptValid.SetBool(w[3], c.Valid)
	w[3] = sys.CmptErr.Set(w[3], uint32(c.Err))
	w[3] = sys.CmptVfOverflow.SetBool(w[3], c.OverflowChkDis)
	w[3] = sys.CmptIntrVector.Set(w[3], uint32(c.IrqVector))
	w[3] = sys.CmptIntrAggr.SetBool(w[3], c.Aggregation)

	w[4] = sys.CmptPidx.Set(w[4], uint32(c.Pidx))

	return w
}

func unmarshalCmptCtxt(w []uint32) sys.CmptCtxt {
	var c sys.CmptCtxt
	c.Color = sys.CmptColor.GetBool(w[0])
	c.RingSzIdx = uint8(sys.CmptRingSzIdx.Get(w[0]))
	c.DescSzIdx = uint8(sys.CmptDescSzIdx.Get(w[0]))
	c.TimerIdx = uint8(sys.CmptTimerIdx.Get(w[0]))
	c.CounterIdx = uint8(sys.CmptCounterIdx.Get(w[0]))
	c.TriggerMode = sys.TriggerMode(sys.CmptTriggerMode.Get(w[0]))
	c.FuncID = uint16(sys.CmptFuncID.Get(w[0]))

	c.Cidx = uint16(sys.CmptCidx.Get(w[1]))
	hi16 := uint64(sys.CmptBaseHiHi.Get(w[1]))

	mid32 := uint64(w[2])

	lo4 := uint64(sys.CmptBaseLo4.Get(w[3]))
	c.Valid = sys.CmptValid.GetBool(w[3])
	c.Err = uint8(sys.CmptErr.Get(w[3]))
	c.OverflowChkDis = sys.CmptVfOverflow.GetBool(w[3])
	c.IrqVector = uint16(sys.CmptIntrVector.Get(w[3]))
	c.Aggregation = sys.CmptIntrAggr.GetBool(w[3])

	c.BaseAddr = lo4 | (mid32 << 4) | (hi16 << 36)

	c.Pidx = uint16(sys.CmptPidx.Get(w[4]))

	return c
}

// WriteCmptCtxt programs the completion-queue context for a queue (§3
// "cmpt_ctxt"). Callers must apply ValidateCmptCtxt first; Engine does
// this automatically.
func (e *Engine) WriteCmptCtxt(qid uint16, c sys.CmptCtxt) error {
	if err := e.ValidateCmptCtxt(c); err != nil {
		return err
	}
	_, err := e.execute(sys.IndOpWrite, sys.SelCmptCtxt, qid, marshalCmptCtxt(c), sys.CmptCtxtWords)
	return err
}

// ReadCmptCtxt reads back the completion-queue context.
func (e *Engine) ReadCmptCtxt(qid uint16) (sys.CmptCtxt, error) {
	w, err := e.execute(sys.IndOpRead, sys.SelCmptCtxt, qid, nil, sys.CmptCtxtWords)
	if err != nil {
		return sys.CmptCtxt{}, err
	}
	return unmarshalCmptCtxt(w), nil
}

// InvalidateCmptCtxt invalidates the completion-queue context.
func (e *Engine) InvalidateCmptCtxt(qid uint16) error {
	_, err := e.execute(sys.IndOpInvalidate, sys.SelCmptCtxt, qid, nil, 0)
	return err
}

// ClearCmptCtxt clears the completion-queue context.
func (e *Engine) ClearCmptCtxt(qid uint16) error {
	_, err := e.execute(sys.IndOpClear, sys.SelCmptCtxt, qid, nil, 0)
	return err
}
