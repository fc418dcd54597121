package ctxeng

import "github.com/xlnx/qdma-core/internal/sys"

func marshalSWCtxt(c sys.SWCtxt) []uint32 {
	w := make([]uint32, sys.SWCtxtWords)

	w[0] = sys.SWPidx.Set(w[0], uint32(c.Pidx))
	w[0] = sys.SWIrqArm.SetBool(w[0], c.IrqArm)
	w[0] = sys.SWFuncID.Set(w[0], uint32(c.FuncID))

	w[1] = sys.SWQEnable.SetBool(w[1], c.QEnable)
	w[1] = sys.SWFetchCreditEn.SetBool(w[1], c.FetchCreditEn)
	w[1] = sys.SWWbiChk.SetBool(w[1], c.WbiChk)
	w[1] = sys.SWWbiIntvlEn.SetBool(w[1], c.WbiIntvlEn)
	w[1] = sys.SWAddrTransln.SetBool(w[1], c.AddrTranslation)
	w[1] = sys.SWFetchMax.Set(w[1], uint32(c.FetchMax))
	w[1] = sys.SWRingSzIdx.Set(w[1], uint32(c.RingSzIdx))
	w[1] = sys.SWDescSzIdx.Set(w[1], uint32(c.DescSzIdx))
	w[1] = sys.SWBypass.SetBool(w[1], c.Bypass)
	w[1] = sys.SWMMChannel.SetBool(w[1], c.MMChannel)
	w[1] = sys.SWWbkEn.SetBool(w[1], c.WbkEn)
	w[1] = sys.SWIrqEn.SetBool(w[1], c.IrqEn)
	w[1] = sys.SWPortID.Set(w[1], uint32(c.PortID))
	w[1] = sys.SWIrqNoLast.SetBool(w[1], c.IrqNoLast)
	w[1] = sys.SWErr.Set(w[1], uint32(c.Err))
	w[1] = sys.SWErrWbSent.SetBool(w[1], c.ErrWbSent)
	w[1] = sys.SWIrqReq.SetBool(w[1], c.IrqReq)
	w[1] = sys.SWMarkerDis.SetBool(w[1], c.MarkerDis)
	w[1] = sys.SWIsMM.SetBool(w[1], c.IsMM)

	lo, hi := sys.SplitHiLo64(c.BaseAddr)
	w[2], w[3] = lo, hi

	w[4] = sys.SWIntrVector.Set(w[4], uint32(c.IrqVector))
	w[4] = sys.SWAggregation.SetBool(w[4], c.Aggregation)
	w[4] = sys.SWDisIntrOnVF.SetBool(w[4], c.DisIntrOnVF)
	w[4] = sys.SWVirtioEn.SetBool(w[4], c.VirtioEn)
	w[4] = sys.SWPackBypassOut.SetBool(w[4], c.PackBypassOut)
	w[4] = sys.SWIrqBypass.SetBool(w[4], c.IrqBypass)
	w[4] = sys.SWHostID.Set(w[4], uint32(c.HostID))
	w[4] = sys.SWPasidLo12.Set(w[4], c.Pasid&0xFFF)

	w[5] = sys.SWPasidHi10.Set(w[5], (c.Pasid>>12)&0x3FF)
	w[5] = sys.SWPasidEnable.SetBool(w[5], c.PasidEnable)
	w[5] = sys.SWVirtioDescLo.Set(w[5], uint32(c.VirtioDescBase)&0x1FFFFF)

	w[6] = uint32(c.VirtioDescBase >> 21)
	w[7] = sys.SWVirtioDescHi.Set(w[7], uint32(c.VirtioDescBase>>53))

	return w
}

func unmarshalSWCtxt(w []uint32) sys.SWCtxt {
	var c sys.SWCtxt
	c.Pidx = uint16(sys.SWPidx.Get(w[0]))
	c.IrqArm = sys.SWIrqArm.GetBool(w[0])
	c.FuncID = uint16(sys.SWFuncID.Get(w[0]))

	c.QEnable = sys.SWQEnable.GetBool(w[1])
	c.FetchCreditEn = sys.SWFetchCreditEn.GetBool(w[1])
	c.WbiChk = sys.SWWbiChk.GetBool(w[1])
	c.WbiIntvlEn = sys.SWWbiIntvlEn.GetBool(w[1])
	c.AddrTranslation = sys.SWAddrTransln.GetBool(w[1])
	c.FetchMax = uint8(sys.SWFetchMax.Get(w[1]))
	c.RingSzIdx = uint8(sys.SWRingSzIdx.Get(w[1]))
	c.DescSzIdx = uint8(sys.SWDescSzIdx.Get(w[1]))
	c.Bypass = sys.SWBypass.GetBool(w[1])
	c.MMChannel = sys.SWMMChannel.GetBool(w[1])
	c.WbkEn = sys.SWWbkEn.GetBool(w[1])
	c.IrqEn = sys.SWIrqEn.GetBool(w[1])
	c.PortID = uint8(sys.SWPortID.Get(w[1]))
	c.IrqNoLast = sys.SWIrqNoLast.GetBool(w[1])
	c.Err = uint8(sys.SWErr.Get(w[1]))
	c.ErrWbSent = sys.SWErrWbSent.GetBool(w[1])
	c.IrqReq = sys.SWIrqReq.GetBool(w[1])
	c.MarkerDis = sys.SWMarkerDis.GetBool(w[1])
	c.IsMM = sys.SWIsMM.GetBool(w[1])

	c.BaseAddr = sys.JoinHiLo64(w[2], w[3])

	c.IrqVector = uint16(sys.SWIntrVector.Get(w[4]))
	c.Aggregation = sys.SWAggregation.GetBool(w[4])
	c.DisIntrOnVF = sys.SWDisIntrOnVF.GetBool(w[4])
	c.VirtioEn = sys.SWVirtioEn.GetBool(w[4])
	c.PackBypassOut = sys.SWPackBypassOut.GetBool(w[4])
	c.IrqBypass = sys.SWIrqBypass.GetBool(w[4])
	c.HostID = uint8(sys.SWHostID.Get(w[4]))
	pasidLo := sys.SWPasidLo12.Get(w[4])

	pasidHi := sys.SWPasidHi10.Get(w[5])
	c.PasidEnable = sys.SWPasidEnable.GetBool(w[5])
	descLo := uint64(sys.SWVirtioDescLo.Get(w[5]))
	c.Pasid = pasidLo | (pasidHi << 12)

	descMid := uint64(w[6])
	descHi := uint64(sys.SWVirtioDescHi.Get(w[7]))
	c.VirtioDescBase = descLo | (descMid << 21) | (descHi << 53)

	return c
}

// WriteSWCtxt programs the software context for a queue (§3 "sw_ctxt").
func (e *Engine) WriteSWCtxt(qid uint16, c sys.SWCtxt) error {
	if err := e.ValidateSWCtxt(c); err != nil {
		return err
	}
	_, err := e.execute(sys.IndOpWrite, sys.SelSWCtxt, qid, marshalSWCtxt(c), sys.SWCtxtWords)
	return err
}

// ReadSWCtxt reads back the software context for a queue.
func (e *Engine) ReadSWCtxt(qid uint16) (sys.SWCtxt, error) {
	w, err := e.execute(sys.IndOpRead, sys.SelSWCtxt, qid, nil, sys.SWCtxtWords)
	if err != nil {
		return sys.SWCtxt{}, err
	}
	return unmarshalSWCtxt(w), nil
}

// InvalidateSWCtxt marks the software context invalid without clearing
// its contents; must precede ClearSWCtxt on teardown (§4.3 "invalidate
// precedes clear").
func (e *Engine) InvalidateSWCtxt(qid uint16) error {
	_, err := e.execute(sys.IndOpInvalidate, sys.SelSWCtxt, qid, nil, 0)
	return err
}

// ClearSWCtxt zeroes the software context.
func (e *Engine) ClearSWCtxt(qid uint16) error {
	_, err := e.execute(sys.IndOpClear, sys.SelSWCtxt, qid, nil, 0)
	return err
}
