package ctxeng

import "github.com/xlnx/qdma-core/internal/sys"

func marshalPfetchCtxt(c sys.PfetchCtxt) []uint32 {
	w := make([]uint32, sys.PfetchCtxtWords)
	w[0] = sys.PfetchEn.SetBool(w[0], c.Enable)
	w[0] = sys.PfetchBypass.SetBool(w[0], c.Bypass)
	w[0] = sys.PfetchBufSzIdx.Set(w[0], uint32(c.BufSzIdx))
	w[0] = sys.PfetchPortID.Set(w[0], uint32(c.PortID))
	w[0] = sys.PfetchInPfetch.SetBool(w[0], c.InPrefetch)
	w[0] = sys.PfetchErr.SetBool(w[0], c.Err)
	w[0] = sys.PfetchValid.SetBool(w[0], c.Valid)
	w[1] = sys.PfetchSwCrdt.Set(w[1], uint32(c.SwCredit))
	return w
}

func unmarshalPfetchCtxt(w []uint32) sys.PfetchCtxt {
	var c sys.PfetchCtxt
	c.Enable = sys.PfetchEn.GetBool(w[0])
	c.Bypass = sys.PfetchBypass.GetBool(w[0])
	c.BufSzIdx = uint8(sys.PfetchBufSzIdx.Get(w[0]))
	c.PortID = uint8(sys.PfetchPortID.Get(w[0]))
	c.InPrefetch = sys.PfetchInPfetch.GetBool(w[0])
	c.Err = sys.PfetchErr.GetBool(w[0])
	c.Valid = sys.PfetchValid.GetBool(w[0])
	c.SwCredit = uint16(sys.PfetchSwCrdt.Get(w[1]))
	return c
}

// WritePfetchCtxt programs the prefetch context, streaming C2H only (§3
// "pfetch_ctxt").
func (e *Engine) WritePfetchCtxt(qid uint16, c sys.PfetchCtxt) error {
	_, err := e.execute(sys.IndOpWrite, sys.SelPfetchCtxt, qid, marshalPfetchCtxt(c), sys.PfetchCtxtWords)
	return err
}

// ReadPfetchCtxt reads back the prefetch context.
func (e *Engine) ReadPfetchCtxt(qid uint16) (sys.PfetchCtxt, error) {
	w, err := e.execute(sys.IndOpRead, sys.SelPfetchCtxt, qid, nil, sys.PfetchCtxtWords)
	if err != nil {
		return sys.PfetchCtxt{}, err
	}
	return unmarshalPfetchCtxt(w), nil
}

// InvalidatePfetchCtxt invalidates the prefetch context.
func (e *Engine) InvalidatePfetchCtxt(qid uint16) error {
	_, err := e.execute(sys.IndOpInvalidate, sys.SelPfetchCtxt, qid, nil, 0)
	return err
}

// ClearPfetchCtxt clears the prefetch context.
func (e *Engine) ClearPfetchCtxt(qid uint16) error {
	_, err := e.execute(sys.IndOpClear, sys.SelPfetchCtxt, qid, nil, 0)
	return err
}
