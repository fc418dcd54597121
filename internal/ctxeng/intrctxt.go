package ctxeng

import "github.com/xlnx/qdma-core/internal/sys"

func marshalIntrCtxt(c sys.IntrCtxt) []uint32 {
	w := make([]uint32, sys.IntrCtxtWords)

	w[0] = sys.IntrValid.SetBool(w[0], c.Valid)
	w[0] = sys.IntrColor.SetBool(w[0], c.Color)
	w[0] = sys.IntrBaseLoLo.Set(w[0], uint32(c.BaseAddr)>>2)

	w[1] = sys.IntrBaseHi.Set(w[1], uint32(c.BaseAddr>>32))

	w[2] = sys.IntrVecID.Set(w[2], uint32(c.VecID))
	w[2] = sys.IntrPageSize.Set(w[2], uint32(c.PageSize))

	w[3] = sys.IntrPidx.Set(w[3], uint32(c.Pidx))

	return w
}

func unmarshalIntrCtxt(w []uint32) sys.IntrCtxt {
	var c sys.IntrCtxt
	c.Valid = sys.IntrValid.GetBool(w[0])
	c.Color = sys.IntrColor.GetBool(w[0])
	lo30 := uint64(sys.IntrBaseLoLo.Get(w[0])) << 2

	hi22 := uint64(sys.IntrBaseHi.Get(w[1]))

	c.VecID = uint16(sys.IntrVecID.Get(w[2]))
	c.PageSize = uint8(sys.IntrPageSize.Get(w[2]))

	c.Pidx = uint16(sys.IntrPidx.Get(w[3]))

	c.BaseAddr = lo30 | (hi22 << 32)
	return c
}

// WriteIntrCtxt programs one interrupt-aggregation-ring context, indexed
// by ring id within MaxIntrRingsPerFunc (§3 "intr_ctxt"). The qid
// parameter is the ring id, reusing the indirect engine's per-entry
// addressing the same way it addresses queues.
func (e *Engine) WriteIntrCtxt(ringID uint16, c sys.IntrCtxt) error {
	_, err := e.execute(sys.IndOpWrite, sys.SelIntrCtxt, ringID, marshalIntrCtxt(c), sys.IntrCtxtWords)
	return err
}

// ReadIntrCtxt reads back one interrupt-aggregation-ring context.
func (e *Engine) ReadIntrCtxt(ringID uint16) (sys.IntrCtxt, error) {
	w, err := e.execute(sys.IndOpRead, sys.SelIntrCtxt, ringID, nil, sys.IntrCtxtWords)
	if err != nil {
		return sys.IntrCtxt{}, err
	}
	return unmarshalIntrCtxt(w), nil
}

// InvalidateIntrCtxt invalidates one interrupt-aggregation-ring context.
func (e *Engine) InvalidateIntrCtxt(ringID uint16) error {
	_, err := e.execute(sys.IndOpInvalidate, sys.SelIntrCtxt, ringID, nil, 0)
	return err
}

// ClearIntrCtxt clears one interrupt-aggregation-ring context.
func (e *Engine) ClearIntrCtxt(ringID uint16) error {
	_, err := e.execute(sys.IndOpClear, sys.SelIntrCtxt, ringID, nil, 0)
	return err
}
