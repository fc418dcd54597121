package ctxeng

import "github.com/xlnx/qdma-core/internal/sys"

func marshalCrCtxt(c sys.CrCtxt) []uint32 {
	w := make([]uint32, sys.CrCtxtWords)
	w[0] = sys.CrCredit.Set(w[0], uint32(c.Credit))
	return w
}

func unmarshalCrCtxt(w []uint32) sys.CrCtxt {
	return sys.CrCtxt{Credit: uint16(sys.CrCredit.Get(w[0]))}
}

// WriteCrCtxt programs the credit context for a queue (§3 "cr_ctxt").
func (e *Engine) WriteCrCtxt(qid uint16, c sys.CrCtxt) error {
	_, err := e.execute(sys.IndOpWrite, sys.SelCrCtxt, qid, marshalCrCtxt(c), sys.CrCtxtWords)
	return err
}

// ReadCrCtxt reads back the credit context.
func (e *Engine) ReadCrCtxt(qid uint16) (sys.CrCtxt, error) {
	w, err := e.execute(sys.IndOpRead, sys.SelCrCtxt, qid, nil, sys.CrCtxtWords)
	if err != nil {
		return sys.CrCtxt{}, err
	}
	return unmarshalCrCtxt(w), nil
}

// InvalidateCrCtxt invalidates the credit context.
func (e *Engine) InvalidateCrCtxt(qid uint16) error {
	_, err := e.execute(sys.IndOpInvalidate, sys.SelCrCtxt, qid, nil, 0)
	return err
}

// ClearCrCtxt clears the credit context.
func (e *Engine) ClearCrCtxt(qid uint16) error {
	_, err := e.execute(sys.IndOpClear, sys.SelCrCtxt, qid, nil, 0)
	return err
}
