package ctxeng

import "github.com/xlnx/qdma-core/internal/sys"

func marshalFmapCtxt(c sys.FmapCtxt) []uint32 {
	w := make([]uint32, sys.FmapCtxtWords)
	w[0] = sys.FmapQBase.Set(w[0], uint32(c.QBase))
	w[1] = sys.FmapQMax.Set(w[1], uint32(c.QMax))
	return w
}

func unmarshalFmapCtxt(w []uint32) sys.FmapCtxt {
	return sys.FmapCtxt{
		QBase: uint16(sys.FmapQBase.Get(w[0])),
		QMax:  uint16(sys.FmapQMax.Get(w[1])),
	}
}

// WriteFmapCtxt programs the function-to-queue-range map (§GLOSSARY
// "FMAP"). funcID substitutes for the qid parameter since FMAP is
// addressed per function, not per queue.
func (e *Engine) WriteFmapCtxt(funcID uint16, c sys.FmapCtxt) error {
	_, err := e.execute(sys.IndOpWrite, sys.SelFmapCtxt, funcID, marshalFmapCtxt(c), sys.FmapCtxtWords)
	return err
}

// ReadFmapCtxt reads back the function-to-queue-range map.
func (e *Engine) ReadFmapCtxt(funcID uint16) (sys.FmapCtxt, error) {
	w, err := e.execute(sys.IndOpRead, sys.SelFmapCtxt, funcID, nil, sys.FmapCtxtWords)
	if err != nil {
		return sys.FmapCtxt{}, err
	}
	return unmarshalFmapCtxt(w), nil
}

// ClearFmapCtxt clears the function-to-queue-range map.
func (e *Engine) ClearFmapCtxt(funcID uint16) error {
	_, err := e.execute(sys.IndOpClear, sys.SelFmapCtxt, funcID, nil, 0)
	return err
}
