// Package errmon implements the two-level hardware error aggregation tree
// (spec.md §2 C8, §4.8): a root status/mask register fans out to a set of
// leaf aggregators, each of which multiplexes many concrete named error
// bits.
package errmon

import (
	"sync/atomic"

	ring "github.com/cloudwego/gopkg/container/ring"
)

// Backend is the subset of the host platform shim the aggregator needs.
// It mirrors the root qdma.Backend interface so this package never
// imports the root package (avoiding the cycle internal/errs was split
// out to avoid).
type Backend interface {
	RegRead(addr uint32) uint32
	RegWrite(addr uint32, val uint32)
	Logf(format string, args ...any)
}

// Event is one recorded error occurrence, kept in a bounded history ring
// for diagnostics (spec.md §4.8 "diagnostic dump").
type Event struct {
	Leaf     LeafID
	Err      ErrDef
	Tick     uint64
}

const historySize = 256

// Aggregator polls the root/leaf error tree and dispatches named errors
// (spec.md §2 C8 "poll/interrupt-driven tick walks root -> leaf ->
// concrete error, logging and counting each").
type Aggregator struct {
	be       Backend
	streaming bool // whether the ST engine is capability-enabled
	enabled  [leafCount]uint32 // per-leaf enabled-error mask, written into MaskAddr
	history  *ring.Ring[Event]
	cursor   atomic.Uint64
	tick     atomic.Uint64
}

// New constructs an Aggregator. streamingCapable gates the two
// streaming-only leaves (ST_C2H, ST_H2C) per spec.md §4.9 "ST-enable"
// capability bit.
func New(be Backend, streamingCapable bool) *Aggregator {
	a := &Aggregator{be: be, streaming: streamingCapable}
	a.history = ring.NewFromSlice(make([]Event, historySize))
	return a
}

// EnableAll arms every named error on every applicable leaf and the root
// mask (spec.md §4.8 "enable(err_idx) / enable(ALL)").
func (a *Aggregator) EnableAll() {
	rootMask := uint32(0)
	for i := range Leaves {
		leaf := &Leaves[i]
		if leaf.StreamingOnly && !a.streaming {
			continue
		}
		m := uint32(0)
		for _, e := range leaf.Errors {
			m |= 1 << e.Bit
		}
		a.enabled[leaf.ID] = m
		a.be.RegWrite(leaf.MaskAddr, m)
		rootMask = RootBitField(leaf.RootBit).Set(rootMask, 1)
	}
	a.be.RegWrite(GlblErrMaskAddr, rootMask)
}

// Enable arms one named error on the given leaf without disturbing the
// rest of that leaf's mask.
func (a *Aggregator) Enable(leaf LeafID, bit uint8) {
	if leaf >= leafCount {
		return
	}
	a.enabled[leaf] |= 1 << bit
	a.be.RegWrite(Leaves[leaf].MaskAddr, a.enabled[leaf])
	root := a.be.RegRead(GlblErrMaskAddr)
	a.be.RegWrite(GlblErrMaskAddr, RootBitField(Leaves[leaf].RootBit).Set(root, 1))
}

// Tick performs one poll of the error tree: root status early-exit, then
// per-leaf status read and per-bit dispatch, clearing leaf-then-root on
// the way out (spec.md §4.8 "write-1-to-clear, leaf before root").
func (a *Aggregator) Tick() []Event {
	a.tick.Add(1)
	root := a.be.RegRead(GlblErrStatAddr)
	if root == 0 {
		return nil
	}

	var fired []Event
	for i := range Leaves {
		leaf := &Leaves[i]
		if leaf.StreamingOnly && !a.streaming {
			continue
		}
		if RootBitField(leaf.RootBit).Get(root) == 0 {
			continue
		}
		status := a.be.RegRead(leaf.StatusAddr)
		if status == 0 {
			continue
		}
		for _, e := range leaf.Errors {
			if status&(1<<e.Bit) == 0 {
				continue
			}
			ev := Event{Leaf: leaf.ID, Err: e, Tick: a.tick.Load()}
			a.record(ev)
			a.dispatch(ev)
			fired = append(fired, ev)
		}
		a.be.RegWrite(leaf.StatusAddr, status) // write-1-to-clear, leaf first
	}
	a.be.RegWrite(GlblErrStatAddr, root) // then root
	return fired
}

func (a *Aggregator) dispatch(ev Event) {
	level := "uncorrectable"
	switch ev.Err.Severity {
	case Correctable:
		level = "correctable"
	case Fatal:
		level = "fatal"
	}
	a.be.Logf("errmon: %s: %s/%s (%s): %s", level, ev.Leaf, ev.Err.Name, ev.Leaf.String(), ev.Err.Message)
}

func (a *Aggregator) record(ev Event) {
	idx := int(a.cursor.Add(1)-1) % historySize
	it, ok := a.history.Get(idx)
	if !ok {
		return
	}
	*it.Pointer() = ev
}

// History returns up to n most recent events, newest first.
func (a *Aggregator) History(n int) []Event {
	total := int(a.cursor.Load())
	if total == 0 {
		return nil
	}
	if total > historySize {
		total = historySize
	}
	if n <= 0 || n > total {
		n = total
	}
	out := make([]Event, 0, n)
	head := int(a.cursor.Load()-1) % historySize
	for i := 0; i < n; i++ {
		idx := head - i
		for idx < 0 {
			idx += historySize
		}
		it, ok := a.history.Get(idx)
		if !ok {
			continue
		}
		out = append(out, it.Value())
	}
	return out
}
