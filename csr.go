package qdma

import (
	"github.com/xlnx/qdma-core/internal/errs"
	"github.com/xlnx/qdma-core/internal/sys"
)

// CSRTableSize is the fixed length of each of the four global lookup
// tables (§4.5).
const CSRTableSize = sys.CSRTableSize

// csrAddrs names the four lookup-table base registers, plus the PF-only
// writeback-interval and MM-channel-enable registers (§4.5, grounded on
// the GLBL_RNG_SZ / C2H_BUF_SZ / C2H_CNT_TH register families in
// internal/regmap).
type csrAddrs struct {
	RingSize        uint32
	C2HBufSize      uint32
	TimerThreshold  uint32
	CounterThreshold uint32
	WritebackIntvl  uint32
	MMChannelEnable uint32
}

// CSR is the global CSR service (§2 C5): four 16-entry lookup tables
// (ring size, C2H buffer size, timer threshold, counter threshold), a
// writeback-interval field, and MM channel enables.
type CSR struct {
	be    Backend
	addrs csrAddrs

	ringSizes  [CSRTableSize]uint32
	bufSizes   [CSRTableSize]uint32
	timerThs   [CSRTableSize]uint32
	counterThs [CSRTableSize]uint32
}

// newCSR constructs a CSR service bound to addrs and programs the
// PF-init defaults (§4.5 "PF-init defaults").
func newCSR(be Backend, addrs csrAddrs) *CSR {
	c := &CSR{be: be, addrs: addrs}
	c.ringSizes = sys.DefaultRingSizes
	c.bufSizes = sys.DefaultC2HBufSizes
	c.timerThs = sys.DefaultTimerThresholds
	c.counterThs = sys.DefaultCounterThresholds
	c.writeback()
	return c
}

func (c *CSR) writeback() {
	for i := 0; i < CSRTableSize; i++ {
		c.be.RegWrite(c.addrs.RingSize+uint32(i*4), c.ringSizes[i])
		c.be.RegWrite(c.addrs.C2HBufSize+uint32(i*4), c.bufSizes[i])
		c.be.RegWrite(c.addrs.TimerThreshold+uint32(i*4), c.timerThs[i])
		c.be.RegWrite(c.addrs.CounterThreshold+uint32(i*4), c.counterThs[i])
	}
}

// validIndex bounds-checks index+count<=CSRTableSize (§4.5 validation
// rule).
func validIndex(index, count int) bool {
	return index >= 0 && count > 0 && index+count <= CSRTableSize
}

// SetRingSizes overwrites count entries of the ring-size table starting
// at index (§4.5 "ring size table").
func (c *CSR) SetRingSizes(index int, values []uint32) error {
	if !validIndex(index, len(values)) {
		return errs.New("csr.set_ring_sizes", errs.CodeInvalidRingSize, nil)
	}
	for i, v := range values {
		c.ringSizes[index+i] = v
		c.be.RegWrite(c.addrs.RingSize+uint32((index+i)*4), v)
	}
	return nil
}

// RingSize returns the ring-size table entry at idx, resolving the index
// used by sw_ctxt.ring_sz_idx (§4.5, §8 S2 "ring-size-index resolved to
// the entry whose table value is 257").
func (c *CSR) RingSize(idx uint8) (uint32, error) {
	if int(idx) >= CSRTableSize {
		return 0, errs.New("csr.ring_size", errs.CodeInvalidRingSize, nil)
	}
	return c.ringSizes[idx], nil
}

// ResolveRingSizeIndex finds the table entry whose value equals size,
// the inverse of RingSize (§8 S2).
func (c *CSR) ResolveRingSizeIndex(size uint32) (uint8, error) {
	for i, v := range c.ringSizes {
		if v == size {
			return uint8(i), nil
		}
	}
	return 0, errs.New("csr.resolve_ring_size_index", errs.CodeInvalidRingSize, nil)
}

// SetC2HBufSizes overwrites count entries of the C2H buffer-size table
// (§4.5 "C2H buffer size table").
func (c *CSR) SetC2HBufSizes(index int, values []uint32) error {
	if !validIndex(index, len(values)) {
		return errs.New("csr.set_c2h_buf_sizes", errs.CodeInvalidBufSize, nil)
	}
	for i, v := range values {
		c.bufSizes[index+i] = v
		c.be.RegWrite(c.addrs.C2HBufSize+uint32((index+i)*4), v)
	}
	return nil
}

// C2HBufSize returns the C2H buffer-size table entry at idx.
func (c *CSR) C2HBufSize(idx uint8) (uint32, error) {
	if int(idx) >= CSRTableSize {
		return 0, errs.New("csr.c2h_buf_size", errs.CodeInvalidBufSize, nil)
	}
	return c.bufSizes[idx], nil
}

// ResolveC2HBufSizeIndex finds the table entry whose value equals size.
func (c *CSR) ResolveC2HBufSizeIndex(size uint32) (uint8, error) {
	for i, v := range c.bufSizes {
		if v == size {
			return uint8(i), nil
		}
	}
	return 0, errs.New("csr.resolve_c2h_buf_size_index", errs.CodeInvalidBufSize, nil)
}

// SetTimerThresholds overwrites count entries of the timer-threshold
// table (§4.5 "timer threshold table").
func (c *CSR) SetTimerThresholds(index int, values []uint32) error {
	if !validIndex(index, len(values)) {
		return errs.New("csr.set_timer_thresholds", errs.CodeInvalidTimerIdx, nil)
	}
	for i, v := range values {
		c.timerThs[index+i] = v
		c.be.RegWrite(c.addrs.TimerThreshold+uint32((index+i)*4), v)
	}
	return nil
}

// ResolveTimerThresholdIndex finds the table entry whose value equals
// value (§8 S2 "timer-index resolved to entry valued 25").
func (c *CSR) ResolveTimerThresholdIndex(value uint32) (uint8, error) {
	for i, v := range c.timerThs {
		if v == value {
			return uint8(i), nil
		}
	}
	return 0, errs.New("csr.resolve_timer_threshold_index", errs.CodeInvalidTimerIdx, nil)
}

// SetCounterThresholds overwrites count entries of the counter-threshold
// table (§4.5 "counter threshold table").
func (c *CSR) SetCounterThresholds(index int, values []uint32) error {
	if !validIndex(index, len(values)) {
		return errs.New("csr.set_counter_thresholds", errs.CodeInvalidCounterIdx, nil)
	}
	for i, v := range values {
		c.counterThs[index+i] = v
		c.be.RegWrite(c.addrs.CounterThreshold+uint32((index+i)*4), v)
	}
	return nil
}

// ResolveCounterThresholdIndex finds the table entry whose value equals
// value (§8 S2 "counter-index to entry valued 32").
func (c *CSR) ResolveCounterThresholdIndex(value uint32) (uint8, error) {
	for i, v := range c.counterThs {
		if v == value {
			return uint8(i), nil
		}
	}
	return 0, errs.New("csr.resolve_counter_threshold_index", errs.CodeInvalidCounterIdx, nil)
}

// SetWritebackInterval programs the global writeback-interval field
// (§4.5 "writeback-interval field").
func (c *CSR) SetWritebackInterval(v uint32) {
	c.be.RegWrite(c.addrs.WritebackIntvl, v)
}

// SetMMChannelEnable enables or disables one MM channel (§4.5 "MM channel
// enables").
func (c *CSR) SetMMChannelEnable(channel uint8, enable bool) {
	reg := c.be.RegRead(c.addrs.MMChannelEnable)
	bit := sys.Field{Lo: channel, Hi: channel}
	c.be.RegWrite(c.addrs.MMChannelEnable, bit.SetBool(reg, enable))
}
