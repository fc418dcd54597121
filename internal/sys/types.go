package sys

// IPVariant identifies which silicon variant's register map and bit
// layouts a device binds to (§4.3 "IP-variant table", §9 design notes:
// "a sum type IpVariant ... dispatched by match").
type IPVariant uint8

const (
	IPVariantSoft IPVariant = iota
	IPVariantS80Hard
	IPVariantEqdmaSoft
)

func (v IPVariant) String() string {
	switch v {
	case IPVariantSoft:
		return "soft"
	case IPVariantS80Hard:
		return "s80-hard"
	case IPVariantEqdmaSoft:
		return "eqdma-soft"
	default:
		return "unknown"
	}
}

// ModeMask gates a register to the device modes it applies to (§4.2).
type ModeMask uint8

const (
	ModeMM ModeMask = 1 << iota
	ModeST
	ModeMMCmpt
	ModeMailbox
)

// ReadType restricts who may read a register (§4.2).
type ReadType uint8

const (
	ReadPFAndVF ReadType = iota
	ReadPFOnly
)

// BitfieldInfo names one decoded field of a register for the dump path
// (§4.2 "Bit-field descriptors").
type BitfieldInfo struct {
	Name string
	Mask uint32
}

// MSBLSB decodes Mask into its [msb, lsb] bit positions.
func (b BitfieldInfo) MSBLSB() (msb, lsb uint8) {
	m := b.Mask
	if m == 0 {
		return 0, 0
	}
	for lsb = 0; m&1 == 0; lsb++ {
		m >>= 1
	}
	for msb = lsb; m&1 != 0; msb++ {
		m >>= 1
	}
	return msb - 1, lsb
}

// RegInfo describes one named register in an IP variant's map (§4.2).
type RegInfo struct {
	Name     string
	Addr     uint32
	Repeat   uint32 // number of consecutive instances (e.g. per-queue arrays)
	ModeMask ModeMask
	IsDebug  bool
	ReadType ReadType
	Fields   []BitfieldInfo
}

// Visible reports whether the register should appear in a dump for a
// device with the given active modes and debug-capability flag (§4.2).
func (r RegInfo) Visible(activeModes ModeMask, debugCapable bool) bool {
	if r.IsDebug && !debugCapable {
		return false
	}
	if r.ModeMask != 0 && activeModes&r.ModeMask == 0 {
		return false
	}
	return true
}

// ReadableByVF reports whether a VF may read this register (§4.2:
// "read_type in {PF+VF, PF-only}: VF register reads obey mode & PF-only =>
// skip").
func (r RegInfo) ReadableByVF() bool {
	return r.ReadType != ReadPFOnly
}

// SWCtxt is the software context bundle (§3 "sw_ctxt").
type SWCtxt struct {
	BaseAddr       uint64
	RingSzIdx      uint8
	DescSzIdx      uint8
	FuncID         uint16
	IrqVector      uint16
	Aggregation    bool
	Bypass         bool
	IsMM           bool
	WbiIntvlEn     bool
	WbiChk         bool
	Err            uint8
	ErrWbSent      bool
	Pidx           uint16
	IrqArm         bool
	FetchCreditEn  bool
	FetchMax       uint8
	AddrTranslation bool
	QEnable        bool
	MMChannel      bool
	WbkEn          bool
	IrqEn          bool
	PortID         uint8
	IrqNoLast      bool
	IrqReq         bool
	MarkerDis      bool
	DisIntrOnVF    bool
	VirtioEn       bool
	PackBypassOut  bool
	IrqBypass      bool
	HostID         uint8
	Pasid          uint32 // 22-bit
	PasidEnable    bool
	VirtioDescBase uint64 // 64-bit, split 11h/32m/21l on the wire
}

// HWCtxt is the hardware context (§3 "hw_ctxt", read-only reflection).
type HWCtxt struct {
	Cidx          uint16
	CreditsUsed   uint16
	DescPending   bool
	EventPending  bool
	FetchPending  uint8
	Idle          bool
}

// CrCtxt is the credit context (§3 "cr_ctxt").
type CrCtxt struct {
	Credit uint16
}

// PfetchCtxt is the prefetch context, streaming C2H only (§3 "pfetch_ctxt").
type PfetchCtxt struct {
	Enable     bool
	Bypass     bool
	BufSzIdx   uint8
	PortID     uint8
	InPrefetch bool
	Err        bool
	Valid      bool
	SwCredit   uint16
}

// CmptCtxt is the completion-queue context (§3 "cmpt_ctxt").
type CmptCtxt struct {
	BaseAddr      uint64 // 52 bits, split 16h/32m/4l on the wire
	RingSzIdx     uint8
	DescSzIdx     uint8
	TimerIdx      uint8
	CounterIdx    uint8
	TriggerMode   TriggerMode
	Color         bool
	OverflowChkDis bool
	IrqVector     uint16
	Aggregation   bool
	Pidx          uint16
	Cidx          uint16
	Valid         bool
	Err           uint8
	FuncID        uint16
}

// IntrCtxt is one interrupt-aggregation-ring context (§3 "intr_ctxt", up to
// MaxIntrRingsPerFunc per function).
type IntrCtxt struct {
	BaseAddr uint64 // 52-bit
	VecID    uint16
	Color    bool
	Pidx     uint16 // 12-bit
	PageSize uint8
	Valid    bool
}

// FmapCtxt is the function-to-queue-range map (§GLOSSARY "FMAP").
type FmapCtxt struct {
	QBase uint16
	QMax  uint16
}

// DevCap mirrors the capability registers read once at probe (§4.9, §6).
type DevCap struct {
	NumPFs       uint8
	NumQueues    uint16
	FLRPresent   bool
	MMEnable     bool
	STEnable     bool
	MMCmptEnable bool
	MailboxEn    bool
	MMChannelMax uint8
	DescEngMode  DescEngMode
	DebugMode    bool
	CmptDesc64B  bool
}

// MboxMsg is the fixed 32-word mailbox payload (§3, §6).
type MboxMsg struct {
	Op      uint8
	Status  int8
	SrcFunc uint16
	DstFunc uint16
	Payload [MboxMsgWords - 1]uint32
}

// Words marshals the message into its 32-word wire form. dst_func spills
// 8 of its bits into word 1's low byte (§6 "Word 0 bit-packs {..., dst_func:
// [39:28]}"); those bits are reserved on the wire and are never part of
// Payload[0] as seen by a caller, so they are cleared from Payload[0]
// before the header bits are laid on top.
func (m MboxMsg) Words() [MboxMsgWords]uint32 {
	var w [MboxMsgWords]uint32
	word0 := uint32(0)
	word0 = MsgOp.Set(word0, uint32(m.Op))
	word0 = MsgStatus.Set(word0, uint32(uint8(m.Status)))
	word0 = MsgSrcFunc.Set(word0, uint32(m.SrcFunc))
	word0 = MsgDstFuncLo.Set(word0, uint32(m.DstFunc)&0xF)
	w[0] = word0
	copy(w[1:], m.Payload[:])
	w[1] = MsgDstFuncHi.Set(w[1]&^MsgDstFuncHi.Mask(), uint32(m.DstFunc)>>4)
	return w
}

// MboxMsgFromWords unmarshals the wire form back into a MboxMsg.
func MboxMsgFromWords(w [MboxMsgWords]uint32) MboxMsg {
	var m MboxMsg
	m.Op = uint8(MsgOp.Get(w[0]))
	m.Status = int8(uint8(MsgStatus.Get(w[0])))
	m.SrcFunc = uint16(MsgSrcFunc.Get(w[0]))
	dst := MsgDstFuncLo.Get(w[0]) | (MsgDstFuncHi.Get(w[1]) << 4)
	m.DstFunc = uint16(dst)
	copy(m.Payload[:], w[1:])
	m.Payload[0] &^= MsgDstFuncHi.Mask()
	return m
}

// AllZeroWords reports whether every word of the wire form is zero — the
// observed hardware quirk the receive primitive must detect (§4.6).
func AllZeroWords(w [MboxMsgWords]uint32) bool {
	for _, v := range w {
		if v != 0 {
			return false
		}
	}
	return true
}
