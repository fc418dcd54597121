package errmon

import "github.com/xlnx/qdma-core/internal/sys"

// Severity classifies a single error condition (spec.md §2 C8:
// "correctable, uncorrectable, fatal").
type Severity uint8

const (
	Correctable Severity = iota
	Uncorrectable
	Fatal
)

// ErrDef names one concrete error bit within a leaf's status/mask
// register (spec.md §4.8 "each leaf enumerates ~5-30 concrete errors").
type ErrDef struct {
	Name     string
	Bit      uint8
	Severity Severity
	Message  string // human-readable log line, e.g. "MTY mismatch error"
}

// LeafID names one of the leaf aggregators in the two-level tree
// (spec.md §2 C8, grounded on EQDMA_TOTAL_LEAF_ERROR_AGGREGATORS == 9).
type LeafID uint8

const (
	LeafRAMSBE LeafID = iota
	LeafRAMDBE
	LeafDSC
	LeafTRQ
	LeafH2CMM
	LeafC2HMM
	LeafSTC2H
	LeafSTH2C
	LeafIndCtxtCmd
	leafCount
)

func (l LeafID) String() string {
	switch l {
	case LeafRAMSBE:
		return "RAM_SBE"
	case LeafRAMDBE:
		return "RAM_DBE"
	case LeafDSC:
		return "GLBL_DSC"
	case LeafTRQ:
		return "GLBL_TRQ"
	case LeafH2CMM:
		return "H2C_MM"
	case LeafC2HMM:
		return "C2H_MM"
	case LeafSTC2H:
		return "C2H_ST"
	case LeafSTH2C:
		return "H2C_ST"
	case LeafIndCtxtCmd:
		return "IND_CTXT_CMD"
	default:
		return "unknown"
	}
}

// LeafDef describes one leaf aggregator: its root-mask bit, its own
// status/mask register addresses, diagnostic dump registers, and the set
// of concrete errors it multiplexes (spec.md §4.8 "Leaf").
type LeafDef struct {
	ID          LeafID
	RootBit     uint8
	StatusAddr  uint32
	MaskAddr    uint32
	DiagAddrs   []string // names of the leaf's diagnostic registers; the aggregator does not resolve, read or dump them
	Errors      []ErrDef
	StreamingOnly bool // skipped when the ST engine is capability-disabled
}

// Leaves is the soft/eqdma-grounded leaf table. Addresses are taken from
// the EQDMA register map (eqdma_soft_reg.h); the set of concrete errors
// per leaf is a representative subset of the real table (the real driver
// enumerates 5-30 per leaf; this keeps the mechanism fully general while
// staying a teaching-sized table, per spec.md's size-budget note that the
// generated register/ID tables "should shrink substantially in a
// rewrite").
var Leaves = [leafCount]LeafDef{
	{
		ID: LeafRAMSBE, RootBit: 0,
		StatusAddr: 0x0F0, MaskAddr: 0x0E0,
		DiagAddrs: []string{"RAM_SBE_1_STAT"},
		Errors: []ErrDef{
			{Name: "MI_H2C0_DAT", Bit: 0, Severity: Correctable, Message: "H2C0 data RAM single-bit error"},
			{Name: "MI_C2H0_DAT", Bit: 1, Severity: Correctable, Message: "C2H0 data RAM single-bit error"},
			{Name: "H2C_RD_BRG_DAT", Bit: 2, Severity: Correctable, Message: "H2C read bridge RAM single-bit error"},
			{Name: "C2H_WR_BRG_DAT", Bit: 3, Severity: Correctable, Message: "C2H write bridge RAM single-bit error"},
		},
	},
	{
		ID: LeafRAMDBE, RootBit: 1,
		StatusAddr: 0x0F8, MaskAddr: 0x0E8,
		DiagAddrs: []string{"RAM_DBE_1_STAT"},
		Errors: []ErrDef{
			{Name: "MI_H2C0_DAT", Bit: 0, Severity: Fatal, Message: "H2C0 data RAM double-bit error"},
			{Name: "MI_C2H0_DAT", Bit: 1, Severity: Fatal, Message: "C2H0 data RAM double-bit error"},
			{Name: "H2C_RD_BRG_DAT", Bit: 2, Severity: Fatal, Message: "H2C read bridge RAM double-bit error"},
			{Name: "C2H_WR_BRG_DAT", Bit: 3, Severity: Fatal, Message: "C2H write bridge RAM double-bit error"},
		},
	},
	{
		ID: LeafDSC, RootBit: 2,
		StatusAddr: 0x254, MaskAddr: 0x258,
		DiagAddrs: []string{"GLBL_DSC_ERR_LOG0", "GLBL_DSC_ERR_LOG1", "GLBL_DSC_ERR_LOG2"},
		Errors: []ErrDef{
			{Name: "POISON", Bit: 1, Severity: Uncorrectable, Message: "Descriptor poison error"},
			{Name: "UR_CA", Bit: 2, Severity: Uncorrectable, Message: "Unsupported request / completer abort"},
			{Name: "BCNT", Bit: 3, Severity: Uncorrectable, Message: "Descriptor byte-count mismatch"},
			{Name: "PARAM", Bit: 4, Severity: Uncorrectable, Message: "Descriptor parameter error"},
			{Name: "ADDR", Bit: 5, Severity: Uncorrectable, Message: "Descriptor address error"},
			{Name: "TAG", Bit: 6, Severity: Correctable, Message: "Descriptor tag mismatch"},
			{Name: "TIMEOUT", Bit: 9, Severity: Uncorrectable, Message: "Descriptor engine timeout"},
			{Name: "DAT_POISON", Bit: 16, Severity: Fatal, Message: "Descriptor data poison error"},
		},
	},
	{
		ID: LeafTRQ, RootBit: 3,
		StatusAddr: 0x264, MaskAddr: 0x268,
		DiagAddrs: []string{"GLBL_TRQ_ERR_LOG"},
		Errors: []ErrDef{
			{Name: "CSR_UNMAPPED", Bit: 0, Severity: Uncorrectable, Message: "Unmapped CSR access"},
			{Name: "VF_ACCESS", Bit: 1, Severity: Uncorrectable, Message: "Illegal VF register access"},
			{Name: "TCP_CSR", Bit: 3, Severity: Uncorrectable, Message: "TCP CSR access error"},
			{Name: "QSPC_UNMAPPED", Bit: 4, Severity: Uncorrectable, Message: "Unmapped queue-space access"},
			{Name: "QID_RANGE", Bit: 5, Severity: Uncorrectable, Message: "Queue id out of range"},
		},
	},
	{
		ID: LeafH2CMM, RootBit: 4,
		StatusAddr: 0xA00, MaskAddr: 0xA04,
		DiagAddrs: []string{"H2C_MM_ERR_CODE", "H2C_MM_ERR_INFO"},
		Errors: []ErrDef{
			{Name: "WR_UC_RAM", Bit: 0, Severity: Fatal, Message: "H2C MM write uncorrectable RAM error"},
			{Name: "RD_UC_RAM", Bit: 1, Severity: Fatal, Message: "H2C MM read uncorrectable RAM error"},
			{Name: "WR_PAR", Bit: 2, Severity: Uncorrectable, Message: "H2C MM write parity error"},
		},
	},
	{
		ID: LeafC2HMM, RootBit: 6,
		StatusAddr: 0xA30, MaskAddr: 0xA34,
		DiagAddrs: []string{"C2H_MM_ERR_CODE", "C2H_MM_ERR_INFO"},
		Errors: []ErrDef{
			{Name: "WR_UC_RAM", Bit: 0, Severity: Fatal, Message: "C2H MM write uncorrectable RAM error"},
			{Name: "RD_UC_RAM", Bit: 1, Severity: Fatal, Message: "C2H MM read uncorrectable RAM error"},
			{Name: "WR_PAR", Bit: 2, Severity: Uncorrectable, Message: "C2H MM write parity error"},
		},
	},
	{
		ID: LeafSTC2H, RootBit: 8, StreamingOnly: true,
		StatusAddr: 0xAF0, MaskAddr: 0xAF4,
		DiagAddrs: []string{"C2H_FIRST_ERR_QID", "C2H_STAT_DBG_DMA_ENG_0", "C2H_STAT_DBG_DMA_ENG_1",
			"C2H_STAT_DBG_DMA_ENG_2", "C2H_STAT_DBG_DMA_ENG_3"},
		Errors: []ErrDef{
			{Name: "MTY_MISMATCH", Bit: 0, Severity: Uncorrectable, Message: "MTY mismatch error"},
			{Name: "LEN_MISMATCH", Bit: 1, Severity: Uncorrectable, Message: "Packet length mismatch error"},
			{Name: "QID_MISMATCH", Bit: 3, Severity: Uncorrectable, Message: "Queue id mismatch error"},
			{Name: "DESC_RSP_ERR", Bit: 4, Severity: Uncorrectable, Message: "Descriptor response error"},
			{Name: "PORTID_CTXT_MISMATCH", Bit: 10, Severity: Uncorrectable, Message: "Port id context mismatch error"},
			{Name: "CMPT_QFULL_ERR", Bit: 13, Severity: Uncorrectable, Message: "Completion queue full error"},
			{Name: "CMPT_CIDX_ERR", Bit: 14, Severity: Uncorrectable, Message: "Completion consumer-index error"},
		},
	},
	{
		ID: LeafSTH2C, RootBit: 11, StreamingOnly: true,
		StatusAddr: 0xE00, MaskAddr: 0xE04,
		DiagAddrs: []string{"H2C_FIRST_ERR_QID"},
		Errors: []ErrDef{
			{Name: "ZERO_LEN_DESC_ERR", Bit: 0, Severity: Uncorrectable, Message: "Zero-length descriptor error"},
			{Name: "CSI_MOP_ERR", Bit: 1, Severity: Uncorrectable, Message: "Start-of-packet/middle-of-packet error"},
			{Name: "NO_DMA_DS", Bit: 3, Severity: Uncorrectable, Message: "No DMA descriptor space error"},
		},
	},
	{
		ID: LeafIndCtxtCmd, RootBit: 9,
		StatusAddr: 0x2C0, MaskAddr: 0x2C4,
		DiagAddrs: []string{"IND_CTXT_CMD"},
		Errors: []ErrDef{
			{Name: "CMD_ERR", Bit: 0, Severity: Uncorrectable, Message: "Indirect context command error"},
			{Name: "CMD_PARAM_ERR", Bit: 1, Severity: Uncorrectable, Message: "Indirect context command parameter error"},
		},
	},
}

// GlblErrStatAddr / GlblErrMaskAddr are the root status/mask registers
// (spec.md §4.8 "Root").
const (
	GlblErrStatAddr uint32 = 0x248
	GlblErrMaskAddr uint32 = 0x24C
)

// RootBitField isolates one leaf's bit in the 32-bit root status/mask
// word.
func RootBitField(bit uint8) sys.Field { return sys.Field{Lo: bit, Hi: bit} }
