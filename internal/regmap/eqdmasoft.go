package regmap

import "github.com/xlnx/qdma-core/internal/sys"

// eqdmaSoft is the register table for the "eqdma-soft" IP variant,
// grounded on eqdma_soft_access/eqdma_soft_reg.h. It lists the global and
// several leaf error status/mask registers at the addresses used by
// internal/errmon.Leaves, which is one leaf table shared by every variant.
var eqdmaSoft = Map{
	Variant: sys.IPVariantEqdmaSoft,
	Regs: []sys.RegInfo{
		{
			Name: "GLBL_RNG_SZ", Addr: 0x204, Repeat: sys.CSRTableSize,
			ModeMask: sys.ModeMM | sys.ModeST,
			Fields:   []sys.BitfieldInfo{{Name: "RING_SZ", Mask: 0xFFFF}},
		},
		{
			Name: "C2H_BUF_SZ", Addr: 0xAB0, Repeat: sys.CSRTableSize,
			ModeMask: sys.ModeST,
			Fields:   []sys.BitfieldInfo{{Name: "BUF_SZ", Mask: 0xFFFF}},
		},
		{
			Name: "IND_CTXT_DATA", Addr: 0x804, Repeat: 8, IsDebug: true,
		},
		{
			Name: "IND_CTXT_MASK", Addr: 0x824, Repeat: 8, IsDebug: true,
		},
		{
			Name: "IND_CTXT_CMD", Addr: 0x844,
			Fields: []sys.BitfieldInfo{
				{Name: "OP", Mask: 0x7},
				{Name: "SEL", Mask: 0x7FF8},
				{Name: "QID", Mask: 0x7FF8000},
				{Name: "BUSY", Mask: 1 << sys.IndCmdBusyBit},
			},
		},
		{Name: "GLBL_ERR_STAT", Addr: 0x248},
		{Name: "GLBL_ERR_MASK", Addr: 0x24C},
		{
			Name: "RAM_SBE_MASK", Addr: 0x0E0,
		},
		{
			Name: "RAM_DBE_MASK", Addr: 0x0E8,
		},
		{
			Name: "GLBL_DSC_ERR_STAT", Addr: 0x254,
		},
		{
			Name: "GLBL_DSC_ERR_MASK", Addr: 0x258,
		},
		{
			Name: "GLBL_TRQ_ERR_STAT", Addr: 0x264,
		},
		{
			Name: "GLBL_TRQ_ERR_MASK", Addr: 0x268,
		},
		{
			Name: "C2H_ERR_STAT", Addr: 0xAF0, ModeMask: sys.ModeST,
		},
		{
			Name: "C2H_ERR_MASK", Addr: 0xAF4, ModeMask: sys.ModeST,
		},
		{
			Name: "H2C_ERR_STAT", Addr: 0xE00, ModeMask: sys.ModeST,
		},
		{
			Name: "H2C_ERR_MASK", Addr: 0xE04, ModeMask: sys.ModeST,
		},
		{
			Name: "GLBL2_MISC_CAP", Addr: 0x134,
		},
		{
			Name: "MBOX_BASE_PF", Addr: 0x22400,
			ModeMask: sys.ModeMailbox, ReadType: sys.ReadPFOnly,
		},
		{
			Name: "MBOX_BASE_VF", Addr: 0x5000,
			ModeMask: sys.ModeMailbox,
		},
	},
}
