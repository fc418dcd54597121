package regmap

import "github.com/xlnx/qdma-core/internal/sys"

// soft is the register table for the "soft" IP variant (§4.3 IP-variant
// table), grounded on qdma_soft_access/qdma_soft_reg.h. Only a
// representative cross-section of the real table is carried — enough to
// exercise every category (global config, indirect context, CSR tables,
// per-queue debug, mailbox, capability) — not the full multi-hundred-entry
// register set of the original driver.
var soft = Map{
	Variant: sys.IPVariantSoft,
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
			Name: "GLBL_DSC_CFG", Addr: 0x250,
			Fields: []sys.BitfieldInfo{
				{Name: "MAX_DSC_FETCH", Mask: 0x7},
				{Name: "WB_ACC_INT", Mask: 0x38},
			},
		},
		{
			Name: "IND_CTXT_DATA", Addr: 0x804, Repeat: 8,
			IsDebug: true,
		},
		{
			Name: "IND_CTXT_MASK", Addr: 0x824, Repeat: 8,
			IsDebug: true,
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
		{
			Name: "GLBL_ERR_STAT", Addr: 0x248,
		},
		{
			Name: "GLBL_ERR_MASK", Addr: 0x24C,
		},
		{
			Name: "C2H_CNT_TH", Addr: 0xA40, Repeat: sys.CSRTableSize,
			ModeMask: sys.ModeST,
		},
		{
			Name: "GLBL2_MISC_CAP", Addr: 0x134,
		},
		{
			Name: "MBOX_BASE_PF", Addr: 0x2400,
			ModeMask: sys.ModeMailbox, ReadType: sys.ReadPFOnly,
		},
		{
			Name: "MBOX_BASE_VF", Addr: 0x1000,
			ModeMask: sys.ModeMailbox,
		},
		{
			Name: "VF_USER_BAR_ID", Addr: 0x1018,
			ReadType: sys.ReadPFOnly,
		},
	},
}
