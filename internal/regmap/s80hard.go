package regmap

import "github.com/xlnx/qdma-core/internal/sys"

// s80Hard is the register table for the "s80-hard" IP variant, grounded
// on DPDK's qdma_s80_hard_access/qdma_s80_hard_reg.h. The hard IP moves
// the per-queue doorbell window to a different base than soft/eqdma-soft
// but keeps the same indirect-context command shape.
var s80Hard = Map{
	Variant: sys.IPVariantS80Hard,
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
			Name: "IND_CTXT_MASK", Addr: 0x814, IsDebug: true,
		},
		{
			Name: "IND_CTXT_CMD", Addr: 0x824,
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
			Name: "DMAP_SEL_INT_CIDX", Addr: 0x6400, Repeat: 512,
			ModeMask: sys.ModeMM | sys.ModeST, IsDebug: true,
		},
		{
			Name: "DMAP_SEL_H2C_DSC_PIDX", Addr: 0x6404, Repeat: 512,
			ModeMask: sys.ModeMM | sys.ModeST,
		},
		{
			Name: "DMAP_SEL_C2H_DSC_PIDX", Addr: 0x6408, Repeat: 512,
			ModeMask: sys.ModeMM | sys.ModeST,
		},
		{
			Name: "DMAP_SEL_CMPT_CIDX", Addr: 0x640C, Repeat: 512,
			ModeMask: sys.ModeMMCmpt | sys.ModeST,
		},
		{
			Name: "GLBL2_MISC_CAP", Addr: 0x134,
		},
	},
}
