package qdma

import (
	"github.com/xlnx/qdma-core/internal/errs"
	"github.com/xlnx/qdma-core/internal/sys"
)

// probeAddrs names the capability registers read once at device
// bring-up (§4.9, §6 "Device attribute capability bits").
type probeAddrs struct {
	MiscCap     uint32 // GLBL2_MISC_CAP
	ChannelMDMA uint32 // GLBL2_CHANNEL_MDMA
	ChannelCap  uint32 // GLBL2_CHANNEL_QDMA_CAP
	NumPFs      uint32 // GLBL2_CHANNEL_INST
	BarVisible  []uint32 // per-BAR "is this BAR function-map-visible" registers, probed in order
}

// Probe reads the capability registers and discovers the user/bypass BAR
// indices (§2 C9). It does not classify the IP variant; ClassifyVariant
// does that from the returned capabilities.
func Probe(be Backend, addrs probeAddrs) (sys.DevCap, int, int, error) {
	misc := be.RegRead(addrs.MiscCap)
	cap := sys.DevCap{}
	cap.DebugMode = sys.CapDebugMode.GetBool(misc)
	cap.DescEngMode = sys.DescEngMode(sys.CapDescEngMode.Get(misc))
	cap.FLRPresent = sys.CapFLRPresent.GetBool(misc)
	cap.MailboxEn = sys.CapMailboxEn.GetBool(misc)

	mdma := be.RegRead(addrs.ChannelMDMA)
	cap.STEnable = sys.CapSTC2H.GetBool(mdma) || sys.CapSTH2C.GetBool(mdma)
	cap.MMEnable = sys.CapMMC2H.GetBool(mdma) || sys.CapMMH2C.GetBool(mdma)
	cap.MMCmptEnable = sys.CapMMCmpt.GetBool(mdma)
	cap.MMChannelMax = uint8(sys.CapMMChannelMax.Get(mdma))

	chCap := be.RegRead(addrs.ChannelCap)
	cap.NumQueues = uint16(sys.CapNumQueues.Get(chCap))

	cap.NumPFs = uint8(be.RegRead(addrs.NumPFs))

	userBAR, bypassBAR, err := discoverBARs(be, addrs.BarVisible)
	if err != nil {
		return cap, 0, 0, err
	}
	return cap, userBAR, bypassBAR, nil
}

// discoverBARs scans the function-map-visible BAR table for un-assigned
// BARs (§4.9): the first one found is the user BAR and the second the
// bypass BAR; when only one is free it is reported as both. A visibility
// register reading zero marks that BAR index as unassigned/available.
func discoverBARs(be Backend, barVisible []uint32) (userBAR, bypassBAR int, err error) {
	userBAR, bypassBAR = -1, -1
	for i, addr := range barVisible {
		if be.RegRead(addr) == 0 {
			if userBAR == -1 {
				userBAR = i
			} else if bypassBAR == -1 {
				bypassBAR = i
			}
		}
	}
	if userBAR == -1 {
		return 0, 0, errs.New("probe.discover_bars", errs.CodeInvalidConfigBar, nil)
	}
	if bypassBAR == -1 {
		bypassBAR = userBAR
	}
	return userBAR, bypassBAR, nil
}

// ClassifyVariant picks the IP variant a device's capability profile
// binds to (§4.9 "Classifies the IP variant and binds the appropriate
// hw_access vtable"). In the absence of a dedicated version register in
// this abstraction, classification is driven by the caller (typically
// from a version/IP-identification register read alongside Probe); this
// helper covers the common case where only the MM-CMPT capability is
// available to distinguish variants.
func ClassifyVariant(cap sys.DevCap, hasEqdmaVersionMagic bool) sys.IPVariant {
	switch {
	case hasEqdmaVersionMagic:
		return sys.IPVariantEqdmaSoft
	case cap.MMCmptEnable:
		return sys.IPVariantS80Hard
	default:
		return sys.IPVariantSoft
	}
}
