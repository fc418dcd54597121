package qdma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlnx/qdma-core/internal/sys"
)

func testProbeAddrs() probeAddrs {
	return probeAddrs{
		MiscCap: 0x134, ChannelMDMA: 0x160, ChannelCap: 0x158, NumPFs: 0x12C,
		BarVisible: []uint32{0x700, 0x704, 0x708},
	}
}

func TestProbeReadsCapabilities(t *testing.T) {
	be := newFakeBackend()
	addrs := testProbeAddrs()

	misc := uint32(0)
	misc = sys.CapMailboxEn.SetBool(misc, true)
	misc = sys.CapFLRPresent.SetBool(misc, true)
	be.regs[addrs.MiscCap] = misc

	mdma := sys.CapSTC2H.SetBool(0, true)
	mdma = sys.CapMMCmpt.SetBool(mdma, true)
	mdma = sys.CapMMChannelMax.Set(mdma, 2)
	be.regs[addrs.ChannelMDMA] = mdma

	chCap := sys.CapNumQueues.Set(0, 512)
	be.regs[addrs.ChannelCap] = chCap
	be.regs[addrs.NumPFs] = 4

	be.regs[addrs.BarVisible[0]] = 1 // assigned
	be.regs[addrs.BarVisible[1]] = 0 // unassigned -> user BAR
	be.regs[addrs.BarVisible[2]] = 0 // unassigned -> bypass BAR

	cap, userBAR, bypassBAR, err := Probe(be, addrs)
	require.NoError(t, err)

	assert.True(t, cap.MailboxEn)
	assert.True(t, cap.FLRPresent)
	assert.True(t, cap.STEnable)
	assert.False(t, cap.MMEnable)
	assert.True(t, cap.MMCmptEnable)
	assert.EqualValues(t, 2, cap.MMChannelMax)
	assert.EqualValues(t, 512, cap.NumQueues)
	assert.EqualValues(t, 4, cap.NumPFs)
	assert.Equal(t, 1, userBAR)
	assert.Equal(t, 2, bypassBAR)
}

func TestProbeFallsBackToSameBARWhenOnlyOneUnassigned(t *testing.T) {
	be := newFakeBackend()
	addrs := testProbeAddrs()
	be.regs[addrs.BarVisible[0]] = 1
	be.regs[addrs.BarVisible[1]] = 1
	be.regs[addrs.BarVisible[2]] = 0

	_, userBAR, bypassBAR, err := Probe(be, addrs)
	require.NoError(t, err)
	assert.Equal(t, 2, userBAR)
	assert.Equal(t, 2, bypassBAR)
}

func TestProbeErrorsWhenNoBARUnassigned(t *testing.T) {
	be := newFakeBackend()
	addrs := testProbeAddrs()
	be.regs[addrs.BarVisible[0]] = 1
	be.regs[addrs.BarVisible[1]] = 1
	be.regs[addrs.BarVisible[2]] = 1

	_, _, _, err := Probe(be, addrs)
	assert.ErrorIs(t, err, ErrInvalidConfigBar)
}

func TestClassifyVariant(t *testing.T) {
	assert.Equal(t, sys.IPVariantEqdmaSoft, ClassifyVariant(sys.DevCap{}, true))
	assert.Equal(t, sys.IPVariantS80Hard, ClassifyVariant(sys.DevCap{MMCmptEnable: true}, false))
	assert.Equal(t, sys.IPVariantSoft, ClassifyVariant(sys.DevCap{}, false))
}
