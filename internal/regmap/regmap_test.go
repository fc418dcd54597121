package regmap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xlnx/qdma-core/internal/sys"
)

func TestForVariantReturnsDistinctTables(t *testing.T) {
	soft := ForVariant(sys.IPVariantSoft)
	hard := ForVariant(sys.IPVariantS80Hard)
	eqdma := ForVariant(sys.IPVariantEqdmaSoft)

	assert.Equal(t, sys.IPVariantSoft, soft.Variant)
	assert.Equal(t, sys.IPVariantS80Hard, hard.Variant)
	assert.Equal(t, sys.IPVariantEqdmaSoft, eqdma.Variant)
	assert.NotEqual(t, len(soft.Regs), 0)
}

func TestLookupByName(t *testing.T) {
	m := ForVariant(sys.IPVariantSoft)

	r, ok := m.Lookup("GLBL_RNG_SZ")
	assert.True(t, ok)
	assert.EqualValues(t, 0x204, r.Addr)

	_, ok = m.Lookup("NOT_A_REGISTER")
	assert.False(t, ok)
}

func TestVisibleFiltersByModeAndDebugCapability(t *testing.T) {
	m := ForVariant(sys.IPVariantSoft)

	mmOnly := m.Visible(sys.ModeMM, true)
	names := make(map[string]bool, len(mmOnly))
	for _, r := range mmOnly {
		names[r.Name] = true
	}
	assert.True(t, names["GLBL_RNG_SZ"]) // MM|ST
	assert.False(t, names["C2H_BUF_SZ"]) // ST only

	noDebug := m.Visible(sys.ModeMM|sys.ModeST|sys.ModeMMCmpt|sys.ModeMailbox, false)
	for _, r := range noDebug {
		assert.False(t, r.IsDebug)
	}
}

func TestDecodeSplitsNamedBitfields(t *testing.T) {
	m := ForVariant(sys.IPVariantSoft)
	r, ok := m.Lookup("IND_CTXT_CMD")
	assert.True(t, ok)

	raw := uint32(0x2 | (0x5 << 3) | (7 << 15))
	fields := Decode(r, raw)

	byName := make(map[string]DecodedField, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	assert.EqualValues(t, 0x2, byName["OP"].Value)
	assert.EqualValues(t, 0x5, byName["SEL"].Value)
	assert.EqualValues(t, 7, byName["QID"].Value)
}
