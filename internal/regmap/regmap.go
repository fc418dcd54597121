// Package regmap holds the per-IP-variant register tables (spec.md §2 C2,
// §4.2 "Register map & bit-field catalogue"). Each IP variant (soft,
// s80-hard, eqdma-soft) binds the same abstract RegInfo/BitfieldInfo
// shapes (internal/sys) to its own concrete addresses. C8's errmon package
// does not read these tables (it keeps its own leaf table); this package
// serves the register-dump/decode path (§4.2 "Given a
// raw 32-bit register value and its descriptor, decode every named
// bit-field").
package regmap

import "github.com/xlnx/qdma-core/internal/sys"

// Map is one IP variant's full register catalogue.
type Map struct {
	Variant sys.IPVariant
	Regs    []sys.RegInfo
}

// ForVariant returns the register table bound to v.
func ForVariant(v sys.IPVariant) Map {
	switch v {
	case sys.IPVariantSoft:
		return soft
	case sys.IPVariantS80Hard:
		return s80Hard
	case sys.IPVariantEqdmaSoft:
		return eqdmaSoft
	default:
		return Map{Variant: v}
	}
}

// Lookup finds a register by name.
func (m Map) Lookup(name string) (sys.RegInfo, bool) {
	for _, r := range m.Regs {
		if r.Name == name {
			return r, true
		}
	}
	return sys.RegInfo{}, false
}

// Visible returns the subset of registers that should appear in a dump
// for a device with the given active modes and debug capability (§4.2).
func (m Map) Visible(activeModes sys.ModeMask, debugCapable bool) []sys.RegInfo {
	var out []sys.RegInfo
	for _, r := range m.Regs {
		if r.Visible(activeModes, debugCapable) {
			out = append(out, r)
		}
	}
	return out
}

// Decode expands a raw register value into its named bit-fields (§4.2
// "decode every named bit-field... by name, msb, lsb, and decimal
// value").
type DecodedField struct {
	Name     string
	MSB, LSB uint8
	Value    uint32
}

func Decode(r sys.RegInfo, raw uint32) []DecodedField {
	out := make([]DecodedField, 0, len(r.Fields))
	for _, f := range r.Fields {
		msb, lsb := f.MSBLSB()
		out = append(out, DecodedField{
			Name:  f.Name,
			MSB:   msb,
			LSB:   lsb,
			Value: (raw & f.Mask) >> lsb,
		})
	}
	return out
}
