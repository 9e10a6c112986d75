// Package fasm implements the FASM (FPGA Assembly) grammar, semantic
// model, and the canonicalization/merge/print pipeline over that model.
//
// The package is purely functional: every exported function takes a
// value (a string, a path, or a slice of FasmLine) and returns a new
// value. There is no shared mutable state and nothing here spawns
// background work.
package fasm

import "math/big"

// ValueFormat selects how a SetFeature's value is rendered. FormatNone
// is only valid when Value is 1 and the source line carried no explicit
// value at all.
type ValueFormat int

const (
	FormatNone ValueFormat = iota
	FormatPlain
	FormatVerilogDecimal
	FormatVerilogHex
	FormatVerilogBinary
	FormatVerilogOctal
)

func (f ValueFormat) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatPlain:
		return "plain"
	case FormatVerilogDecimal:
		return "verilog-decimal"
	case FormatVerilogHex:
		return "verilog-hex"
	case FormatVerilogBinary:
		return "verilog-binary"
	case FormatVerilogOctal:
		return "verilog-octal"
	default:
		return "unknown"
	}
}

// SetFeature is an assertion about a named, dot-hierarchical feature.
//
// Start and End are nil when absent. Both absent means a scalar feature
// access; Start alone present means a single-bit access; both present
// means a `[End:Start]` range, with End >= Start.
//
// Value defaults to big.NewInt(1) and is never nil on a value produced
// by this package. Values are arbitrary precision because FASM features
// can describe register masks wider than 64 bits.
type SetFeature struct {
	Feature     string
	Start       *int
	End         *int
	Value       *big.Int
	ValueFormat ValueFormat
}

// AddressWidth returns the number of bits this feature's address spans:
// End-Start+1 when both are present, 1 otherwise.
func (f *SetFeature) AddressWidth() int {
	if f.End != nil {
		return *f.End - *f.Start + 1
	}
	return 1
}

// Annotation is a `name = "value"` pair attached to a line. Value may be
// the empty string. An annotation with no `= "..."` clause in the source
// is also normalized to the empty string (spec §4.C), so the two cases
// are not distinguished here.
type Annotation struct {
	Name  string
	Value string
}

// FasmLine is a parsed line: a SetFeature, a sequence of Annotations,
// and/or a Comment, any or all of which may be absent. Comment is nil
// when the line carried no comment; a non-nil empty string means a bare
// trailing '#' with nothing after it.
type FasmLine struct {
	SetFeature  *SetFeature
	Annotations []Annotation
	Comment     *string
}

// IsBlank reports whether every slot of the line is absent.
func (l FasmLine) IsBlank() bool {
	return l.SetFeature == nil && len(l.Annotations) == 0 && l.Comment == nil
}

// IsOnlyComment reports whether the line carries a comment and nothing
// else.
func (l FasmLine) IsOnlyComment() bool {
	return l.SetFeature == nil && len(l.Annotations) == 0 && l.Comment != nil
}

// IsOnlyAnnotation reports whether the line carries annotations and
// nothing else.
func (l FasmLine) IsOnlyAnnotation() bool {
	return l.SetFeature == nil && len(l.Annotations) > 0 && l.Comment == nil
}

func intPtr(v int) *int { return &v }

func bigOne() *big.Int { return big.NewInt(1) }
