package fasm

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// RenderFeature renders a SetFeature's `feature[address][= value]`
// portion, e.g. "A[3:0] = 4'hA" or a bare "A.B.C".
func RenderFeature(f *SetFeature) string {
	var b strings.Builder
	b.WriteString(f.Feature)

	switch {
	case f.Start != nil && f.End != nil:
		fmt.Fprintf(&b, "[%d:%d]", *f.End, *f.Start)
	case f.Start != nil:
		fmt.Fprintf(&b, "[%d]", *f.Start)
	}

	if f.ValueFormat != FormatNone {
		fmt.Fprintf(&b, " = %s", formatValue(f.Value, f.AddressWidth(), f.ValueFormat))
	}

	return b.String()
}

func formatValue(value *big.Int, width int, format ValueFormat) string {
	switch format {
	case FormatPlain:
		return value.String()
	case FormatVerilogHex:
		return fmt.Sprintf("%d'h%s", width, strings.ToUpper(value.Text(16)))
	case FormatVerilogDecimal:
		return fmt.Sprintf("%d'd%s", width, value.String())
	case FormatVerilogBinary:
		return fmt.Sprintf("%d'b%s", width, value.Text(2))
	case FormatVerilogOctal:
		return fmt.Sprintf("%d'o%s", width, value.Text(8))
	default:
		return value.String()
	}
}

func renderAnnotations(annotations []Annotation) string {
	parts := make([]string, len(annotations))
	for i, a := range annotations {
		parts[i] = fmt.Sprintf("%s = %q", a.Name, a.Value)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// RenderLine renders one FasmLine in general (non-canonical) form:
// feature, annotations, and comment joined by a single space, in that
// order. Any combination of the three slots being absent is handled;
// an entirely blank line renders as the empty string.
func RenderLine(line FasmLine) string {
	var parts []string

	if line.SetFeature != nil {
		parts = append(parts, RenderFeature(line.SetFeature))
	}
	if len(line.Annotations) > 0 {
		parts = append(parts, renderAnnotations(line.Annotations))
	}
	if line.Comment != nil {
		parts = append(parts, "#"+*line.Comment)
	}

	return strings.Join(parts, " ")
}

// RenderCanonicalLine expands a FasmLine into its canonical atoms (see
// CanonicalFeatures). Comments and annotations are dropped; a line with
// no SetFeature, or whose value is 0, renders no atoms at all.
func RenderCanonicalLine(line FasmLine) []string {
	if line.SetFeature == nil {
		return nil
	}

	atoms := CanonicalFeatures(*line.SetFeature)
	out := make([]string, len(atoms))
	for i, a := range atoms {
		out[i] = RenderFeature(&a)
	}
	return out
}

// ToString renders a full model back to FASM text. In canonical mode the
// output is deduplicated and sorted lexicographically per spec §4.E;
// in general mode lines are emitted in order, one per input FasmLine.
// The result always ends with a trailing newline.
func ToString(lines []FasmLine, canonical bool) string {
	var rendered []string

	if canonical {
		for _, line := range lines {
			rendered = append(rendered, RenderCanonicalLine(line)...)
		}
		sort.Strings(rendered)
		rendered = dedupeSorted(rendered)
	} else {
		for _, line := range lines {
			rendered = append(rendered, RenderLine(line))
		}
	}

	return strings.Join(rendered, "\n") + "\n"
}

func dedupeSorted(sorted []string) []string {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
