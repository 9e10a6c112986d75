package fasm

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// mergeState is the grouping state machine's current mode, per spec
// §4.F's transition table.
type mergeState int

const (
	stateNoGroup mergeState = iota
	stateInCommentGroup
	stateInAnnotationGroup
)

// mergeModel groups FasmLines per spec §4.F's grouping pass, then merges
// address-eligible feature groups and yields the sorted result.
type mergeModel struct {
	state   mergeState
	groups  [][]FasmLine
	current []FasmLine
}

func (m *mergeModel) closeCurrent() {
	if m.current != nil {
		m.groups = append(m.groups, m.current)
		m.current = nil
	}
}

func (m *mergeModel) startCommentGroup(line FasmLine) {
	m.closeCurrent()
	m.state = stateInCommentGroup
	m.current = []FasmLine{line}
}

func (m *mergeModel) startAnnotationGroup(line FasmLine) {
	m.closeCurrent()
	m.state = stateInAnnotationGroup
	m.current = []FasmLine{line}
}

// add feeds one line into the grouper. Order of calls matters: this is
// a stateful left-to-right scan over the input, exactly as in the
// reference grouping pass.
func (m *mergeModel) add(line FasmLine) {
	switch m.state {
	case stateNoGroup:
		switch {
		case line.IsOnlyComment():
			m.startCommentGroup(line)
		case line.IsOnlyAnnotation():
			m.startAnnotationGroup(line)
		case line.IsBlank():
			// discard
		default:
			m.groups = append(m.groups, []FasmLine{line})
		}

	case stateInCommentGroup:
		switch {
		case line.IsOnlyComment():
			m.current = append(m.current, line)
		case line.IsOnlyAnnotation():
			m.current = append(m.current, line)
			m.state = stateInAnnotationGroup
		case line.IsBlank():
			m.closeCurrent()
			m.state = stateNoGroup
		default:
			m.current = append(m.current, line)
			m.closeCurrent()
			m.state = stateNoGroup
		}

	case stateInAnnotationGroup:
		switch {
		case line.IsOnlyComment():
			m.closeCurrent()
			m.startCommentGroup(line)
		case line.IsOnlyAnnotation():
			m.current = append(m.current, line)
		default:
			// Both FEATURE and BLANK close the annotation group and
			// re-dispatch the line against NoGroup: a feature line
			// starts its own group, a blank line is simply discarded.
			m.closeCurrent()
			m.state = stateNoGroup
			m.add(line)
		}
	}
}

// mergeAddresses implements the address-merge pass: a group is eligible
// when it holds exactly one bare set_feature line. Eligible features
// sharing a name are combined with mergeFeatures unless that name also
// appears in some non-eligible group, in which case they are emitted
// unchanged (one group per feature).
func (m *mergeModel) mergeAddresses() {
	eligible := map[string][]*SetFeature{}
	nonEligibleFeatures := map[string]bool{}
	var nonEligibleGroups [][]FasmLine

	for _, group := range m.groups {
		feature := eligibleFeature(group)
		if feature == nil {
			nonEligibleGroups = append(nonEligibleGroups, group)
			for _, line := range group {
				if line.SetFeature != nil {
					nonEligibleFeatures[line.SetFeature.Feature] = true
				}
			}
			continue
		}
		eligible[feature.Feature] = append(eligible[feature.Feature], feature)
	}

	m.groups = nonEligibleGroups

	for name, features := range eligible {
		switch {
		case nonEligibleFeatures[name]:
			for _, f := range features {
				m.groups = append(m.groups, []FasmLine{{SetFeature: f}})
			}
		case len(features) > 1:
			merged := mergeFeatures(features)
			m.groups = append(m.groups, []FasmLine{{SetFeature: &merged}})
		default:
			m.groups = append(m.groups, []FasmLine{{SetFeature: features[0]}})
		}
	}
}

func eligibleFeature(group []FasmLine) *SetFeature {
	if len(group) != 1 {
		return nil
	}
	line := group[0]
	if len(line.Annotations) > 0 || line.Comment != nil {
		return nil
	}
	return line.SetFeature
}

// mergeFeatures combines features that share a name but address
// different bits into a single `[max:0]` ranged feature, per spec
// §4.F. A bit asserted both set and cleared across the inputs is a
// programmer error, not a parse-time failure, and panics.
func mergeFeatures(features []*SetFeature) SetFeature {
	setBits := map[int]bool{}
	clearedBits := map[int]bool{}

	for _, f := range features {
		start, end := 0, 0
		if f.Start != nil {
			start = *f.Start
			if f.End != nil {
				end = *f.End
			} else {
				end = start
			}
		}

		for bit := start; bit <= end; bit++ {
			if f.Value.Bit(bit-start) == 1 {
				if clearedBits[bit] {
					panic(fmt.Sprintf("fasm: bit %d of %q is both set and cleared during merge", bit, f.Feature))
				}
				setBits[bit] = true
			} else {
				if setBits[bit] {
					panic(fmt.Sprintf("fasm: bit %d of %q is both set and cleared during merge", bit, f.Feature))
				}
				clearedBits[bit] = true
			}
		}
	}

	maxBit := 0
	for bit := range setBits {
		if bit > maxBit {
			maxBit = bit
		}
	}
	for bit := range clearedBits {
		if bit > maxBit {
			maxBit = bit
		}
	}

	value := new(big.Int)
	for bit := range setBits {
		value.SetBit(value, bit, 1)
	}

	return SetFeature{
		Feature:     features[0].Feature,
		Start:       intPtr(0),
		End:         intPtr(maxBit),
		Value:       value,
		ValueFormat: FormatVerilogBinary,
	}
}

// MergeOptions customizes MergeAndSort's drop and ordering behavior.
type MergeOptions struct {
	// ZeroFunc, when non-nil, reports whether a feature name has no
	// bits set. A group id whose every feature is zero is dropped
	// entirely.
	ZeroFunc func(feature string) bool

	// Less orders two group ids (the first dotted atom of a feature
	// name). A nil Less sorts ascending by plain string comparison; a
	// custom Less can decode a structured suffix, e.g. parsing
	// "A_X2Y100" into (A, 2, 100) so numeric runs sort numerically.
	Less func(a, b string) bool
}

// MergeAndSort groups lines (comments attach to what follows, blank
// lines vanish, consecutive annotations group together), merges
// address-eligible same-named features into ranges, and emits the
// result ordered by group id, then by feature name within a group id.
// Feature groups precede non-feature (pure comment/annotation) groups;
// a blank FasmLine separates every pair of consecutive output groups.
func MergeAndSort(lines []FasmLine, opts MergeOptions) []FasmLine {
	m := &mergeModel{}
	for _, line := range lines {
		m.add(line)
	}
	m.closeCurrent()
	m.mergeAddresses()
	return m.outputSortedLines(opts)
}

func (m *mergeModel) outputSortedLines(opts MergeOptions) []FasmLine {
	featureGroups := map[string][][]FasmLine{}
	var nonFeatureGroups [][]FasmLine

	for _, group := range m.groups {
		groupID, ok := firstFeatureGroupID(group)
		if !ok {
			nonFeatureGroups = append(nonFeatureGroups, group)
			continue
		}
		featureGroups[groupID] = append(featureGroups[groupID], group)
	}

	less := opts.Less
	if less == nil {
		less = func(a, b string) bool { return a < b }
	}

	groupIDs := make([]string, 0, len(featureGroups))
	for id := range featureGroups {
		groupIDs = append(groupIDs, id)
	}
	sort.Slice(groupIDs, func(i, j int) bool { return less(groupIDs[i], groupIDs[j]) })

	var outputGroups [][]FasmLine
	for _, id := range groupIDs {
		groups := featureGroups[id]
		sort.Slice(groups, func(i, j int) bool {
			return featureGroupKey(groups[i]) < featureGroupKey(groups[j])
		})

		var flattened []FasmLine
		for _, g := range groups {
			flattened = append(flattened, g...)
		}

		if opts.ZeroFunc != nil && allFeaturesZero(flattened, opts.ZeroFunc) {
			continue
		}

		outputGroups = append(outputGroups, flattened)
	}

	outputGroups = append(outputGroups, nonFeatureGroups...)

	var out []FasmLine
	for i, group := range outputGroups {
		out = append(out, group...)
		if i != len(outputGroups)-1 {
			out = append(out, FasmLine{})
		}
	}
	return out
}

func firstFeatureGroupID(group []FasmLine) (string, bool) {
	for _, line := range group {
		if line.SetFeature != nil {
			return strings.SplitN(line.SetFeature.Feature, ".", 2)[0], true
		}
	}
	return "", false
}

func featureGroupKey(group []FasmLine) string {
	for _, line := range group {
		if line.SetFeature != nil {
			return line.SetFeature.Feature
		}
	}
	panic("fasm: feature group has no set_feature line")
}

func allFeaturesZero(lines []FasmLine, zeroFunc func(string) bool) bool {
	for _, line := range lines {
		if line.SetFeature != nil && !zeroFunc(line.SetFeature.Feature) {
			return false
		}
	}
	return true
}
