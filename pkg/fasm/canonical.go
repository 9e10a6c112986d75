package fasm

// CanonicalFeatures expands a SetFeature into zero or more canonical
// atoms per spec §4.E: each atom has value 1, format FormatNone, no end
// address, and a start that is either absent (bit 0) or strictly
// positive.
//
//  1. A zero value emits nothing.
//  2. A scalar feature (no address) emits one scalar atom; any non-zero
//     value is treated as 1.
//  3. A single-bit feature (start, no end) emits itself, collapsing
//     start == 0 to the scalar form.
//  4. A ranged feature emits one atom per set bit in [start, end],
//     again collapsing bit 0 to the scalar form.
func CanonicalFeatures(f SetFeature) []SetFeature {
	if f.Value.Sign() == 0 {
		return nil
	}

	scalar := func() SetFeature {
		return SetFeature{Feature: f.Feature, Value: bigOne(), ValueFormat: FormatNone}
	}

	indexed := func(bit int) SetFeature {
		return SetFeature{Feature: f.Feature, Start: intPtr(bit), Value: bigOne(), ValueFormat: FormatNone}
	}

	if f.Start == nil {
		return []SetFeature{scalar()}
	}

	if f.End == nil {
		if *f.Start == 0 {
			return []SetFeature{scalar()}
		}
		return []SetFeature{indexed(*f.Start)}
	}

	var out []SetFeature
	for bit := *f.Start; bit <= *f.End; bit++ {
		if f.Value.Bit(bit-*f.Start) == 1 {
			if bit == 0 {
				out = append(out, scalar())
			} else {
				out = append(out, indexed(bit))
			}
		}
	}
	return out
}
