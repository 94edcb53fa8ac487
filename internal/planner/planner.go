package planner

import "github.com/csvquery/memscan/internal/catalog"

// Plan resolves everything the scan executors need to run one filter:
// which data type actually gets compared against (after the
// map-to-primitive-type rule), what vector width and strategy to use,
// and the literal's periodicity. elementCount is the candidate element
// count for this specific filter (or whole region on a first pass);
// it drives Rule R3's small-filter scalar fallback, so callers must
// plan per filter rather than reusing one plan across a whole scan
// round. Plan is deterministic: given the same inputs it always
// returns the same MappedScanParameters, since every rule reads only
// its argument and package-level immutable CPU feature flags.
func Plan(dtype *catalog.Type, compare ScanCompareType, alignment Alignment, elementCount int64, tolerance FloatTolerance) MappedScanParameters {
	params := MappedScanParameters{
		DataType:     dtype,
		Compare:      compare,
		Alignment:    alignment,
		ElementCount: elementCount,
		Tolerance:    tolerance,
	}
	for _, r := range defaultRules {
		r(&params)
	}
	return params
}
