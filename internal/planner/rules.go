package planner

import "github.com/csvquery/memscan/internal/catalog"

// rule is one step in the ordered pipeline Plan runs. Each rule reads
// and may mutate params in place; Plan runs a literal slice of these
// rather than dispatching through an injected interface.
type rule func(params *MappedScanParameters)

// ruleMapToPrimitiveType remaps a byte-array-shaped comparison onto a
// native big-endian primitive when doing so is safe and beneficial.
// Only Immediate comparisons are eligible; Relative and Delta scans
// never remap (there is no literal whose size to key off of).
// Floating point types are never remapped, to avoid poisoning
// downstream optimizations that assume integer ordering (e.g.
// rewriting ">= 0" as "!= 0" is valid for unsigned ints, not for the
// bit patterns of floats). A type whose size already matches one of
// the default primitive sizes (1, 2, 4, 8) is left alone: it is
// already a primitive, not a generic byte array standing in for one.
func ruleMapToPrimitiveType(params *MappedScanParameters) {
	if !params.Compare.Kind.IsImmediate() {
		return
	}
	dt := params.DataType
	if dt == nil || dt.IsFloat {
		return
	}
	if catalog.DefaultPrimitiveSizes[dt.UnitSize] && dt.ID != "byte_array" {
		return
	}
	var replacement *catalog.Type
	switch dt.UnitSize {
	case 8:
		replacement = catalog.Lookup("u64be")
	case 4:
		replacement = catalog.Lookup("u32be")
	case 2:
		replacement = catalog.Lookup("u16be")
	case 1:
		replacement = catalog.Lookup("u8")
	}
	if replacement != nil {
		params.DataType = replacement
	}
}

// rulePeriodicity computes the periodicity of the literal value being
// scanned for (only meaningful for Immediate comparisons; other kinds
// get periodicity 0, which downstream rules treat as "not periodic").
func rulePeriodicity(params *MappedScanParameters) {
	if !params.Compare.Kind.IsImmediate() || len(params.Compare.Immediate) == 0 {
		params.Periodicity = 0
		return
	}
	params.Periodicity = Periodicity(params.Compare.Immediate)
}

// ruleVectorWidth picks the widest vector width the data type's unit
// size and the host CPU both support. 0 means stay scalar.
func ruleVectorWidth(params *MappedScanParameters) {
	if params.DataType == nil || params.DataType.UnitSize == 0 {
		params.VectorWidth = 0
		return
	}
	u := params.DataType.UnitSize
	if u >= 16 {
		// A single element already spans a full narrow vector lane;
		// scalar comparison is at least as efficient.
		params.VectorWidth = 0
		return
	}
	params.VectorWidth = bestVectorWidth()
}

// ruleStrategy chooses which executor runs the scan, following the
// size/alignment relationship laid out by the executor design: s==a
// is the aligned fast path, s>a needs s/a independently-offset
// encoders merged back together, and a periodic literal unlocks the
// cheaper staggered variant of the overlapping case.
func ruleStrategy(params *MappedScanParameters) {
	if params.DataType != nil && params.DataType.ID == "byte_array" {
		params.Strategy = StrategyBoyerMoore
		return
	}
	if params.VectorWidth == 0 {
		params.Strategy = StrategyScalar
		return
	}
	s := params.DataType.UnitSize
	a := uint64(params.Alignment)
	if a == 0 {
		a = s
	}
	switch {
	case s == a:
		params.Strategy = StrategyAligned
	case s > a && params.Periodicity > 0 && isPowerOfTwo(uint64(params.Periodicity)) && uint64(params.Periodicity) <= s:
		params.Strategy = StrategyOverlappingStaggered
	case s > a:
		params.Strategy = StrategyOverlapping
	default: // a > s: alignment coarser than the element, candidates are sparse
		params.Strategy = StrategySparse
	}
}

func isPowerOfTwo(v uint64) bool { return v != 0 && v&(v-1) == 0 }

// ruleSmallFilterFallback implements R3's "if u < 16, fall back to
// scalar iterative and stop": with e candidate elements at alignment
// a, u = e*a usable bytes. Below that there isn't enough data for any
// vector lane to pay for itself, so every other strategy decision is
// overridden. Runs last so it always wins. A byte-array scan keeps
// its Boyer-Moore strategy regardless (R5 overrides unconditionally),
// and ElementCount <= 0 means the caller doesn't know the filter's
// size yet, so the rule is skipped rather than guessed at.
func ruleSmallFilterFallback(params *MappedScanParameters) {
	if params.ElementCount <= 0 {
		return
	}
	if params.DataType != nil && params.DataType.ID == "byte_array" {
		return
	}
	a := uint64(params.Alignment)
	if a == 0 && params.DataType != nil {
		a = params.DataType.UnitSize
	}
	u := uint64(params.ElementCount) * a
	if u < 16 {
		params.VectorWidth = 0
		params.Strategy = StrategyScalar
	}
}

// defaultRules is the ordered pipeline Plan runs.
var defaultRules = []rule{
	ruleMapToPrimitiveType,
	rulePeriodicity,
	ruleVectorWidth,
	ruleStrategy,
	ruleSmallFilterFallback,
}
