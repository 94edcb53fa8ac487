// Package planner decides, for one filter against one data type, how
// a scan should be executed: which comparison family applies, what
// vector width (if any) to use, and whether the byte pattern underlying
// the comparison is periodic enough to use the cheaper staggered
// strategy. It holds no state and performs no I/O; Plan is a pure
// function of its inputs.
package planner

import "github.com/csvquery/memscan/internal/catalog"

// CompareKind identifies which comparison family and operator a scan uses.
type CompareKind int

const (
	Equal CompareKind = iota
	NotEqual
	GreaterThan
	LessThan
	GreaterThanOrEqual
	LessThanOrEqual

	Changed
	Unchanged
	Increased
	Decreased

	// The ten Delta(op, value) operators: +X, -X, *X, /X, %X, <<X,
	// >>X, &X, |X, ^X.
	IncreasedByDelta
	DecreasedByDelta
	MultipliedByDelta
	DividedByDelta
	ModuloByDelta
	ShiftedLeftByDelta
	ShiftedRightByDelta
	AndedWithDelta
	OredWithDelta
	XoredWithDelta
)

func (k CompareKind) IsImmediate() bool {
	return k >= Equal && k <= LessThanOrEqual
}

func (k CompareKind) IsRelative() bool {
	return k >= Changed && k <= Decreased
}

func (k CompareKind) IsDelta() bool {
	return k >= IncreasedByDelta && k <= XoredWithDelta
}

// ScanCompareType is the tagged union of everything a scan can compare
// against: a fixed literal (Immediate), the previous scan round
// (Relative), or the previous round shifted by a literal delta
// (Delta). Structured as one Kind field plus the payload fields that
// kind needs.
type ScanCompareType struct {
	Kind      CompareKind
	Immediate []byte // literal bytes, for Immediate and Delta kinds
}

// Strategy is the chosen execution path for one scan.
type Strategy int

const (
	StrategyScalar Strategy = iota
	StrategyAligned
	StrategyOverlapping
	StrategyOverlappingStaggered
	StrategySparse
	StrategyBoyerMoore
)

func (s Strategy) String() string {
	switch s {
	case StrategyScalar:
		return "scalar"
	case StrategyAligned:
		return "aligned"
	case StrategyOverlapping:
		return "overlapping"
	case StrategyOverlappingStaggered:
		return "overlapping_staggered"
	case StrategySparse:
		return "sparse"
	case StrategyBoyerMoore:
		return "boyer_moore"
	default:
		return "unknown"
	}
}

// Alignment is the stride, in bytes, between successive candidate
// element addresses.
type Alignment uint64

// FloatTolerance carries config.ScanSettings' float comparison mode
// down into the comparator resolveComparator builds, so = and ≠ on a
// float type tolerate rounding error instead of comparing raw bits.
type FloatTolerance struct {
	Mode  catalog.ToleranceMode
	Param float64
}

// MappedScanParameters is the fully resolved output of Plan: exactly
// what the scan executors need to run, with no further decisions left
// for them to make.
type MappedScanParameters struct {
	DataType  *catalog.Type
	Compare   ScanCompareType
	Alignment Alignment
	Tolerance FloatTolerance

	// ElementCount is the number of candidate elements in the filter
	// (or whole region, on a first pass) this plan covers. Rule R3
	// uses ElementCount*Alignment to decide whether to fall back to
	// the scalar strategy; 0 means unknown/not supplied.
	ElementCount int64

	Periodicity int
	VectorWidth int // 0 means scalar
	Strategy    Strategy
}
