// Package scanexec runs a planned scan against a pair of current/
// previous byte buffers and produces the surviving address ranges.
// Each file is one strategy: one file, one responsibility.
package scanexec

import (
	"github.com/csvquery/memscan/internal/catalog"
	"github.com/csvquery/memscan/internal/planner"
)

// elementComparator tests one element's current and previous bytes,
// already unified across Immediate/Relative/Delta into a single
// two-argument shape so every executor can stay comparator-agnostic.
type elementComparator func(cur, prev []byte) bool

// deltaComparator adapts a catalog.ScalarDelta (which also needs the
// literal delta bytes) down to elementComparator's two-argument shape.
// fn is nil for delta operators a type doesn't support (bitwise/shift
// deltas on a float type, for instance); resolveComparator then
// reports no match function at all rather than calling a nil fn.
func deltaComparator(fn catalog.ScalarDelta, lit []byte) elementComparator {
	if fn == nil {
		return nil
	}
	return func(cur, prev []byte) bool { return fn(cur, prev, lit) }
}

// resolveComparator closes over whatever literal bytes an Immediate
// or Delta comparison needs so the hot loop only ever calls a plain
// two-argument function. Float Equal/NotEqual route through the
// type's ToleranceEq instead of raw bit comparison, so a float scan
// tolerates rounding error the way config.ScanSettings' FloatTolerance
// demands. It returns nil when the type has no comparator for the
// requested operator, and every executor turns nil into an empty result.
func resolveComparator(dt *catalog.Type, compare planner.ScanCompareType, tolerance planner.FloatTolerance) elementComparator {
	lit := compare.Immediate
	immediate := func(fn catalog.ScalarImmediate) elementComparator {
		if fn == nil {
			return nil
		}
		return func(cur, _ []byte) bool { return fn(cur, lit) }
	}
	switch compare.Kind {
	case planner.Equal:
		if dt.IsFloat && dt.ToleranceEq != nil {
			return func(cur, _ []byte) bool { return dt.ToleranceEq(cur, lit, tolerance.Mode, tolerance.Param) }
		}
		return func(cur, _ []byte) bool { return dt.Immediate.Eq(cur, lit) }
	case planner.NotEqual:
		if dt.IsFloat && dt.ToleranceEq != nil {
			return func(cur, _ []byte) bool { return !dt.ToleranceEq(cur, lit, tolerance.Mode, tolerance.Param) }
		}
		return func(cur, _ []byte) bool { return dt.Immediate.Neq(cur, lit) }
	case planner.GreaterThan:
		return immediate(dt.Immediate.Gt)
	case planner.LessThan:
		return immediate(dt.Immediate.Lt)
	case planner.GreaterThanOrEqual:
		return immediate(dt.Immediate.Gte)
	case planner.LessThanOrEqual:
		return immediate(dt.Immediate.Lte)
	case planner.Changed:
		return func(cur, prev []byte) bool { return dt.Relative.Changed(cur, prev) }
	case planner.Unchanged:
		return func(cur, prev []byte) bool { return dt.Relative.Unchanged(cur, prev) }
	case planner.Increased:
		return elementComparator(dt.Relative.Increased)
	case planner.Decreased:
		return elementComparator(dt.Relative.Decreased)
	case planner.IncreasedByDelta:
		return deltaComparator(dt.Delta.IncreasedBy, lit)
	case planner.DecreasedByDelta:
		return deltaComparator(dt.Delta.DecreasedBy, lit)
	case planner.MultipliedByDelta:
		return deltaComparator(dt.Delta.MultipliedBy, lit)
	case planner.DividedByDelta:
		return deltaComparator(dt.Delta.DividedBy, lit)
	case planner.ModuloByDelta:
		return deltaComparator(dt.Delta.ModuloBy, lit)
	case planner.ShiftedLeftByDelta:
		return deltaComparator(dt.Delta.ShiftedLeftBy, lit)
	case planner.ShiftedRightByDelta:
		return deltaComparator(dt.Delta.ShiftedRightBy, lit)
	case planner.AndedWithDelta:
		return deltaComparator(dt.Delta.AndedWith, lit)
	case planner.OredWithDelta:
		return deltaComparator(dt.Delta.OredWith, lit)
	case planner.XoredWithDelta:
		return deltaComparator(dt.Delta.XoredWith, lit)
	default:
		return nil
	}
}
