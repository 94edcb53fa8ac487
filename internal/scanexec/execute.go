package scanexec

import (
	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/rle"
)

// Execute runs the planned scan over one region's current/previous
// buffers and returns the surviving address ranges. Every strategy
// in planner.Strategy has exactly one branch here.
func Execute(plan planner.MappedScanParameters, cur, prev []byte, baseAddr uint64) []rle.Filter {
	switch plan.Strategy {
	case planner.StrategyAligned:
		return scanAligned(plan, cur, prev, baseAddr)
	case planner.StrategyOverlapping:
		return scanOverlapping(plan, cur, prev, baseAddr)
	case planner.StrategyOverlappingStaggered:
		return scanOverlappingStaggered(plan, cur, prev, baseAddr)
	case planner.StrategySparse:
		return scanSparse(plan, cur, prev, baseAddr)
	case planner.StrategyBoyerMoore:
		return scanBoyerMoore(plan, cur, prev, baseAddr)
	default:
		return scanScalar(plan, cur, prev, baseAddr)
	}
}
