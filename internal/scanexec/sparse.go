package scanexec

import (
	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/rle"
)

// scanSparse handles a > s: candidate addresses are spaced wider than
// a single element, so there is nothing for a vector lane to pack
// together. This is exactly the scalar stride-by-alignment loop; the
// strategy is kept distinct from StrategyScalar only so the planner's
// choice is observable and testable, matching the closed case table
// the planner's executor design enumerates (s==a, s>a periodic,
// s>a non-periodic, a>s).
func scanSparse(plan planner.MappedScanParameters, cur, prev []byte, baseAddr uint64) []rle.Filter {
	return scanScalar(plan, cur, prev, baseAddr)
}
