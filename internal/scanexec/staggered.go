package scanexec

import (
	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/rle"
)

// scanOverlappingStaggered is the periodic-literal fast path: when the
// immediate value's byte image repeats every p bytes (p a power of
// two dividing the element size), a vector backend can fold the s/a
// independent phases of scanOverlapping down to p/a phases by reusing
// shifted comparison masks across periods. That mask-folding needs
// hand-written vector shuffles not expressible in portable Go, so this
// strategy currently produces results by falling back to the full
// phase-by-phase overlapping scan. The strategy stays separately
// selectable so ExecuteValidated can assert it agrees with the scalar
// baseline once a folded kernel lands.
func scanOverlappingStaggered(plan planner.MappedScanParameters, cur, prev []byte, baseAddr uint64) []rle.Filter {
	return scanOverlapping(plan, cur, prev, baseAddr)
}
