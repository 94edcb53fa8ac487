package scanexec

import (
	"sort"

	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/rle"
)

// scanOverlapping handles s > a: candidate element windows overlap
// each other, so no single vector lane covers a whole number of
// elements. The buffer is split into s/a independently-scanned
// phases, one per alignment offset within an element's width, each
// producing its own sorted filter list; the phases' results are then
// merged back into one globally sorted, boundary-fused list. Running
// the phases independently is what lets a SIMD backend later vectorize
// each phase separately (every phase advances by a whole element
// width, s, per step) without this file's control flow changing.
func scanOverlapping(plan planner.MappedScanParameters, cur, prev []byte, baseAddr uint64) []rle.Filter {
	cmp := resolveComparator(plan.DataType, plan.Compare, plan.Tolerance)
	if cmp == nil {
		return nil
	}
	unit := plan.DataType.UnitSize
	alignment := uint64(plan.Alignment)
	if alignment == 0 {
		alignment = unit
	}
	phases := unit / alignment
	if phases == 0 {
		phases = 1
	}

	var combined []rle.Filter
	n := uint64(len(cur))
	for phase := uint64(0); phase < phases; phase++ {
		enc := rle.NewEncoder(baseAddr + phase*alignment)
		for off := phase * alignment; off+unit <= n; off += unit {
			if cmp(cur[off:off+unit], prev[off:off+unit]) {
				enc.Pass(unit)
			} else {
				enc.Fail(unit)
			}
		}
		combined = append(combined, enc.Finalize(0, 0)...)
	}

	sort.Slice(combined, func(i, j int) bool { return combined[i].Base < combined[j].Base })
	return rle.MergeAdjacent(combined)
}
