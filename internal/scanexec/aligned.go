package scanexec

import (
	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/rle"
)

// scanAligned handles s == a: every vector lane holds a whole number
// of elements with no straddling, so a lane can be tested by comparing
// each of its elements independently and only needs one encoder. The
// lane grouping itself carries no semantic weight here (there is no
// hand-written SIMD kernel behind it); it exists so the loop shape
// matches what a vector backend would later slot into.
func scanAligned(plan planner.MappedScanParameters, cur, prev []byte, baseAddr uint64) []rle.Filter {
	cmp := resolveComparator(plan.DataType, plan.Compare, plan.Tolerance)
	if cmp == nil {
		return nil
	}
	unit := plan.DataType.UnitSize
	lanesPerVector := uint64(plan.VectorWidth) / unit
	if lanesPerVector == 0 {
		lanesPerVector = 1
	}
	vectorBytes := lanesPerVector * unit

	enc := rle.NewEncoder(baseAddr)
	n := uint64(len(cur))
	off := uint64(0)
	for off+vectorBytes <= n {
		for lane := uint64(0); lane < lanesPerVector; lane++ {
			start := off + lane*unit
			if cmp(cur[start:start+unit], prev[start:start+unit]) {
				enc.Pass(unit)
			} else {
				enc.Fail(unit)
			}
		}
		off += vectorBytes
	}
	for ; off+unit <= n; off += unit {
		if cmp(cur[off:off+unit], prev[off:off+unit]) {
			enc.Pass(unit)
		} else {
			enc.Fail(unit)
		}
	}
	return enc.Finalize(0, 0)
}
