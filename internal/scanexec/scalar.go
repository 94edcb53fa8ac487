package scanexec

import (
	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/rle"
)

// scanScalar walks cur/prev one aligned element at a time. This is
// the fallback for any strategy, any unit size, and the tail of every
// vectorized executor once fewer than a full lane remains. When the
// unit size exceeds the alignment, every emitted run is extended by
// unit-alignment bytes so it still holds the whole value of its last
// passing element.
func scanScalar(plan planner.MappedScanParameters, cur, prev []byte, baseAddr uint64) []rle.Filter {
	cmp := resolveComparator(plan.DataType, plan.Compare, plan.Tolerance)
	if cmp == nil {
		return nil
	}
	unit := plan.DataType.UnitSize
	alignment := uint64(plan.Alignment)
	if alignment == 0 {
		alignment = unit
	}
	enc := rle.NewEncoder(baseAddr)
	n := uint64(len(cur))
	for off := uint64(0); off+unit <= n; off += alignment {
		if cmp(cur[off:off+unit], prev[off:off+unit]) {
			enc.Pass(alignment)
		} else {
			enc.Fail(alignment)
		}
	}
	out := enc.Finalize(0, 0)
	if unit > alignment {
		for i := range out {
			out[i].Length += unit - alignment
		}
	}
	return out
}
