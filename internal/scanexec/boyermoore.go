package scanexec

import (
	"github.com/csvquery/memscan/internal/bm"
	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/rle"
)

// scanBoyerMoore handles byte-array pattern scans: every match start
// found by the preprocessed table becomes a pass run of exactly
// len(pattern) bytes, everything else is a gap. Equality only; the
// byte-array data type's catalog.Type exposes no ordering comparators.
func scanBoyerMoore(plan planner.MappedScanParameters, cur, prev []byte, baseAddr uint64) []rle.Filter {
	pattern := plan.Compare.Immediate
	negate := plan.Compare.Kind == planner.NotEqual
	if len(pattern) == 0 {
		return nil
	}
	table := bm.NewTable(pattern)

	if !negate {
		enc := rle.NewEncoder(baseAddr)
		cursor := uint64(0)
		table.Search(cur, func(pos int) bool {
			gap := uint64(pos) - cursor
			if gap > 0 {
				enc.Fail(gap)
			}
			enc.Pass(uint64(len(pattern)))
			cursor = uint64(pos) + uint64(len(pattern))
			return true
		})
		if cursor < uint64(len(cur)) {
			enc.Fail(uint64(len(cur)) - cursor)
		}
		return enc.Finalize(0, 0)
	}

	// NotEqual: every offset that is not an exact match start passes.
	matchStarts := make(map[int]bool)
	table.Search(cur, func(pos int) bool {
		matchStarts[pos] = true
		return true
	})
	enc := rle.NewEncoder(baseAddr)
	n := len(cur) - len(pattern) + 1
	if n < 0 {
		n = 0
	}
	for off := 0; off < n; off++ {
		if matchStarts[off] {
			enc.Fail(1)
		} else {
			enc.Pass(1)
		}
	}
	return enc.Finalize(0, 0)
}
