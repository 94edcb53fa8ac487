package scanexec

import (
	"context"
	"sync"

	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/rle"
)

// chunkTargetBytes is the nominal chunk size parallel execution splits
// a region into.
const chunkTargetBytes = 1 << 20

// ExecuteParallel splits [cur, prev) into chunks on safe element
// boundaries and runs Execute over each chunk concurrently, then
// re-merges the per-chunk filter lists. Chunk boundaries are always a
// multiple of the element's alignment so no element is ever split
// across two chunks, the same "compute every cut point up front so
// workers never discover overlaps at runtime" discipline
// Scanner.Scan uses for CSV record boundaries. A workers value below 1
// is treated as 1, which runs Execute once over the whole buffer.
func ExecuteParallel(ctx context.Context, plan planner.MappedScanParameters, cur, prev []byte, baseAddr uint64, workers int) ([]rle.Filter, error) {
	n := uint64(len(cur))
	if workers < 1 {
		workers = 1
	}
	unit := uint64(1)
	if plan.DataType != nil && plan.DataType.UnitSize > 0 {
		unit = plan.DataType.UnitSize
	}
	alignment := uint64(plan.Alignment)
	if alignment == 0 {
		alignment = unit
	}

	if n <= chunkTargetBytes || workers == 1 {
		return Execute(plan, cur, prev, baseAddr), ctx.Err()
	}

	boundaries := computeBoundaries(n, unit, alignment)
	results := make([][]rle.Filter, len(boundaries)-1)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]
		if start >= end {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, start, end uint64) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[idx] = Execute(plan, cur[start:end], prev[start:end], baseAddr+start)
		}(i, start, end)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return rle.MergeAdjacent(results...), nil
}

// computeBoundaries returns ascending cut points for n bytes, each a
// multiple of alignment, targeting chunkTargetBytes per chunk but
// never smaller than one element.
func computeBoundaries(n, unit, alignment uint64) []uint64 {
	step := chunkTargetBytes - (chunkTargetBytes % alignment)
	if step < alignment {
		step = alignment
	}
	bounds := []uint64{0}
	for off := step; off < n; off += step {
		bounds = append(bounds, off)
	}
	bounds = append(bounds, n)
	_ = unit
	return bounds
}
