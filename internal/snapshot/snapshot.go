package snapshot

import (
	"context"
	"sort"

	"github.com/csvquery/memscan/internal/memsrc"
)

// Snapshot owns the full set of captured regions for one scan
// session. Regions are kept sorted by BaseAddress so callers can
// binary search or walk them in address order.
type Snapshot struct {
	regions []*Region
}

// New returns an empty snapshot.
func New() *Snapshot {
	return &Snapshot{}
}

// ReplaceRegions swaps in an entirely new region set, sorted by
// BaseAddress. Used after a fresh EnumeratePages pass (a "new scan").
func (s *Snapshot) ReplaceRegions(regions []*Region) {
	sorted := append([]*Region(nil), regions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BaseAddress < sorted[j].BaseAddress })
	s.regions = sorted
}

// Regions returns the current region list in ascending address order.
func (s *Snapshot) Regions() []*Region { return s.regions }

// ReadAllMemory refreshes every region's Current buffer from mem,
// never reading across a PageBoundaries split point, so a single
// failed sub-range never corrupts the rest of the region (PageReadFailed,
// recovered locally by leaving those bytes untouched).
func (s *Snapshot) ReadAllMemory(ctx context.Context, mem memsrc.ProcessMemory) error {
	for _, r := range s.regions {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Lock()
		bounds := append([]Address{0}, r.PageBoundaries...)
		bounds = append(bounds, r.RegionSize)
		for i := 0; i+1 < len(bounds); i++ {
			start, end := bounds[i], bounds[i+1]
			if start >= end {
				continue
			}
			mem.ReadBytes(ctx, r.BaseAddress+start, r.Current[start:end])
		}
		r.Unlock()
	}
	return nil
}

// RollValues copies Current into Previous for every region, the
// "this scan's result becomes next scan's baseline" step between
// successive rounds.
func (s *Snapshot) RollValues() {
	for _, r := range s.regions {
		r.Lock()
		copy(r.Previous, r.Current)
		r.Unlock()
	}
}

// GetFilterPtrs returns, for every region, the FilterCollection for
// typeID if one exists (i.e. the surviving address ranges from the
// previous scan round that the next round should narrow).
func (s *Snapshot) GetFilterPtrs(typeID string) []*FilterCollection {
	var out []*FilterCollection
	for _, r := range s.regions {
		r.RLock()
		if fc, ok := r.Filters[typeID]; ok {
			out = append(out, fc)
		}
		r.RUnlock()
	}
	return out
}

// DiscardEmptyRegions drops every region with no surviving filters
// for typeID, keeping the working set small as a scan narrows.
func (s *Snapshot) DiscardEmptyRegions(typeID string) {
	kept := s.regions[:0]
	for _, r := range s.regions {
		r.RLock()
		fc, ok := r.Filters[typeID]
		empty := !ok || len(fc.Filters) == 0
		r.RUnlock()
		if !empty {
			kept = append(kept, r)
		}
	}
	s.regions = kept
}

// ResultCount returns the total surviving element count for typeID
// across every region.
func (s *Snapshot) ResultCount(typeID string) int64 {
	var total int64
	for _, r := range s.regions {
		r.RLock()
		if fc, ok := r.Filters[typeID]; ok {
			total += fc.TotalElementCount
		}
		r.RUnlock()
	}
	return total
}

// ScanResultView is one addressable scan hit.
type ScanResultView struct {
	Address Address
	Region  *Region
}

// regionCumulativeCounts returns, for typeID, a running-sum prefix
// array parallel to s.regions (prefix[i] is the total element count
// across regions[:i]) plus the grand total. GetScanResult and
// GetScanResultsPage binary search this instead of walking every
// region's FilterCollection in turn.
func (s *Snapshot) regionCumulativeCounts(typeID string) ([]int64, int64) {
	prefix := make([]int64, len(s.regions)+1)
	for i, r := range s.regions {
		r.RLock()
		count := int64(0)
		if fc, ok := r.Filters[typeID]; ok {
			count = fc.TotalElementCount
		}
		r.RUnlock()
		prefix[i+1] = prefix[i] + count
	}
	return prefix, prefix[len(prefix)-1]
}

// GetScanResult finds the globalIndex-th surviving result for typeID
// across all regions, in ascending address order, via a binary search
// over each region's running element count rather than a linear walk.
func (s *Snapshot) GetScanResult(typeID string, globalIndex int64) (ScanResultView, bool) {
	prefix, total := s.regionCumulativeCounts(typeID)
	if globalIndex < 0 || globalIndex >= total {
		return ScanResultView{}, false
	}
	return resultAt(s.regions, prefix, typeID, globalIndex)
}

// resultAt looks up globalIndex given an already-computed prefix sum
// array, so a caller resolving many indices (GetScanResultsPage) can
// amortize the O(R) prefix build across the whole page instead of
// rebuilding it per result.
func resultAt(regions []*Region, prefix []int64, typeID string, globalIndex int64) (ScanResultView, bool) {
	ri := sort.Search(len(regions), func(i int) bool { return prefix[i+1] > globalIndex })
	if ri == len(regions) {
		return ScanResultView{}, false
	}
	r := regions[ri]
	localIndex := globalIndex - prefix[ri]
	r.RLock()
	fc, ok := r.Filters[typeID]
	r.RUnlock()
	if !ok {
		return ScanResultView{}, false
	}
	addr, found := nthElementAddress(fc, localIndex)
	if !found {
		return ScanResultView{}, false
	}
	return ScanResultView{Address: addr, Region: r}, true
}

// nthElementAddress finds the localIndex-th element's address within
// one FilterCollection by binary searching a prefix sum over each
// filter's element count, rather than walking the filter list.
func nthElementAddress(fc *FilterCollection, localIndex int64) (Address, bool) {
	stride := fc.AlignmentStride
	if stride == 0 {
		stride = 1
	}
	prefix := make([]int64, len(fc.Filters)+1)
	for i, f := range fc.Filters {
		prefix[i+1] = prefix[i] + int64(f.Length/stride)
	}
	total := prefix[len(prefix)-1]
	if localIndex < 0 || localIndex >= total {
		return 0, false
	}
	fi := sort.Search(len(fc.Filters), func(i int) bool { return prefix[i+1] > localIndex })
	f := fc.Filters[fi]
	offsetElements := localIndex - prefix[fi]
	return f.Base + Address(offsetElements)*stride, true
}

// GetScanResultsPage returns up to pageSize results starting at
// pageIndex*pageSize, the pagination surface named by the external
// command interface's ScanResultsList. The prefix sum array is built
// once for the whole page rather than once per result.
func (s *Snapshot) GetScanResultsPage(typeID string, pageIndex, pageSize int) []ScanResultView {
	start := int64(pageIndex) * int64(pageSize)
	prefix, total := s.regionCumulativeCounts(typeID)
	out := make([]ScanResultView, 0, pageSize)
	for i := 0; i < pageSize; i++ {
		idx := start + int64(i)
		if idx < 0 || idx >= total {
			break
		}
		view, ok := resultAt(s.regions, prefix, typeID, idx)
		if !ok {
			break
		}
		out = append(out, view)
	}
	return out
}

// ByteCount returns the total number of captured bytes across every region.
func (s *Snapshot) ByteCount() int64 {
	var total int64
	for _, r := range s.regions {
		total += int64(r.RegionSize)
	}
	return total
}
