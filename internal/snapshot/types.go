// Package snapshot holds the in-memory model of a scanned process:
// regions of captured bytes and the address ranges that have survived
// scanning so far. It owns no process handle and performs no OS I/O;
// callers supply bytes through the memsrc.ProcessMemory collaborator.
package snapshot

import (
	"sync"

	"github.com/csvquery/memscan/internal/rle"
)

// Address and Size give raw uint64 offsets a name at call sites.
type Address = uint64
type Size = uint64

// Filter is a surviving address range; an alias of rle.Filter so scan
// executor output can be stored on a region without element-wise
// conversion at every call site.
type Filter = rle.Filter

// FilterCollection holds the surviving filters for one data type
// against one region, plus the running element count used by
// GetScanResult's binary search over global result indices.
type FilterCollection struct {
	TypeID             string
	Filters            []Filter
	AlignmentStride    uint64
	TotalElementCount  int64
}

// Region is one captured range of process memory.
type Region struct {
	mu sync.RWMutex

	BaseAddress    Address
	RegionSize     Size
	Current        []byte
	Previous       []byte
	PageBoundaries []Address // sorted, strictly interior offsets from BaseAddress

	// Filters is keyed by data type id (e.g. "u32", "f64be").
	Filters map[string]*FilterCollection
}

// NewRegion allocates a region covering [base, base+size) with empty
// current/previous buffers of the right length.
func NewRegion(base Address, size Size) *Region {
	return &Region{
		BaseAddress: base,
		RegionSize:  size,
		Current:     make([]byte, size),
		Previous:    make([]byte, size),
		Filters:     make(map[string]*FilterCollection),
	}
}

// Lock/Unlock/RLock/RUnlock expose the region's mutex to callers that
// need to hold it across a multi-step read-modify-write (the scan
// orchestrator) without this package reaching back into their control
// flow.
func (r *Region) Lock()    { r.mu.Lock() }
func (r *Region) Unlock()  { r.mu.Unlock() }
func (r *Region) RLock()   { r.mu.RLock() }
func (r *Region) RUnlock() { r.mu.RUnlock() }

// EndAddress is the first address past this region.
func (r *Region) EndAddress() Address { return r.BaseAddress + r.RegionSize }
