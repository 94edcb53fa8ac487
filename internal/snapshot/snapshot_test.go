package snapshot

import (
	"context"
	"testing"

	"github.com/csvquery/memscan/internal/memsrc"
)

func TestReadAllMemoryRespectsPageBoundaries(t *testing.T) {
	proc := memsrc.NewFakeProcess()
	proc.AddPage(0x1000, []byte{1, 2, 3, 4, 5, 6, 7, 8}, true, false)

	r := NewRegion(0x1000, 8)
	r.PageBoundaries = []Address{4}

	snap := New()
	snap.ReplaceRegions([]*Region{r})

	if err := snap.ReadAllMemory(context.Background(), proc); err != nil {
		t.Fatalf("ReadAllMemory: %v", err)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	for i, b := range want {
		if r.Current[i] != b {
			t.Errorf("Current[%d] = %d, want %d", i, r.Current[i], b)
		}
	}
}

func TestRollValuesCopiesCurrentToPrevious(t *testing.T) {
	r := NewRegion(0, 4)
	copy(r.Current, []byte{9, 9, 9, 9})
	snap := New()
	snap.ReplaceRegions([]*Region{r})
	snap.RollValues()
	for i, b := range r.Previous {
		if b != 9 {
			t.Errorf("Previous[%d] = %d, want 9", i, b)
		}
	}
}

func TestGetScanResultBinarySearch(t *testing.T) {
	r1 := NewRegion(0x1000, 16)
	r1.Filters["u32"] = &FilterCollection{
		TypeID:            "u32",
		Filters:           []Filter{{Base: 0x1000, Length: 8}},
		AlignmentStride:   4,
		TotalElementCount: 2,
	}
	r2 := NewRegion(0x2000, 16)
	r2.Filters["u32"] = &FilterCollection{
		TypeID:            "u32",
		Filters:           []Filter{{Base: 0x2000, Length: 4}},
		AlignmentStride:   4,
		TotalElementCount: 1,
	}

	snap := New()
	snap.ReplaceRegions([]*Region{r1, r2})

	view, ok := snap.GetScanResult("u32", 0)
	if !ok || view.Address != 0x1000 {
		t.Errorf("index 0: got %#x, ok=%v", view.Address, ok)
	}
	view, ok = snap.GetScanResult("u32", 1)
	if !ok || view.Address != 0x1004 {
		t.Errorf("index 1: got %#x, ok=%v", view.Address, ok)
	}
	view, ok = snap.GetScanResult("u32", 2)
	if !ok || view.Address != 0x2000 {
		t.Errorf("index 2: got %#x, ok=%v", view.Address, ok)
	}
	if _, ok := snap.GetScanResult("u32", 3); ok {
		t.Error("expected out-of-range index to fail")
	}
	if snap.ResultCount("u32") != 3 {
		t.Errorf("ResultCount = %d, want 3", snap.ResultCount("u32"))
	}
}

func TestDiscardEmptyRegions(t *testing.T) {
	empty := NewRegion(0, 16)
	full := NewRegion(0x100, 16)
	full.Filters["u32"] = &FilterCollection{TypeID: "u32", Filters: []Filter{{Base: 0x100, Length: 4}}, TotalElementCount: 1}

	snap := New()
	snap.ReplaceRegions([]*Region{empty, full})
	snap.DiscardEmptyRegions("u32")

	if len(snap.Regions()) != 1 || snap.Regions()[0] != full {
		t.Errorf("expected only the non-empty region to survive, got %v", snap.Regions())
	}
}
