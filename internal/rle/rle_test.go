package rle

import (
	"reflect"
	"testing"
)

func TestEncoderBasicRun(t *testing.T) {
	e := NewEncoder(100)
	e.Pass(4)
	e.Pass(4)
	e.Fail(4)
	e.Pass(4)
	got := e.Finalize(0, 0)
	want := []Filter{{Base: 100, Length: 8}, {Base: 112, Length: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEncoderNoOpenRunAtEnd(t *testing.T) {
	e := NewEncoder(0)
	e.Pass(4)
	e.Fail(4)
	got := e.Finalize(0, 0)
	want := []Filter{{Base: 0, Length: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFinalizeMinLenDropsShortRuns(t *testing.T) {
	e := NewEncoder(0)
	e.Pass(4)
	e.Fail(4)
	e.Pass(4)
	e.Pass(4)
	got := e.Finalize(0, 8)
	want := []Filter{{Base: 8, Length: 8}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMergeAdjacentFusesBoundary(t *testing.T) {
	a := []Filter{{Base: 0, Length: 8}}
	b := []Filter{{Base: 8, Length: 4}}
	c := []Filter{{Base: 16, Length: 4}}
	got := MergeAdjacent(a, b, c)
	want := []Filter{{Base: 0, Length: 12}, {Base: 16, Length: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMergeAdjacentKeepsGaps(t *testing.T) {
	a := []Filter{{Base: 0, Length: 4}}
	b := []Filter{{Base: 100, Length: 4}}
	got := MergeAdjacent(a, b)
	want := []Filter{{Base: 0, Length: 4}, {Base: 100, Length: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func FuzzEncoderNeverProducesOverlap(f *testing.F) {
	f.Add(uint8(0b10110100))
	f.Fuzz(func(t *testing.T, pattern uint8) {
		e := NewEncoder(0)
		for i := 0; i < 8; i++ {
			if pattern&(1<<i) != 0 {
				e.Pass(1)
			} else {
				e.Fail(1)
			}
		}
		filters := e.Finalize(0, 0)
		for i := 1; i < len(filters); i++ {
			if filters[i].Base < filters[i-1].End() {
				t.Fatalf("overlapping filters: %v", filters)
			}
		}
	})
}
