package planner

import (
	"testing"

	"github.com/csvquery/memscan/internal/catalog"
)

func TestPeriodicity(t *testing.T) {
	tests := []struct {
		name    string
		pattern []byte
		want    int
	}{
		{"single byte", []byte{0xAB}, 1},
		{"all same bytes", []byte{1, 1, 1, 1}, 1},
		{"period 2", []byte{1, 2, 1, 2}, 2},
		{"no repeat", []byte{1, 2, 3, 4}, 4},
		{"period 4 of 8", []byte{1, 2, 3, 4, 1, 2, 3, 4}, 4},
		{"non-power-of-two minimal period widens to next power of two", []byte{1, 2, 1, 3}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Periodicity(tt.pattern); got != tt.want {
				t.Errorf("Periodicity(%v) = %d, want %d", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestRuleMapToPrimitiveTypeSkipsRelative(t *testing.T) {
	ba := catalog.NewByteArrayType(4)
	params := MappedScanParameters{DataType: ba, Compare: ScanCompareType{Kind: Changed}}
	ruleMapToPrimitiveType(&params)
	if params.DataType != ba {
		t.Error("expected Relative comparisons to never remap")
	}
}

func TestRuleMapToPrimitiveTypeRemapsImmediate(t *testing.T) {
	ba := catalog.NewByteArrayType(4)
	params := MappedScanParameters{
		DataType: ba,
		Compare:  ScanCompareType{Kind: Equal, Immediate: []byte{1, 2, 3, 4}},
	}
	ruleMapToPrimitiveType(&params)
	if params.DataType == nil || params.DataType.ID != "u32be" {
		t.Errorf("expected remap to u32be, got %v", params.DataType)
	}
}

func TestRuleMapToPrimitiveTypeNeverRemapsFloats(t *testing.T) {
	f32 := catalog.Lookup("f32")
	params := MappedScanParameters{
		DataType: f32,
		Compare:  ScanCompareType{Kind: Equal, Immediate: []byte{0, 0, 128, 63}},
	}
	ruleMapToPrimitiveType(&params)
	if params.DataType != f32 {
		t.Error("expected float types to never remap")
	}
}

func TestPlanAlignedStrategy(t *testing.T) {
	u32 := catalog.Lookup("u32")
	p := Plan(u32, ScanCompareType{Kind: Equal, Immediate: []byte{1, 0, 0, 0}}, 4, 64, FloatTolerance{})
	if p.Strategy != StrategyAligned && p.Strategy != StrategyScalar {
		t.Errorf("expected aligned or scalar strategy for s==a, got %v", p.Strategy)
	}
}

func TestPlanByteArrayUsesBoyerMoore(t *testing.T) {
	ba := catalog.NewByteArrayType(3)
	p := Plan(ba, ScanCompareType{Kind: Equal, Immediate: []byte{1, 2, 3}}, 1, 64, FloatTolerance{})
	if p.Strategy != StrategyBoyerMoore {
		t.Errorf("expected boyer-moore strategy for byte array, got %v", p.Strategy)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	u64 := catalog.Lookup("u64")
	compare := ScanCompareType{Kind: Equal, Immediate: []byte{1, 2, 1, 2, 1, 2, 1, 2}}
	a := Plan(u64, compare, 1, 64, FloatTolerance{})
	b := Plan(u64, compare, 1, 64, FloatTolerance{})
	if a.Strategy != b.Strategy || a.VectorWidth != b.VectorWidth || a.Periodicity != b.Periodicity || a.DataType != b.DataType {
		t.Errorf("expected Plan to be deterministic, got %+v vs %+v", a, b)
	}
}

func TestPlanSmallFilterFallsBackToScalar(t *testing.T) {
	u32 := catalog.Lookup("u32")
	compare := ScanCompareType{Kind: Equal, Immediate: []byte{1, 0, 0, 0}}
	// alignment 1, element count 1 => u = 1 byte, well under the R3
	// threshold of 16: the planner must fall back to scalar and must
	// not pick any vectorized strategy.
	p := Plan(u32, compare, 1, 1, FloatTolerance{})
	if p.Strategy != StrategyScalar {
		t.Errorf("expected scalar strategy for a size < 16 filter, got %v", p.Strategy)
	}
	if p.VectorWidth != 0 {
		t.Errorf("expected vector width 0 for a size < 16 filter, got %d", p.VectorWidth)
	}
}

func TestPlanByteArrayIgnoresSmallFilterFallback(t *testing.T) {
	ba := catalog.NewByteArrayType(3)
	p := Plan(ba, ScanCompareType{Kind: Equal, Immediate: []byte{1, 2, 3}}, 1, 1, FloatTolerance{})
	if p.Strategy != StrategyBoyerMoore {
		t.Errorf("expected byte array scans to keep boyer-moore regardless of filter size, got %v", p.Strategy)
	}
}
