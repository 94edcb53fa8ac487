package catalog

import "testing"

func TestRegisteredTypes(t *testing.T) {
	want := []string{
		"bool32", "f32", "f32be", "f64", "f64be",
		"i16", "i16be", "i32", "i32be", "i64", "i64be", "i8",
		"u16", "u16be", "u32", "u32be", "u64", "u64be", "u8",
	}
	got := IDs()
	if len(got) != len(want) {
		t.Fatalf("got %d types, want %d: %v", len(got), len(want), got)
	}
	for i, id := range want {
		if got[i] != id {
			t.Errorf("IDs()[%d] = %q, want %q", i, got[i], id)
		}
	}
}

func TestU32Immediate(t *testing.T) {
	u32 := Lookup("u32")
	if u32 == nil {
		t.Fatal("u32 not registered")
	}
	cur := []byte{42, 0, 0, 0}
	lit := []byte{42, 0, 0, 0}
	if !u32.Immediate.Eq(cur, lit) {
		t.Error("expected Eq to match equal little-endian u32 values")
	}
	gt := []byte{10, 0, 0, 0}
	if !u32.Immediate.Gt(cur, gt) {
		t.Error("expected 42 > 10")
	}
}

func TestBigEndianOrdering(t *testing.T) {
	u32be := Lookup("u32be")
	small := []byte{0x00, 0x00, 0x00, 0x01} // 1
	big := []byte{0x00, 0x00, 0x01, 0x00}   // 256
	if !u32be.Immediate.Lt(small, big) {
		t.Error("expected big-endian 1 < 256")
	}
	if !u32be.Immediate.Gt(big, small) {
		t.Error("expected big-endian 256 > 1")
	}
}

func TestFloatToleranceModes(t *testing.T) {
	if !EqualWithTolerance(1.0001, 1.0002, ToleranceDecimalPlaces, 2) {
		t.Error("expected 1.0001 ~= 1.0002 at 2 decimal places")
	}
	if EqualWithTolerance(1.01, 1.02, ToleranceDecimalPlaces, 2) {
		t.Error("expected 1.01 != 1.02 at 2 decimal places")
	}
	if !EqualWithTolerance(1.0, 1.05, ToleranceAbsolute, 0.1) {
		t.Error("expected 1.0 ~= 1.05 within absolute epsilon 0.1")
	}
	if EqualWithTolerance(1.0, 1.0, ToleranceExact, 0) == false {
		t.Error("expected exact equality to hold for identical values")
	}
}

func TestByteArrayType(t *testing.T) {
	bt := NewByteArrayType(4)
	a := []byte{1, 2, 3, 4}
	b := []byte{1, 2, 3, 4}
	c := []byte{1, 2, 3, 5}
	if !bt.Immediate.Eq(a, b) {
		t.Error("expected identical byte arrays to compare equal")
	}
	if bt.Immediate.Eq(a, c) {
		t.Error("expected differing byte arrays to compare unequal")
	}
}
