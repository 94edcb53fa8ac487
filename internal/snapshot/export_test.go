package snapshot

import (
	"bytes"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	r1 := NewRegion(0x1000, 8)
	copy(r1.Current, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	r1.Filters["u32"] = &FilterCollection{
		TypeID:            "u32",
		Filters:           []Filter{{Base: 0x1000, Length: 4}},
		AlignmentStride:   4,
		TotalElementCount: 1,
	}

	r2 := NewRegion(0x2000, 4)
	copy(r2.Current, []byte{9, 9, 9, 9})

	snap := New()
	snap.ReplaceRegions([]*Region{r1, r2})

	var buf bytes.Buffer
	if err := Export(&buf, snap); err != nil {
		t.Fatalf("Export: %v", err)
	}

	imported, err := Import(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	regions := imported.Regions()
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
	if regions[0].BaseAddress != 0x1000 || !bytes.Equal(regions[0].Current, r1.Current) {
		t.Errorf("region 0 mismatch: %+v", regions[0])
	}
	if regions[1].BaseAddress != 0x2000 || !bytes.Equal(regions[1].Current, r2.Current) {
		t.Errorf("region 1 mismatch: %+v", regions[1])
	}
	fc, ok := regions[0].Filters["u32"]
	if !ok || len(fc.Filters) != 1 || fc.Filters[0].Base != 0x1000 {
		t.Errorf("region 0 filters mismatch: %+v", fc)
	}
}
