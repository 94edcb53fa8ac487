package catalog

import "bytes"

// Bool32 is a 4-byte boolean where any non-zero value is "true",
// matching the convention many game engines use for packed flags.
func init() {
	b32 := &Type{ID: "bool32", UnitSize: 4, Endian: LittleEndian, IsSigned: false}
	truth := func(b []byte) bool { return loadU32(b) != 0 }
	b32.Immediate = ImmediateComparators{
		Eq:  func(cur, lit []byte) bool { return truth(cur) == truth(lit) },
		Neq: func(cur, lit []byte) bool { return truth(cur) != truth(lit) },
	}
	b32.Relative = RelativeComparators{
		Changed:   func(cur, prev []byte) bool { return truth(cur) != truth(prev) },
		Unchanged: func(cur, prev []byte) bool { return truth(cur) == truth(prev) },
	}
	Register(b32)
}

// NewByteArrayType builds a Type for a fixed-length opaque byte
// pattern scan (used by the Boyer-Moore executor); it supports only
// equality, matching the data model's ByteArray scans.
func NewByteArrayType(length int) *Type {
	id := "byte_array"
	return &Type{
		ID:       id,
		UnitSize: uint64(length),
		Endian:   LittleEndian,
		Immediate: ImmediateComparators{
			Eq:  func(cur, lit []byte) bool { return bytes.Equal(cur, lit) },
			Neq: func(cur, lit []byte) bool { return !bytes.Equal(cur, lit) },
		},
		Relative: RelativeComparators{
			Changed:   func(cur, prev []byte) bool { return !bytes.Equal(cur, prev) },
			Unchanged: func(cur, prev []byte) bool { return bytes.Equal(cur, prev) },
		},
	}
}
