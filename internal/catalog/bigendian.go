package catalog

// Big-endian types reuse the little-endian ordered-comparator builder
// over a byte-swapping load, rather than a one-file-per-width
// transliteration. Swapping before compare keeps ordering semantics
// identical to the little-endian case without separate
// polarity-inversion logic. Each load below returns the type's true
// width (uint16/int32/etc, never a widened uint64/int64) so delta
// arithmetic wraps the same way the little-endian types do.

func newBigEndianUnsigned[T uint8 | uint16 | uint32 | uint64](id string, size uint64, load func([]byte) T) *Type {
	t := &Type{ID: id, UnitSize: size, Endian: BigEndian, IsSigned: false}
	t.Immediate, t.Relative, t.Delta = buildOrderedInt(load)
	return t
}

func newBigEndianSigned[T int8 | int16 | int32 | int64](id string, size uint64, load func([]byte) T) *Type {
	t := &Type{ID: id, UnitSize: size, Endian: BigEndian, IsSigned: true}
	t.Immediate, t.Relative, t.Delta = buildOrderedInt(load)
	return t
}

func newBigEndianFloat[T float32 | float64](id string, size uint64, load func([]byte) T) *Type {
	t := &Type{ID: id, UnitSize: size, Endian: BigEndian, IsFloat: true, IsSigned: true}
	t.Immediate, t.Relative, t.Delta, t.ToleranceEq = buildOrderedFloat(load)
	return t
}

func init() {
	Register(newBigEndianUnsigned("u16be", 2, func(b []byte) uint16 { return swap16(loadU16(b)) }))
	Register(newBigEndianUnsigned("u32be", 4, func(b []byte) uint32 { return swap32(loadU32(b)) }))
	Register(newBigEndianUnsigned("u64be", 8, func(b []byte) uint64 { return swap64(loadU64(b)) }))

	Register(newBigEndianSigned("i16be", 2, func(b []byte) int16 { return int16(swap16(loadU16(b))) }))
	Register(newBigEndianSigned("i32be", 4, func(b []byte) int32 { return int32(swap32(loadU32(b))) }))
	Register(newBigEndianSigned("i64be", 8, func(b []byte) int64 { return int64(swap64(loadU64(b))) }))

	Register(newBigEndianFloat("f32be", 4, func(b []byte) float32 {
		bits := swap32(loadU32(b))
		return loadF32([]byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)})
	}))
	Register(newBigEndianFloat("f64be", 8, func(b []byte) float64 {
		bits := swap64(loadU64(b))
		buf := make([]byte, 8)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		return loadF64(buf)
	}))
}
