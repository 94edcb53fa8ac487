package catalog

// buildOrderedInt constructs the immediate+relative+delta comparator
// sets for any ordered integer type T, parameterized over how to load
// a T out of a byte slice. One generic builder covers every width
// instead of one hand-written file per width.
//
// T must stay the type's true width all the way through: the delta
// arithmetic below wraps at whatever width Go's +,-,*,... already
// wrap at for T, so a caller that widens load to uint64/int64 before
// calling this function silently breaks the wrapping-arithmetic every
// width below 64 bits needs. Every call site below passes a loadU*/
// loadI* function directly for exactly this reason.
func buildOrderedInt[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](load func([]byte) T) (ImmediateComparators, RelativeComparators, DeltaComparators) {
	imm := ImmediateComparators{
		Eq:  func(cur, lit []byte) bool { return load(cur) == load(lit) },
		Neq: func(cur, lit []byte) bool { return load(cur) != load(lit) },
		Gt:  func(cur, lit []byte) bool { return load(cur) > load(lit) },
		Lt:  func(cur, lit []byte) bool { return load(cur) < load(lit) },
		Gte: func(cur, lit []byte) bool { return load(cur) >= load(lit) },
		Lte: func(cur, lit []byte) bool { return load(cur) <= load(lit) },
	}
	rel := RelativeComparators{
		Changed:   func(cur, prev []byte) bool { return load(cur) != load(prev) },
		Unchanged: func(cur, prev []byte) bool { return load(cur) == load(prev) },
		Increased: func(cur, prev []byte) bool { return load(cur) > load(prev) },
		Decreased: func(cur, prev []byte) bool { return load(cur) < load(prev) },
	}
	del := DeltaComparators{
		IncreasedBy:  func(cur, prev, delta []byte) bool { return load(cur) == load(prev)+load(delta) },
		DecreasedBy:  func(cur, prev, delta []byte) bool { return load(cur) == load(prev)-load(delta) },
		MultipliedBy: func(cur, prev, delta []byte) bool { return load(cur) == load(prev)*load(delta) },
		DividedBy: func(cur, prev, delta []byte) bool {
			d := load(delta)
			if d == 0 {
				return false
			}
			return load(cur) == load(prev)/d
		},
		ModuloBy: func(cur, prev, delta []byte) bool {
			d := load(delta)
			if d == 0 {
				return false
			}
			return load(cur) == load(prev)%d
		},
		ShiftedLeftBy: func(cur, prev, delta []byte) bool {
			shift := load(delta)
			if shift < 0 {
				return false
			}
			return load(cur) == load(prev)<<shift
		},
		ShiftedRightBy: func(cur, prev, delta []byte) bool {
			shift := load(delta)
			if shift < 0 {
				return false
			}
			return load(cur) == load(prev)>>shift
		},
		AndedWith: func(cur, prev, delta []byte) bool { return load(cur) == load(prev)&load(delta) },
		OredWith:  func(cur, prev, delta []byte) bool { return load(cur) == load(prev)|load(delta) },
		XoredWith: func(cur, prev, delta []byte) bool { return load(cur) == load(prev)^load(delta) },
	}
	return imm, rel, del
}

// newIntegerType is itself generic over T, inferred from load, so a
// single call site builds one width's Type without ever funneling the
// load through a wider common return type first.
func newIntegerType[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](id string, size uint64, signed bool, load func([]byte) T) *Type {
	t := &Type{ID: id, UnitSize: size, Endian: LittleEndian, IsSigned: signed}
	t.Immediate, t.Relative, t.Delta = buildOrderedInt(load)
	return t
}

func init() {
	Register(newIntegerType("u8", 1, false, loadU8))
	Register(newIntegerType("u16", 2, false, loadU16))
	Register(newIntegerType("u32", 4, false, loadU32))
	Register(newIntegerType("u64", 8, false, loadU64))

	Register(newIntegerType("i8", 1, true, loadI8))
	Register(newIntegerType("i16", 2, true, loadI16))
	Register(newIntegerType("i32", 4, true, loadI32))
	Register(newIntegerType("i64", 8, true, loadI64))
}
