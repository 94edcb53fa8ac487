package catalog

import "math"

// buildOrderedFloat mirrors buildOrderedInt for float32/float64.
// Immediate.Eq/Neq still do raw bit comparison (kept for callers with
// no tolerance context, e.g. tests); live scans route float = and ≠
// through the returned ToleranceComparator instead, per §3's rule that
// float equality must tolerate rounding error. Only +X and *X (and
// their inverses) are meaningful on a float; the bitwise/shift delta
// operators stay nil, same as buildOrderedInt's non-applicable cases.
func buildOrderedFloat[T float32 | float64](load func([]byte) T) (ImmediateComparators, RelativeComparators, DeltaComparators, ToleranceComparator) {
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
	}
	tol := func(cur, lit []byte, mode ToleranceMode, param float64) bool {
		return EqualWithTolerance(float64(load(cur)), float64(load(lit)), mode, param)
	}
	return imm, rel, del, tol
}

// EqualWithTolerance implements the three FloatingPointTolerance
// modes: exact bit equality, rounding to N decimal places, or an
// absolute epsilon band.
func EqualWithTolerance(a, b float64, mode ToleranceMode, param float64) bool {
	switch mode {
	case ToleranceExact:
		return a == b
	case ToleranceDecimalPlaces:
		scale := math.Pow(10, param)
		return math.Round(a*scale) == math.Round(b*scale)
	case ToleranceAbsolute:
		return math.Abs(a-b) <= param
	default:
		return a == b
	}
}

// ToleranceMode selects how floating point equality is judged.
type ToleranceMode int

const (
	ToleranceExact ToleranceMode = iota
	ToleranceDecimalPlaces
	ToleranceAbsolute
)

func newFloatType[T float32 | float64](id string, size uint64, load func([]byte) T) *Type {
	t := &Type{ID: id, UnitSize: size, Endian: LittleEndian, IsFloat: true, IsSigned: true}
	t.Immediate, t.Relative, t.Delta, t.ToleranceEq = buildOrderedFloat(load)
	return t
}

func init() {
	Register(newFloatType("f32", 4, loadF32))
	Register(newFloatType("f64", 8, loadF64))
}
