// Package catalog is the registry of scannable primitive data types.
//
// Each registered Type carries its unit size, endianness, and the
// scalar comparator functions needed by the three ScanCompareType
// families (immediate, relative, delta). Types self-register from
// init() at package load.
package catalog

import "sort"

// Endianness of a type's in-memory byte layout.
type Endianness int

const (
	LittleEndian Endianness = iota
	BigEndian
)

// ScalarImmediate compares the current value against a fixed literal.
type ScalarImmediate func(cur []byte, imm []byte) bool

// ScalarRelative compares the current value against the previous value.
type ScalarRelative func(cur []byte, prev []byte) bool

// ScalarDelta compares cur against prev shifted by a literal delta.
type ScalarDelta func(cur []byte, prev []byte, delta []byte) bool

// ToleranceComparator compares two literal byte images for closeness
// under the given tolerance mode, used only by float types (§3
// requires = and ≠ to tolerate rounding error rather than compare
// raw bits).
type ToleranceComparator func(cur, lit []byte, mode ToleranceMode, param float64) bool

// ImmediateComparators holds one function per comparison operator.
type ImmediateComparators struct {
	Eq, Neq, Gt, Lt, Gte, Lte ScalarImmediate
}

// RelativeComparators holds the relative (changed/unchanged/increased/decreased) set.
type RelativeComparators struct {
	Changed, Unchanged, Increased, Decreased ScalarRelative
}

// DeltaComparators holds every Delta(op, value) operator. Bitwise and
// shift operators are only populated for integer types; float types
// leave them nil.
type DeltaComparators struct {
	IncreasedBy    ScalarDelta // +X
	DecreasedBy    ScalarDelta // -X
	MultipliedBy   ScalarDelta // *X
	DividedBy      ScalarDelta // /X
	ModuloBy       ScalarDelta // %X
	ShiftedLeftBy  ScalarDelta // <<X
	ShiftedRightBy ScalarDelta // >>X
	AndedWith      ScalarDelta // &X
	OredWith       ScalarDelta // |X
	XoredWith      ScalarDelta // ^X
}

// Type describes one scannable primitive.
type Type struct {
	ID       string
	UnitSize uint64
	Endian   Endianness
	IsFloat  bool
	IsSigned bool

	Immediate ImmediateComparators
	Relative  RelativeComparators
	Delta     DeltaComparators

	// ToleranceEq is non-nil only for float types; it backs = and ≠
	// once a FloatingPointTolerance mode is applied.
	ToleranceEq ToleranceComparator
}

var registry = map[string]*Type{}

// Register adds t to the catalog. Called from each type family's init().
func Register(t *Type) {
	if _, exists := registry[t.ID]; exists {
		panic("catalog: duplicate type id " + t.ID)
	}
	registry[t.ID] = t
}

// Lookup returns the registered type by id, or nil if unknown.
func Lookup(id string) *Type {
	return registry[id]
}

// IDs returns every registered type id, sorted, for diagnostics and tests.
func IDs() []string {
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// DefaultPrimitiveSizes are the unit sizes that already have a native
// scalar type, used by the planner's map-to-primitive-type rule.
var DefaultPrimitiveSizes = map[uint64]bool{1: true, 2: true, 4: true, 8: true}
