package catalog

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// loadUnaligned reads a T out of b[0:sizeof(T)] without requiring
// alignment, since scan candidates can start at any byte offset.
func loadUnaligned[T constraints.Integer | constraints.Float](b []byte) T {
	var zero T
	if len(b) < int(unsafe.Sizeof(zero)) {
		panic("catalog: short buffer for unaligned load")
	}
	return *(*T)(unsafe.Pointer(&b[0]))
}

func loadU8(b []byte) uint8    { return loadUnaligned[uint8](b) }
func loadU16(b []byte) uint16  { return loadUnaligned[uint16](b) }
func loadU32(b []byte) uint32  { return loadUnaligned[uint32](b) }
func loadU64(b []byte) uint64  { return loadUnaligned[uint64](b) }
func loadI8(b []byte) int8     { return loadUnaligned[int8](b) }
func loadI16(b []byte) int16   { return loadUnaligned[int16](b) }
func loadI32(b []byte) int32   { return loadUnaligned[int32](b) }
func loadI64(b []byte) int64   { return loadUnaligned[int64](b) }
func loadF32(b []byte) float32 { return loadUnaligned[float32](b) }
func loadF64(b []byte) float64 { return loadUnaligned[float64](b) }

func swap16(v uint16) uint16 { return v<<8 | v>>8 }
func swap32(v uint32) uint32 {
	return v<<24 | (v&0xff00)<<8 | (v&0xff0000)>>8 | v>>24
}
func swap64(v uint64) uint64 {
	return v<<56 | (v&0xff00)<<40 | (v&0xff0000)<<24 | (v&0xff000000)<<8 |
		(v&0xff00000000)>>8 | (v&0xff0000000000)>>24 | (v&0xff000000000000)>>40 | v>>56
}
