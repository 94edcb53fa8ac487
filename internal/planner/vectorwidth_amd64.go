//go:build amd64

package planner

import "golang.org/x/sys/cpu"

// bestVectorWidth picks a lane width in bytes from the CPU's available
// feature set: the executors manually unroll over this many bytes per
// step instead of calling into hand-written assembly.
func bestVectorWidth() int {
	switch {
	case cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW:
		return 64
	case cpu.X86.HasAVX2:
		return 32
	case cpu.X86.HasSSE42:
		return 16
	default:
		return 0
	}
}
