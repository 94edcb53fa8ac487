//go:build !amd64

package planner

// bestVectorWidth has no vector path on non-amd64 builds; everything
// falls back to the scalar executor.
func bestVectorWidth() int { return 0 }
