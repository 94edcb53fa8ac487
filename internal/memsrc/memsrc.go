// Package memsrc is the external-collaborator boundary: everything
// that actually touches a live process's address space lives here,
// behind an interface, so the scan core never depends on an OS API
// or a privilege level.
package memsrc

import "context"

// PageInfo describes one contiguous readable region of address space.
type PageInfo struct {
	BaseAddress uint64
	Size        uint64
	Readable    bool
	Writable    bool
	Executable  bool
}

// ModuleInfo describes one loaded module/shared object.
type ModuleInfo struct {
	Name        string
	BaseAddress uint64
	Size        uint64
}

// PageFilter narrows EnumeratePages to pages meeting all set conditions.
type PageFilter struct {
	RequireWritable bool
	MinSize         uint64
}

// ProcessMemory is the only way the scan core touches a real process.
// Implementations live outside the core packages (internal/snapshot,
// internal/scanexec, internal/planner, internal/orchestrator never
// import a concrete implementation, only this interface).
type ProcessMemory interface {
	EnumeratePages(ctx context.Context, filter PageFilter) ([]PageInfo, error)
	ReadBytes(ctx context.Context, addr uint64, buf []byte) bool
	Modules(ctx context.Context) ([]ModuleInfo, error)
}

// ResolveModule finds the base address of the named module.
func ResolveModule(modules []ModuleInfo, name string) (uint64, bool) {
	for _, m := range modules {
		if m.Name == name {
			return m.BaseAddress, true
		}
	}
	return 0, false
}

// AddressToModule finds which module (if any) contains addr, and the
// offset within it.
func AddressToModule(addr uint64, modules []ModuleInfo) (name string, offset uint64, ok bool) {
	for _, m := range modules {
		if addr >= m.BaseAddress && addr < m.BaseAddress+m.Size {
			return m.Name, addr - m.BaseAddress, true
		}
	}
	return "", 0, false
}
