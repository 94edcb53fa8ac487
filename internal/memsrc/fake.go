package memsrc

import (
	"context"
	"sync"
)

// FakeProcess is an in-memory stand-in for a real process's address
// space, used by the orchestrator, daemon and snapshot tests and by
// the CLI's -fake-target demo mode.
type FakeProcess struct {
	mu      sync.RWMutex
	pages   []fakePage
	modules []ModuleInfo
}

type fakePage struct {
	info PageInfo
	data []byte
}

// NewFakeProcess returns an empty fake process with no pages.
func NewFakeProcess() *FakeProcess {
	return &FakeProcess{}
}

// AddPage registers a readable/writable page backed by data. data is
// copied, and the page's size matches len(data).
func (f *FakeProcess) AddPage(base uint64, data []byte, writable, executable bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := append([]byte(nil), data...)
	f.pages = append(f.pages, fakePage{
		info: PageInfo{BaseAddress: base, Size: uint64(len(buf)), Readable: true, Writable: writable, Executable: executable},
		data: buf,
	})
}

// AddModule registers a module for AddressToModule/ResolveModule tests.
func (f *FakeProcess) AddModule(m ModuleInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modules = append(f.modules, m)
}

// MutatePage overwrites a page's bytes in place, simulating a target
// process changing its own memory between two scan rounds.
func (f *FakeProcess) MutatePage(base uint64, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.pages {
		if f.pages[i].info.BaseAddress == base {
			copy(f.pages[i].data, data)
			return
		}
	}
}

func (f *FakeProcess) EnumeratePages(ctx context.Context, filter PageFilter) ([]PageInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]PageInfo, 0, len(f.pages))
	for _, p := range f.pages {
		if filter.RequireWritable && !p.info.Writable {
			continue
		}
		if p.info.Size < filter.MinSize {
			continue
		}
		out = append(out, p.info)
	}
	return out, nil
}

func (f *FakeProcess) ReadBytes(ctx context.Context, addr uint64, buf []byte) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range f.pages {
		if addr >= p.info.BaseAddress && addr+uint64(len(buf)) <= p.info.BaseAddress+p.info.Size {
			off := addr - p.info.BaseAddress
			copy(buf, p.data[off:off+uint64(len(buf))])
			return true
		}
	}
	return false
}

func (f *FakeProcess) Modules(ctx context.Context) ([]ModuleInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]ModuleInfo(nil), f.modules...), nil
}
