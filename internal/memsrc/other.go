//go:build !linux

package memsrc

import (
	"context"
	"errors"
)

// ErrUnsupportedPlatform is returned by LiveProcess on platforms
// without a real implementation yet.
var ErrUnsupportedPlatform = errors.New("memsrc: live process reading not implemented on this platform")

// LiveProcess is an unimplemented stand-in outside Linux; use
// FakeProcess for tests and demos on this platform.
type LiveProcess struct{}

func OpenLiveProcess(pid int) (*LiveProcess, error) {
	return nil, ErrUnsupportedPlatform
}

func (p *LiveProcess) EnumeratePages(ctx context.Context, filter PageFilter) ([]PageInfo, error) {
	return nil, ErrUnsupportedPlatform
}

func (p *LiveProcess) ReadBytes(ctx context.Context, addr uint64, buf []byte) bool {
	return false
}

func (p *LiveProcess) Modules(ctx context.Context) ([]ModuleInfo, error) {
	return nil, ErrUnsupportedPlatform
}
