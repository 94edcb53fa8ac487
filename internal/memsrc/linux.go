//go:build linux

package memsrc

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// LiveProcess reads a real process's address space by opening
// /proc/<pid>/maps and /proc/<pid>/mem: parse the maps text format for
// page layout, pread the mem file for contents.
type LiveProcess struct {
	pid int
}

// OpenLiveProcess attaches to an already-running process by pid. No
// ptrace attach is performed; reads go through /proc/<pid>/mem, which
// requires the caller to already have permission (same user, or
// CAP_SYS_PTRACE).
func OpenLiveProcess(pid int) (*LiveProcess, error) {
	if _, err := os.Stat(fmt.Sprintf("/proc/%d", pid)); err != nil {
		return nil, fmt.Errorf("memsrc: process %d not found: %w", pid, err)
	}
	return &LiveProcess{pid: pid}, nil
}

func (p *LiveProcess) EnumeratePages(ctx context.Context, filter PageFilter) ([]PageInfo, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", p.pid))
	if err != nil {
		return nil, fmt.Errorf("memsrc: opening maps: %w", err)
	}
	defer f.Close()

	var out []PageInfo
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		bounds := strings.SplitN(fields[0], "-", 2)
		if len(bounds) != 2 {
			continue
		}
		lo, err1 := strconv.ParseUint(bounds[0], 16, 64)
		hi, err2 := strconv.ParseUint(bounds[1], 16, 64)
		if err1 != nil || err2 != nil || hi <= lo {
			continue
		}
		perms := fields[1]
		info := PageInfo{
			BaseAddress: lo,
			Size:        hi - lo,
			Readable:    strings.Contains(perms, "r"),
			Writable:    strings.Contains(perms, "w"),
			Executable:  strings.Contains(perms, "x"),
		}
		if !info.Readable {
			continue
		}
		if filter.RequireWritable && !info.Writable {
			continue
		}
		if info.Size < filter.MinSize {
			continue
		}
		out = append(out, info)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("memsrc: scanning maps: %w", err)
	}
	return out, nil
}

func (p *LiveProcess) ReadBytes(ctx context.Context, addr uint64, buf []byte) bool {
	if err := ctx.Err(); err != nil {
		return false
	}
	f, err := os.OpenFile(fmt.Sprintf("/proc/%d/mem", p.pid), os.O_RDONLY, 0)
	if err != nil {
		return false
	}
	defer f.Close()
	n, err := unix.Pread(int(f.Fd()), buf, int64(addr))
	return err == nil && n == len(buf)
}

func (p *LiveProcess) Modules(ctx context.Context) ([]ModuleInfo, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", p.pid))
	if err != nil {
		return nil, fmt.Errorf("memsrc: opening maps: %w", err)
	}
	defer f.Close()

	seen := make(map[string]*ModuleInfo)
	var order []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}
		path := fields[5]
		if path == "" || strings.HasPrefix(path, "[") {
			continue
		}
		bounds := strings.SplitN(fields[0], "-", 2)
		lo, err1 := strconv.ParseUint(bounds[0], 16, 64)
		hi, err2 := strconv.ParseUint(bounds[1], 16, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if m, ok := seen[path]; ok {
			if hi > m.BaseAddress+m.Size {
				m.Size = hi - m.BaseAddress
			}
			continue
		}
		m := &ModuleInfo{Name: path, BaseAddress: lo, Size: hi - lo}
		seen[path] = m
		order = append(order, path)
	}
	out := make([]ModuleInfo, 0, len(order))
	for _, path := range order {
		out = append(out, *seen[path])
	}
	return out, nil
}
