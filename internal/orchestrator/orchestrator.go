// Package orchestrator drives a full scan round: enumerate pages,
// capture memory, plan each filter, dispatch execution across
// regions in parallel, and report progress. It holds the lock that
// serializes scan rounds over the snapshot and fans regions out across
// goroutines.
package orchestrator

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/csvquery/memscan/internal/catalog"
	"github.com/csvquery/memscan/internal/config"
	"github.com/csvquery/memscan/internal/memsrc"
	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/rle"
	"github.com/csvquery/memscan/internal/scanexec"
	"github.com/csvquery/memscan/internal/snapshot"
	"github.com/csvquery/memscan/internal/telemetry"
)

var (
	ErrNoOpenedProcess   = fmt.Errorf("memscan: no opened process")
	ErrCancelled         = fmt.Errorf("memscan: scan cancelled")
	ErrInternalInvariant = fmt.Errorf("memscan: internal invariant violated")
)

var taskCounter int64

func nextTaskID() string {
	return fmt.Sprintf("task-%d", atomic.AddInt64(&taskCounter, 1))
}

// Orchestrator ties a process memory source, a live snapshot, and a
// scan config together. One Orchestrator serves one opened process.
type Orchestrator struct {
	mem    memsrc.ProcessMemory
	snap   *snapshot.Snapshot
	cfg    config.OrchestratorConfig
	logger *telemetry.Logger

	mu sync.RWMutex // guards against concurrent NewScan/ElementScan calls racing the snapshot
}

// New builds an Orchestrator bound to mem. With a nil mem,
// NewScanSession returns ErrNoOpenedProcess.
func New(mem memsrc.ProcessMemory, cfg config.OrchestratorConfig, logger *telemetry.Logger) *Orchestrator {
	if logger == nil {
		logger = telemetry.New(nopWriter{}, false)
	}
	return &Orchestrator{mem: mem, snap: snapshot.New(), cfg: cfg, logger: logger}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func (o *Orchestrator) workers() int {
	if o.cfg.Workers > 0 {
		return o.cfg.Workers
	}
	return runtime.NumCPU()
}

// Snapshot exposes the live snapshot for read-only inspection (result
// pagination, export).
func (o *Orchestrator) Snapshot() *snapshot.Snapshot { return o.snap }

// NewScanSession enumerates process pages and captures a fresh
// snapshot, discarding any prior scan's results (spec's ScanNew).
func (o *Orchestrator) NewScanSession(ctx context.Context, writableOnly bool) error {
	if o.mem == nil {
		return ErrNoOpenedProcess
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	pages, err := o.mem.EnumeratePages(ctx, memsrc.PageFilter{RequireWritable: writableOnly})
	if err != nil {
		return fmt.Errorf("orchestrator: enumerating pages: %w", err)
	}
	regions := make([]*snapshot.Region, 0, len(pages))
	for _, p := range pages {
		regions = append(regions, snapshot.NewRegion(p.BaseAddress, p.Size))
	}
	o.snap.ReplaceRegions(regions)
	if err := o.snap.ReadAllMemory(ctx, o.mem); err != nil {
		return fmt.Errorf("orchestrator: initial memory capture: %w", err)
	}
	o.logger.Info("new scan session: %d regions captured", len(regions))
	return nil
}

// ElementScan runs one scan round for dtypeID against compare,
// narrowing any existing filters for that type or, on a first pass,
// scanning every captured byte. The planner runs separately per
// (region, filter) inside scanRegion rather than once here, since
// Rule R3's small-filter scalar fallback depends on each filter's own
// element count.
func (o *Orchestrator) ElementScan(ctx context.Context, dtypeID string, compare planner.ScanCompareType, alignment planner.Alignment) (*Task, error) {
	dt := catalog.Lookup(dtypeID)
	if dt == nil {
		return nil, fmt.Errorf("%w: unknown data type %q", ErrInternalInvariant, dtypeID)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	task := newTask(nextTaskID(), cancel)

	go o.runElementScan(taskCtx, task, dt, compare, alignment)
	return task, nil
}

func (o *Orchestrator) runElementScan(ctx context.Context, task *Task, dt *catalog.Type, compare planner.ScanCompareType, alignment planner.Alignment) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := ctx.Err(); err != nil {
		task.finish(ErrCancelled, 0, o.logger)
		return
	}

	if err := o.snap.ReadAllMemory(ctx, o.mem); err != nil {
		task.finish(fmt.Errorf("orchestrator: refreshing memory: %w", err), 0, o.logger)
		return
	}

	regions := o.snap.Regions()
	total := len(regions)
	if total == 0 {
		o.snap.RollValues()
		task.finish(nil, 0, o.logger)
		return
	}

	tolerance := planner.FloatTolerance{Mode: o.cfg.Scan.FloatTolerance, Param: o.cfg.Scan.FloatToleranceParam}

	workers := o.workers()
	if o.cfg.SingleThreaded {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var completed int64
	var cancelled int32

	for _, region := range regions {
		region := region
		if atomic.LoadInt32(&cancelled) != 0 {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		run := func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				atomic.StoreInt32(&cancelled, 1)
				return
			}
			o.scanRegion(ctx, region, dt, compare, alignment, tolerance)
			done := atomic.AddInt64(&completed, 1)
			if o.cfg.ProgressEveryN > 0 && (int(done)%o.cfg.ProgressEveryN == 0 || int(done) == total) {
				task.reportProgress(float64(done) / float64(total))
			}
		}
		if o.cfg.SingleThreaded {
			run()
		} else {
			go run()
		}
	}
	wg.Wait()

	if atomic.LoadInt32(&cancelled) != 0 {
		task.finish(ErrCancelled, 0, o.logger)
		return
	}

	o.snap.RollValues()
	count := o.snap.ResultCount(dt.ID)
	task.finish(nil, count, o.logger)
}

// scanRegion runs the planned scan over one region, either against
// the whole captured buffer (first pass, no prior filters) or against
// each surviving filter's byte range (a narrowing pass). Every filter
// (and the whole-region first pass) gets its own planner.Plan call
// keyed off its own element count, so a filter narrowed down to a
// handful of elements falls back to the scalar strategy per Rule R3
// instead of inheriting whatever strategy a much larger prior round
// picked.
func (o *Orchestrator) scanRegion(ctx context.Context, region *snapshot.Region, dt *catalog.Type, compare planner.ScanCompareType, alignment planner.Alignment, tolerance planner.FloatTolerance) {
	region.Lock()
	defer region.Unlock()

	typeID := dt.ID
	existing, hadFilters := region.Filters[typeID]

	stride := uint64(alignment)
	if stride == 0 {
		stride = dt.UnitSize
	}
	if stride == 0 {
		stride = 1
	}

	var newFilters []rle.Filter
	if !hadFilters {
		elementCount := int64(uint64(len(region.Current)) / stride)
		plan := planner.Plan(dt, compare, alignment, elementCount, tolerance)
		var err error
		newFilters, err = scanexec.ExecuteParallel(ctx, plan, region.Current, region.Previous, region.BaseAddress, 1)
		if err != nil {
			return
		}
	} else {
		for _, f := range existing.Filters {
			lo := f.Base - region.BaseAddress
			hi := lo + f.Length
			if hi > uint64(len(region.Current)) {
				continue // PageReadFailed shrank this region since the last round
			}
			elementCount := int64(f.Length / stride)
			plan := planner.Plan(dt, compare, alignment, elementCount, tolerance)
			sub := scanexec.Execute(plan, region.Current[lo:hi], region.Previous[lo:hi], f.Base)
			newFilters = append(newFilters, sub...)
		}
	}

	region.Filters[typeID] = &snapshot.FilterCollection{
		TypeID:            typeID,
		Filters:           newFilters,
		AlignmentStride:   stride,
		TotalElementCount: countElements(newFilters, stride, dt.UnitSize),
	}
}

func countElements(filters []rle.Filter, alignment, unitSize uint64) int64 {
	stride := alignment
	if stride == 0 {
		stride = unitSize
	}
	if stride == 0 {
		stride = 1
	}
	var total int64
	for _, f := range filters {
		total += int64(f.Length / stride)
	}
	return total
}
