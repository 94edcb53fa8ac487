package orchestrator

import (
	"context"
	"sync"

	"github.com/csvquery/memscan/internal/telemetry"
)

// Task represents one in-flight scan round, publishing a completion
// ratio to a channel every N regions rather than printing on a timer.
type Task struct {
	id       string
	progress chan float64
	done     chan struct{}
	cancel   context.CancelFunc

	mu          sync.Mutex
	err         error
	resultCount int64
}

func newTask(id string, cancel context.CancelFunc) *Task {
	return &Task{
		id:       id,
		progress: make(chan float64, 1),
		done:     make(chan struct{}),
		cancel:   cancel,
	}
}

// ID uniquely identifies this task for wire.TaskProgress/TaskCompleted events.
func (t *Task) ID() string { return t.id }

// Progress yields the most recent completion ratio (0.0-1.0). Sends
// are non-blocking and may drop an intermediate tick, matching the
// indexer's own tolerance for overwriting an unread status line.
func (t *Task) Progress() <-chan float64 { return t.progress }

// Done closes once the task finishes, successfully or not.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel requests cooperative cancellation; executors check ctx.Err()
// between chunks and regions rather than being killed outright.
func (t *Task) Cancel() { t.cancel() }

// Err returns the task's terminal error, if any, valid only after Done closes.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// ResultCount returns the number of surviving elements once the task completes.
func (t *Task) ResultCount() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resultCount
}

func (t *Task) reportProgress(ratio float64) {
	select {
	case t.progress <- ratio:
	default:
		select {
		case <-t.progress:
		default:
		}
		select {
		case t.progress <- ratio:
		default:
		}
	}
}

func (t *Task) finish(err error, resultCount int64, logger *telemetry.Logger) {
	t.mu.Lock()
	t.err = err
	t.resultCount = resultCount
	t.mu.Unlock()
	close(t.done)
	if logger != nil {
		if err != nil {
			logger.Warn("task %s finished with error: %v", t.id, err)
		} else {
			logger.Info("task %s finished: %d results", t.id, resultCount)
		}
	}
}
