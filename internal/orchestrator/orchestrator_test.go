package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/csvquery/memscan/internal/config"
	"github.com/csvquery/memscan/internal/memsrc"
	"github.com/csvquery/memscan/internal/planner"
)

func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func waitForTask(t *testing.T, task *Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish in time")
	}
}

func TestElementScanFirstPassFindsAllMatches(t *testing.T) {
	proc := memsrc.NewFakeProcess()
	data := append(append(u32le(100), u32le(200)...), u32le(100)...)
	proc.AddPage(0x1000, data, true, false)

	o := New(proc, config.DefaultOrchestratorConfig(), nil)
	if err := o.NewScanSession(context.Background(), false); err != nil {
		t.Fatalf("NewScanSession: %v", err)
	}

	task, err := o.ElementScan(context.Background(), "u32", planner.ScanCompareType{Kind: planner.Equal, Immediate: u32le(100)}, 4)
	if err != nil {
		t.Fatalf("ElementScan: %v", err)
	}
	waitForTask(t, task)
	if task.Err() != nil {
		t.Fatalf("task error: %v", task.Err())
	}
	if task.ResultCount() != 2 {
		t.Errorf("ResultCount = %d, want 2", task.ResultCount())
	}
}

func TestElementScanNarrowsAcrossRounds(t *testing.T) {
	proc := memsrc.NewFakeProcess()
	data := append(append(u32le(100), u32le(200)...), u32le(100)...)
	proc.AddPage(0x1000, data, true, false)

	o := New(proc, config.DefaultOrchestratorConfig(), nil)
	if err := o.NewScanSession(context.Background(), false); err != nil {
		t.Fatalf("NewScanSession: %v", err)
	}

	task, err := o.ElementScan(context.Background(), "u32", planner.ScanCompareType{Kind: planner.NotEqual, Immediate: u32le(200)}, 4)
	if err != nil {
		t.Fatalf("ElementScan: %v", err)
	}
	waitForTask(t, task)
	if task.ResultCount() != 2 {
		t.Fatalf("round 1 ResultCount = %d, want 2", task.ResultCount())
	}

	// Target's value changes between rounds.
	proc.MutatePage(0x1000, append(append(u32le(100), u32le(999)...), u32le(5)...))

	task2, err := o.ElementScan(context.Background(), "u32", planner.ScanCompareType{Kind: planner.Unchanged}, 4)
	if err != nil {
		t.Fatalf("ElementScan round 2: %v", err)
	}
	waitForTask(t, task2)
	if task2.ResultCount() != 1 {
		t.Errorf("round 2 ResultCount = %d, want 1 (only the address holding 100 is unchanged)", task2.ResultCount())
	}
}

func TestNewScanSessionRequiresOpenedProcess(t *testing.T) {
	o := New(nil, config.DefaultOrchestratorConfig(), nil)
	if err := o.NewScanSession(context.Background(), false); err != ErrNoOpenedProcess {
		t.Errorf("expected ErrNoOpenedProcess, got %v", err)
	}
}
