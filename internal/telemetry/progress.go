package telemetry

import (
	"fmt"
	"io"
)

// Phase names one stage of a scan round, mirrored after the indexer's
// own Scanning/Merging/Done phase labels.
type Phase string

const (
	PhaseScanning  Phase = "Scanning"
	PhasePlanning  Phase = "Planning"
	PhaseExecuting Phase = "Executing"
	PhaseDone      Phase = "Done"
)

// ProgressReporter redraws a single status line in place, exactly the
// "\r"-rewrite the indexer's printStatus uses for its ticker-driven
// console output.
type ProgressReporter struct {
	out io.Writer
}

func NewProgressReporter(out io.Writer) *ProgressReporter {
	return &ProgressReporter{out: out}
}

// Report overwrites the current line with the given phase and ratio
// (0.0 - 1.0) of completion.
func (p *ProgressReporter) Report(phase Phase, ratio float64, regionsDone, regionsTotal int) {
	fmt.Fprintf(p.out, "\r[%s] %5.1f%% (%d/%d regions)          ", phase, ratio*100, regionsDone, regionsTotal)
}

// Finish writes a trailing newline once a phase completes, so the
// next line of output (or the next Report call) doesn't collide with
// the redrawn status line.
func (p *ProgressReporter) Finish() {
	fmt.Fprintln(p.out)
}
