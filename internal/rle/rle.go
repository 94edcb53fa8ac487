// Package rle encodes a stream of per-element pass/fail decisions
// into compact [base, length) address ranges.
package rle

// Filter is one surviving address range, base inclusive, length in bytes.
type Filter struct {
	Base   uint64
	Length uint64
}

func (f Filter) End() uint64 { return f.Base + f.Length }

// Encoder accumulates a run of passing elements starting at some
// address and flushes it into a Filter once the run breaks.
type Encoder struct {
	cursor   uint64
	runStart uint64
	runLen   uint64
	encoding bool
	out      []Filter
}

// NewEncoder starts encoding from the given base address.
func NewEncoder(base uint64) *Encoder {
	return &Encoder{cursor: base}
}

// Pass records that the element at the current cursor passed, and
// advances the cursor by advance bytes.
func (e *Encoder) Pass(advance uint64) {
	if !e.encoding {
		e.encoding = true
		e.runStart = e.cursor
		e.runLen = 0
	}
	e.runLen += advance
	e.cursor += advance
}

// Fail records a failing element, closing any open run, and advances
// the cursor by advance bytes.
func (e *Encoder) Fail(advance uint64) {
	e.closeRun()
	e.cursor += advance
}

func (e *Encoder) closeRun() {
	if e.encoding && e.runLen > 0 {
		e.out = append(e.out, Filter{Base: e.runStart, Length: e.runLen})
	}
	e.encoding = false
	e.runLen = 0
}

// Finalize closes any open run and returns the accumulated filters.
// padding trims trailing bytes that belong to a partial trailing
// element (e.g. a vector lane beyond the true buffer length); minLen
// drops any run shorter than minLen once padding is applied.
func (e *Encoder) Finalize(padding, minLen uint64) []Filter {
	e.closeRun()
	if padding == 0 && minLen == 0 {
		return e.out
	}
	result := e.out[:0]
	for _, f := range e.out {
		if f.Length <= padding {
			continue
		}
		f.Length -= padding
		if f.Length < minLen {
			continue
		}
		result = append(result, f)
	}
	return result
}

// MergeAdjacent concatenates filter lists produced by independent
// encoders (one per chunk, or one per lane-offset in an overlapping
// SIMD scan) and fuses any pair where one run's End equals the next
// run's Base. Inputs must already be sorted by Base within each list;
// chunks/lanes must be supplied in ascending Base order.
func MergeAdjacent(lists ...[]Filter) []Filter {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	merged := make([]Filter, 0, total)
	for _, l := range lists {
		for _, f := range l {
			if f.Length == 0 {
				continue
			}
			if n := len(merged); n > 0 && merged[n-1].End() == f.Base {
				merged[n-1].Length += f.Length
				continue
			}
			merged = append(merged, f)
		}
	}
	return merged
}
