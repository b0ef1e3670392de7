// Package observ records how long each stage of a validation call takes.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Timing is the measured duration of one named stage.
type Timing struct {
	Stage    string        `json:"stage" msgpack:"stage"`
	Duration time.Duration `json:"duration" msgpack:"duration"`
}

// Millis returns the duration in fractional milliseconds.
func (t Timing) Millis() float64 {
	return float64(t.Duration) / float64(time.Millisecond)
}

type stage struct {
	name  string
	start time.Time
	dur   time.Duration
	done  bool
}

// Timer tracks the stages of a single call. It is not safe for concurrent
// use; every call owns its own Timer.
type Timer struct {
	start  time.Time
	stages []stage
	now    func() time.Time
}

// NewTimer starts a timer at the current time.
func NewTimer() *Timer {
	return newTimer(time.Now)
}

func newTimer(now func() time.Time) *Timer {
	return &Timer{start: now(), stages: make([]stage, 0, 3), now: now}
}

// Begin starts a stage and returns its index for End.
func (t *Timer) Begin(name string) int {
	t.stages = append(t.stages, stage{name: name, start: t.now()})
	return len(t.stages) - 1
}

// End finishes the stage at idx. Unknown or finished indexes are ignored.
func (t *Timer) End(idx int) {
	if idx < 0 || idx >= len(t.stages) || t.stages[idx].done {
		return
	}
	s := &t.stages[idx]
	s.dur = t.now().Sub(s.start)
	s.done = true
}

// Elapsed returns the wall-clock time since the timer was created.
func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}

// Timings returns the finished stages in the order they began.
func (t *Timer) Timings() []Timing {
	out := make([]Timing, 0, len(t.stages))
	for _, s := range t.stages {
		if s.done {
			out = append(out, Timing{Stage: s.name, Duration: s.dur})
		}
	}
	return out
}

// Summary formats timings and a total as an aligned table.
func Summary(timings []Timing, total time.Duration) string {
	var sb strings.Builder
	for _, t := range timings {
		fmt.Fprintf(&sb, "  %-8s %8.3f ms\n", t.Stage, t.Millis())
	}
	fmt.Fprintf(&sb, "  %-8s %8.3f ms\n", "total", Timing{Duration: total}.Millis())
	return sb.String()
}
