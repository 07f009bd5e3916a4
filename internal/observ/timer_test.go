package observ

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("setup")
	tm.End(idx, "")
	err := tm.Time("square", func() error { return errors.New("interrupted") })
	if err == nil || err.Error() != "interrupted" {
		t.Fatalf("Time returned %v", err)
	}
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(rep.Phases))
	}
	if rep.Phases[1].Name != "square" || rep.Phases[1].Note != "interrupted" {
		t.Fatalf("phase 1 = %+v", rep.Phases[1])
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:", "setup", "square", "// interrupted", "total"} {
		if !strings.Contains(sum, want) {
			t.Fatalf("summary missing %q:\n%s", want, sum)
		}
	}
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTimer().WriteSummary(&buf); err != nil || buf.Len() != 0 {
		t.Fatalf("empty timer wrote %q, %v", buf.String(), err)
	}
	var nilTimer *Timer
	if err := nilTimer.WriteSummary(&buf); err != nil {
		t.Fatalf("nil timer: %v", err)
	}
	if len(NewTimer().Report().Phases) != 0 {
		t.Fatalf("empty report has phases")
	}
}
