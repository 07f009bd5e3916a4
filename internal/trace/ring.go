package trace

import (
	"io"
	"sync"
)

// stepKeep is how many finished squaring steps a RingTracer holds on to
// apart from the main buffer.
const stepKeep = 8

// RingTracer keeps the most recent events in memory for a dump after a
// failure. Routine events at debug level crowd out everything else, so the
// ends of the last few steps are also kept in a small side buffer.
type RingTracer struct {
	mu      sync.RWMutex
	level   Level
	buf     []Event
	written uint64 // events ever stored; buf[written%len(buf)] is next
	steps   []Event
	stepN   uint64
}

// NewRingTracer creates a RingTracer holding up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{
		level: level,
		buf:   make([]Event, capacity),
		steps: make([]Event, stepKeep),
	}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.written%uint64(len(t.buf))] = stored
	t.written++
	if stored.Scope == ScopeStep && stored.Kind == KindSpanEnd {
		t.steps[t.stepN%stepKeep] = stored
		t.stepN++
	}
}

// oldestFirst copies the live part of a circular buffer into a new slice.
func oldestFirst(buf []Event, written uint64) []Event {
	size := uint64(len(buf))
	if written <= size {
		return append([]Event(nil), buf[:written]...)
	}
	head := written % size
	out := make([]Event, 0, size)
	out = append(out, buf[head:]...)
	return append(out, buf[:head]...)
}

// Snapshot returns a copy of all stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return oldestFirst(t.buf, t.written)
}

// Steps returns the ends of the most recent squaring steps, oldest first,
// whether or not they are still in the main buffer.
func (t *RingTracer) Steps() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return oldestFirst(t.steps, t.stepN)
}

// Dump writes all stored events to w in the given format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return writeEvents(w, t.Snapshot(), format)
}

// DumpSteps writes the ends of the most recent steps to w.
func (t *RingTracer) DumpSteps(w io.Writer, format Format) error {
	return writeEvents(w, t.Steps(), format)
}

func writeEvents(w io.Writer, events []Event, format Format) error {
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
