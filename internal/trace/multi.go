package trace

import "errors"

// MultiTracer fans events out to several tracers. Each tracer applies its
// own level, so a ring can keep routine spans while the stream only shows
// chains.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

// NewMultiTracer returns a MultiTracer whose Level is level; it should be
// the most verbose level among tracers.
func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{tracers: tracers, level: level}
}

// Emit hands each interested tracer its own copy of ev, since tracers stamp
// Seq.
func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		if !tr.Level().ShouldEmit(ev.Scope) {
			continue
		}
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *MultiTracer) Flush() error {
	errs := make([]error, 0, len(t.tracers))
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

// Close closes every tracer, even after a failure.
func (t *MultiTracer) Close() error {
	errs := make([]error, 0, len(t.tracers))
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Level() Level { return t.level }

func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }
