package chain

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"quadform/internal/checkpoint"
	"quadform/internal/form"
	"quadform/internal/meter"
	"quadform/internal/trace"
)

// Sample records coefficient bit lengths after Step squarings.
type Sample struct {
	Step uint64 `json:"step"`
	A    int    `json:"a_bits"`
	B    int    `json:"b_bits"`
	C    int    `json:"c_bits"`
}

func sampleOf(step uint64, f form.Form) Sample {
	a, b, c := f.BitLens()
	return Sample{Step: step, A: a, B: b, C: c}
}

// Result describes one finished (or interrupted) chain.
type Result struct {
	Name    string
	Start   form.Form
	Final   form.Form
	Steps   uint64 // squarings reached, resumed ones included
	Resumed uint64 // step restored from a checkpoint, 0 if none
	Samples []Sample
	Elapsed time.Duration
}

// Squarer squares a form repeatedly within one class group.
//
// Hook sees every Square call; Sink gets an event every Every steps (and at
// the end). With a Store, Run resumes from the saved position for the same
// discriminant and start form, saves every SaveEvery steps, and saves
// again when it stops for any reason.
type Squarer struct {
	Name      string
	Params    Params
	Hook      meter.Hook
	Sink      ProgressSink
	Every     uint64 // 0 means every step
	Store     *checkpoint.Store
	SaveEvery uint64 // 0 saves only on exit
}

func (s *Squarer) emit(evt Event) {
	if s.Sink == nil {
		return
	}
	evt.Name = s.Name
	s.Sink.OnEvent(evt)
}

// Run applies steps squarings to start and returns the final form.
//
// ctx is checked between squarings; on cancellation Run returns the
// partial Result together with ctx.Err().
func (s *Squarer) Run(ctx context.Context, start form.Form, steps uint64) (res Result, err error) {
	res = Result{Name: s.Name, Start: start, Final: start}
	begun := time.Now()
	defer func() { res.Elapsed = time.Since(begun) }()

	if err := s.Params.Check(start); err != nil {
		s.emit(Event{Total: steps, Status: StatusError, Err: err})
		return res, err
	}

	span, ctx := trace.BeginContext(ctx, trace.ScopeChain, "chain")
	span.WithExtra("d.bits", strconv.Itoa(s.Params.D.BitLen())).
		WithExtra("steps", strconv.FormatUint(steps, 10))
	if s.Name != "" {
		span.WithExtra("name", s.Name)
	}
	defer func() {
		detail := "done"
		if err != nil {
			detail = err.Error()
		}
		span.WithExtra("reached", strconv.FormatUint(res.Steps, 10)).End(detail)
	}()

	key := checkpoint.Key(s.Params.D, start)
	f, step, err := s.resume(key, start, steps)
	if err != nil {
		s.emit(Event{Total: steps, Status: StatusError, Err: err})
		return res, err
	}
	res.Resumed = step

	save := func() error {
		if s.Store == nil {
			return nil
		}
		return s.Store.Put(key, checkpoint.NewPayload(s.Params.D, s.Params.L, step, f))
	}

	every := max(s.Every, 1)
	res.Samples = append(res.Samples, sampleOf(step, f))
	s.emit(Event{Step: step, Total: steps, Form: f, Status: StatusWorking, Elapsed: time.Since(begun)})

	for step < steps {
		if cerr := ctx.Err(); cerr != nil {
			err = cerr
			break
		}

		stepSpan, stepCtx := trace.BeginContext(ctx, trace.ScopeStep, "square")
		stepSpan.WithExtra("step", strconv.FormatUint(step+1, 10))
		k := meter.NewKernel(meter.WithTrace(stepCtx, s.Hook))
		next, serr := k.Square(f, s.Params.L)
		if serr != nil {
			stepSpan.End(serr.Error())
			err = fmt.Errorf("step %d: %w", step+1, serr)
			break
		}
		a, b, c := next.BitLens()
		stepSpan.WithExtra("a.bits", strconv.Itoa(a)).
			WithExtra("b.bits", strconv.Itoa(b)).
			WithExtra("c.bits", strconv.Itoa(c)).
			End("")

		f = next
		step++
		if step%every == 0 || step == steps {
			res.Samples = append(res.Samples, sampleOf(step, f))
			s.emit(Event{Step: step, Total: steps, Form: f, Status: StatusWorking, Elapsed: time.Since(begun)})
		}
		if s.SaveEvery > 0 && step%s.SaveEvery == 0 {
			if perr := save(); perr != nil {
				err = fmt.Errorf("checkpoint at step %d: %w", step, perr)
				break
			}
		}
	}

	res.Final = f
	res.Steps = step
	if perr := save(); perr != nil && err == nil {
		err = fmt.Errorf("checkpoint at step %d: %w", step, perr)
	}

	if err != nil {
		s.emit(Event{Step: step, Total: steps, Form: f, Status: StatusError, Err: err, Elapsed: time.Since(begun)})
		return res, err
	}
	s.emit(Event{Step: step, Total: steps, Form: f, Status: StatusDone, Elapsed: time.Since(begun)})
	return res, nil
}

// resume loads a saved position for key. Positions past steps are ignored.
func (s *Squarer) resume(key checkpoint.Digest, start form.Form, steps uint64) (form.Form, uint64, error) {
	p, ok, err := s.Store.Get(key)
	if err != nil {
		return start, 0, err
	}
	if !ok || p.Step > steps || p.Discriminant != s.Params.D.String() {
		return start, 0, nil
	}
	f, err := p.Form()
	if err != nil {
		return start, 0, err
	}
	if err := s.Params.Check(f); err != nil {
		return start, 0, fmt.Errorf("checkpoint %s: %w", key, err)
	}
	return f, p.Step, nil
}
