package meter

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"

	"quadform/internal/arith"
	"quadform/internal/form"
	"quadform/internal/trace"
)

func bi(v int64) *big.Int { return big.NewInt(v) }

func TestKernelMatchesBareRoutines(t *testing.T) {
	c := NewCounter()
	k := NewKernel(c)

	if got, _ := k.ExactDiv(bi(91), bi(7)); got.Cmp(bi(13)) != 0 {
		t.Fatalf("ExactDiv = %s", got)
	}
	if q, r := k.DivModMin(bi(7), bi(4)); q.Cmp(bi(2)) != 0 || r.Cmp(bi(-1)) != 0 {
		t.Fatalf("DivModMin = %s, %s", q, r)
	}
	if got := k.ModMin(bi(7), bi(4)); got.Cmp(bi(-1)) != 0 {
		t.Fatalf("ModMin = %s", got)
	}
	if got := k.Isqrt(bi(99)); got.Cmp(bi(9)) != 0 {
		t.Fatalf("Isqrt = %s", got)
	}
	if got, _ := k.Ipow(bi(3), bi(5)); got.Cmp(bi(243)) != 0 {
		t.Fatalf("Ipow = %s", got)
	}
	if bz := k.XGCD(bi(240), bi(46)); bz.G.Cmp(bi(2)) != 0 {
		t.Fatalf("XGCD = %v", bz)
	}
	if got := k.GCD(bi(240), bi(46)); got.Cmp(bi(2)) != 0 {
		t.Fatalf("GCD = %s", got)
	}
	if got, _ := k.ModInverse(bi(3), bi(7)); got.Cmp(bi(-2)) != 0 {
		t.Fatalf("ModInverse = %s", got)
	}
	if p := k.PartialXGCD(bi(1000), bi(377), bi(10)); p.V.CmpAbs(bi(10)) > 0 && p.U.Sign() != 0 {
		t.Fatalf("PartialXGCD stopped early: %+v", p)
	}
	if x, _ := k.SolveLinearX(bi(6), bi(20), bi(6)); x.Cmp(bi(1)) != 0 {
		t.Fatalf("SolveLinearX = %s", x)
	}
	if x, y, _ := k.SolveLinear(bi(3), bi(5), bi(1)); new(big.Int).Add(new(big.Int).Mul(bi(3), x), new(big.Int).Mul(bi(5), y)).Cmp(bi(1)) != 0 {
		t.Fatalf("SolveLinear = %s, %s", x, y)
	}
	if got := k.Reduce(form.FromInt64(400, 7, 68)); !got.Equal(form.FromInt64(68, -7, 400)) {
		t.Fatalf("Reduce = %s", got)
	}
	if got, _ := k.Square(form.FromInt64(20, 7, 1360), nil); !got.Equal(form.FromInt64(68, -7, 400)) {
		t.Fatalf("Square = %s", got)
	}

	rep := c.Snapshot()
	if len(rep.Routines) != 13 {
		t.Fatalf("counted %d routines, want 13", len(rep.Routines))
	}
	for _, s := range rep.Routines {
		if s.Calls != 1 {
			t.Fatalf("%s called %d times, want 1", s.Name, s.Calls)
		}
	}
}

func TestKernelPassesErrorsThrough(t *testing.T) {
	k := NewKernel(NewCounter())
	if _, err := k.ExactDiv(bi(7), bi(2)); !errors.Is(err, arith.ErrNotExact) {
		t.Fatalf("ExactDiv(7, 2) err = %v", err)
	}
	if _, err := k.ModInverse(bi(4), bi(8)); !errors.Is(err, arith.ErrNotInvertible) {
		t.Fatalf("ModInverse(4, 8) err = %v", err)
	}
}

func TestZeroKernelIsUsable(t *testing.T) {
	var k Kernel
	if got := k.GCD(bi(12), bi(18)); got.Cmp(bi(6)) != 0 {
		t.Fatalf("GCD = %s", got)
	}
	k = NewKernel(nil)
	if got := k.Isqrt(bi(16)); got.Cmp(bi(4)) != 0 {
		t.Fatalf("Isqrt = %s", got)
	}
}

func TestCounterBits(t *testing.T) {
	c := NewCounter()
	k := NewKernel(c)
	k.GCD(bi(255), bi(3))  // 8 + 2 bits
	k.GCD(bi(1023), bi(1)) // 10 + 1 bits

	s, ok := c.Snapshot().Lookup(RoutineGCD)
	if !ok {
		t.Fatalf("gcd not counted")
	}
	if s.Calls != 2 || s.Bits != 21 || s.MaxBits != 10 {
		t.Fatalf("gcd stat = %+v, want calls=2 bits=21 max=10", s)
	}

	c.Reset()
	if n := len(c.Snapshot().Routines); n != 0 {
		t.Fatalf("after Reset %d routines remain", n)
	}
}

func TestCounterConcurrent(t *testing.T) {
	c := NewCounter()
	k := NewKernel(c)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				k.ModMin(bi(17), bi(5))
			}
		}()
	}
	wg.Wait()
	if s, _ := c.Snapshot().Lookup(RoutineModMin); s.Calls != 800 {
		t.Fatalf("mod_min calls = %d, want 800", s.Calls)
	}
}

func TestReportFormat(t *testing.T) {
	rep := Report{Routines: []Stat{
		{Name: "gcd", Calls: 1234567, Bits: 2469134, MaxBits: 64},
		{Name: "xgcd", Calls: 3, Bits: 30, MaxBits: 12},
	}}
	var buf bytes.Buffer
	if err := rep.Format(&buf); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"routine", "1,234,567", "xgcd", "total", "1,234,570"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if got := rep.Total().MaxBits; got != 64 {
		t.Fatalf("Total().MaxBits = %d, want 64", got)
	}
}

type recordHook struct {
	log *[]string
	tag string
}

func (h recordHook) Start(name string, _ ...*big.Int) Token {
	*h.log = append(*h.log, h.tag+">"+name)
	return Token{Name: name}
}

func (h recordHook) Stop(tok Token) {
	*h.log = append(*h.log, h.tag+"<"+tok.Name)
}

func TestMultiOrder(t *testing.T) {
	var log []string
	h := Multi(recordHook{&log, "a"}, nil, recordHook{&log, "b"})
	NewKernel(h).Isqrt(bi(4))
	if got := strings.Join(log, " "); got != "a>isqrt b>isqrt b<isqrt a<isqrt" {
		t.Fatalf("hook order = %q", got)
	}
	if Multi() != Nop || Multi(nil, Nop) != Nop {
		t.Fatalf("empty Multi is not Nop")
	}
}

func TestTraceHook(t *testing.T) {
	ring := trace.NewRingTracer(32, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	step, ctx := trace.BeginContext(ctx, trace.ScopeStep, "square")

	k := NewKernel(HookFor(ctx, nil))
	k.XGCD(bi(255), bi(4))
	step.End("")

	evs := ring.Snapshot()
	if len(evs) != 4 {
		t.Fatalf("got %d events, want 4", len(evs))
	}
	end := evs[2]
	if end.Name != RoutineXGCD || end.Kind != trace.KindSpanEnd || end.ParentID != step.ID() {
		t.Fatalf("unexpected routine end event %+v", end)
	}
	if end.Extra["bits.0"] != "8" || end.Extra["bits.1"] != "3" {
		t.Fatalf("extras = %v", end.Extra)
	}
}

func TestHookForSkipsTraceBelowDebug(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)
	c := NewCounter()
	if h := HookFor(ctx, c); h != Hook(c) {
		t.Fatalf("HookFor = %T, want the counter alone", h)
	}
	if HookFor(context.Background(), nil) != Nop {
		t.Fatalf("HookFor without counter or tracer is not Nop")
	}
}
