package meter

import (
	"context"
	"math/big"
	"strconv"

	"quadform/internal/trace"
)

// TraceHook emits a ScopeRoutine span per call, tagged with operand bit
// lengths. Spans only show up at trace.LevelDebug.
type TraceHook struct {
	Tracer trace.Tracer
	Parent uint64
}

// NewTraceHook takes the tracer and parent span from ctx.
func NewTraceHook(ctx context.Context) TraceHook {
	return TraceHook{
		Tracer: trace.FromContext(ctx),
		Parent: trace.CurrentSpan(ctx).SpanID,
	}
}

// Enabled reports whether routine spans would be recorded at all.
func (h TraceHook) Enabled() bool {
	return h.Tracer != nil && h.Tracer.Enabled() && h.Tracer.Level().ShouldEmit(trace.ScopeRoutine)
}

func (h TraceHook) Start(name string, operands ...*big.Int) Token {
	if !h.Enabled() {
		return Token{Name: name}
	}
	tok := NewToken(name, operands...)
	span := trace.Begin(h.Tracer, trace.ScopeRoutine, name, h.Parent)
	for i, b := range tok.Bits {
		span.WithExtra("bits."+strconv.Itoa(i), strconv.Itoa(b))
	}
	tok.state = span
	return tok
}

func (h TraceHook) Stop(tok Token) {
	if span, ok := tok.state.(*trace.Span); ok {
		span.End("")
	}
}

// WithTrace adds a TraceHook for ctx to h when routine tracing is on.
func WithTrace(ctx context.Context, h Hook) Hook {
	if th := NewTraceHook(ctx); th.Enabled() {
		return Multi(h, th)
	}
	return Multi(h)
}

// HookFor returns a hook that records into c and, when routine tracing is
// on for ctx, into the trace as well. A nil c is allowed.
func HookFor(ctx context.Context, c *Counter) Hook {
	if c == nil {
		return WithTrace(ctx, nil)
	}
	return WithTrace(ctx, c)
}
