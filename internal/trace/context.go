package trace

import "context"

type ctxKey struct{}

// binding is what a context carries: the tracer and the innermost open
// span. Both travel under one key so a step span never loses its tracer.
type binding struct {
	tracer Tracer
	span   SpanContext
}

func bound(ctx context.Context) binding {
	if ctx == nil {
		return binding{}
	}
	b, _ := ctx.Value(ctxKey{}).(binding)
	return b
}

// FromContext returns the Tracer bound to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if t := bound(ctx).tracer; t != nil {
		return t
	}
	return Nop
}

// WithTracer binds t to ctx, keeping the current span.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	b := bound(ctx)
	b.tracer = t
	return context.WithValue(ctx, ctxKey{}, b)
}

// SpanContext identifies the innermost open span: a chain, a step or a
// routine.
type SpanContext struct {
	SpanID uint64
	GID    uint64
	Scope  Scope
}

// CurrentSpan returns the innermost span bound to ctx; SpanID is 0 when
// there is none.
func CurrentSpan(ctx context.Context) SpanContext {
	return bound(ctx).span
}

// WithSpanContext makes sc the innermost span of ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	b := bound(ctx)
	b.span = sc
	return context.WithValue(ctx, ctxKey{}, b)
}
