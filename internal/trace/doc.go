// Package trace records spans for squaring chains and kernel routines.
//
// Three scopes exist, coarse to fine:
//
//   - ScopeChain: a whole chain or batch job
//   - ScopeStep: one squaring
//   - ScopeRoutine: one kernel routine call (via meter.TraceHook)
//
// Levels select how deep events go: phase keeps chains, detail adds steps,
// debug adds routines. LevelError records nothing by itself and exists so a
// ring tracer can be dumped after a failure.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.BeginContext(ctx, trace.ScopeChain, "chain")
//	defer span.End("")
//
// From the command line:
//
//	quadform square --seed 42 --bits 256 --steps 1000 --trace=- --trace-level=detail
package trace
