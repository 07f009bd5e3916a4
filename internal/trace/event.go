package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end
	KindPoint                     // instant event
	KindHeartbeat                 // periodic liveness signal
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of an event.
// Lower values are coarser.
type Scope uint8

const (
	// ScopeChain covers a whole squaring chain or batch job.
	ScopeChain Scope = iota + 1
	// ScopeStep covers one squaring inside a chain.
	ScopeStep
	// ScopeRoutine covers one kernel routine call.
	ScopeRoutine
)

func (s Scope) String() string {
	switch s {
	case ScopeChain:
		return "chain"
	case ScopeStep:
		return "step"
	case ScopeRoutine:
		return "routine"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	GID      uint64            // goroutine ID
	Name     string            // e.g. "chain", "square", "xgcd"
	Detail   string            // optional detail message
	Extra    map[string]string // e.g. operand bit lengths
}
