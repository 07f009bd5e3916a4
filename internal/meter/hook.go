// Package meter observes kernel routine calls without changing their results.
//
// A Hook is told when a routine starts (with its operands) and when it
// stops. Counter aggregates calls per routine, TraceHook turns them into
// trace spans, and Kernel wraps every arith and form routine with a Hook.
// Hooks are values owned by the caller; there is no process-wide state.
package meter

import (
	"math/big"
	"time"
)

// Hook brackets one kernel routine call.
type Hook interface {
	Start(name string, operands ...*big.Int) Token
	Stop(Token)
}

// Token is handed from Start back to Stop.
type Token struct {
	Name  string
	Bits  []int // operand bit lengths, in call order
	Begun time.Time

	state any // hook-private
}

// NewToken records name, operand bit lengths and the current time.
func NewToken(name string, operands ...*big.Int) Token {
	bits := make([]int, len(operands))
	for i, op := range operands {
		if op != nil {
			bits[i] = op.BitLen()
		}
	}
	return Token{Name: name, Bits: bits, Begun: time.Now()}
}

// MaxBits returns the largest operand bit length.
func (t Token) MaxBits() int {
	m := 0
	for _, b := range t.Bits {
		m = max(m, b)
	}
	return m
}

type nopHook struct{}

func (nopHook) Start(string, ...*big.Int) Token { return Token{} }
func (nopHook) Stop(Token)                      {}

// Nop ignores every call.
var Nop Hook = nopHook{}

type multiHook []Hook

// Multi returns a Hook that forwards to each of hooks in order and stops
// them in reverse order. Nil hooks are skipped.
func Multi(hooks ...Hook) Hook {
	var hs multiHook
	for _, h := range hooks {
		if h != nil && h != Nop {
			hs = append(hs, h)
		}
	}
	switch len(hs) {
	case 0:
		return Nop
	case 1:
		return hs[0]
	}
	return hs
}

func (m multiHook) Start(name string, operands ...*big.Int) Token {
	inner := make([]Token, len(m))
	for i, h := range m {
		inner[i] = h.Start(name, operands...)
	}
	tok := NewToken(name, operands...)
	tok.state = inner
	return tok
}

func (m multiHook) Stop(tok Token) {
	inner, ok := tok.state.([]Token)
	if !ok {
		return
	}
	for i := len(m) - 1; i >= 0; i-- {
		m[i].Stop(inner[i])
	}
}
