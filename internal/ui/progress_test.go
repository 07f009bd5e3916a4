package ui

import (
	"errors"
	"strings"
	"testing"

	"quadform/internal/chain"
	"quadform/internal/form"
)

func TestChainModelProgress(t *testing.T) {
	events := make(chan chain.Event)
	m := NewChainModel("squaring", []string{"a", "b"}, events).(*chainModel)

	m.Update(eventMsg{Name: "a", Step: 5, Total: 10, Status: chain.StatusWorking, Form: form.FromInt64(68, -7, 400)})
	if got := m.percent(); got != 0.25 {
		t.Fatalf("percent = %v, want 0.25", got)
	}
	m.Update(eventMsg{Name: "b", Step: 1, Total: 10, Status: chain.StatusError, Err: errors.New("boom")})
	if got := m.percent(); got != 0.75 {
		t.Fatalf("percent = %v, want 0.75", got)
	}
	// unknown names are ignored
	m.Update(eventMsg{Name: "zzz", Step: 1, Total: 1, Status: chain.StatusDone})

	view := m.View()
	for _, want := range []string{"squaring", "a 5/10 (68, -7, 400)", "boom", "error"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatalf("doneMsg did not finish the model")
	}
	if !strings.Contains(m.View(), "done: squaring") {
		t.Fatalf("final view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 8, "abcde..."},
		{"abcdef", 2, "ab"},
		{"平方平方平方", 7, "平方..."},
		{"anything", 0, "anything"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
