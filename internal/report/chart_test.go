package report

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"

	"quadform/internal/chain"
	"quadform/internal/form"
	"quadform/internal/meter"
)

func TestWriteChart(t *testing.T) {
	params, err := chain.Setup(big.NewInt(-108751))
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	c := meter.NewCounter()
	sq := chain.Squarer{Name: "literal", Params: params, Hook: c}
	res, err := sq.Run(context.Background(), form.FromInt64(20, 7, 1360), 11)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	rep := c.Snapshot()

	var buf bytes.Buffer
	if err := WriteChart(&buf, "nudupl", []chain.Result{res}, &rep); err != nil {
		t.Fatalf("WriteChart: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<html", "nudupl: literal", "bitlen(a)", "routine calls", meter.RoutineSquare} {
		if !strings.Contains(html, want) {
			t.Fatalf("chart html missing %q", want)
		}
	}
}

func TestWriteChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteChart(&buf, "empty", nil, nil); err != nil {
		t.Fatalf("WriteChart: %v", err)
	}
	if strings.Contains(buf.String(), "routine calls") {
		t.Fatalf("empty report rendered a call chart")
	}
}
