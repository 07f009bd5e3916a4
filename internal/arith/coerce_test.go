package arith

import (
	"math/big"
	"testing"
)

type wrapped struct{ v *big.Int }

func (w wrapped) Big() *big.Int { return w.v }

func TestPlain(t *testing.T) {
	huge, _ := new(big.Int).SetString("-340282366920938463463374607431768211457", 10)
	cases := []struct {
		name string
		in   any
		want *big.Int
	}{
		{"int", 42, bi(42)},
		{"int64", int64(-7), bi(-7)},
		{"uint64", uint64(1) << 63, new(big.Int).Lsh(bigOne, 63)},
		{"decimal string", "-108751", bi(-108751)},
		{"hex string", "0xff", bi(255)},
		{"underscores", "1_000_000", bi(1_000_000)},
		{"fullwidth", "－１０８７５１", bi(-108751)},
		{"big pointer", huge, huge},
		{"big value", *big.NewInt(9), bi(9)},
		{"wrapper", wrapped{v: bi(13)}, bi(13)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Plain(tc.in)
			if err != nil {
				t.Fatalf("Plain(%v) error: %v", tc.in, err)
			}
			if got.Cmp(tc.want) != 0 {
				t.Fatalf("Plain(%v) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestPlainDoesNotAlias(t *testing.T) {
	src := bi(5)
	got, err := Plain(src)
	if err != nil {
		t.Fatalf("Plain error: %v", err)
	}
	got.SetInt64(6)
	if src.Cmp(bi(5)) != 0 {
		t.Fatalf("Plain result aliases its input")
	}
}

func TestPlainRejects(t *testing.T) {
	for _, in := range []any{nil, "twelve", 1.5, wrapped{}} {
		if _, err := Plain(in); err == nil {
			t.Fatalf("Plain(%v) succeeded, want error", in)
		}
	}
}
