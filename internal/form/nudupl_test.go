package form

import (
	"errors"
	"math/big"
	"testing"

	"quadform/internal/arith"
)

// Powers f0^(2^k) for f0 = (20, 7, 1360), discriminant -108751, class number
// 231; reference values from PARI/GP.
var squareChain = []Form{
	FromInt64(68, -7, 400),
	FromInt64(161, 27, 170),
	FromInt64(10, 7, 2720),
	FromInt64(100, 7, 272),
	FromInt64(19, -9, 1432),
	FromInt64(98, 15, 278),
	FromInt64(145, 17, 188),
	FromInt64(38, -9, 716),
	FromInt64(160, 57, 175),
	FromInt64(118, -35, 233),
	FromInt64(73, -47, 380),
}

func TestSquareChain(t *testing.T) {
	f := FromInt64(20, 7, 1360)
	for i, want := range squareChain {
		got, err := Square(f, nil)
		if err != nil {
			t.Fatalf("step %d: Square(%s) error: %v", i, f, err)
		}
		if !got.Equal(want) {
			t.Fatalf("step %d: Square(%s) = %s, want %s", i, f, got, want)
		}
		f = got
	}
}

func TestSquareChainPrecomputedBound(t *testing.T) {
	f := FromInt64(20, 7, 1360)
	L := Bound(f.Discriminant())
	if L.Cmp(big.NewInt(12)) != 0 {
		t.Fatalf("Bound(-108751) = %s, want 12", L)
	}
	for i, want := range squareChain {
		got, err := Square(f, L)
		if err != nil {
			t.Fatalf("step %d: Square(%s) error: %v", i, f, err)
		}
		if !got.Equal(want) {
			t.Fatalf("step %d: Square(%s) = %s, want %s", i, f, got, want)
		}
		f = got
	}
}

func TestSquareLargeDiscriminant(t *testing.T) {
	// -(2^127 - 1): a prime discriminant, 1 mod 8.
	p := new(big.Int).Lsh(big.NewInt(1), 127)
	p.Sub(p, big.NewInt(1))
	d := new(big.Int).Neg(p)

	c := new(big.Int).Lsh(big.NewInt(1), 124) // (1 - D) / 8
	f := Form{A: big.NewInt(2), B: big.NewInt(1), C: c}
	if f.Discriminant().Cmp(d) != 0 {
		t.Fatalf("generator discriminant = %s, want %s", f.Discriminant(), d)
	}

	L := Bound(d)
	for i := range 300 {
		next, err := Square(f, L)
		if err != nil {
			t.Fatalf("step %d: Square(%s) error: %v", i, f, err)
		}
		if next.Discriminant().Cmp(d) != 0 {
			t.Fatalf("step %d: discriminant drifted to %s", i, next.Discriminant())
		}
		if next.A.Sign() <= 0 || next.C.Sign() <= 0 {
			t.Fatalf("step %d: form %s is not positive definite", i, next)
		}
		if !next.IsReduced() {
			t.Fatalf("step %d: %s is not reduced", i, next)
		}
		f = next
	}
}

func TestSquareSecondReductionPass(t *testing.T) {
	// A single swap and shift leaves (1814354460, 2168770949, 2346380851)
	// here, with b > a.
	f := FromInt64(1460939994, -1240735139, 2372534560)
	d := f.Discriminant()
	if d.String() != "-12325098818255421239" {
		t.Fatalf("discriminant = %s", d)
	}
	got, err := Square(f, Bound(d))
	if err != nil {
		t.Fatalf("Square(%s) error: %v", f, err)
	}
	want := FromInt64(1814354460, -1459937971, 1991964362)
	if !got.Equal(want) {
		t.Fatalf("Square(%s) = %s, want %s", f, got, want)
	}
	if !got.IsReduced() {
		t.Fatalf("Square(%s) = %s is not reduced", f, got)
	}
}

// Primes p = 7 (mod 8) just above powers of two, so D = -p has the
// generator (2, 1, (1 - D) / 8).
var chainPrimes = []string{
	"8388623",
	"2147483743",
	"549755813911",
	"140737488355879",
	"9223372036854776063",
	"604462909807314587353111",
	"39614081257132168796771975503",
	"170141183460469231731687303715884106031",
}

func TestSquareMatchesUnboundedComposition(t *testing.T) {
	// With L = |D| the partial reduction never runs, and Square reduces the
	// plain composition instead. Both roads must land on the same reduced
	// form.
	for _, ps := range chainPrimes {
		p, ok := new(big.Int).SetString(ps, 10)
		if !ok {
			t.Fatalf("bad prime %q", ps)
		}
		d := new(big.Int).Neg(p)
		c := new(big.Int).Add(p, big.NewInt(1))
		c.Rsh(c, 3)
		f := Form{A: big.NewInt(2), B: big.NewInt(1), C: c}

		L := Bound(d)
		for i := range 400 {
			got, err := Square(f, L)
			if err != nil {
				t.Fatalf("D=%s step %d: Square(%s) error: %v", d, i, f, err)
			}
			ref, err := Square(f, p)
			if err != nil {
				t.Fatalf("D=%s step %d: unbounded Square(%s) error: %v", d, i, f, err)
			}
			if !got.IsReduced() {
				t.Fatalf("D=%s step %d: Square(%s) = %s is not reduced", d, i, f, got)
			}
			if !got.Equal(ref) {
				t.Fatalf("D=%s step %d: Square(%s) = %s, unbounded composition gives %s", d, i, f, got, ref)
			}
			if got.Discriminant().Cmp(d) != 0 {
				t.Fatalf("D=%s step %d: discriminant drifted to %s", d, i, got.Discriminant())
			}
			f = got
		}
	}
}

func TestSquareIdentity(t *testing.T) {
	// The principal form squares to itself.
	f := FromInt64(1, 1, 27188) // discriminant -108751
	got, err := Square(f, nil)
	if err != nil {
		t.Fatalf("Square(%s) error: %v", f, err)
	}
	if !got.Equal(f) {
		t.Fatalf("Square(%s) = %s, want the principal form back", f, got)
	}
}

func TestSquareRejectsDegenerate(t *testing.T) {
	_, err := Square(FromInt64(0, 0, 5), nil)
	if !errors.Is(err, arith.ErrPrecondition) {
		t.Fatalf("Square((0, 0, 5)) err = %v, want ErrPrecondition", err)
	}
}

func TestSquareDoesNotMutate(t *testing.T) {
	f := FromInt64(20, 7, 1360)
	if _, err := Square(f, nil); err != nil {
		t.Fatalf("Square error: %v", err)
	}
	if !f.Equal(FromInt64(20, 7, 1360)) {
		t.Fatalf("Square mutated its argument: %s", f)
	}
}
