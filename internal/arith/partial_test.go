package arith

import (
	"math/big"
	"math/rand/v2"
	"testing"
)

func checkPartial(t *testing.T, a, b, L *big.Int) Partial {
	t.Helper()
	p := PartialXGCD(a, b, L)

	lhs := new(big.Int).Mul(p.U, p.X)
	lhs.Add(lhs, new(big.Int).Mul(p.V, p.Y))
	if lhs.Cmp(a) != 0 {
		t.Fatalf("PartialXGCD(%s, %s, %s): u*x + v*y = %s, want %s", a, b, L, lhs, a)
	}
	if g, want := refGCD(p.U, p.V), refGCD(a, b); g.Cmp(want) != 0 {
		t.Fatalf("PartialXGCD(%s, %s, %s): gcd(u, v) = %s, want %s", a, b, L, g, want)
	}
	if g := refGCD(p.X, p.Y); g.Cmp(bigOne) != 0 {
		t.Fatalf("PartialXGCD(%s, %s, %s): gcd(x, y) = %s, want 1", a, b, L, g)
	}
	if p.U.Sign() != 0 && p.V.CmpAbs(L) > 0 {
		t.Fatalf("PartialXGCD(%s, %s, %s): stopped early with u=%s v=%s", a, b, L, p.U, p.V)
	}
	return p
}

func TestPartialXGCDSmall(t *testing.T) {
	for a := int64(-20); a <= 20; a++ {
		for b := int64(-20); b <= 20; b++ {
			for _, L := range []int64{0, 1, 3, 10} {
				checkPartial(t, bi(a), bi(b), bi(L))
			}
		}
	}
}

func TestPartialXGCDRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(13, 14))
	for range 2000 {
		a := randBig(r, 400)
		b := randBig(r, 400)
		L := new(big.Int).Abs(randBig(r, 200))
		checkPartial(t, a, b, L)
	}
}

func TestPartialXGCDStopsAtBound(t *testing.T) {
	// |b| already within the bound: nothing to do.
	p := checkPartial(t, bi(1000), bi(7), bi(10))
	if p.Steps != 0 || p.U.Cmp(bi(1000)) != 0 || p.V.Cmp(bi(7)) != 0 {
		t.Fatalf("expected untouched input, got u=%s v=%s steps=%d", p.U, p.V, p.Steps)
	}

	// L = 0 runs the reduction to completion.
	p = checkPartial(t, bi(240), bi(46), bi(0))
	if p.U.Sign() != 0 {
		t.Fatalf("expected u = 0 with L = 0, got u=%s", p.U)
	}
	if p.V.CmpAbs(bi(2)) != 0 {
		t.Fatalf("expected |v| = gcd = 2, got v=%s", p.V)
	}
}

func TestPartialXGCDLargeBoundFewerSteps(t *testing.T) {
	r := rand.New(rand.NewPCG(15, 16))
	for range 200 {
		a := new(big.Int).Abs(randBig(r, 256))
		b := new(big.Int).Abs(randBig(r, 256))
		full := PartialXGCD(a, b, bi(0))
		early := PartialXGCD(a, b, new(big.Int).Lsh(bigOne, 64))
		if early.Steps > full.Steps {
			t.Fatalf("bounded run took %d steps, full run %d", early.Steps, full.Steps)
		}
	}
}
