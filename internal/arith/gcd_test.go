package arith

import (
	"errors"
	"math/big"
	"math/rand/v2"
	"testing"
)

func refGCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

func checkBezout(t *testing.T, a, b *big.Int) {
	t.Helper()
	bz := XGCD(a, b)
	lhs := new(big.Int).Mul(a, bz.X)
	lhs.Add(lhs, new(big.Int).Mul(b, bz.Y))
	if lhs.Cmp(bz.G) != 0 {
		t.Fatalf("XGCD(%s, %s): a*x + b*y = %s, g = %s", a, b, lhs, bz.G)
	}
	if bz.G.Sign() < 0 {
		t.Fatalf("XGCD(%s, %s): negative gcd %s", a, b, bz.G)
	}
	if want := refGCD(a, b); bz.G.Cmp(want) != 0 {
		t.Fatalf("XGCD(%s, %s): g = %s, want %s", a, b, bz.G, want)
	}
	if g := GCD(a, b); g.Cmp(bz.G) != 0 {
		t.Fatalf("GCD(%s, %s) = %s, XGCD gives %s", a, b, g, bz.G)
	}
}

func TestXGCDSmall(t *testing.T) {
	for a := int64(-25); a <= 25; a++ {
		for b := int64(-25); b <= 25; b++ {
			checkBezout(t, bi(a), bi(b))
		}
	}
}

func TestXGCDRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 10))
	for range 3000 {
		checkBezout(t, randBig(r, 512), randBig(r, 512))
	}
}

func TestXGCDZero(t *testing.T) {
	bz := XGCD(bi(0), bi(0))
	if bz.G.Sign() != 0 {
		t.Fatalf("XGCD(0, 0).G = %s, want 0", bz.G)
	}
	bz = XGCD(bi(0), bi(-9))
	if bz.G.Cmp(bi(9)) != 0 || bz.Y.Cmp(bi(-1)) != 0 {
		t.Fatalf("XGCD(0, -9) = (%s, %s, %s), want (9, _, -1)", bz.G, bz.X, bz.Y)
	}
}

func TestXGCDDoesNotMutate(t *testing.T) {
	a, b := bi(240), bi(46)
	XGCD(a, b)
	GCD(a, b)
	if a.Cmp(bi(240)) != 0 || b.Cmp(bi(46)) != 0 {
		t.Fatalf("arguments mutated: a=%s b=%s", a, b)
	}
}

func TestModInverse(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 12))
	checked := 0
	for checked < 1000 {
		m := randBig(r, 256)
		x := randBig(r, 256)
		if m.Sign() == 0 || refGCD(x, m).Cmp(bigOne) != 0 {
			continue
		}
		inv, err := ModInverse(x, m)
		if err != nil {
			t.Fatalf("ModInverse(%s, %s) error: %v", x, m, err)
		}
		mAbs := new(big.Int).Abs(m)
		got := new(big.Int).Mul(inv, x)
		got.Mod(got, mAbs)
		want := new(big.Int).Mod(bigOne, mAbs)
		if got.Cmp(want) != 0 {
			t.Fatalf("ModInverse(%s, %s) = %s: product mod m = %s", x, m, inv, got)
		}
		checked++
	}
}

func TestModInverseNotInvertible(t *testing.T) {
	_, err := ModInverse(bi(4), bi(6))
	if !errors.Is(err, ErrNotInvertible) {
		t.Fatalf("ModInverse(4, 6) err = %v, want ErrNotInvertible", err)
	}
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("ModInverse(4, 6) err = %v should wrap ErrPrecondition", err)
	}
}
