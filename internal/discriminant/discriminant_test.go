package discriminant

import (
	"math/big"
	"testing"
)

func TestFromSeed(t *testing.T) {
	eight := big.NewInt(8)
	for _, bits := range []int{8, 9, 16, 63, 64, 128, 255, 512} {
		d, err := FromSeed([]byte("quadform"), bits)
		if err != nil {
			t.Fatalf("FromSeed(%d) error: %v", bits, err)
		}
		if d.Sign() >= 0 {
			t.Fatalf("FromSeed(%d) = %s, want negative", bits, d)
		}
		p := new(big.Int).Neg(d)
		if p.BitLen() != bits {
			t.Fatalf("FromSeed(%d): |D| has %d bits", bits, p.BitLen())
		}
		if m := new(big.Int).Mod(d, eight); m.Int64() != 1 {
			t.Fatalf("FromSeed(%d) = %s is %s mod 8, want 1", bits, d, m)
		}
		if !p.ProbablyPrime(20) {
			t.Fatalf("FromSeed(%d): %s is not prime", bits, p)
		}
	}
}

func TestFromSeedDeterministic(t *testing.T) {
	a, err := FromSeed([]byte{1, 2, 3}, 128)
	if err != nil {
		t.Fatalf("FromSeed error: %v", err)
	}
	b, _ := FromSeed([]byte{1, 2, 3}, 128)
	if a.Cmp(b) != 0 {
		t.Fatalf("same seed gave %s and %s", a, b)
	}
	c, _ := FromSeed([]byte{1, 2, 4}, 128)
	if a.Cmp(c) == 0 {
		t.Fatalf("different seeds gave the same discriminant %s", a)
	}
}

func TestFromSeedRejectsSmall(t *testing.T) {
	if _, err := FromSeed(nil, MinBits-1); err == nil {
		t.Fatalf("FromSeed(%d bits) succeeded", MinBits-1)
	}
}
