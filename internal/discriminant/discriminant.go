// Package discriminant derives class-group discriminants from seeds.
package discriminant

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// MinBits is the smallest accepted discriminant size.
const MinBits = 8

// MaxAttempts bounds the candidate search.
const MaxAttempts = 1 << 16

// ErrExhausted is returned when no prime turns up within MaxAttempts.
var ErrExhausted = errors.New("discriminant: attempt budget exhausted")

// primeRounds is the Miller-Rabin round count passed to ProbablyPrime.
const primeRounds = 32

// FromSeed returns D = -p for the first prime p of exactly bits bits with
// p = 7 (mod 8) drawn from SHAKE256(seed || counter), counter = 0, 1, ...
// D is then 1 (mod 8). The result depends only on seed and bits.
func FromSeed(seed []byte, bits int) (*big.Int, error) {
	if bits < MinBits {
		return nil, fmt.Errorf("discriminant: %d bits is below the minimum of %d", bits, MinBits)
	}

	size := (bits + 7) / 8
	buf := make([]byte, size)
	var ctr [4]byte
	p := new(big.Int)
	for i := range uint32(MaxAttempts) {
		binary.BigEndian.PutUint32(ctr[:], i)
		h := sha3.NewShake256()
		_, _ = h.Write(seed)
		_, _ = h.Write(ctr[:])
		_, _ = h.Read(buf)

		candidate(p, buf, bits)
		if p.ProbablyPrime(primeRounds) {
			return p.Neg(p), nil
		}
	}
	return nil, fmt.Errorf("%w (%d bits)", ErrExhausted, bits)
}

// candidate loads buf into p, trims it to bits bits, sets the top bit and
// forces p = 7 (mod 8).
func candidate(p *big.Int, buf []byte, bits int) {
	p.SetBytes(buf)
	if extra := len(buf)*8 - bits; extra > 0 {
		p.Rsh(p, uint(extra))
	}
	p.SetBit(p, bits-1, 1)
	p.SetBit(p, 0, 1)
	p.SetBit(p, 1, 1)
	p.SetBit(p, 2, 1)
}
