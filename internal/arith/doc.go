// Package arith implements the exact integer kernel used by quadratic form
// composition: minimal-remainder division, extended and partial extended
// Euclid, and the linear Diophantine solver built on them.
//
// Every routine takes *big.Int arguments, never mutates them, and returns
// freshly allocated results, so the package is safe for concurrent use
// without locking.
//
// Division conventions follow floor division: a remainder carries the sign
// of its divisor. The "minimal" variants then move the remainder into
// [-|b|/2, |b|/2].
package arith
