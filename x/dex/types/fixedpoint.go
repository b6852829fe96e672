package types

import (
	"math/big"

	"cosmossdk.io/math"
)

// Fixed-point primitives shared by the pricing paths. All intermediate
// products go through big.Int so MulDiv cannot overflow the 256-bit
// math.Int width before the division is applied.

// MulDiv computes a * b / scale without intermediate overflow.
// Returns ErrArithmetic on a zero or negative scale.
func MulDiv(a, b, scale math.Int) (math.Int, error) {
	if scale.IsNil() || scale.IsZero() || scale.IsNegative() {
		return math.ZeroInt(), ErrArithmetic.Wrap("mulDiv: scale must be positive")
	}
	if a.IsNil() || b.IsNil() {
		return math.ZeroInt(), ErrArithmetic.Wrap("mulDiv: nil operand")
	}

	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	quotient := product.Quo(product, scale.BigInt())

	if quotient.BitLen() > math.MaxBitLen {
		return math.ZeroInt(), ErrArithmetic.Wrap("mulDiv: result out of range")
	}
	return math.NewIntFromBigInt(quotient), nil
}

// Sqrt returns the integer square root of x via Newton's method. The
// iteration is fully deterministic: the same input always converges to the
// same floor(sqrt(x)).
func Sqrt(x math.Int) (math.Int, error) {
	if x.IsNil() || x.IsNegative() {
		return math.ZeroInt(), ErrArithmetic.Wrap("sqrt: negative input")
	}
	if x.IsZero() {
		return math.ZeroInt(), nil
	}

	n := x.BigInt()
	// Initial guess: 2^(ceil(bitlen/2)), always >= sqrt(n).
	guess := new(big.Int).Lsh(big.NewInt(1), uint(n.BitLen()+1)/2)
	for {
		// next = (guess + n/guess) / 2
		next := new(big.Int).Quo(n, guess)
		next.Add(next, guess)
		next.Rsh(next, 1)
		if next.Cmp(guess) >= 0 {
			return math.NewIntFromBigInt(guess), nil
		}
		guess = next
	}
}

// Clamp bounds x to [min, max].
func Clamp(x, min, max math.LegacyDec) math.LegacyDec {
	if x.LT(min) {
		return min
	}
	if x.GT(max) {
		return max
	}
	return x
}

// SafeAddInt adds two Ints, converting the overflow panic of the 256-bit
// representation into ErrArithmetic.
func SafeAddInt(a, b math.Int) (res math.Int, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = math.ZeroInt()
			err = ErrArithmetic.Wrapf("add overflow: %s + %s", a, b)
		}
	}()
	return a.Add(b), nil
}

// SafeSubInt subtracts b from a, rejecting negative results. Reserve and
// liquidity balances are never allowed below zero.
func SafeSubInt(a, b math.Int) (math.Int, error) {
	res := a.Sub(b)
	if res.IsNegative() {
		return math.ZeroInt(), ErrArithmetic.Wrapf("sub underflow: %s - %s", a, b)
	}
	return res, nil
}
