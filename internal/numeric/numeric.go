// Copyright (C) 2024 The vampire authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package numeric holds the two integer widths the search engine is built
// around and the digit/power arithmetic shared by the cache, tile, and
// search packages.
package numeric

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Vamp is the product width: it must be at least double the width of Fang
// so that a fang product never overflows.
type Vamp = uint64

// Fang is the factor width.
type Fang = uint32

// VampMax and FangMax bound the legal input domain. fang_max <=
// sqrt(vamp_max)+1 holds for these widths (2^32-1 <= sqrt(2^64-1)+1).
const (
	VampMax Vamp = math.MaxUint64
	FangMax Fang = math.MaxUint32
)

// Pow10 returns 10^exponent in T. Callers must ensure the result fits T;
// it is never checked at runtime in the hot paths that call it with
// pre-validated exponents.
func Pow10[T constraints.Unsigned](exponent int) T {
	var base T = 1
	for ; exponent > 0; exponent-- {
		base *= 10
	}
	return base
}

// DigitLength returns the number of decimal digits of x (always >= 1).
func DigitLength[T constraints.Unsigned](x T) int {
	n := 1
	for x > 9 {
		x /= 10
		n++
	}
	return n
}

// LengthOdd reports whether x has an odd number of decimal digits.
func LengthOdd[T constraints.Unsigned](x T) bool {
	return DigitLength(x)%2 == 1
}

// NoTrailingZero reports whether x's last decimal digit is non-zero.
func NoTrailingZero[T constraints.Unsigned](x T) bool {
	return x%10 != 0
}

// Con9 is the modulo-9 lack-of-congruence filter: it returns true when x
// and y cannot possibly be a fang pair's (multiplier, multiplicand)
// residues, because a vampire's digit-multiset identity forces
// (m+k) ≡ (m*k) (mod 9).
func Con9(x, y Vamp) bool {
	return (x+y)%9 != (x*y)%9
}

// DivRoof is ceiling integer division: ⌈x/y⌉.
func DivRoof(x, y Vamp) Vamp {
	q := x / y
	if x%y != 0 {
		q++
	}
	return q
}

// SqrtFloor computes ⌊√x⌋ via Newton's method on integers, returned as a
// Fang since no vampire fang can exceed FangMax by construction.
func SqrtFloor(x Vamp) Fang {
	if x == 0 {
		return 0
	}
	root := x / 2
	if root == 0 {
		return Fang(x)
	}
	for {
		tmp := (root + x/root) / 2
		if tmp >= root {
			break
		}
		root = tmp
	}
	return Fang(root)
}

// SqrtRoof computes ⌈√x⌉.
func SqrtRoof(x Vamp) Fang {
	root := SqrtFloor(x)
	if root == 0 || root == FangMax {
		return root
	}
	if Vamp(root)*Vamp(root) == x {
		return root
	}
	return root + 1
}

// willOverflow reports whether appending digit to x (i.e. 10*x+digit)
// would overflow Vamp, without computing 10*x first.
func willOverflow(x Vamp, digit uint8) bool {
	if x > VampMax/10 {
		return true
	}
	if x == VampMax/10 && Vamp(digit) > VampMax%10 {
		return true
	}
	return false
}

// ParseVamp parses a decimal natural number into Vamp, rejecting anything
// that would overflow or isn't all digits.
func ParseVamp(s string) (Vamp, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	var ret Vamp
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a decimal number: %q", s)
		}
		digit := c - '0'
		if willOverflow(ret, digit) {
			return 0, fmt.Errorf("input out of range: [0, %d]", VampMax)
		}
		ret = 10*ret + Vamp(digit)
	}
	return ret, nil
}

// NormalizeMin bumps an odd-length min up to the next even-length power of
// ten, since vampire numbers always have even decimal length.
func NormalizeMin(min, max Vamp) Vamp {
	if LengthOdd(min) {
		minLen := DigitLength(min)
		if minLen < DigitLength(max) {
			return Pow10[Vamp](minLen)
		}
		return max
	}
	return min
}

// NormalizeMax drops an odd-length max down to the largest even-length
// value below it.
func NormalizeMax(min, max Vamp) Vamp {
	if LengthOdd(max) {
		maxLen := DigitLength(max)
		if maxLen > DigitLength(min) {
			return Pow10[Vamp](maxLen-1) - 1
		}
		return min
	}
	return max
}

// BandMax returns the largest value sharing lmin's decimal length, clamped
// to max.
func BandMax(lmin, max Vamp) Vamp {
	if DigitLength(lmin) < DigitLength(VampMax) {
		lmax := Pow10[Vamp](DigitLength(lmin)) - 1
		if lmax < max {
			return lmax
		}
	}
	return max
}
