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

// Package signature implements the digit-signature cache: a precomputed
// table mapping a small integer to a packed digit-multiset signature, such
// that the signature of a concatenation is the sum of the signatures of
// its parts. Two packings are available (bitfield, the default, and
// radix-packed, selected with the "radixpacked" build tag); both satisfy
// the same additive contract, so every other package only depends on Sig
// and Cache, never on which packing is active.
package signature

import "github.com/jaskij/vampire/internal/numeric"

// Sig is a packed nonzero-digit-multiset signature. Zero digits are never
// represented, which is what makes the trailing-zero rule checkable
// separately from digit-multiset equality.
type Sig = uint64

// Cache is an immutable table of signatures, safely shareable across
// workers without synchronization once built.
type Cache struct {
	dig    []Sig
	size   numeric.Fang
	powerA numeric.Fang
}

// Build constructs the cache sized for inputs up to max. For max of
// decimal length L=2n, size = 10^(L-2*floor(L/3)) and powerA =
// 10^floor(L/3), except that powerA = size when floor(L/3) < 3, so any
// fang of length n splits as f = q*powerA + r with q, r < size, and
// products split into three such limbs.
func Build(max numeric.Vamp) *Cache {
	length := numeric.DigitLength(max)
	lengthA := length / 3
	lengthB := length - 2*lengthA

	size := numeric.Pow10[numeric.Fang](lengthB)

	var powerA numeric.Fang
	if lengthA < 3 {
		powerA = size
	} else {
		powerA = numeric.Pow10[numeric.Fang](lengthA)
	}

	dig := make([]Sig, size)
	for d := numeric.Fang(0); d < size; d++ {
		dig[d] = setDig(d)
	}

	return &Cache{dig: dig, size: size, powerA: powerA}
}

// Size is the number of entries in the table (and the upper bound a value
// must stay under to be used as a direct table index).
func (c *Cache) Size() numeric.Fang { return c.size }

// PowerA is the scaling factor used to split a value into two limbs for
// table lookup: v = q*PowerA + r.
func (c *Cache) PowerA() numeric.Fang { return c.powerA }

// At returns the signature of a value already known to be < Size(); it is
// the hot-path primitive search.Scan composes into the 2- and 3-limb
// lookups described on Build.
func (c *Cache) At(idx numeric.Fang) Sig { return c.dig[idx] }

// Of computes the signature of an arbitrary value by splitting it into
// limbs through PowerA and summing cached entries, falling back to direct
// computation if the value doesn't fit the table's assumed input width.
// search.Scan does not call Of: it indexes the table with At and uses
// SetDig for the multiplier when the multiplier can fall outside the table.
func (c *Cache) Of(v numeric.Fang) Sig {
	q := v / c.powerA
	r := v % c.powerA
	if q < c.size && r < c.size {
		return c.dig[q] + c.dig[r]
	}
	return setDig(v)
}

// SetDig computes a signature directly, without any table lookup. Exposed
// for the rare cold-path case (search.scan's multiplier signature when the
// multiplier falls outside the cache's direct-index range).
func SetDig(v numeric.Fang) Sig { return setDig(v) }
