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

// Package search holds the scan kernel: the banded, cache-driven fang
// search that walks one tile's multiplier range and reports every fang
// pair whose concatenated digit multiset matches its product's.
package search

import (
	"github.com/jaskij/vampire/internal/numeric"
	"github.com/jaskij/vampire/internal/signature"
)

// Sink receives a tile's raw findings. Report is called once per
// (product, multiplier, multiplicand) triple that passes the digit-multiset
// and trailing-zero tests, in multiplier-descending, multiplicand-ascending
// order. Drain is called at each point in that order where scan can prove no
// later report will ever produce a product at or above threshold, and
// unconditionally (with threshold 0) once at scan's end.
//
// The count-pairs and dump-pairs sinks act on Report alone and leave Drain
// empty; the count-vampires and enumerate-vampires sinks buffer into a
// dedup.Tree on Report and flush it to an ordered result on Drain. Scan
// itself knows nothing about deduplication, only about when it is safe.
type Sink interface {
	Report(product numeric.Vamp, multiplier, multiplicand numeric.Fang)
	Drain(threshold numeric.Vamp)
}

// Scan walks multipliers from fmax down to ⌈√lmin⌉, skipping multipliers
// that fail the mod-9 congruence test outright, and for each surviving
// multiplier walks multiplicands in steps of 9 (the only step that
// preserves the congruence once the first candidate in the run is found).
// cache must have been built for a max at least as large as lmax's run.
func Scan(lmin, lmax numeric.Vamp, fmax numeric.Fang, cache *signature.Cache, sink Sink) {
	minSqrt := numeric.SqrtRoof(lmin)
	maxSqrt := numeric.SqrtFloor(lmax)
	powerA := cache.PowerA()

	// Loop-invariant across every iteration below: min_sqrt never changes
	// once the scan starts, so whether the multiplier's signature must be
	// looked up directly (cache covers it) or computed cold only depends on
	// the band, not on the current multiplier.
	multiplierInCache := minSqrt < cache.Size()

	for multiplier := fmax; ; multiplier-- {
		if multiplier < minSqrt {
			break
		}

		if multiplier%3 != 1 {
			multiplicandMax := multiplier
			if multiplier >= maxSqrt {
				multiplicandMax = numeric.Fang(lmax / numeric.Vamp(multiplier))
			}

			multiplicand := numeric.Fang(numeric.DivRoof(lmin, numeric.Vamp(multiplier)))
			for multiplicand <= multiplicandMax && numeric.Con9(numeric.Vamp(multiplier), numeric.Vamp(multiplicand)) {
				multiplicand++
			}

			if multiplicand <= multiplicandMax {
				product := scanRun(multiplier, multiplicand, multiplicandMax, powerA, cache, multiplierInCache, sink)

				if multiplier < maxSqrt && numeric.NoTrailingZero(multiplier) {
					sink.Drain(product)
				}
			}
		}

		if multiplier == 0 {
			break
		}
	}

	sink.Drain(0)
}

// scanRun walks one multiplier's congruent multiplicands, advancing by 9 and
// maintaining the product and its three signature limbs incrementally
// instead of recomputing them from scratch at every step. It returns the
// product one step past the last candidate: everything at or above it stays
// out of reach for every smaller multiplier, so it is the threshold Scan
// hands to Sink.Drain.
func scanRun(multiplier, multiplicand, multiplicandMax, powerA numeric.Fang, cache *signature.Cache, multiplierInCache bool, sink Sink) numeric.Vamp {
	multZero := numeric.NoTrailingZero(multiplier)

	productStep := numeric.Vamp(multiplier) * 9
	product := numeric.Vamp(multiplier) * numeric.Vamp(multiplicand)

	step0 := numeric.Fang(productStep % numeric.Vamp(powerA))
	step1 := numeric.Fang(productStep / numeric.Vamp(powerA))

	e0 := multiplicand % powerA
	e1 := multiplicand / powerA

	var digd signature.Sig
	if multiplierInCache {
		digd = cache.At(multiplier)
	} else {
		digd = signature.SetDig(multiplier)
	}

	de0 := numeric.Fang(product % numeric.Vamp(powerA))
	de1 := numeric.Fang((product / numeric.Vamp(powerA)) % numeric.Vamp(powerA))
	de2 := numeric.Fang((product / numeric.Vamp(powerA)) / numeric.Vamp(powerA))

	for multiplicand <= multiplicandMax {
		if digd+cache.At(e0)+cache.At(e1) == cache.At(de0)+cache.At(de1)+cache.At(de2) {
			if multZero || numeric.NoTrailingZero(multiplicand) {
				sink.Report(product, multiplier, multiplicand)
			}
		}

		e0 += 9
		if e0 >= powerA {
			e0 -= powerA
			e1++
		}

		de0 += step0
		if de0 >= powerA {
			de0 -= powerA
			de1++
		}
		de1 += step1
		if de1 >= powerA {
			de1 -= powerA
			de2++
		}

		product += productStep
		multiplicand += 9
	}
	return product
}
