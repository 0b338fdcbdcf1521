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

//go:build radixpacked

package signature

import "github.com/jaskij/vampire/internal/numeric"

// radixBase must exceed the maximum possible count of any single digit
// across the widest legal input (20 decimal digits), so no digit count
// ever carries into its neighbor.
const radixBase Sig = 32

// setDig builds the radix-packed signature of n: nine base-radixBase
// numerals, one per nonzero digit 1..9, packed most-significant-digit
// first so that addition still sums per-digit counts without carrying.
func setDig(n numeric.Fang) Sig {
	var counts [10]Sig
	for i := n; i > 0; i /= 10 {
		counts[i%10]++
	}
	var ret Sig
	for digit := 1; digit < 10; digit++ {
		ret = ret*radixBase + counts[digit]
	}
	return ret
}
