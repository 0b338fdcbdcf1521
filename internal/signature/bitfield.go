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

//go:build !radixpacked

package signature

import "github.com/jaskij/vampire/internal/numeric"

// bitMult is the per-digit bit width. 7 bits per nonzero digit (9 digits,
// 63 bits total) never overflows a 64-bit signature for any input up to 20
// decimal digits, the width of numeric.Vamp: no digit count can reach 2^7.
const bitMult = 7

// setDig builds the bitfield signature of n: each nonzero digit d
// contributes 1<<((d-1)*bitMult), so addition of two signatures sums
// per-digit counts without carrying between digits.
func setDig(n numeric.Fang) Sig {
	var ret Sig
	for i := n; i > 0; i /= 10 {
		digit := i % 10
		if digit >= 1 {
			ret += Sig(1) << ((digit - 1) * bitMult)
		}
	}
	return ret
}
