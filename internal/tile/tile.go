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

// Package tile implements the Tile and Matrix types: the unit of work a
// worker claims, and the ordered collection of tiles covering one
// length-band plus the two monotone cursors that let workers commit
// results in tile-index order regardless of completion order.
package tile

import (
	"github.com/jaskij/vampire/internal/numeric"
	"github.com/jaskij/vampire/internal/resultbuf"
)

// Pair is one reported (product, multiplier, multiplicand) triple, used by
// the dump-pairs output mode.
type Pair struct {
	Product                  numeric.Vamp
	Multiplier, Multiplicand numeric.Fang
}

// Tile is an owned record describing a contiguous sub-interval of a band
// and its eventual output. Exactly one of the fields below is populated,
// depending on which output mode the driver is running; all are set
// exactly once, at scan completion, and Complete transitions false->true
// exactly once.
type Tile struct {
	Lmin, Lmax numeric.Vamp
	Complete   bool

	// Result holds deduplicated, ordered vampire numbers (enumerate-vampires).
	Result *resultbuf.Buffer
	// Pairs holds every reported fang pair, undeduplicated (dump-pairs).
	Pairs []Pair
	// CountVamps holds a distinct-vampire count (count-vampires).
	CountVamps uint64
	// CountPairs holds a fang-pair count, undeduplicated (count-pairs).
	CountPairs uint64
}
