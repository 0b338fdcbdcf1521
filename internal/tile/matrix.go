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

package tile

import "github.com/jaskij/vampire/internal/numeric"

// Matrix is the ordered sequence of tiles covering one length-band, plus
// the two monotone cursors: Unfinished (next tile to claim) and Cleanup
// (next tile to commit). 0 <= Cleanup <= Unfinished <= len(Tiles) holds at
// all times.
type Matrix struct {
	Tiles      []*Tile
	Unfinished int
	Cleanup    int
	Fmax       numeric.Fang
}

// NewMatrix builds the matrix for band [lmin, lmax]: fmax is derived from
// the fang length of the band, lmax is clamped to fmax^2 when that's
// tighter, and the band is sliced into tile_size-sized contiguous tiles
// where tile_size is chosen so each of threads workers sees several tiles.
func NewMatrix(lmin, lmax numeric.Vamp, threads int, maxTileSize numeric.Vamp) *Matrix {
	fangLength := numeric.DigitLength(lmin) / 2

	// fmax is the largest fang value actually usable at this length: the
	// inclusive top of the decimal range (10^fangLength - 1), or FangMax
	// itself when the decimal range would overflow Fang.
	var fmax numeric.Fang
	if fangLength == numeric.DigitLength(numeric.FangMax) {
		fmax = numeric.FangMax
	} else {
		fmax = numeric.Pow10[numeric.Fang](fangLength) - 1
	}

	if fmax < numeric.FangMax {
		fmaxSquare := numeric.Vamp(fmax) * numeric.Vamp(fmax)
		if lmax > fmaxSquare && lmin <= fmaxSquare {
			lmax = fmaxSquare
		}
	}

	tileSize := tileSize(lmin, lmax, threads, maxTileSize)

	divisor := tileSize
	if tileSize < numeric.VampMax {
		divisor++
	}
	size := int(numeric.DivRoof(lmax-lmin+1, divisor))

	tiles := make([]*Tile, size)
	x := 0
	iterator := tileSize
	for i := lmin; i <= lmax; i += iterator + 1 {
		if lmax-i < tileSize {
			iterator = lmax - i
		}
		tiles[x] = &Tile{Lmin: i, Lmax: i + iterator}
		x++
		if i == lmax {
			break
		}
		if i+iterator == numeric.VampMax {
			break
		}
	}
	tiles[len(tiles)-1].Lmax = lmax

	return &Matrix{Tiles: tiles, Fmax: fmax}
}

// tileSize picks (lmax-lmin)/(4*threads+2), clamped to maxTileSize: the
// 4T+2 factor gives each worker several tiles for load balance and
// checkpoint granularity without over-fragmenting the band.
func tileSize(lmin, lmax numeric.Vamp, threads int, maxTileSize numeric.Vamp) numeric.Vamp {
	size := (lmax - lmin) / numeric.Vamp(4*threads+2)
	if size > maxTileSize {
		size = maxTileSize
	}
	return size
}

// Size is the number of tiles in the matrix.
func (m *Matrix) Size() int { return len(m.Tiles) }

// Claim returns the next unclaimed tile under the caller-held read lock's
// discipline (the caller is responsible for holding that lock across this
// call), or ok=false once every tile has been claimed.
func (m *Matrix) Claim() (t *Tile, ok bool) {
	if m.Unfinished >= len(m.Tiles) {
		return nil, false
	}
	t = m.Tiles[m.Unfinished]
	m.Unfinished++
	return t, true
}

// ReadyToCommit reports whether the tile at the cleanup cursor has
// completed and can be emitted; the caller must hold the write lock.
func (m *Matrix) ReadyToCommit() bool {
	return m.Cleanup < len(m.Tiles) && m.Tiles[m.Cleanup].Complete
}

// Commit returns the tile at the cleanup cursor and advances it, freeing
// the slot. The caller must hold the write lock and must have already
// checked ReadyToCommit.
func (m *Matrix) Commit() *Tile {
	t := m.Tiles[m.Cleanup]
	m.Tiles[m.Cleanup] = nil
	m.Cleanup++
	return t
}
