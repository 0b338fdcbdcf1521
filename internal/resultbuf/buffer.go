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

// Package resultbuf is the per-tile ordered result buffer. A scan drains its
// dedup.Tree more than once per tile (at every qualifying multiplier
// boundary, then once unconditionally at the end). Each drain removes every
// resident value at or above its threshold, so whatever survives into the
// next batch sits strictly below everything already collected. Prepending
// each new (internally ascending) batch ahead of the ones already buffered
// therefore keeps the whole thing in ascending order, the same trick the
// prepend-then-reverse linked list plays within a single batch, applied one
// level up, across batches.
package resultbuf

import "github.com/jaskij/vampire/internal/dedup"

// Buffer accumulates dedup.Entry values across one or more drains of a
// tile's dedup tree. The original C implementation backs this with a
// chunked linked list sized to avoid large reallocations under malloc; a
// plain growable slice is the idiomatic Go equivalent and only ever lives
// for the lifetime of one tile.
type Buffer struct {
	entries []dedup.Entry
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// Prepend adds entries (already in ascending order, as produced by one
// dedup.Tree.Drain call) ahead of whatever this buffer already holds. Callers
// must call this once per drain, in the order the drains happen.
func (b *Buffer) Prepend(entries []dedup.Entry) {
	if len(entries) == 0 {
		return
	}
	merged := make([]dedup.Entry, 0, len(entries)+len(b.entries))
	merged = append(merged, entries...)
	merged = append(merged, b.entries...)
	b.entries = merged
}

// Len returns the number of distinct vampires recorded.
func (b *Buffer) Len() int { return len(b.entries) }

// Entries returns the buffer's contents in ascending product order.
func (b *Buffer) Entries() []dedup.Entry { return b.entries }
