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

// Package sink provides search.Sink implementations for the four output
// modes: count-pairs and dump-pairs act directly on every reported fang
// pair, while count-vampires and enumerate-vampires buffer through a
// dedup.Tree so that each distinct vampire number is counted or emitted
// exactly once, with its fang-pair multiplicity, in ascending order.
package sink

import (
	"fmt"
	"io"

	"github.com/jaskij/vampire/internal/dedup"
	"github.com/jaskij/vampire/internal/numeric"
	"github.com/jaskij/vampire/internal/resultbuf"
)

// CountPairs tallies every reported fang pair without deduplicating by
// product: a vampire number with three fang pairs contributes three to the
// total.
type CountPairs struct {
	Count uint64
}

func (c *CountPairs) Report(numeric.Vamp, numeric.Fang, numeric.Fang) { c.Count++ }
func (c *CountPairs) Drain(numeric.Vamp)                              {}

// DumpPairs writes every reported fang pair to w, one line each, in the
// order the scan kernel finds them (multiplier descending, multiplicand
// ascending within a multiplier).
type DumpPairs struct {
	W   io.Writer
	Err error
}

func (d *DumpPairs) Report(product numeric.Vamp, multiplier, multiplicand numeric.Fang) {
	if d.Err != nil {
		return
	}
	_, d.Err = fmt.Fprintf(d.W, "%d = %d x %d\n", product, multiplier, multiplicand)
}
func (d *DumpPairs) Drain(numeric.Vamp) {}

// CountVampires deduplicates reported pairs by product through tree and
// adds each distinct survivor to Count once its tree entry is drained.
type CountVampires struct {
	tree     *dedup.Tree
	minPairs uint32
	Count    uint64

	scratch []dedup.Entry
}

// NewCountVampires returns a sink requiring at least minPairs fang pairs
// (1 for plain vampire numbers, higher when set through the -pairs filter)
// for a product to count.
func NewCountVampires(minPairs uint32) *CountVampires {
	return &CountVampires{tree: dedup.New(0), minPairs: minPairs}
}

func (c *CountVampires) Report(product numeric.Vamp, _, _ numeric.Fang) {
	c.tree.Insert(product)
}

func (c *CountVampires) Drain(threshold numeric.Vamp) {
	c.scratch = c.tree.Drain(threshold, c.minPairs, c.scratch[:0])
	c.Count += uint64(len(c.scratch))
}

// EnumerateVampires deduplicates reported pairs the same way CountVampires
// does, but buffers the drained (value, fang_pairs) entries into buf in
// ascending order instead of only counting them.
type EnumerateVampires struct {
	tree     *dedup.Tree
	minPairs uint32
	Buf      *resultbuf.Buffer

	scratch []dedup.Entry
}

// NewEnumerateVampires returns a sink that records every distinct vampire
// number with at least minPairs fang pairs into a fresh result buffer.
func NewEnumerateVampires(minPairs uint32) *EnumerateVampires {
	return &EnumerateVampires{tree: dedup.New(0), minPairs: minPairs, Buf: resultbuf.New()}
}

func (e *EnumerateVampires) Report(product numeric.Vamp, _, _ numeric.Fang) {
	e.tree.Insert(product)
}

func (e *EnumerateVampires) Drain(threshold numeric.Vamp) {
	e.scratch = e.tree.Drain(threshold, e.minPairs, e.scratch[:0])
	e.Buf.Prepend(e.scratch)
}
