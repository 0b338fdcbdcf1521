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

// Package dedup implements the per-tile deduplication tree: a self
// balancing BST keyed by product value that accumulates fang-pair
// multiplicities and can drain the values a scan has finished with into
// ascending order. A Tree is owned by exactly one worker at a time and is
// never shared.
package dedup

import "github.com/jaskij/vampire/internal/numeric"

const nilIdx = -1

type node struct {
	left, right int32
	height      int8
	value       numeric.Vamp
	fangPairs   uint32
}

// Entry is one drained (product, multiplicity) pair.
type Entry struct {
	Value     numeric.Vamp
	FangPairs uint32
}

// Tree is an AVL tree backed by an arena of nodes addressed by index,
// rather than pointers, so Clear can release every node in one slice
// truncation instead of walking and freeing a pointer graph.
type Tree struct {
	nodes []node
	free  []int32
	root  int32
	size  int
}

// New returns an empty tree, optionally pre-sizing its arena.
func New(capacityHint int) *Tree {
	return &Tree{
		nodes: make([]node, 0, capacityHint),
		root:  nilIdx,
	}
}

// Len reports the number of live entries.
func (t *Tree) Len() int { return t.size }

// Clear releases every node. The arena's backing array is kept so the next
// scan's inserts don't need to reallocate.
func (t *Tree) Clear() {
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.root = nilIdx
	t.size = 0
}

// Insert adds value to the tree, or increments its fang_pairs count if
// already present.
func (t *Tree) Insert(value numeric.Vamp) {
	t.root = t.insert(t.root, value)
}

func (t *Tree) insert(idx int32, value numeric.Vamp) int32 {
	if idx == nilIdx {
		return t.newNode(value)
	}
	// The recursive call may grow t.nodes, so the child index is stored by
	// re-indexing afterwards rather than through a pointer taken before it.
	switch cur := t.nodes[idx].value; {
	case value == cur:
		t.nodes[idx].fangPairs++
		return idx
	case value < cur:
		left := t.insert(t.nodes[idx].left, value)
		t.nodes[idx].left = left
	default:
		right := t.insert(t.nodes[idx].right, value)
		t.nodes[idx].right = right
	}
	t.resetHeight(idx)
	return t.balance(idx)
}

func (t *Tree) newNode(value numeric.Vamp) int32 {
	var idx int32
	if len(t.free) > 0 {
		idx = t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[idx] = node{left: nilIdx, right: nilIdx, value: value, fangPairs: 1}
	} else {
		idx = int32(len(t.nodes))
		t.nodes = append(t.nodes, node{left: nilIdx, right: nilIdx, value: value, fangPairs: 1})
	}
	t.size++
	return idx
}

func (t *Tree) childHeight(idx int32) int8 {
	if idx == nilIdx {
		return 0
	}
	return t.nodes[idx].height
}

func (t *Tree) resetHeight(idx int32) {
	n := &t.nodes[idx]
	n.height = 0
	if n.left != nilIdx && t.nodes[n.left].height >= n.height {
		n.height = t.nodes[n.left].height + 1
	}
	if n.right != nilIdx && t.nodes[n.right].height >= n.height {
		n.height = t.nodes[n.right].height + 1
	}
}

func (t *Tree) isBalanced(idx int32) int {
	if idx == nilIdx {
		return 0
	}
	return int(t.childHeight(t.nodes[idx].left)) - int(t.childHeight(t.nodes[idx].right))
}

// rotateLeft:
//
//	  A                 B
//	 / \               / \
//	... B     -->     A  ...
//	   / \           / \
//	  C  ...       ...  C
func (t *Tree) rotateLeft(idx int32) int32 {
	n := &t.nodes[idx]
	if n.right == nilIdx {
		return idx
	}
	right := n.right
	n.right = t.nodes[right].left
	t.resetHeight(idx)
	t.nodes[right].left = idx
	t.resetHeight(right)
	return right
}

// rotateRight:
//
//	    A             B
//	   / \           / \
//	  B  ...  -->  ...  A
//	 / \               / \
//	... C             C  ...
func (t *Tree) rotateRight(idx int32) int32 {
	n := &t.nodes[idx]
	if n.left == nilIdx {
		return idx
	}
	left := n.left
	n.left = t.nodes[left].right
	t.resetHeight(idx)
	t.nodes[left].right = idx
	t.resetHeight(left)
	return left
}

func (t *Tree) balance(idx int32) int32 {
	switch bal := t.isBalanced(idx); {
	case bal > 1:
		if t.isBalanced(t.nodes[idx].left) < 0 {
			t.nodes[idx].left = t.rotateLeft(t.nodes[idx].left)
			t.resetHeight(idx)
		}
		idx = t.rotateRight(idx)
	case bal < -1:
		if t.isBalanced(t.nodes[idx].right) > 0 {
			t.nodes[idx].right = t.rotateRight(t.nodes[idx].right)
			t.resetHeight(idx)
		}
		idx = t.rotateLeft(idx)
	}
	return idx
}

// Drain removes every node whose value is >= threshold and whose
// fang_pairs meets minPairs, returning them in ascending key order. Nodes
// with value >= threshold but fang_pairs below minPairs are still removed
// (they're gone for good either way); they're simply not appended to the
// result.
//
// The scan inserts products in roughly descending ranges: once the search
// front has moved below a value, that value can never be inserted again,
// so everything at or above the front is final. A Drain at threshold 0
// therefore always empties the whole tree.
func (t *Tree) Drain(threshold numeric.Vamp, minPairs uint32, out []Entry) []Entry {
	start := len(out)
	t.root, out = t.drain(t.root, threshold, minPairs, out)
	reverseFrom(out, start)
	return out
}

// drain walks right-self-left, which (since right > self > left in a BST)
// appends removed entries in strictly descending order; Drain reverses the
// appended segment once at the end instead of per level.
func (t *Tree) drain(idx int32, threshold numeric.Vamp, minPairs uint32, out []Entry) (int32, []Entry) {
	if idx == nilIdx {
		return nilIdx, out
	}
	n := &t.nodes[idx]
	n.right, out = t.drain(n.right, threshold, minPairs, out)

	if n.value >= threshold {
		if n.fangPairs >= minPairs {
			out = append(out, Entry{Value: n.value, FangPairs: n.fangPairs})
		}
		left := n.left
		t.release(idx)
		var newIdx int32
		newIdx, out = t.drain(left, threshold, minPairs, out)
		return t.rebalanceFrom(newIdx), out
	}

	t.resetHeight(idx)
	return t.balance(idx), out
}

func reverseFrom(s []Entry, start int) {
	for i, j := start, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func (t *Tree) rebalanceFrom(idx int32) int32 {
	if idx == nilIdx {
		return nilIdx
	}
	t.resetHeight(idx)
	return t.balance(idx)
}

func (t *Tree) release(idx int32) {
	t.free = append(t.free, idx)
	t.size--
}
