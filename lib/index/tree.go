//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package index

import (
	"sort"

	"github.com/biogo/store/interval"
)

type span struct{ start, end int }

// Tree maps [start,end) ranges of one chromosome and strand to counters. An
// identical range inserted twice gets both counters on the same node.
type Tree struct {
	tree    interval.IntTree
	nodes   []*rangeNode
	byRange map[span]*rangeNode
	dirty   bool
}

func NewTree() *Tree {
	return &Tree{byRange: make(map[span]*rangeNode)}
}

// Insert adds h to the counters owned by [start,end). Ranges with start >= end
// are kept, with their counters, but can never be returned by a query.
func (t *Tree) Insert(start, end int, h Handle) error {
	if n, ok := t.byRange[span{start, end}]; ok {
		n.Handles = append(n.Handles, h)
		return nil
	}
	n := &rangeNode{Start: start, End: end, UID: uintptr(len(t.nodes)), Handles: []Handle{h}}
	t.nodes = append(t.nodes, n)
	t.byRange[span{start, end}] = n
	if start >= end {
		return nil
	}
	// Ranges are adjusted once in Freeze
	if err := t.tree.Insert(n, true); err != nil {
		return err
	}
	t.dirty = true
	return nil
}

// Freeze finalizes the tree. It must be called before concurrent queries.
func (t *Tree) Freeze() {
	if t.dirty {
		t.tree.AdjustRanges()
		t.dirty = false
	}
}

// Stab calls fn with every counter of every range containing pos, and returns
// the number of ranges found.
func (t *Tree) Stab(pos int, fn func(Handle)) (nrange int) {
	t.Freeze()
	t.tree.DoMatching(func(iv interval.IntInterface) (done bool) {
		nrange++
		for _, h := range iv.(*rangeNode).Handles {
			fn(h)
		}
		return false
	}, point(pos))
	return
}

// QueryPoint returns the counters of all ranges overlapping [pos,pos+1).
func (t *Tree) QueryPoint(pos int) (hs []Handle) {
	t.Stab(pos, func(h Handle) { hs = append(hs, h) })
	return
}

// NumRanges returns the number of distinct ranges.
func (t *Tree) NumRanges() int {
	return len(t.nodes)
}

// Do calls fn for every counter ordered by range start, range end, then
// insertion.
func (t *Tree) Do(fn func(start, end int, h Handle)) {
	nodes := make([]*rangeNode, len(t.nodes))
	copy(nodes, t.nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Start == nodes[j].Start {
			return nodes[i].End < nodes[j].End
		}
		return nodes[i].Start < nodes[j].Start
	})
	for _, n := range nodes {
		for _, h := range n.Handles {
			fn(n.Start, n.End, h)
		}
	}
}
