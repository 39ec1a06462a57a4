//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package index

import (
	"sort"

	"git.sr.ht/~vejnar/WinAbacus/lib/feature"
)

// Index holds one tree per chromosome for each strand, and the counters the
// trees point to.
//
// Once frozen, queries only read the trees: scans of different experiments may
// run concurrently as each writes its own slot of the count vectors.
type Index struct {
	Plus  map[string]*Tree
	Minus map[string]*Tree
	Arena *Arena
}

func New(nExp int) *Index {
	return &Index{Plus: make(map[string]*Tree), Minus: make(map[string]*Tree), Arena: NewArena(nExp)}
}

// Strand returns the trees of strand. Unknown strand maps to Plus.
func (x *Index) Strand(s feature.Strand) map[string]*Tree {
	if s == feature.Minus {
		return x.Minus
	}
	return x.Plus
}

// Tree returns the tree of (s, chrom), or nil.
func (x *Index) Tree(s feature.Strand, chrom string) *Tree {
	return x.Strand(s)[chrom]
}

// Insert adds counter h at [start,end) on (s, chrom).
func (x *Index) Insert(s feature.Strand, chrom string, start, end int, h Handle) error {
	trees := x.Strand(s)
	t, ok := trees[chrom]
	if !ok {
		t = NewTree()
		trees[chrom] = t
	}
	return t.Insert(start, end, h)
}

// Stab calls fn with every counter owning a range on (s, chrom) that contains
// pos. It returns the number of ranges found.
func (x *Index) Stab(s feature.Strand, chrom string, pos int, fn func(*EventCounter)) int {
	t := x.Tree(s, chrom)
	if t == nil {
		return 0
	}
	return t.Stab(pos, func(h Handle) { fn(x.Arena.Get(h)) })
}

// QueryPoint returns the counters owning a range on (s, chrom) that overlaps [pos,pos+1).
func (x *Index) QueryPoint(s feature.Strand, chrom string, pos int) (es []*EventCounter) {
	x.Stab(s, chrom, pos, func(e *EventCounter) { es = append(es, e) })
	return
}

// Freeze finalizes every tree.
func (x *Index) Freeze() {
	for _, trees := range []map[string]*Tree{x.Plus, x.Minus} {
		for _, t := range trees {
			t.Freeze()
		}
	}
}

// NumExperiments returns the length of count vectors.
func (x *Index) NumExperiments() int {
	return x.Arena.NumExperiments()
}

// Chroms returns the sorted chromosomes of strand s.
func (x *Index) Chroms(s feature.Strand) []string {
	trees := x.Strand(s)
	chroms := make([]string, 0, len(trees))
	for c := range trees {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)
	return chroms
}

// Each calls fn for every counter, strand "+" first, then by chromosome and range.
// A counter is visited once per range it was inserted at.
func (x *Index) Each(fn func(s feature.Strand, chrom string, e *EventCounter)) {
	for _, s := range []feature.Strand{feature.Plus, feature.Minus} {
		for _, chrom := range x.Chroms(s) {
			x.Tree(s, chrom).Do(func(start, end int, h Handle) {
				fn(s, chrom, x.Arena.Get(h))
			})
		}
	}
}
