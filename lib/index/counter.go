//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package index

import (
	"strconv"
	"strings"
)

// NameSep separates the fields of a window counter name.
const NameSep = "|"

// EventCounter accumulates read starts per experiment. Gene-level counters are
// named after the gene; window-level counters after gene, chromosome and
// window bounds.
type EventCounter struct {
	Name   string
	Gene   string
	Chrom  string
	Window bool
	// Start and End are the bounds the counter was inserted at.
	Start, End int
	// Counts has one slot per experiment ordinal.
	Counts []float64
	// SeedSum is the pooled count of the window, for reporting.
	SeedSum float64
}

// WindowName returns the identity of a window-level counter.
func WindowName(gene, chrom string, start, end int) string {
	return strings.Join([]string{gene, chrom, strconv.Itoa(start), strconv.Itoa(end)}, NameSep)
}

// Add adds weight w to the slot of experiment exp.
func (e *EventCounter) Add(exp int, w float64) {
	e.Counts[exp] += w
}

// Total returns the sum over experiments.
func (e *EventCounter) Total() (t float64) {
	for _, c := range e.Counts {
		t += c
	}
	return
}

// Handle references a counter in an Arena.
type Handle int

// Arena owns all counters of an index. Tree nodes only hold handles.
type Arena struct {
	nExp     int
	counters []EventCounter
}

func NewArena(nExp int) *Arena {
	return &Arena{nExp: nExp}
}

// NewGene allocates a zeroed gene-level counter.
func (a *Arena) NewGene(gene, chrom string, start, end int) Handle {
	return a.add(EventCounter{Name: gene, Gene: gene, Chrom: chrom, Start: start, End: end})
}

// NewWindow allocates a zeroed window-level counter seeded with the pooled count.
func (a *Arena) NewWindow(gene, chrom string, start, end int, seed float64) Handle {
	return a.add(EventCounter{Name: WindowName(gene, chrom, start, end), Gene: gene, Chrom: chrom, Window: true, Start: start, End: end, SeedSum: seed})
}

func (a *Arena) add(e EventCounter) Handle {
	e.Counts = make([]float64, a.nExp)
	a.counters = append(a.counters, e)
	return Handle(len(a.counters) - 1)
}

// Get returns the counter of h. The pointer is invalidated by the next allocation.
func (a *Arena) Get(h Handle) *EventCounter {
	return &a.counters[h]
}

func (a *Arena) Len() int {
	return len(a.counters)
}

// NumExperiments returns the length of count vectors.
func (a *Arena) NumExperiments() int {
	return a.nExp
}
