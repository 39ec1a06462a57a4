//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package window

import (
	"sort"

	"git.sr.ht/~vejnar/WinAbacus/lib/cmapper"
	"git.sr.ht/~vejnar/WinAbacus/lib/feature"
)

// Build places windows on every gene and returns, per chromosome, one
// TranscriptSpan per gene in input order. Genes without significant window
// still get a span.
func Build(genes map[string][]*feature.Gene, tally Tally, p Params, tester Tester) map[string][]*TranscriptSpan {
	spans := make(map[string][]*TranscriptSpan, len(genes))
	for chrom, gs := range genes {
		for _, g := range gs {
			spans[chrom] = append(spans[chrom], BuildGene(g, tally, p, tester))
		}
	}
	return spans
}

type tiled struct {
	tstart, tend int
	w            Window
}

// BuildGene tiles the transcript of g with windows and keeps the significant ones.
func BuildGene(g *feature.Gene, tally Tally, p Params, tester Tester) *TranscriptSpan {
	exons := Extend(g.Exons, g.Strand, p.Extension)
	span := &TranscriptSpan{Gene: g.Name, Chrom: g.Chrom, Strand: g.Strand, Exons: exons}
	if len(exons) == 0 {
		return span
	}
	cm := cmapper.New(exons, int8(g.Strand))

	// Cumulative pooled counts along the transcript
	tallyStrand := g.Strand
	if !p.Stranded {
		tallyStrand = feature.Plus
	}
	perBase := make([]float64, cm.Length)
	for _, e := range exons {
		for pos := e[0]; pos < e[1]; pos++ {
			c := tally.Count(tallyStrand, g.Chrom, pos)
			if c == 0 {
				continue
			}
			if tc, ok := cm.Genome2Transcript(pos); ok {
				perBase[tc] += c
			}
		}
	}
	cumul := make([]float64, cm.Length+1)
	for i, c := range perBase {
		cumul[i+1] = cumul[i] + c
	}

	// Tile and test
	var accepted []tiled
	for _, tw := range Tile(cm.Length, p) {
		start, end, ok := cm.Hull(tw[0], tw[1])
		if !ok {
			continue
		}
		w := Window{Chrom: g.Chrom, Strand: g.Strand, Start: start, End: end, Count: cumul[tw[1]] - cumul[tw[0]], Gene: g.Name}
		if tester.Significant(w, p.MinPValue) {
			accepted = append(accepted, tiled{tstart: tw[0], tend: tw[1], w: w})
		}
	}
	if !p.All {
		accepted = collapse(accepted)
	}
	for _, a := range accepted {
		span.Windows = append(span.Windows, a.w)
	}
	sort.SliceStable(span.Windows, func(i, j int) bool { return span.Windows[i].Start < span.Windows[j].Start })
	return span
}

// Tile returns the transcript [start,end) of windows over a transcript of
// length l, in tiling order. The window at the far end from the anchor may be
// shorter than p.Length.
func Tile(l int, p Params) (tws [][2]int) {
	step := p.Length - p.Overlap
	if step < 1 || l < 1 {
		return
	}
	if p.Task == Score5p {
		for ts := 0; ts < l; ts += step {
			te := ts + p.Length
			if te > l {
				te = l
			}
			tws = append(tws, [2]int{ts, te})
			if te == l {
				break
			}
		}
	} else {
		for te := l; te > 0; te -= step {
			ts := te - p.Length
			if ts < 0 {
				ts = 0
			}
			tws = append(tws, [2]int{ts, te})
			if ts == 0 {
				break
			}
		}
	}
	return
}

// collapse keeps the highest count window of each run of overlapping windows.
func collapse(ws []tiled) (best []tiled) {
	for i, w := range ws {
		if i > 0 {
			prev := ws[i-1]
			if w.tstart < prev.tend && prev.tstart < w.tend {
				if w.w.Count > best[len(best)-1].w.Count {
					best[len(best)-1] = w
				}
				continue
			}
		}
		best = append(best, w)
	}
	return
}

// Extend returns a copy of exons with the 3' end extended by ext bases. On the
// minus strand, the extension stops at coordinate 0.
func Extend(exons [][]int, strand feature.Strand, ext int) [][]int {
	cp := make([][]int, len(exons))
	for i, e := range exons {
		cp[i] = []int{e[0], e[1]}
	}
	if len(cp) == 0 || ext == 0 {
		return cp
	}
	if strand == feature.Minus {
		cp[0][0] -= ext
		if cp[0][0] < 0 {
			cp[0][0] = 0
		}
	} else {
		cp[len(cp)-1][1] += ext
	}
	return cp
}
