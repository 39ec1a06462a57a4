//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"sort"

	"github.com/grailbio/base/log"
)

// Transcript is one row of a gene-to-transcript mapping table.
type Transcript struct {
	ID      string
	Chrom   string
	Strand  Strand
	TxStart int
	TxEnd   int
	Exons   [][]int
	Symbol  string
}

// MergeIsoforms groups transcripts by gene symbol. The first transcript of a
// symbol fixes the gene chromosome and strand; later transcripts on another
// chromosome or strand are dropped with a warning. Genes with several isoforms
// get the union of all isoform exons. Genes are returned in order of first
// appearance.
//
// A transcript without exons is a single exon over [TxStart,TxEnd).
// Transcripts with exons outside [TxStart,TxEnd) are dropped with a warning.
func MergeIsoforms(transcripts []Transcript) []*Gene {
	var genes []*Gene
	bySymbol := make(map[string]*Gene)
	for _, t := range transcripts {
		iso := &Gene{Name: t.ID, TranscriptID: t.ID, Chrom: t.Chrom, Strand: t.Strand, Exons: UnionExons(t.Exons, nil)}
		if len(iso.Exons) == 0 {
			if t.TxStart >= t.TxEnd {
				log.Error.Printf("Transcript %s has no exon and an empty span %d-%d", t.ID, t.TxStart, t.TxEnd)
				continue
			}
			iso.Exons = [][]int{{t.TxStart, t.TxEnd}}
		} else if start, end := iso.Span(); start < t.TxStart || end > t.TxEnd {
			log.Error.Printf("Exons of %s (%d-%d) outside transcript bounds %d-%d", t.ID, start, end, t.TxStart, t.TxEnd)
			continue
		}
		g, ok := bySymbol[t.Symbol]
		if !ok {
			g = &Gene{Name: t.Symbol, TranscriptID: t.ID, Chrom: t.Chrom, Strand: t.Strand, Exons: iso.Exons}
			g.Isoforms = append(g.Isoforms, iso)
			bySymbol[t.Symbol] = g
			genes = append(genes, g)
			continue
		}
		if g.Chrom != iso.Chrom || g.Strand != iso.Strand {
			log.Error.Printf("New isoform mismatch for %s (%s%s) with %s (%s%s)", t.Symbol, g.Chrom, g.Strand, t.ID, iso.Chrom, iso.Strand)
			continue
		}
		g.Isoforms = append(g.Isoforms, iso)
	}
	// Collapse isoforms
	for _, g := range genes {
		if len(g.Isoforms) == 1 {
			continue
		}
		var exons [][]int
		for _, iso := range g.Isoforms {
			exons = UnionExons(exons, iso.Exons)
		}
		g.Exons = exons
		g.TranscriptID = ""
	}
	return genes
}

// UnionExons returns the sorted union of two exon sets. Touching intervals are
// fused. Inputs are not modified.
func UnionExons(a, b [][]int) [][]int {
	all := make([][]int, 0, len(a)+len(b))
	for _, e := range a {
		all = append(all, []int{e[0], e[1]})
	}
	for _, e := range b {
		all = append(all, []int{e[0], e[1]})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i][0] == all[j][0] {
			return all[i][1] < all[j][1]
		}
		return all[i][0] < all[j][0]
	})
	var union [][]int
	for _, e := range all {
		if n := len(union); n > 0 && e[0] <= union[n-1][1] {
			if e[1] > union[n-1][1] {
				union[n-1][1] = e[1]
			}
			continue
		}
		union = append(union, e)
	}
	return union
}
