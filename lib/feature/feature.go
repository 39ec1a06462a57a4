//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/WinAbacus/lib/align"
)

type Strand int8

const (
	Minus   Strand = -1
	Unknown Strand = 0
	Plus    Strand = 1
)

// ParseStrand accepts "+", "1", "+1", "-" and "-1". Anything else is Unknown.
func ParseStrand(strandRaw string) Strand {
	if strandRaw == "+" || strandRaw == "1" || strandRaw == "+1" {
		return Plus
	}
	if strandRaw == "-" || strandRaw == "-1" {
		return Minus
	}
	return Unknown
}

func (s Strand) String() string {
	switch s {
	case Plus:
		return "+"
	case Minus:
		return "-"
	}
	return "."
}

// Gene is a transcribed locus. Merged genes carry the symbol as Name and keep
// the transcripts they were built from in Isoforms.
type Gene struct {
	Name         string
	TranscriptID string
	Chrom        string
	Strand       Strand
	// Exons are sorted 0-based [start,end) intervals.
	Exons    [][]int
	Isoforms []*Gene
}

// Span returns the hull of the exons.
func (g *Gene) Span() (start, end int) {
	if len(g.Exons) == 0 {
		return
	}
	start, end = g.Exons[0][0], g.Exons[0][1]
	for _, e := range g.Exons[1:] {
		if e[0] < start {
			start = e[0]
		}
		if e[1] > end {
			end = e[1]
		}
	}
	return
}

// Length returns the exonic length of gene
func (g *Gene) Length() int {
	return IntervalsLength(g.Exons)
}

// Isoform returns the isoform with transcript ID id, or nil.
func (g *Gene) Isoform(id string) *Gene {
	for _, iso := range g.Isoforms {
		if iso.TranscriptID == id {
			return iso
		}
	}
	return nil
}

// Sorting functions: By Name
// Use it with: sort.Sort(feature.ByName(genes))
type ByName []*Gene

func (f ByName) Len() int           { return len(f) }
func (f ByName) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f ByName) Less(i, j int) bool { return f[i].Name < f[j].Name }

// ByChromosome groups genes per chromosome, each group sorted by name.
func ByChromosome(genes []*Gene) map[string][]*Gene {
	m := make(map[string][]*Gene)
	for _, g := range genes {
		m[g.Chrom] = append(m[g.Chrom], g)
	}
	for _, gs := range m {
		sort.Stable(ByName(gs))
	}
	return m
}

// OpenFON parses a "Feature Object Notation" file and returns a list of Gene
func OpenFON(jpath, fonName, fonChrom, fonStrand, fonCoords string) (genes []*Gene, err error) {
	jfos, err := align.OpenInput(jpath)
	if err != nil {
		return
	}
	defer jfos.Close()

	d := json.NewDecoder(jfos)
	d.UseNumber()
	var fon struct {
		Version  json.Number              `json:"fon_version"`
		Features []map[string]interface{} `json:"features"`
	}
	if err = d.Decode(&fon); err != nil {
		err = errors.Wrapf(err, "Error while parsing JSON feature file %s", jpath)
		return
	}
	if version, _ := fon.Version.Int64(); version != 1 {
		err = errors.Errorf("Unknown FON version %s", fon.Version)
		return
	}

	for i, mf := range fon.Features {
		name, _ := mf[fonName].(string)
		chrom, _ := mf[fonChrom].(string)
		strand, _ := mf[fonStrand].(string)
		rawCoords, _ := mf[fonCoords].([]interface{})
		if name == "" || chrom == "" || len(rawCoords) == 0 {
			err = errors.Errorf("FON feature %d in %s misses name, chrom or coordinates", i, jpath)
			return
		}
		g := &Gene{Name: name, TranscriptID: name, Chrom: chrom, Strand: ParseStrand(strand)}
		// Add coordinates
		for _, cj := range rawCoords {
			pair, ok := cj.([]interface{})
			if !ok || len(pair) != 2 {
				err = errors.Errorf("FON feature %s: coordinates must be [start, end] pairs", name)
				return
			}
			var coords [2]int
			for k, ck := range pair {
				n, _ := ck.(json.Number).Int64()
				coords[k] = int(n)
			}
			g.Exons = append(g.Exons, []int{coords[0], coords[1]})
		}
		g.Exons = UnionExons(g.Exons, nil)
		genes = append(genes, g)
	}
	return
}

// IntervalsLength returns the length covered by all intervals (0-based [start,end))
func IntervalsLength(intervals [][]int) (length int) {
	for _, iv := range intervals {
		length += iv[1] - iv[0]
	}
	return
}
