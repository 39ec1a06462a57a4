//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~vejnar/WinAbacus/lib/feature"
)

type mapTally map[feature.Strand]map[int]float64

func (m mapTally) Count(s feature.Strand, chrom string, pos int) float64 {
	return m[s][pos]
}

func TestTile(t *testing.T) {
	p := Params{Length: 10, Overlap: 0, Task: Score3p}
	assert.Equal(t, [][2]int{{15, 25}, {5, 15}, {0, 5}}, Tile(25, p))

	p.Task = Score5p
	assert.Equal(t, [][2]int{{0, 10}, {10, 20}, {20, 25}}, Tile(25, p))

	p.Overlap = 5
	assert.Equal(t, [][2]int{{0, 10}, {5, 15}, {10, 20}, {15, 25}}, Tile(25, p))

	assert.Empty(t, Tile(0, p))
	assert.Equal(t, [][2]int{{0, 3}}, Tile(3, p))
}

func TestExtend(t *testing.T) {
	exons := [][]int{{10, 20}, {30, 40}}
	assert.Equal(t, [][]int{{10, 20}, {30, 45}}, Extend(exons, feature.Plus, 5))
	assert.Equal(t, [][]int{{5, 20}, {30, 40}}, Extend(exons, feature.Minus, 5))
	assert.Equal(t, [][]int{{0, 20}, {30, 40}}, Extend(exons, feature.Minus, 50))
	// Input untouched
	assert.Equal(t, [][]int{{10, 20}, {30, 40}}, exons)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
	assert.Error(t, Params{Length: 0}.Validate())
	assert.Error(t, Params{Length: 10, Overlap: 10}.Validate())
	assert.Error(t, Params{Length: 10, Extension: -1}.Validate())

	task, err := ParseTask("score5p")
	require.NoError(t, err)
	assert.Equal(t, Score5p, task)
	_, err = ParseTask("score4p")
	assert.Error(t, err)
}

func TestBuildGenePlus(t *testing.T) {
	g := &feature.Gene{Name: "G", Chrom: "chr1", Strand: feature.Plus, Exons: [][]int{{100, 120}}}
	tally := mapTally{feature.Plus: {101: 1, 115: 2, 118: 1}}
	p := Params{Length: 10, Task: Score3p, MinPValue: 1, All: true, Stranded: true}

	ts := BuildGene(g, tally, p, CountTester{})
	require.Len(t, ts.Windows, 2)
	assert.Equal(t, Window{Chrom: "chr1", Strand: feature.Plus, Start: 100, End: 110, Count: 1, Gene: "G"}, ts.Windows[0])
	assert.Equal(t, Window{Chrom: "chr1", Strand: feature.Plus, Start: 110, End: 120, Count: 3, Gene: "G"}, ts.Windows[1])
	start, end := ts.Span()
	assert.Equal(t, 100, start)
	assert.Equal(t, 120, end)
}

func TestBuildGeneMinusExtended(t *testing.T) {
	g := &feature.Gene{Name: "M", Chrom: "chr1", Strand: feature.Minus, Exons: [][]int{{100, 110}, {200, 210}}}
	// Reads in the extension past the 3' end (below 100)
	tally := mapTally{feature.Minus: {95: 4, 205: 1}}
	p := Params{Length: 10, Extension: 10, Task: Score3p, MinPValue: 1, All: true, Stranded: true}

	ts := BuildGene(g, tally, p, CountTester{})
	require.Len(t, ts.Windows, 2)
	assert.Equal(t, 90, ts.Windows[0].Start)
	assert.Equal(t, 100, ts.Windows[0].End)
	assert.Equal(t, 4.0, ts.Windows[0].Count)
	assert.Equal(t, 200, ts.Windows[1].Start)
	assert.Equal(t, 1.0, ts.Windows[1].Count)
	start, end := ts.Span()
	assert.Equal(t, 90, start)
	assert.Equal(t, 210, end)
}

func TestBuildGeneUnstranded(t *testing.T) {
	g := &feature.Gene{Name: "M", Chrom: "chr1", Strand: feature.Minus, Exons: [][]int{{0, 10}}}
	tally := mapTally{feature.Plus: {3: 2}}
	p := Params{Length: 10, MinPValue: 1, Stranded: false}
	ts := BuildGene(g, tally, p, CountTester{})
	require.Len(t, ts.Windows, 1)
	assert.Equal(t, 2.0, ts.Windows[0].Count)
	assert.Equal(t, feature.Minus, ts.Strand)

	p.Stranded = true
	assert.Empty(t, BuildGene(g, tally, p, CountTester{}).Windows)
}

func TestCollapse(t *testing.T) {
	g := &feature.Gene{Name: "G", Chrom: "chr1", Strand: feature.Plus, Exons: [][]int{{0, 30}}}
	// Windows [0,10) 4, [5,15) 5, [10,20) 2, [15,25) 0 and [20,30) 1
	tally := mapTally{feature.Plus: {2: 1, 7: 3, 12: 1, 13: 1, 25: 1}}
	p := Params{Length: 10, Overlap: 5, Task: Score5p, MinPValue: 1, Stranded: true}

	all := p
	all.All = true
	assert.Len(t, BuildGene(g, tally, all, CountTester{}).Windows, 4)

	ts := BuildGene(g, tally, p, CountTester{})
	require.Len(t, ts.Windows, 2)
	assert.Equal(t, 5, ts.Windows[0].Start)
	assert.Equal(t, 5.0, ts.Windows[0].Count)
	assert.Equal(t, 20, ts.Windows[1].Start)
}

func TestBuildKeepsEmptyGenes(t *testing.T) {
	genes := map[string][]*feature.Gene{
		"chr1": {{Name: "A", Chrom: "chr1", Strand: feature.Plus, Exons: [][]int{{0, 10}}}},
		"chr2": {{Name: "B", Chrom: "chr2", Strand: feature.Plus}},
	}
	spans := Build(genes, mapTally{}, DefaultParams(), CountTester{})
	require.Len(t, spans["chr1"], 1)
	require.Len(t, spans["chr2"], 1)
	assert.Empty(t, spans["chr1"][0].Windows)
	assert.Equal(t, "B", spans["chr2"][0].Gene)
}
