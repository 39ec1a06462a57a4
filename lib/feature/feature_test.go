//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestUnionExons(t *testing.T) {
	a := [][]int{{30, 40}, {10, 20}}
	b := [][]int{{15, 25}, {40, 45}, {60, 70}}
	assert.Equal(t, [][]int{{10, 25}, {30, 45}, {60, 70}}, UnionExons(a, b))
	assert.Equal(t, [][]int{{30, 40}, {10, 20}}, a)
	assert.Nil(t, UnionExons(nil, nil))
}

func TestMergeIsoforms(t *testing.T) {
	transcripts := []Transcript{
		{ID: "NM_2", Chrom: "chr1", Strand: Plus, TxStart: 100, TxEnd: 400, Exons: [][]int{{100, 200}, {300, 400}}, Symbol: "B"},
		{ID: "NM_1", Chrom: "chr1", Strand: Minus, TxStart: 10, TxEnd: 20, Exons: [][]int{{10, 20}}, Symbol: "A"},
		{ID: "NM_3", Chrom: "chr1", Strand: Plus, TxStart: 150, TxEnd: 600, Exons: [][]int{{150, 250}, {500, 600}}, Symbol: "B"},
		// Mismatching strand, dropped
		{ID: "NM_4", Chrom: "chr1", Strand: Minus, TxStart: 1000, TxEnd: 2000, Exons: [][]int{{1000, 2000}}, Symbol: "B"},
		// Mismatching chromosome, dropped
		{ID: "NM_5", Chrom: "chr2", Strand: Minus, TxStart: 1000, TxEnd: 2000, Exons: [][]int{{1000, 2000}}, Symbol: "A"},
		// Exons past the transcript end, dropped
		{ID: "NM_6", Chrom: "chr1", Strand: Plus, TxStart: 100, TxEnd: 400, Exons: [][]int{{100, 200}, {300, 900}}, Symbol: "B"},
		// No exon, the transcript span is used
		{ID: "NR_7", Chrom: "chr3", Strand: Plus, TxStart: 700, TxEnd: 800, Symbol: "C"},
		// No exon and empty span, dropped
		{ID: "NR_8", Chrom: "chr3", Strand: Plus, TxStart: 900, TxEnd: 900, Symbol: "D"},
	}
	genes := MergeIsoforms(transcripts)
	require.Len(t, genes, 3)

	b := genes[0]
	assert.Equal(t, "B", b.Name)
	assert.Equal(t, "", b.TranscriptID)
	assert.Equal(t, Plus, b.Strand)
	assert.Equal(t, [][]int{{100, 250}, {300, 400}, {500, 600}}, b.Exons)
	assert.Len(t, b.Isoforms, 2)
	assert.NotNil(t, b.Isoform("NM_3"))
	assert.Nil(t, b.Isoform("NM_4"))
	assert.Nil(t, b.Isoform("NM_6"))
	start, end := b.Span()
	assert.Equal(t, 100, start)
	assert.Equal(t, 600, end)
	assert.Equal(t, 350, b.Length())

	a := genes[1]
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, "NM_1", a.TranscriptID)
	assert.Equal(t, "chr1", a.Chrom)
	assert.Len(t, a.Isoforms, 1)

	c := genes[2]
	assert.Equal(t, "C", c.Name)
	assert.Equal(t, [][]int{{700, 800}}, c.Exons)
}

func TestOpenGeneMapping(t *testing.T) {
	p := writeFile(t, "refGene.txt", "#bin\tname\tchrom\tstrand\ttxStart\ttxEnd\tcdsStart\tcdsEnd\texonCount\texonStarts\texonEnds\tscore\tname2\n"+
		"0\tNM_1\tchr1\t+\t100\t400\t100\t400\t2\t100,300,\t200,400,\t0\tG1\n"+
		"0\tNM_2\tchr1\t-\t100\t400\t100\t400\t2\t100,300,\t200\t0\tG1\n"+
		"0\tNM_3\tchr2\t-\t5\t50\t5\t50\t1\t5,\t50,\t0\tG2\n")
	ts, err := OpenGeneMapping(p)
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, Transcript{ID: "NM_1", Chrom: "chr1", Strand: Plus, TxStart: 100, TxEnd: 400, Exons: [][]int{{100, 200}, {300, 400}}, Symbol: "G1"}, ts[0])
	assert.Equal(t, "NM_3", ts[1].ID)
	assert.Equal(t, Minus, ts[1].Strand)
}

func TestOpenGeneMappingMissingColumn(t *testing.T) {
	p := writeFile(t, "refGene.txt", "name\tchrom\tstrand\ttxStart\ttxEnd\texonStarts\texonEnds\n")
	_, err := OpenGeneMapping(p)
	assert.Error(t, err)
}

func TestOpenBED(t *testing.T) {
	p := writeFile(t, "genes.bed", "track name=test\n"+
		"chr1\t100\t500\tT1\t0\t+\t100\t500\t0\t2\t100,50,\t0,350,\n"+
		"chr2\t10\t20\tT2\t0\t-\n"+
		"chr2\tten\t20\tT3\t0\t-\n")
	genes, err := OpenBED(p)
	require.NoError(t, err)
	require.Len(t, genes, 2)
	assert.Equal(t, [][]int{{100, 200}, {450, 500}}, genes[0].Exons)
	assert.Equal(t, Plus, genes[0].Strand)
	assert.Equal(t, [][]int{{10, 20}}, genes[1].Exons)
	assert.Equal(t, Minus, genes[1].Strand)
}

func TestOpenFON(t *testing.T) {
	p := writeFile(t, "genes.fon.json", `{"fon_version": 1, "features": [
		{"transcript_stable_id": "T1", "chrom": "chr1", "strand": "-", "exons": [[300, 400], [100, 200]]}
	]}`)
	genes, err := OpenFON(p, "transcript_stable_id", "chrom", "strand", "exons")
	require.NoError(t, err)
	require.Len(t, genes, 1)
	assert.Equal(t, "T1", genes[0].Name)
	assert.Equal(t, Minus, genes[0].Strand)
	assert.Equal(t, [][]int{{100, 200}, {300, 400}}, genes[0].Exons)

	p = writeFile(t, "bad.fon.json", `{"fon_version": 2, "features": []}`)
	_, err = OpenFON(p, "transcript_stable_id", "chrom", "strand", "exons")
	assert.Error(t, err)
}

func TestByChromosome(t *testing.T) {
	genes := []*Gene{{Name: "b", Chrom: "chr1"}, {Name: "c", Chrom: "chr2"}, {Name: "a", Chrom: "chr1"}}
	m := ByChromosome(genes)
	require.Len(t, m["chr1"], 2)
	assert.Equal(t, "a", m["chr1"][0].Name)
	assert.Equal(t, "b", m["chr1"][1].Name)
	assert.Len(t, m["chr2"], 1)
	assert.Equal(t, Unknown, ParseStrand("."))
	assert.Equal(t, ".", Unknown.String())
}
