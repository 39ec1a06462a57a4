//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package window

import (
	"strings"

	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/WinAbacus/lib/feature"
)

// Window is a [Start,End) genomic interval of a gene with its pooled count.
type Window struct {
	Chrom  string
	Strand feature.Strand
	Start  int
	End    int
	Count  float64
	Gene   string
}

// TranscriptSpan is the set of windows kept for a gene. Exons is the exon
// union, extended past the 3' end, from which the gene-level span is taken.
type TranscriptSpan struct {
	Gene    string
	Chrom   string
	Strand  feature.Strand
	Windows []Window
	Exons   [][]int
}

// Span returns the gene-level [start,end).
func (s *TranscriptSpan) Span() (start, end int) {
	g := feature.Gene{Exons: s.Exons}
	return g.Span()
}

// Tally gives the pooled number of read starts at a 0-based position.
type Tally interface {
	Count(s feature.Strand, chrom string, pos int) float64
}

// Tester decides whether a window is significant.
type Tester interface {
	Significant(w Window, minPValue float64) bool
}

// CountTester accepts every window with a positive pooled count, i.e. a
// p-value threshold of 1.
type CountTester struct{}

func (CountTester) Significant(w Window, minPValue float64) bool {
	return w.Count > 0
}

const (
	Score3p = iota
	Score5p
)

// ParseTask parses "score3p" or "score5p".
func ParseTask(t string) (int, error) {
	switch strings.ToLower(t) {
	case "score3p", "":
		return Score3p, nil
	case "score5p":
		return Score5p, nil
	}
	return 0, errors.Errorf("unknown task %q (score3p or score5p)", t)
}

// Params control window placement.
type Params struct {
	// Length of windows in transcript bases.
	Length int
	// Overlap between consecutive windows.
	Overlap int
	// Extension added past the transcript 3' end.
	Extension int
	// Task anchors windows at the 3' (Score3p) or 5' (Score5p) end.
	Task      int
	MinPValue float64
	// All keeps every significant window instead of the best of each
	// cluster of overlapping windows.
	All bool
	// Stranded reads the tally on the gene strand, otherwise on "+".
	Stranded bool
}

// DefaultParams returns the default window parameters.
func DefaultParams() Params {
	return Params{Length: 400, Overlap: 0, Extension: 400, Task: Score3p, MinPValue: 1, Stranded: true}
}

func (p Params) Validate() error {
	if p.Length < 1 {
		return errors.Errorf("Illegal value for window length: %d (must be >= 1)", p.Length)
	}
	if p.Overlap < 0 || p.Overlap >= p.Length {
		return errors.Errorf("Illegal value for window overlap: %d (must be >= 0 and < window length)", p.Overlap)
	}
	if p.Extension < 0 {
		return errors.Errorf("Illegal value for window extension: %d (must be >= 0)", p.Extension)
	}
	return nil
}
