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

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/WinAbacus/lib/window"
)

// Build creates the counting index of the spans: one window-level counter per
// window, seeded with its pooled count, and one gene-level counter per gene
// over the gene span, whatever the number of windows. All count vectors have
// nExp zero slots. The returned index is frozen.
func Build(spans map[string][]*window.TranscriptSpan, nExp int) (*Index, error) {
	x := New(nExp)
	chroms := make([]string, 0, len(spans))
	for chrom := range spans {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)

	var nWindow int
	for _, chrom := range chroms {
		for _, ts := range spans[chrom] {
			for _, w := range ts.Windows {
				nWindow++
				if w.Start >= w.End {
					log.Error.Printf("start>=end for window %s of %s", WindowName(ts.Gene, chrom, w.Start, w.End), ts.Gene)
				}
				h := x.Arena.NewWindow(ts.Gene, chrom, w.Start, w.End, w.Count)
				if err := x.Insert(ts.Strand, chrom, w.Start, w.End, h); err != nil {
					return nil, errors.Wrapf(err, "inserting window of %s", ts.Gene)
				}
			}
			start, end := ts.Span()
			if start >= end {
				log.Error.Printf("start>=end for gene %s (%s:%d-%d)", ts.Gene, chrom, start, end)
			}
			h := x.Arena.NewGene(ts.Gene, chrom, start, end)
			if err := x.Insert(ts.Strand, chrom, start, end, h); err != nil {
				return nil, errors.Wrapf(err, "inserting gene %s", ts.Gene)
			}
		}
	}
	x.Freeze()
	log.Debug.Printf("Total window count: %d", nWindow)
	return x, nil
}
