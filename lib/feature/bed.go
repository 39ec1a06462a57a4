//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/WinAbacus/lib/align"
)

// OpenBED parses a BED6 or BED12 annotation. With blocks (BED12), each block is
// an exon; otherwise the whole [chromStart,chromEnd) is a single exon. Track,
// browser and comment lines are skipped, malformed lines are logged and skipped.
func OpenBED(bpath string) (genes []*Gene, err error) {
	bfos, err := align.OpenInput(bpath)
	if err != nil {
		return nil, err
	}
	defer bfos.Close()

	var nline int
	tscanner := bufio.NewScanner(bfos)
	for tscanner.Scan() {
		nline++
		line := tscanner.Text()
		if len(line) == 0 || line[0] == '#' || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		g, perr := parseBED(strings.Split(line, "\t"))
		if perr != nil {
			log.Error.Printf("%s:%d: %v", bpath, nline, perr)
			continue
		}
		genes = append(genes, g)
	}
	if err = tscanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", bpath)
	}
	return genes, nil
}

func parseBED(fields []string) (*Gene, error) {
	if len(fields) < 6 {
		return nil, errors.Errorf("expected at least 6 BED fields, got %d", len(fields))
	}
	start, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, err
	}
	end, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, err
	}
	g := &Gene{Name: fields[3], TranscriptID: fields[3], Chrom: fields[0], Strand: ParseStrand(fields[5])}
	if len(fields) >= 12 {
		sizes, err := parseIntList(fields[10])
		if err != nil {
			return nil, err
		}
		offsets, err := parseIntList(fields[11])
		if err != nil {
			return nil, err
		}
		if len(sizes) != len(offsets) {
			return nil, errors.Errorf("%s has %d block sizes and %d block starts", g.Name, len(sizes), len(offsets))
		}
		for i := range sizes {
			g.Exons = append(g.Exons, []int{start + offsets[i], start + offsets[i] + sizes[i]})
		}
		g.Exons = UnionExons(g.Exons, nil)
	} else {
		g.Exons = [][]int{{start, end}}
	}
	return g, nil
}
