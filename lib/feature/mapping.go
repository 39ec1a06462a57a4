//
// Copyright © 2015 Charles E. Vejnar
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

// Columns required in a gene-to-transcript mapping table (UCSC refGene layout).
// "name" is the transcript ID and "name2" the gene symbol.
var MappingColumns = []string{"name", "chrom", "strand", "txStart", "txEnd", "exonStarts", "exonEnds", "name2"}

// OpenGeneMapping reads a tabulated gene-to-transcript mapping table with a
// header line. Malformed rows are logged and skipped.
func OpenGeneMapping(mpath string) (transcripts []Transcript, err error) {
	mfos, err := align.OpenInput(mpath)
	if err != nil {
		return nil, err
	}
	defer mfos.Close()

	tscanner := bufio.NewScanner(mfos)
	tscanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	// Header
	if !tscanner.Scan() {
		if err = tscanner.Err(); err != nil {
			return nil, errors.Wrapf(err, "reading %s", mpath)
		}
		return nil, errors.Errorf("empty gene mapping file %s", mpath)
	}
	header := strings.Split(strings.TrimPrefix(tscanner.Text(), "#"), "\t")
	cols := make(map[string]int)
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	idx := make([]int, len(MappingColumns))
	for i, c := range MappingColumns {
		j, ok := cols[c]
		if !ok {
			return nil, errors.Errorf("gene mapping file %s is missing required column %q", mpath, c)
		}
		idx[i] = j
	}

	nline := 1
	for tscanner.Scan() {
		nline++
		line := tscanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Split(line, "\t")
		t, perr := parseTranscript(fields, idx)
		if perr != nil {
			log.Error.Printf("%s:%d: %v", mpath, nline, perr)
			continue
		}
		transcripts = append(transcripts, t)
	}
	if err = tscanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", mpath)
	}
	return transcripts, nil
}

func parseTranscript(fields []string, idx []int) (t Transcript, err error) {
	for _, i := range idx {
		if i >= len(fields) {
			return t, errors.Errorf("expected at least %d fields, got %d", i+1, len(fields))
		}
	}
	t.ID = fields[idx[0]]
	t.Chrom = fields[idx[1]]
	t.Strand = ParseStrand(fields[idx[2]])
	if t.TxStart, err = strconv.Atoi(fields[idx[3]]); err != nil {
		return
	}
	if t.TxEnd, err = strconv.Atoi(fields[idx[4]]); err != nil {
		return
	}
	starts, err := parseIntList(fields[idx[5]])
	if err != nil {
		return
	}
	ends, err := parseIntList(fields[idx[6]])
	if err != nil {
		return
	}
	if len(starts) != len(ends) {
		return t, errors.Errorf("transcript %s has %d exon starts and %d exon ends", t.ID, len(starts), len(ends))
	}
	for i := range starts {
		t.Exons = append(t.Exons, []int{starts[i], ends[i]})
	}
	t.Symbol = fields[idx[7]]
	return t, nil
}

// parseIntList parses comma separated integers, ignoring a trailing comma.
func parseIntList(s string) (l []int, err error) {
	for _, f := range strings.Split(s, ",") {
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		l = append(l, n)
	}
	return l, nil
}
