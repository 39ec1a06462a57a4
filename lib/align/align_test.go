//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package align

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSAM = "@HD\tVN:1.6\tSO:unsorted\n" +
	"@SQ\tSN:chr1\tLN:1000\n" +
	"@SQ\tSN:chr2\tLN:500\n" +
	"r1\t0\tchr1\t101\t30\t4M\t*\t0\t0\tACGT\t*\tNH:i:1\n" +
	"r2\t16\tchr2\t11\t5\t4M\t*\t0\t0\tACGT\t*\tNH:i:4\n" +
	"r3\t4\t*\t0\t0\t*\t*\t0\t0\tACGT\t*\n" +
	"r4\t0\tchr1\tnotapos\t30\t4M\t*\t0\t0\tACGT\t*\n" +
	"r5\t0\tchr1\t201\t30\t*\t*\t0\t0\tACGT\t*\n"

func writeFile(t *testing.T, name, content string) string {
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func readAll(t *testing.T, r Reader) (recs []Record, malformed int) {
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return
		}
		if IsMalformed(err) {
			malformed++
			continue
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}
}

func TestSAMReader(t *testing.T) {
	r, err := Open(writeFile(t, "in.sam", testSAM), Source{})
	require.NoError(t, err)
	defer r.Close()

	c := r.Catalog()
	assert.Equal(t, []string{"chr1", "chr2"}, c.Names())
	assert.Equal(t, 2, c.Len())
	l, ok := c.Length("chr2")
	assert.True(t, ok)
	assert.Equal(t, 500, l)
	_, ok = c.Length("chrM")
	assert.False(t, ok)

	recs, malformed := readAll(t, r)
	assert.Equal(t, 1, malformed)
	require.Len(t, recs, 4)

	assert.Equal(t, Record{Name: "r1", Ref: "chr1", Pos: 101, MapQ: 30, Multimap: 1, HasAlignment: true}, recs[0])
	assert.Equal(t, 100, recs[0].Start())
	assert.True(t, recs[1].Reverse)
	assert.Equal(t, 4, recs[1].Multimap)
	assert.Equal(t, "chr2", recs[1].Ref)
	assert.True(t, recs[2].Unmapped)
	assert.Equal(t, 1, recs[2].Multimap)
	assert.False(t, recs[3].HasAlignment)
}

func TestSAMReaderGzip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "in.sam.gz")
	f, err := os.Create(p)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testSAM))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	r, err := Open(p, Source{})
	require.NoError(t, err)
	defer r.Close()
	recs, _ := readAll(t, r)
	assert.Len(t, recs, 4)
}

func TestSAMReaderCommand(t *testing.T) {
	if _, err := os.Stat("/bin/cat"); err != nil {
		t.Skip("no /bin/cat")
	}
	r, err := Open(writeFile(t, "in.txt", testSAM), Source{Command: []string{"/bin/cat"}})
	require.NoError(t, err)
	recs, _ := readAll(t, r)
	assert.Len(t, recs, 4)
	assert.NoError(t, r.Close())
}

func TestIsMalformed(t *testing.T) {
	err := &MalformedError{Path: "x.sam", Line: 3, Err: errors.New("bad")}
	assert.True(t, IsMalformed(err))
	assert.True(t, IsMalformed(errors.Wrap(err, "reading")))
	assert.False(t, IsMalformed(errors.New("other")))
	assert.Contains(t, err.Error(), "x.sam:3")
}

func TestLoadExperiments(t *testing.T) {
	p := writeFile(t, "list.txt", "#exp\tpath\n"+
		"wt\ta.sam\n"+
		"ko\tb.sam\n"+
		"short\n"+
		"wt\tc.sam\n")
	exps, err := LoadExperiments(p)
	require.NoError(t, err)
	assert.Equal(t, []Experiment{{Name: "wt", Paths: []string{"a.sam", "c.sam"}}, {Name: "ko", Paths: []string{"b.sam"}}}, exps)
	assert.Equal(t, []string{"wt", "ko"}, Names(exps))

	_, err = LoadExperiments(writeFile(t, "empty.txt", "#nothing\n"))
	assert.Error(t, err)

	assert.Equal(t, []string{DefaultExperiment}, Names(SingleExperiment("x.bam")))
}
