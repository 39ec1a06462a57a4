//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package output

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4"
	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/WinAbacus/lib/feature"
	"git.sr.ht/~vejnar/WinAbacus/lib/index"
)

const (
	WindowSuffix = ".window.txt"
	GeneSuffix   = ".gene.txt"
)

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

type compressedFile struct {
	GenericWriter
	f *os.File
}

func (c *compressedFile) Close() error {
	err := c.GenericWriter.Close()
	if ferr := c.f.Close(); err == nil {
		err = ferr
	}
	return err
}

// Create opens path for writing. compression is "", "lz4", "lz4hc" or "gz";
// the matching extension is appended to path.
func Create(path string, compression string, appendOutput bool) (GenericWriter, error) {
	// Append or Create flag
	var fg int
	if appendOutput {
		fg = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	} else {
		fg = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}
	switch compression {
	case "lz4", "lz4hc":
		path += ".lz4"
	case "gz":
		path += ".gz"
	case "":
	default:
		return nil, errors.Errorf("unknown output compression %q", compression)
	}
	f, err := os.OpenFile(path, fg, 0666)
	if err != nil {
		return nil, err
	}
	switch compression {
	case "lz4":
		return &compressedFile{GenericWriter: lz4.NewWriter(f), f: f}, nil
	case "lz4hc":
		lzWriter := lz4.NewWriter(f)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		return &compressedFile{GenericWriter: lzWriter, f: f}, nil
	case "gz":
		return &compressedFile{GenericWriter: gzip.NewWriter(f), f: f}, nil
	}
	return f, nil
}

func formatCounts(b *strings.Builder, counts []float64) {
	for _, c := range counts {
		b.WriteByte('\t')
		b.WriteString(strconv.FormatFloat(c, 'f', -1, 64))
	}
}

// WriteWindows writes one line per window counter:
// Symbol, chr, start, end, strand and one column per experiment.
func WriteWindows(w io.Writer, x *index.Index, experiments []string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("Symbol\tchr\tstart\tend\tstrand")
	for _, e := range experiments {
		bw.WriteString("\t" + e)
	}
	bw.WriteString("\n")
	var b strings.Builder
	x.Each(func(s feature.Strand, chrom string, e *index.EventCounter) {
		if !e.Window {
			return
		}
		b.Reset()
		b.WriteString(strings.Join([]string{e.Gene, chrom, strconv.Itoa(e.Start), strconv.Itoa(e.End), s.String()}, "\t"))
		formatCounts(&b, e.Counts)
		b.WriteByte('\n')
		bw.WriteString(b.String())
	})
	return bw.Flush()
}

// WriteGenes writes one line per gene counter with a non-zero total:
// Symbol, chr, strand and one column per experiment.
func WriteGenes(w io.Writer, x *index.Index, experiments []string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("Symbol\tchr\tstrand")
	for _, e := range experiments {
		bw.WriteString("\t" + e)
	}
	bw.WriteString("\n")
	var b strings.Builder
	x.Each(func(s feature.Strand, chrom string, e *index.EventCounter) {
		if e.Window || e.Total() == 0 {
			return
		}
		b.Reset()
		b.WriteString(strings.Join([]string{e.Gene, chrom, s.String()}, "\t"))
		formatCounts(&b, e.Counts)
		b.WriteByte('\n')
		bw.WriteString(b.String())
	})
	return bw.Flush()
}

// WriteTables writes the window and gene tables next to base.
func WriteTables(base string, x *index.Index, experiments []string, compression string, appendOutput bool) error {
	for _, t := range []struct {
		suffix string
		write  func(io.Writer, *index.Index, []string) error
	}{{WindowSuffix, WriteWindows}, {GeneSuffix, WriteGenes}} {
		w, err := Create(base+t.suffix, compression, appendOutput)
		if err != nil {
			return err
		}
		if err = t.write(w, x, experiments); err != nil {
			w.Close()
			return errors.Wrapf(err, "writing %s", base+t.suffix)
		}
		if err = w.Close(); err != nil {
			return errors.Wrapf(err, "closing %s", base+t.suffix)
		}
	}
	return nil
}
