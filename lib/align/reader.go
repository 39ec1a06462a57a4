//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package align

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Reader streams alignment records. Read returns io.EOF at the end of the
// stream, a *MalformedError for a record that can be skipped, and any other
// error when the stream cannot continue.
type Reader interface {
	Read() (Record, error)
	Catalog() Catalog
	Close() error
}

// Source describes how alignment files are opened.
type Source struct {
	// Command, if set, is run with the file path appended as last argument
	// and its standard output is read as SAM.
	Command []string
	// Workers is the number of BAM decompression goroutines.
	Workers int
}

// Open opens path. Files ending in ".bam" are read as BAM, others as SAM
// (gzip compressed if ending in ".gz").
func Open(path string, src Source) (Reader, error) {
	if strings.HasSuffix(strings.ToLower(path), ".bam") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		br, err := bam.NewReader(f, src.Workers)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "opening BAM %s", path)
		}
		return &bamReader{path: path, f: f, r: br, catalog: NewCatalog(br.Header())}, nil
	}
	var closers []io.Closer
	var in io.Reader
	if len(src.Command) > 0 {
		cmd := append(append([]string{}, src.Command...), path)
		p := exec.Command(cmd[0], cmd[1:]...)
		pp, err := p.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err = p.Start(); err != nil {
			return nil, errors.Wrapf(err, "running %s", strings.Join(cmd, " "))
		}
		in = pp
		closers = append(closers, pp, cmdWaiter{p})
	} else {
		rc, err := OpenInput(path)
		if err != nil {
			return nil, err
		}
		in = rc
		closers = append(closers, rc)
	}
	r, err := newSAMReader(path, in)
	if err != nil {
		for _, c := range closers {
			c.Close()
		}
		return nil, err
	}
	r.closers = closers
	return r, nil
}

// OpenInput opens a file for reading, decompressing it if its name ends in ".gz".
func OpenInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "opening gzip %s", path)
	}
	return &gzipFile{Reader: gz, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	err := g.Reader.Close()
	if ferr := g.f.Close(); err == nil {
		err = ferr
	}
	return err
}

type cmdWaiter struct {
	p *exec.Cmd
}

func (c cmdWaiter) Close() error {
	return c.p.Wait()
}

type samReader struct {
	path    string
	r       *bufio.Reader
	h       *sam.Header
	catalog Catalog
	line    int
	closers []io.Closer
}

func newSAMReader(path string, in io.Reader) (*samReader, error) {
	r := &samReader{path: path, r: bufio.NewReaderSize(in, 1<<16)}
	// Header
	var text []byte
	for {
		b, err := r.r.Peek(1)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "reading header of %s", path)
		}
		if b[0] != '@' {
			break
		}
		l, err := r.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "reading header of %s", path)
		}
		r.line++
		text = append(text, l...)
		if err == io.EOF {
			break
		}
	}
	if len(text) > 0 && text[len(text)-1] != '\n' {
		text = append(text, '\n')
	}
	var err error
	if len(text) == 0 {
		text = nil
	}
	if r.h, err = sam.NewHeader(text, nil); err != nil {
		return nil, errors.Wrapf(err, "parsing header of %s", path)
	}
	r.catalog = NewCatalog(r.h)
	return r, nil
}

func (r *samReader) Read() (Record, error) {
	for {
		l, err := r.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return Record{}, errors.Wrapf(err, "reading %s", r.path)
		}
		if err == io.EOF && len(l) == 0 {
			return Record{}, io.EOF
		}
		r.line++
		l = bytes.TrimRight(l, "\r\n")
		if len(l) == 0 {
			continue
		}
		var rec sam.Record
		if perr := rec.UnmarshalSAM(r.h, l); perr != nil {
			return Record{}, &MalformedError{Path: r.path, Line: r.line, Err: perr}
		}
		return FromSAM(&rec), nil
	}
}

func (r *samReader) Catalog() Catalog {
	return r.catalog
}

func (r *samReader) Close() (err error) {
	for _, c := range r.closers {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return
}

type bamReader struct {
	path    string
	f       *os.File
	r       *bam.Reader
	catalog Catalog
}

func (r *bamReader) Read() (Record, error) {
	rec, err := r.r.Read()
	if err == io.EOF {
		return Record{}, io.EOF
	} else if err != nil {
		return Record{}, errors.Wrapf(err, "reading %s", r.path)
	}
	return FromSAM(rec), nil
}

func (r *bamReader) Catalog() Catalog {
	return r.catalog
}

func (r *bamReader) Close() error {
	err := r.r.Close()
	if ferr := r.f.Close(); err == nil {
		err = ferr
	}
	return err
}
