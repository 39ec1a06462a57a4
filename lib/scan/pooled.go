//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package scan

import (
	"context"
	"time"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
	"gopkg.in/fatih/set.v0"

	"git.sr.ht/~vejnar/WinAbacus/lib/align"
	"git.sr.ht/~vejnar/WinAbacus/lib/feature"
)

// Pooled is the read start tally of all experiments combined. Only positions
// with at least one read start are stored.
type Pooled struct {
	catalog align.Catalog
	filter  Filter
	plus    map[string]map[int]float64
	minus   map[string]map[int]float64
	unknown set.Interface
}

// NewPooled returns an empty tally over the references of catalog.
func NewPooled(catalog align.Catalog, f Filter) *Pooled {
	return &Pooled{
		catalog: catalog,
		filter:  f,
		plus:    make(map[string]map[int]float64),
		minus:   make(map[string]map[int]float64),
		unknown: set.New(set.NonThreadSafe),
	}
}

func (p *Pooled) Catalog() align.Catalog {
	return p.catalog
}

func (p *Pooled) strand(s feature.Strand) map[string]map[int]float64 {
	if s == feature.Minus {
		return p.minus
	}
	return p.plus
}

// Increment adds the read start of r, weighted by the multimap mode, on the
// strand given by the filter. It returns false if r cannot be placed or
// weighs nothing.
func (p *Pooled) Increment(r align.Record) bool {
	length, ok := p.catalog.Length(r.Ref)
	if !ok {
		if !p.unknown.Has(r.Ref) {
			p.unknown.Add(r.Ref)
			log.Error.Printf("Reference %q missing from the first alignment header, its reads are skipped", r.Ref)
		}
		return false
	}
	pos := r.Start()
	if pos < 0 || pos >= length {
		return false
	}
	w := p.filter.Weight(r)
	if w == 0 {
		return false
	}
	trees := p.strand(p.filter.Strand(r))
	m, ok := trees[r.Ref]
	if !ok {
		m = make(map[int]float64)
		trees[r.Ref] = m
	}
	m[pos] += w
	return true
}

// Count returns the pooled read starts at pos.
func (p *Pooled) Count(s feature.Strand, chrom string, pos int) float64 {
	return p.strand(s)[chrom][pos]
}

// Positions returns the number of distinct positions with read starts.
func (p *Pooled) Positions() (n int) {
	for _, trees := range []map[string]map[int]float64{p.plus, p.minus} {
		for _, m := range trees {
			n += len(m)
		}
	}
	return
}

// PooledScan streams every file of every experiment into one Pooled tally.
// The tally is created against the catalog of the first file.
func PooledScan(ctx context.Context, experiments []align.Experiment, src align.Source, f Filter) (*Pooled, Report, error) {
	var p *Pooled
	var rep Report
	timeStart := time.Now()
	for _, exp := range experiments {
		for _, path := range exp.Paths {
			loopStart := time.Now()
			log.Printf("Processing file: %s...", path)
			stats, err := scanFile(ctx, path, src, f, func(c align.Catalog) {
				if p == nil {
					p = NewPooled(c, f)
				}
			}, func(r align.Record, s *Stats) {
				if !r.HasAlignment {
					s.NoAlignment++
					return
				}
				if p.Increment(r) {
					s.Counted++
				}
			})
			if err != nil {
				return nil, rep, errors.Wrapf(err, "experiment %s", exp.Name)
			}
			log.Printf("Experiment %s file %s processed in %.1f sec: %d valid reads, %d invalid reads", exp.Name, path, time.Since(loopStart).Seconds(), stats.Valid, stats.Unmapped)
			rep.add(FileStats{Experiment: exp.Name, Path: path, Stats: stats})
		}
	}
	if p == nil {
		return nil, rep, errors.New("no alignment file")
	}
	log.Printf("%d alignment files processed in %.1f sec: %d valid reads, %d invalid reads", len(rep.Files), time.Since(timeStart).Seconds(), rep.Total.Valid, rep.Total.Unmapped)
	if f.Quality {
		log.Printf("%d reads fail the quality threshold", rep.Total.QualityFailed)
	}
	if rep.Total.Malformed > 0 {
		log.Printf("%d malformed records skipped", rep.Total.Malformed)
	}
	return p, rep, nil
}
