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
	"golang.org/x/sync/errgroup"
	"gopkg.in/fatih/set.v0"

	"git.sr.ht/~vejnar/WinAbacus/lib/align"
	"git.sr.ht/~vejnar/WinAbacus/lib/feature"
	"git.sr.ht/~vejnar/WinAbacus/lib/index"
)

// ExperimentScan streams the files of every experiment and adds each read
// start to the slot of its experiment in every counter whose range contains it.
// The ordinal of an experiment is its position in experiments.
//
// Up to nWorker experiments are scanned at once; with nWorker <= 1 the scan is
// sequential. Files of one experiment are always read one after the other.
func ExperimentScan(ctx context.Context, x *index.Index, experiments []align.Experiment, src align.Source, f Filter, nWorker int) (Report, error) {
	var rep Report
	if x.NumExperiments() != len(experiments) {
		return rep, errors.Errorf("index has %d experiment slots for %d experiments", x.NumExperiments(), len(experiments))
	}
	if nWorker < 1 {
		nWorker = 1
	}
	x.Freeze()

	timeStart := time.Now()
	expStats := make([][]FileStats, len(experiments))
	missing := set.New(set.ThreadSafe)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(nWorker)
	for ord, exp := range experiments {
		ord, exp := ord, exp
		g.Go(func() error {
			for _, path := range exp.Paths {
				loopStart := time.Now()
				log.Printf("Processing file: %s...", path)
				stats, err := scanFile(gctx, path, src, f, nil, func(r align.Record, s *Stats) {
					countRecord(x, f, ord, r, s, missing)
				})
				if err != nil {
					return errors.Wrapf(err, "experiment %s", exp.Name)
				}
				log.Debug.Printf("Experiment %s file %s counted in %.1f sec: %d of %d valid reads in windows", exp.Name, path, time.Since(loopStart).Seconds(), stats.Counted, stats.Valid)
				expStats[ord] = append(expStats[ord], FileStats{Experiment: exp.Name, Path: path, Stats: stats})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}
	for _, fss := range expStats {
		for _, fs := range fss {
			rep.add(fs)
		}
	}
	log.Printf("%d alignment files counted in %.1f sec: %d reads in windows or genes", len(rep.Files), time.Since(timeStart).Seconds(), rep.Total.Counted)
	return rep, nil
}

func countRecord(x *index.Index, f Filter, ord int, r align.Record, s *Stats, missing set.Interface) {
	if !r.HasAlignment {
		s.NoAlignment++
		return
	}
	strand := f.Strand(r)
	if x.Tree(strand, r.Ref) == nil {
		if x.Tree(feature.Plus, r.Ref) == nil && x.Tree(feature.Minus, r.Ref) == nil && !missing.Has(r.Ref) {
			missing.Add(r.Ref)
			log.Debug.Printf("No window or gene on reference %s", r.Ref)
		}
		return
	}
	w := f.Weight(r)
	if w == 0 {
		return
	}
	if n := x.Stab(strand, r.Ref, r.Start(), func(e *index.EventCounter) { e.Add(ord, w) }); n > 0 {
		s.Counted++
	}
}
