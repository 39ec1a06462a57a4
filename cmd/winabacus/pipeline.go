//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"context"
	"strconv"
	"time"

	"github.com/grailbio/base/log"

	"git.sr.ht/~vejnar/WinAbacus/lib/align"
	"git.sr.ht/~vejnar/WinAbacus/lib/feature"
	"git.sr.ht/~vejnar/WinAbacus/lib/index"
	"git.sr.ht/~vejnar/WinAbacus/lib/output"
	"git.sr.ht/~vejnar/WinAbacus/lib/scan"
	"git.sr.ht/~vejnar/WinAbacus/lib/window"
)

// Config is everything a run needs. It is built once from the command line
// and passed to each phase.
type Config struct {
	Experiments    []align.Experiment
	Source         align.Source
	Genes          []*feature.Gene
	Filter         scan.Filter
	Window         window.Params
	Tester         window.Tester
	NumWorker      int
	OutBase        string
	OutCompression string
	AppendOutput   bool
	TimeStart      time.Time
	VerboseLevel   int
}

// Result is the outcome of a run.
type Result struct {
	Index     *index.Index
	Pooled    scan.Report
	Counting  scan.Report
	Positions int
	NumGene   int
	NumWindow int
}

// AddCommas adds commas after every 3 characters.
func AddCommas(s string) string {
	if len(s) <= 3 {
		return s
	} else {
		return AddCommas(s[0:len(s)-3]) + "," + s[len(s)-3:]
	}
}

func (cfg Config) logf(format string, args ...interface{}) {
	if cfg.VerboseLevel > 0 {
		args = append([]interface{}{time.Since(cfg.TimeStart).Minutes()}, args...)
		log.Printf("%.1fmin - "+format, args...)
	}
}

// Run counts read starts in windows and genes: pooled pass, windowing, index
// build, per-experiment pass, then output.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	res := &Result{}

	// Pass 1: where
	cfg.logf("Pooled scan of %d experiment(s)", len(cfg.Experiments))
	pooled, rep, err := scan.PooledScan(ctx, cfg.Experiments, cfg.Source, cfg.Filter)
	if err != nil {
		return nil, err
	}
	res.Pooled = rep
	res.Positions = pooled.Positions()
	cfg.logf("%s valid align. at %s positions", AddCommas(strconv.FormatUint(rep.Total.Valid, 10)), AddCommas(strconv.Itoa(res.Positions)))

	// Windows
	genes := feature.ByChromosome(cfg.Genes)
	spans := window.Build(genes, pooled, cfg.Window, cfg.Tester)
	for _, ss := range spans {
		for _, s := range ss {
			res.NumGene++
			res.NumWindow += len(s.Windows)
		}
	}
	cfg.logf("%d window(s) kept on %d gene(s)", res.NumWindow, res.NumGene)

	// Index
	x, err := index.Build(spans, len(cfg.Experiments))
	if err != nil {
		return nil, err
	}
	res.Index = x

	// Pass 2: how much
	cfg.logf("Counting with %d worker(s)", cfg.NumWorker)
	rep, err = scan.ExperimentScan(ctx, x, cfg.Experiments, cfg.Source, cfg.Filter, cfg.NumWorker)
	if err != nil {
		return nil, err
	}
	res.Counting = rep
	cfg.logf("%s align. in windows or genes", AddCommas(strconv.FormatUint(rep.Total.Counted, 10)))

	// Output
	if cfg.OutBase != "" {
		cfg.logf("Writing %s%s and %s%s", cfg.OutBase, output.WindowSuffix, cfg.OutBase, output.GeneSuffix)
		if err = output.WriteTables(cfg.OutBase, x, align.Names(cfg.Experiments), cfg.OutCompression, cfg.AppendOutput); err != nil {
			return nil, err
		}
	}
	return res, nil
}
