//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package scan

import (
	"context"
	"io"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"git.sr.ht/~vejnar/WinAbacus/lib/align"
)

const (
	batchLength = 1024
	chanLength  = 8
)

// Stats counts records of an alignment stream.
type Stats struct {
	// Valid records are mapped and pass the quality filter.
	Valid         uint64 `json:"valid"`
	Unmapped      uint64 `json:"unmapped"`
	QualityFailed uint64 `json:"quality_failed"`
	Malformed     uint64 `json:"malformed"`
	NoAlignment   uint64 `json:"no_alignment"`
	// Counted records added a non-zero weight to the tally (pooled pass) or
	// to at least one counter (experiment pass).
	Counted uint64 `json:"counted"`
}

func (s *Stats) Add(o Stats) {
	s.Valid += o.Valid
	s.Unmapped += o.Unmapped
	s.QualityFailed += o.QualityFailed
	s.Malformed += o.Malformed
	s.NoAlignment += o.NoAlignment
	s.Counted += o.Counted
}

// FileStats are the Stats of one file.
type FileStats struct {
	Experiment string `json:"experiment"`
	Path       string `json:"path"`
	Stats
}

// Report gathers the Stats of a pass.
type Report struct {
	Files []FileStats `json:"files"`
	Total Stats       `json:"total"`
}

func (r *Report) add(fs FileStats) {
	r.Files = append(r.Files, fs)
	r.Total.Add(fs.Stats)
}

// scanFile streams path. Records are decoded in a goroutine and handed in
// batches to the caller goroutine, which drops unmapped and low quality
// records and passes the others to fn. Malformed records are logged and
// skipped. onOpen, if not nil, is called with the file catalog before
// streaming.
func scanFile(ctx context.Context, path string, src align.Source, f Filter, onOpen func(align.Catalog), fn func(align.Record, *Stats)) (stats Stats, err error) {
	r, err := align.Open(path, src)
	if err != nil {
		return stats, errors.Wrapf(err, "opening %s", path)
	}
	defer r.Close()
	if onOpen != nil {
		onOpen(r.Catalog())
	}

	var malformed uint64
	chRec := make(chan []align.Record, chanLength)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(chRec)
		batch := make([]align.Record, 0, batchLength)
		for {
			rec, err := r.Read()
			if err == io.EOF {
				break
			} else if err != nil {
				if align.IsMalformed(err) {
					log.Error.Printf("%v", err)
					malformed++
					continue
				}
				return err
			}
			batch = append(batch, rec)
			if len(batch) == batchLength {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case chRec <- batch:
				}
				batch = make([]align.Record, 0, batchLength)
			}
		}
		// Send last batch
		if len(batch) > 0 {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case chRec <- batch:
			}
		}
		return nil
	})

	for batch := range chRec {
		for _, rec := range batch {
			if rec.Unmapped {
				stats.Unmapped++
				continue
			}
			if !f.PassQuality(rec) {
				stats.QualityFailed++
				continue
			}
			stats.Valid++
			fn(rec, &stats)
		}
	}
	err = g.Wait()
	stats.Malformed = malformed
	return stats, err
}
