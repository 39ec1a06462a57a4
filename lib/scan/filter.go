//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package scan

import (
	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/WinAbacus/lib/align"
	"git.sr.ht/~vejnar/WinAbacus/lib/feature"
)

// Multimap is how reads aligned to several loci are weighted.
type Multimap int

const (
	// MultimapNormal counts every alignment as 1.
	MultimapNormal Multimap = iota
	// MultimapIgnore counts multimapped alignments as 0.
	MultimapIgnore
	// MultimapScale counts each alignment as 1/NH.
	MultimapScale
)

func ParseMultimap(s string) (Multimap, error) {
	switch s {
	case "normal", "":
		return MultimapNormal, nil
	case "ignore":
		return MultimapIgnore, nil
	case "scale":
		return MultimapScale, nil
	}
	return MultimapNormal, errors.Errorf("multimap must be one of ignore, normal or scale (is set to %s)", s)
}

func (m Multimap) String() string {
	switch m {
	case MultimapIgnore:
		return "ignore"
	case MultimapScale:
		return "scale"
	}
	return "normal"
}

// Filter holds the read selection and weighting shared by both passes.
type Filter struct {
	// Quality enables mapping quality filtering: reads must have a MapQ
	// strictly greater than MinQuality.
	Quality    bool
	MinQuality int
	Multimap   Multimap
	Stranded   bool
}

// PassQuality reports whether r passes the mapping quality filter.
func (f Filter) PassQuality(r align.Record) bool {
	return !f.Quality || int(r.MapQ) > f.MinQuality
}

// Weight returns the contribution of r.
func (f Filter) Weight(r align.Record) float64 {
	switch f.Multimap {
	case MultimapIgnore:
		if r.Multimap == 1 {
			return 1
		}
		return 0
	case MultimapScale:
		if r.Multimap < 1 {
			return 1
		}
		return 1 / float64(r.Multimap)
	}
	return 1
}

// Strand returns the strand r is counted on. Without strandedness every read
// is counted on "+".
func (f Filter) Strand(r align.Record) feature.Strand {
	if f.Stranded && r.Reverse {
		return feature.Minus
	}
	return feature.Plus
}
