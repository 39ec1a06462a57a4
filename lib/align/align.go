//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package align

import (
	"fmt"

	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
)

// Record is the part of an alignment used for counting.
type Record struct {
	Name string
	// Ref is the reference sequence name, empty when unplaced.
	Ref string
	// Pos is the 1-based leftmost aligned position.
	Pos      int
	Reverse  bool
	MapQ     byte
	Unmapped bool
	// Multimap is the number of reported alignments of the read (NH tag, 1 if absent).
	Multimap int
	// HasAlignment is false when the record carries no CIGAR.
	HasAlignment bool
}

// Start returns the 0-based alignment start.
func (r Record) Start() int {
	return r.Pos - 1
}

// FromSAM converts a SAM record.
func FromSAM(r *sam.Record) Record {
	rec := Record{
		Name:         r.Name,
		Pos:          r.Pos + 1,
		Reverse:      r.Flags&sam.Reverse != 0,
		MapQ:         r.MapQ,
		Unmapped:     r.Flags&sam.Unmapped != 0,
		Multimap:     MultimapCount(r),
		HasAlignment: len(r.Cigar) > 0,
	}
	if r.Ref != nil {
		rec.Ref = r.Ref.Name()
	}
	return rec
}

// MultimapCount returns the value of the NH tag, or 1 if the tag is missing or
// not a positive integer.
func MultimapCount(r *sam.Record) int {
	tag, found := r.Tag([]byte{'N', 'H'})
	if !found {
		return 1
	}
	var n int
	switch v := tag.Value().(type) {
	case uint8:
		n = int(v)
	case int8:
		n = int(v)
	case uint16:
		n = int(v)
	case int16:
		n = int(v)
	case uint32:
		n = int(v)
	case int32:
		n = int(v)
	}
	if n < 1 {
		return 1
	}
	return n
}

// MalformedError reports a record that could not be decoded. The stream can
// continue past it.
type MalformedError struct {
	Path string
	Line int
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s:%d: malformed record: %v", e.Path, e.Line, e.Err)
}

// IsMalformed reports whether err is a recoverable record error.
func IsMalformed(err error) bool {
	_, ok := errors.Cause(err).(*MalformedError)
	return ok
}
