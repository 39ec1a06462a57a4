//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package index

import (
	"fmt"

	"github.com/biogo/store/interval"
)

// rangeNode is a [Start,End) range owning one or more counters.
type rangeNode struct {
	Start, End int
	UID        uintptr
	Handles    []Handle
}

func (n *rangeNode) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return n.End > b.Start && n.Start < b.End
}

func (n *rangeNode) ID() uintptr {
	return n.UID
}

func (n *rangeNode) Range() interval.IntRange {
	return interval.IntRange{Start: n.Start, End: n.End}
}

func (n *rangeNode) String() string {
	return fmt.Sprintf("[%d,%d)#%d-%v", n.Start, n.End, n.UID, n.Handles)
}

// point is the unit range [p,p+1).
type point int

func (p point) Overlap(b interval.IntRange) bool {
	return b.End > int(p) && b.Start < int(p)+1
}
