//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package align

import (
	"github.com/biogo/hts/sam"
)

// Catalog is the ordered list of reference sequences declared in a header.
type Catalog struct {
	names   []string
	lengths map[string]int
}

func NewCatalog(h *sam.Header) Catalog {
	c := Catalog{lengths: make(map[string]int)}
	if h == nil {
		return c
	}
	for _, ref := range h.Refs() {
		c.names = append(c.names, ref.Name())
		c.lengths[ref.Name()] = ref.Len()
	}
	return c
}

// Names returns reference names in header order.
func (c Catalog) Names() []string {
	return c.names
}

// Length returns the length of reference name.
func (c Catalog) Length(name string) (int, bool) {
	l, ok := c.lengths[name]
	return l, ok
}

func (c Catalog) Len() int {
	return len(c.names)
}
