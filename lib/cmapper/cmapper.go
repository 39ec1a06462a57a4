//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//

package cmapper

// CoordMapper translates coordinates between the genome and a spliced
// transcript. Transcript coordinates run 5' to 3': on the minus strand,
// transcript coordinate 0 is the last genomic base of the last exon.
type CoordMapper struct {
	CoordsGenome, CoordsTranscript [][]int
	Strand                         int8
	Length                         int
}

// New returns an initialized mapper over sorted, non-overlapping exons.
// Strand 0 is handled as +1.
func New(exons [][]int, strand int8) *CoordMapper {
	if strand == 0 {
		strand = 1
	}
	cm := &CoordMapper{CoordsGenome: exons, Strand: strand}
	cm.Init()
	return cm
}

// Init.
func (cm *CoordMapper) Init() {
	// CoordsTranscript
	cm.CoordsTranscript = cm.CoordsTranscript[:0]
	var tcoord int
	if cm.Strand == 1 {
		for i := 0; i < len(cm.CoordsGenome); i++ {
			exonLength := cm.CoordsGenome[i][1] - cm.CoordsGenome[i][0]
			cm.CoordsTranscript = append(cm.CoordsTranscript, []int{tcoord, tcoord + exonLength})
			tcoord += exonLength
		}
	} else if cm.Strand == -1 {
		for i := len(cm.CoordsGenome) - 1; i >= 0; i-- {
			exonLength := cm.CoordsGenome[i][1] - cm.CoordsGenome[i][0]
			cm.CoordsTranscript = append(cm.CoordsTranscript, []int{tcoord, tcoord + exonLength})
			tcoord += exonLength
		}
	}
	// Length
	cm.Length = cm.GetLength()
}

// GetLength returns mapper length.
func (cm *CoordMapper) GetLength() (length int) {
	for _, iv := range cm.CoordsGenome {
		length += iv[1] - iv[0]
	}
	return
}

// Genome2Transcript translates a coordinate from the genome to the transcript system.
func (cm *CoordMapper) Genome2Transcript(coord int) (tcoord int, within bool) {
	exonIth := -1
	for i := 0; i < len(cm.CoordsGenome); i++ {
		if coord >= cm.CoordsGenome[i][0] && coord < cm.CoordsGenome[i][1] {
			exonIth = i
			break
		}
	}
	if exonIth != -1 {
		if cm.Strand == 1 {
			tcoord = cm.CoordsTranscript[exonIth][0] + (coord - cm.CoordsGenome[exonIth][0])
		} else if cm.Strand == -1 {
			tcoord = cm.CoordsTranscript[len(cm.CoordsTranscript)-1-exonIth][1] - 1 - (coord - cm.CoordsGenome[exonIth][0])
		}
		within = true
	}
	return
}

// Transcript2Genome translates a coordinate from the transcript to the genome system.
func (cm *CoordMapper) Transcript2Genome(tcoord int) (coord int, within bool) {
	for i := 0; i < len(cm.CoordsTranscript); i++ {
		if tcoord >= cm.CoordsTranscript[i][0] && tcoord < cm.CoordsTranscript[i][1] {
			offset := tcoord - cm.CoordsTranscript[i][0]
			if cm.Strand == 1 {
				coord = cm.CoordsGenome[i][0] + offset
			} else {
				coord = cm.CoordsGenome[len(cm.CoordsGenome)-1-i][1] - 1 - offset
			}
			return coord, true
		}
	}
	return
}

// Hull returns the genomic [start,end) covering transcript interval [tstart,tend).
func (cm *CoordMapper) Hull(tstart, tend int) (start, end int, within bool) {
	a, oka := cm.Transcript2Genome(tstart)
	b, okb := cm.Transcript2Genome(tend - 1)
	if !oka || !okb {
		return
	}
	if a > b {
		a, b = b, a
	}
	return a, b + 1, true
}
