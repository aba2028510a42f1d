// hpcorrector: homopolymer length correction for CCS reads.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elprep/blob/master/LICENSE.txt>.

package align

import (
	"sort"

	"github.com/exascience/hpcorrector/dna"
)

// An Aligner aligns queries against targets in both orientations.
// An Aligner is safe for concurrent use.
type Aligner struct {
	Scoring Scoring
}

// NewAligner returns an Aligner with DefaultScoring.
func NewAligner() *Aligner {
	return &Aligner{Scoring: DefaultScoring}
}

func (aligner *Aligner) accept(aln *Alignment, queryLength int) bool {
	if aln.Score <= aligner.Scoring.MinScore {
		return false
	}
	aligned := QueryLengthFromCigar(aln.Cigar)
	for _, op := range aln.Cigar {
		if op.Operation == 'S' {
			aligned -= op.Length
		}
	}
	clipped := float64(int32(queryLength)-aligned) / float64(queryLength)
	return clipped <= aligner.Scoring.MaxClippedFraction
}

// Align aligns query against target, once as given and once
// reverse-complemented. It returns the acceptable alignments
// best-first, or nil if there are none.
func (aligner *Aligner) Align(query, target []byte) (result []*Alignment) {
	if len(query) == 0 || len(target) == 0 {
		return nil
	}
	for _, reversed := range [2]bool{false, true} {
		q := query
		if reversed {
			q = dna.ReverseComplement(query)
		}
		cigar, offset, score := smithWaterman(target, q, aligner.Scoring)
		if cigar == nil {
			continue
		}
		if aln := newAlignment(target, q, cigar, offset, score, reversed); aligner.accept(aln, len(q)) {
			result = append(result, aln)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}
