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

package correct

import (
	"github.com/exascience/hpcorrector/dna"
	"github.com/exascience/hpcorrector/reads"
)

// AlignmentStatus is the outcome of aligning one subread to the
// reference of its read.
type AlignmentStatus uint8

// Alignment statuses.
const (
	// The subread length is too far off the consensus length.
	LengthDiff AlignmentStatus = iota
	Exists
	Null
)

func (s AlignmentStatus) String() string {
	switch s {
	case LengthDiff:
		return "LengthDiff"
	case Exists:
		return "Exists"
	default:
		return "Null"
	}
}

// CountAlignments aligns each subread of read to its reference, and
// returns the outcome per subread. The read must have a reference.
func (c *Corrector) CountAlignments(read *reads.ConsensusRead) ([]AlignmentStatus, error) {
	if read.Reference == nil {
		return nil, ErrNoReference
	}
	statuses := make([]AlignmentStatus, len(read.SubReads))
	for i, sub := range read.SubReads {
		switch {
		case dna.LengthDifference(sub.Bases, read.Bases) > c.Options.MaxLengthDifference:
			statuses[i] = LengthDiff
		case len(c.Aligner.Align(sub.Bases, read.Reference.Bases)) > 0:
			statuses[i] = Exists
		default:
			statuses[i] = Null
		}
	}
	return statuses, nil
}
