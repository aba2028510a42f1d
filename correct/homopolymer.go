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

// Package correct implements homopolymer length correction of
// consensus reads based on the evidence of their subreads.
package correct

import "fmt"

// MinimumHomopolymerLength is the default minimum length of a run
// that is considered for correction.
const MinimumHomopolymerLength = 4

// A Homopolymer is a maximal run of identical bases.
type Homopolymer struct {
	Start, Length int32
	Base          byte
}

// End returns the position after the last base of the run.
func (hp Homopolymer) End() int32 {
	return hp.Start + hp.Length
}

func (hp Homopolymer) String() string {
	return fmt.Sprintf("%c-%v@%v", hp.Base, hp.Length, hp.Start)
}

// FindHomopolymers returns the maximal runs of at least minLength
// identical bases in seq, in ascending order of their start.
func FindHomopolymers(seq []byte, minLength int) (hps []Homopolymer) {
	for start := 0; start < len(seq); {
		end := start + 1
		for end < len(seq) && seq[end] == seq[start] {
			end++
		}
		if end-start >= minLength {
			hps = append(hps, Homopolymer{
				Start:  int32(start),
				Length: int32(end - start),
				Base:   seq[start],
			})
		}
		start = end
	}
	return hps
}
