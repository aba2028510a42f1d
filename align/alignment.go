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
	"fmt"
	"strings"

	"github.com/exascience/hpcorrector/dna"
)

// An Alignment is a pairwise alignment of a query against a target.
//
// Target and Query are the aligned rows, of equal length, with
// dna.Gap marking gaps. Soft-clipped query bases are not part of the
// rows.
type Alignment struct {
	Target, Query []byte

	// 0-based offsets of the first aligned base in the target and in
	// the (possibly reverse-complemented) query.
	TargetStart, QueryStart int32

	Score int32
	Cigar []CigarOperation

	// Reversed is true when the query was reverse-complemented to
	// obtain this alignment.
	Reversed bool
}

// newAlignment expands a CIGAR into aligned rows.
func newAlignment(target, query []byte, cigar []CigarOperation, targetStart, score int32, reversed bool) *Alignment {
	aln := &Alignment{
		TargetStart: targetStart,
		Score:       score,
		Cigar:       cigar,
		Reversed:    reversed,
	}
	size := int32(0)
	for _, op := range cigar {
		if op.Operation != 'S' {
			size += op.Length
		}
	}
	aln.Target = make([]byte, 0, size)
	aln.Query = make([]byte, 0, size)
	t, q := targetStart, int32(0)
	for i, op := range cigar {
		switch op.Operation {
		case 'S':
			if i == 0 {
				aln.QueryStart = op.Length
			}
			q += op.Length
		case 'M':
			aln.Target = append(aln.Target, target[t:t+op.Length]...)
			aln.Query = append(aln.Query, query[q:q+op.Length]...)
			t += op.Length
			q += op.Length
		case 'I':
			for k := int32(0); k < op.Length; k++ {
				aln.Target = append(aln.Target, dna.Gap)
			}
			aln.Query = append(aln.Query, query[q:q+op.Length]...)
			q += op.Length
		case 'D':
			aln.Target = append(aln.Target, target[t:t+op.Length]...)
			for k := int32(0); k < op.Length; k++ {
				aln.Query = append(aln.Query, dna.Gap)
			}
			t += op.Length
		}
	}
	return aln
}

// TargetEnd returns the 0-based target position after the last
// aligned base.
func (aln *Alignment) TargetEnd() int32 {
	return aln.TargetStart + TargetLengthFromCigar(aln.Cigar)
}

// FindQueryPosition returns the query position aligned to the given
// target position. It returns false if the target position lies
// outside the alignment, or if it is aligned to a gap.
func (aln *Alignment) FindQueryPosition(targetPos int32) (int32, bool) {
	tPos := aln.TargetStart - 1
	qPos := aln.QueryStart - 1
	if targetPos < tPos || targetPos > tPos+int32(len(aln.Target)) {
		return 0, false
	}
	for i, t := range aln.Target {
		if t != dna.Gap {
			tPos++
		}
		if aln.Query[i] != dna.Gap {
			qPos++
		}
		if tPos == targetPos {
			if aln.Query[i] != dna.Gap {
				return qPos, true
			}
			break
		}
	}
	return 0, false
}

// String renders the alignment as two rows with a match line in
// between.
func (aln *Alignment) String() string {
	var sb strings.Builder
	strand := "+"
	if aln.Reversed {
		strand = "-"
	}
	fmt.Fprintf(&sb, "Score=%v Target=%v Query=%v%v Cigar=%v\n", aln.Score, aln.TargetStart, aln.QueryStart, strand, CigarString(aln.Cigar))
	sb.Write(aln.Target)
	sb.WriteByte('\n')
	for i, t := range aln.Target {
		if t == aln.Query[i] {
			sb.WriteByte('|')
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte('\n')
	sb.Write(aln.Query)
	sb.WriteByte('\n')
	return sb.String()
}
