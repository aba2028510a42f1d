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
	"errors"
	"fmt"

	"github.com/exascience/hpcorrector/dna"
	"github.com/exascience/hpcorrector/variant"
)

// A Caller turns alignments into variants.
type Caller struct{}

// NewCaller returns a Caller.
func NewCaller() *Caller {
	return &Caller{}
}

var (
	errUnequalRows     = errors.New("alignment passed to variant calling has rows of unequal length")
	errOverlappingGaps = errors.New("alignment passed to variant calling has overlapping gaps")
)

// CallVariants returns the SNPs and indels of the given alignment in
// ascending position order. Indels are left-aligned first. Positions
// refer to target, the sequence the query was aligned against.
func (*Caller) CallVariants(aln *Alignment, target []byte) ([]variant.Variant, error) {
	if aln == nil {
		return nil, errors.New("nil alignment passed to variant calling")
	}
	if len(aln.Target) != len(aln.Query) {
		return nil, errUnequalRows
	}
	// copies, since left alignment shuffles bases around
	t := append([]byte(nil), aln.Target...)
	q := append([]byte(nil), aln.Query...)
	for i := range t {
		if t[i] == dna.Gap && q[i] == dna.Gap {
			return nil, errOverlappingGaps
		}
	}
	leftAlignIndels(t, q)

	var variants []variant.Variant
	n := len(t)
	pos := aln.TargetStart
	for i := 0; i < n; {
		switch {
		case t[i] == dna.Gap:
			length := gapLength(t, i)
			atEnd := i == 0 || i+length >= n
			variants = append(variants, variant.NewIndel(pos-1, int32(length), variant.Insertion, string(q[i:i+length]), atEnd))
			i += length
		case q[i] == dna.Gap:
			length := gapLength(q, i)
			atEnd := i == 0 || i+length >= n
			variants = append(variants, variant.NewIndel(pos-1, int32(length), variant.Deletion, string(t[i:i+length]), atEnd))
			i += length
			pos += int32(length)
		default:
			if q[i] != t[i] {
				if pos < 0 || int(pos) >= len(target) {
					return nil, fmt.Errorf("SNP position %v outside target of length %v", pos, len(target))
				}
				variants = append(variants, variant.NewSNP(pos, target[pos], q[i]))
			}
			i++
			pos++
		}
	}
	return variants, nil
}

func gapLength(row []byte, pos int) int {
	length := 0
	for pos+length < len(row) && row[pos+length] == dna.Gap {
		length++
	}
	return length
}

// leftAlignIndels shifts all gaps as far left as possible without
// changing the aligned sequences, for example
//
//	TTTTAAAATTTT  ->  TTTTAAAATTTT
//	TTTTAA--TTTT      TTTT--AATTTT
//
// Shifting one gap can open up room for another further upstream, so
// this repeats until nothing moves.
func leftAlignIndels(target, query []byte) {
	for {
		shifts := 0
		for i := 1; i < len(target); i++ {
			switch {
			case target[i] == dna.Gap && target[i-1] != dna.Gap:
				shifts += shiftGapLeft(target, query, i)
			case query[i] == dna.Gap && query[i-1] != dna.Gap:
				shifts += shiftGapLeft(query, target, i)
			}
		}
		if shifts == 0 {
			return
		}
	}
}

func shiftGapLeft(gapped, other []byte, pos int) (shifts int) {
	left := pos - 1
	right := pos - 1 + gapLength(gapped, pos)
	for left >= 0 && other[left] != dna.Gap && gapped[left] == other[right] {
		gapped[right] = gapped[left]
		gapped[left] = dna.Gap
		left--
		right--
		shifts++
	}
	return shifts
}
