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

// Package variant defines the discrepancies a variant caller reports
// between an aligned query and the sequence it was aligned against.
package variant

import (
	"errors"
	"fmt"
	"math"
)

type (
	// Type discriminates the kinds of Variant.
	Type uint8

	// IndelType tells insertions and deletions apart.
	IndelType uint8
)

// Variant types.
const (
	SNP Type = iota
	Indel
)

// Indel types.
const (
	Insertion IndelType = iota
	Deletion
)

func (t Type) String() string {
	switch t {
	case SNP:
		return "SNP"
	case Indel:
		return "Indel"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

func (t IndelType) String() string {
	switch t {
	case Insertion:
		return "Insertion"
	case Deletion:
		return "Deletion"
	default:
		return fmt.Sprintf("IndelType(%d)", uint8(t))
	}
}

/*
A Variant is a discrepancy at a position of the sequence an alignment
was computed against.

Start is 0-based. For indels, Start is the position of the last
aligned base _before_ the event, so

	AAATTTAAA
	AAA---AAA

is a deletion of length 3 starting at position 2, and

	A--TTAAA
	ACCTTAAA

is an insertion of length 2 starting at position 0.

The SNP fields (RefBase, AltBase) are only meaningful when Type is
SNP, and the indel fields (IndelType, Bases) only when Type is Indel.
*/
type Variant struct {
	Type   Type
	Start  int32
	Length int32

	// AtEndOfAlignment is set when the variant was called from the
	// first or last aligned position. Its surroundings are unknown
	// rather than absent.
	AtEndOfAlignment bool

	RefBase, AltBase byte

	IndelType IndelType
	Bases     string
}

// NewSNP returns an SNP at the given position.
func NewSNP(start int32, refBase, altBase byte) Variant {
	return Variant{
		Type:    SNP,
		Start:   start,
		Length:  1,
		RefBase: refBase,
		AltBase: altBase,
	}
}

// NewIndel returns an insertion or deletion of the given bases.
func NewIndel(start, length int32, kind IndelType, bases string, atEndOfAlignment bool) Variant {
	return Variant{
		Type:             Indel,
		Start:            start,
		Length:           length,
		AtEndOfAlignment: atEndOfAlignment,
		IndelType:        kind,
		Bases:            bases,
	}
}

// End returns the position after the variant.
func (v Variant) End() int32 {
	return v.Start + v.Length
}

// IsInsertion is true for indels of type Insertion.
func (v Variant) IsInsertion() bool {
	return v.Type == Indel && v.IndelType == Insertion
}

// IsDeletion is true for indels of type Deletion.
func (v Variant) IsDeletion() bool {
	return v.Type == Indel && v.IndelType == Deletion
}

func (v Variant) String() string {
	switch v.Type {
	case SNP:
		return fmt.Sprintf("[SNP: Start=%v, Ref=%c, Alt=%c]", v.Start, v.RefBase, v.AltBase)
	case Indel:
		return fmt.Sprintf("[Indel: Start=%v, Length=%v, Type=%v, Bases=%v, AtEndOfAlignment=%v]",
			v.Start, v.Length, v.IndelType, v.Bases, v.AtEndOfAlignment)
	default:
		return fmt.Sprintf("[%v: Start=%v]", v.Type, v.Start)
	}
}

// UnboundedLength is the homopolymer context length reported for
// variants at the end of an alignment, where the run cannot be
// observed. Check for it before doing arithmetic on a Context.
const UnboundedLength = math.MaxInt32

// Context describes the homopolymer run that immediately follows an
// indel.
type Context struct {
	Length int32
	Base   byte
}

// Unbounded is true if the run could not be observed.
func (c Context) Unbounded() bool {
	return c.Length == UnboundedLength
}

// InHomopolymer is true if the indel is followed by back to back
// identical bases.
func (c Context) InHomopolymer() bool {
	return c.Length > 1
}

// An OutOfRangeError is returned when a homopolymer context would
// have to be read beyond the end of a sequence. This indicates broken
// position bookkeeping, not a short run.
type OutOfRangeError struct {
	Position, SequenceLength int32
}

func (err *OutOfRangeError) Error() string {
	return fmt.Sprintf("homopolymer context position %v out of range for sequence of length %v", err.Position, err.SequenceLength)
}

var errNotAnIndel = errors.New("homopolymer context requested for a variant that is not an indel")

// HomopolymerContext determines the run of identical bases that
// starts right after v.Start in seq, which must be the sequence the
// variant was called against.
func (v Variant) HomopolymerContext(seq []byte) (Context, error) {
	if v.Type != Indel {
		return Context{}, errNotAnIndel
	}
	if v.AtEndOfAlignment {
		return Context{Length: UnboundedLength}, nil
	}
	pos := v.Start + 1
	n := int32(len(seq))
	if pos < 0 || pos >= n {
		return Context{}, &OutOfRangeError{Position: pos, SequenceLength: n}
	}
	base := seq[pos]
	length := int32(0)
	for pos < n && seq[pos] == base {
		length++
		pos++
	}
	return Context{Length: length, Base: base}, nil
}
