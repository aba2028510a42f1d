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

// Package reads holds the in-memory model of a CCS experiment:
// consensus reads, their subreads, and the references they derive
// from.
package reads

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/exascience/hpcorrector/dna"
)

// Orientation records how a consensus read aligned to its
// reference.
type Orientation uint8

// Orientations.
const (
	Unaligned Orientation = iota
	Forward
	Reversed
)

func (o Orientation) String() string {
	switch o {
	case Forward:
		return "Forward"
	case Reversed:
		return "Reversed"
	default:
		return "NoAln"
	}
}

// A Reference is a known template sequence.
type Reference struct {
	ID    string
	Bases []byte

	revComp []byte
}

// NewReference creates a reference and caches its reverse complement.
func NewReference(id string, bases []byte) *Reference {
	return &Reference{ID: id, Bases: bases, revComp: dna.ReverseComplement(bases)}
}

// ReverseComplement returns the cached reverse complement of the
// reference bases. The result must not be modified.
func (ref *Reference) ReverseComplement() []byte {
	return ref.revComp
}

// A SubRead is one pass of the polymerase over the SMRTbell
// template.
type SubRead struct {
	Bases       []byte
	Movie       string
	ParentZMW   int
	Start, End  uint32
	ReadQuality float32
}

// A ConsensusRead is a CCS read together with the subreads it was
// built from.
type ConsensusRead struct {
	ID          string
	Bases       []byte
	Movie       string
	ZMW         int
	Reference   *Reference
	SubReads    []*SubRead
	Orientation Orientation
}

// Key identifies the ZMW of the read across movies.
func (read *ConsensusRead) Key() string {
	return zmwKey(read.Movie, read.ZMW)
}

// Key identifies the ZMW of the subread across movies.
func (sub *SubRead) Key() string {
	return zmwKey(sub.Movie, sub.ParentZMW)
}

func zmwKey(movie string, zmw int) string {
	return movie + "/" + strconv.Itoa(zmw)
}

// A Name is a parsed PacBio read name of the form
// movie/zmw[/start_end][ RQ=0.xx].
type Name struct {
	Movie       string
	ZMW         int
	Start, End  uint32
	HasRange    bool
	ReadQuality float32
}

// ParseName parses a PacBio read name. A trailing "/ccs" component is
// accepted in place of a subread range.
func ParseName(header string) (name Name, err error) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return name, fmt.Errorf("empty read name")
	}
	parts := strings.Split(fields[0], "/")
	if len(parts) < 2 || parts[0] == "" {
		return name, fmt.Errorf("invalid read name %v, expected movie/zmw", header)
	}
	name.Movie = parts[0]
	if name.ZMW, err = strconv.Atoi(parts[1]); err != nil {
		return name, fmt.Errorf("%v, while parsing zmw of read name %v", err, header)
	}
	if len(parts) > 2 && parts[2] != "ccs" {
		bounds := strings.Split(parts[2], "_")
		if len(bounds) != 2 {
			return name, fmt.Errorf("invalid subread range in read name %v", header)
		}
		start, err := strconv.ParseUint(bounds[0], 10, 32)
		if err != nil {
			return name, fmt.Errorf("%v, while parsing subread start of read name %v", err, header)
		}
		end, err := strconv.ParseUint(bounds[1], 10, 32)
		if err != nil {
			return name, fmt.Errorf("%v, while parsing subread end of read name %v", err, header)
		}
		name.Start, name.End, name.HasRange = uint32(start), uint32(end), true
	}
	for _, field := range fields[1:] {
		if strings.HasPrefix(field, "RQ=") {
			rq, err := strconv.ParseFloat(field[3:], 32)
			if err != nil {
				return name, fmt.Errorf("%v, while parsing read quality of read name %v", err, header)
			}
			name.ReadQuality = float32(rq)
		}
	}
	return name, nil
}

// NewConsensusRead creates a consensus read from a FASTA header and
// its bases.
func NewConsensusRead(header string, bases []byte) (*ConsensusRead, error) {
	name, err := ParseName(header)
	if err != nil {
		return nil, err
	}
	return &ConsensusRead{
		ID:    strings.Fields(header)[0],
		Bases: bases,
		Movie: name.Movie,
		ZMW:   name.ZMW,
	}, nil
}

// NewSubRead creates a subread from a FASTA header and its bases.
// The header must carry a subread range.
func NewSubRead(header string, bases []byte) (*SubRead, error) {
	name, err := ParseName(header)
	if err != nil {
		return nil, err
	}
	if !name.HasRange {
		return nil, fmt.Errorf("read name %v has no subread range", header)
	}
	return &SubRead{
		Bases:       bases,
		Movie:       name.Movie,
		ParentZMW:   name.ZMW,
		Start:       name.Start,
		End:         name.End,
		ReadQuality: name.ReadQuality,
	}, nil
}
