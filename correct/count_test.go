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
	"strings"
	"testing"

	"github.com/exascience/hpcorrector/reads"
)

func TestCountAlignments(t *testing.T) {
	consensus := "GATTACAGGGGCATTCAGTC"
	read := &reads.ConsensusRead{
		ID:        "m1/3/ccs",
		Bases:     []byte(consensus),
		Reference: reads.NewReference("ref", []byte(consensus)),
		SubReads: []*reads.SubRead{
			{Bases: []byte("GATTACAGGGGGCATTCAGTC")},
			{Bases: []byte(consensus + strings.Repeat("A", 26))},
			{Bases: []byte("TTTTTTTTTTTTTTTTTTTT")},
		},
	}
	c := NewCorrector(DefaultOptions(), DefaultRatioPolicy())
	statuses, err := c.CountAlignments(read)
	if err != nil {
		t.Fatal(err)
	}
	expected := []AlignmentStatus{Exists, LengthDiff, Null}
	if len(statuses) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, statuses)
	}
	for i := range expected {
		if statuses[i] != expected[i] {
			t.Errorf("subread %v: expected %v, got %v", i, expected[i], statuses[i])
		}
	}
	read.Reference = nil
	if _, err := c.CountAlignments(read); err != ErrNoReference {
		t.Errorf("expected ErrNoReference, got %v", err)
	}
}
