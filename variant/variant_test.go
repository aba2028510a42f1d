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

package variant

import (
	"errors"
	"math/rand"
	"testing"
)

func TestHomopolymerContext(t *testing.T) {
	seq := []byte("ACGGGGTAAC")
	tests := []struct {
		start  int32
		length int32
		base   byte
	}{
		{0, 1, 'C'},
		{1, 4, 'G'},
		{2, 3, 'G'},
		{5, 1, 'T'},
		{6, 2, 'A'},
		{8, 1, 'C'},
	}
	for _, test := range tests {
		v := NewIndel(test.start, 1, Insertion, "G", false)
		ctx, err := v.HomopolymerContext(seq)
		if err != nil {
			t.Errorf("HomopolymerContext at %v: unexpected error %v", test.start, err)
			continue
		}
		if ctx.Length != test.length || ctx.Base != test.base {
			t.Errorf("HomopolymerContext at %v = (%v, %c), want (%v, %c)", test.start, ctx.Length, ctx.Base, test.length, test.base)
		}
	}
}

func TestHomopolymerContextAtEndOfAlignment(t *testing.T) {
	seq := []byte("ACGT")
	for _, start := range []int32{-1, 0, 3, 100} {
		v := NewIndel(start, 1, Deletion, "A", true)
		ctx, err := v.HomopolymerContext(seq)
		if err != nil {
			t.Errorf("boundary HomopolymerContext at %v: unexpected error %v", start, err)
		}
		if !ctx.Unbounded() || ctx.Length == 0 {
			t.Errorf("boundary HomopolymerContext at %v = %v, want unbounded", start, ctx.Length)
		}
	}
}

func TestHomopolymerContextOutOfRange(t *testing.T) {
	seq := []byte("ACGT")
	for _, start := range []int32{3, 4, 10, -2} {
		v := NewIndel(start, 1, Insertion, "T", false)
		_, err := v.HomopolymerContext(seq)
		var rangeErr *OutOfRangeError
		if !errors.As(err, &rangeErr) {
			t.Errorf("HomopolymerContext at %v: got %v, want OutOfRangeError", start, err)
		}
	}
}

func TestHomopolymerContextSNP(t *testing.T) {
	if _, err := NewSNP(0, 'A', 'C').HomopolymerContext([]byte("AAAA")); err == nil {
		t.Error("HomopolymerContext on SNP should fail")
	}
}

// The context length is the exact count of bytes equal to seq[p+1]
// starting at p+1.
func TestHomopolymerContextProperty(t *testing.T) {
	const bases = "ACGT"
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		seq := make([]byte, 1+r.Intn(60))
		for i := range seq {
			// bias towards runs
			if i > 0 && r.Intn(3) == 0 {
				seq[i] = seq[i-1]
			} else {
				seq[i] = bases[r.Intn(4)]
			}
		}
		for p := int32(-1); p < int32(len(seq))-1; p++ {
			ctx, err := NewIndel(p, 1, Deletion, "A", false).HomopolymerContext(seq)
			if err != nil {
				t.Fatalf("unexpected error %v for %s at %v", err, seq, p)
			}
			expected := int32(0)
			for q := p + 1; q < int32(len(seq)) && seq[q] == seq[p+1]; q++ {
				expected++
			}
			if ctx.Length != expected || ctx.Base != seq[p+1] {
				t.Fatalf("context for %s at %v = %v, want %v", seq, p, ctx.Length, expected)
			}
		}
	}
}

func TestVariantAccessors(t *testing.T) {
	snp := NewSNP(5, 'A', 'G')
	if snp.Length != 1 || snp.End() != 6 || snp.IsInsertion() || snp.IsDeletion() {
		t.Error("SNP accessors failed")
	}
	ins := NewIndel(3, 2, Insertion, "CC", false)
	if !ins.IsInsertion() || ins.IsDeletion() || ins.End() != 5 {
		t.Error("insertion accessors failed")
	}
	del := NewIndel(3, 1, Deletion, "C", true)
	if del.IsInsertion() || !del.IsDeletion() || !del.AtEndOfAlignment {
		t.Error("deletion accessors failed")
	}
}
