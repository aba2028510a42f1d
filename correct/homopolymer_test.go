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
	"math/rand"
	"reflect"
	"testing"
)

func TestFindHomopolymers(t *testing.T) {
	for _, tc := range []struct {
		seq      string
		expected []Homopolymer
	}{
		{"", nil},
		{"ACGT", nil},
		{"AAA", nil},
		{"AAAA", []Homopolymer{{0, 4, 'A'}}},
		{"ACGGGGT", []Homopolymer{{2, 4, 'G'}}},
		{"AAAA-TTTTT", []Homopolymer{{0, 4, 'A'}, {5, 5, 'T'}}},
		{"CAAAAATTTT", []Homopolymer{{1, 5, 'A'}, {6, 4, 'T'}}},
		{"GGGGGGGGGG", []Homopolymer{{0, 10, 'G'}}},
	} {
		if hps := FindHomopolymers([]byte(tc.seq), MinimumHomopolymerLength); !reflect.DeepEqual(hps, tc.expected) {
			t.Errorf("for %v expected %v, got %v", tc.seq, tc.expected, hps)
		}
	}
}

func TestFindHomopolymersProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 0; n < 1000; n++ {
		seq := make([]byte, r.Intn(200))
		for i := range seq {
			seq[i] = "ACGT"[r.Intn(2)]
		}
		minLength := 1 + r.Intn(6)
		hps := FindHomopolymers(seq, minLength)
		covered := make([]bool, len(seq))
		previousEnd := int32(-1)
		for _, hp := range hps {
			if hp.Length < int32(minLength) {
				t.Fatalf("run %v shorter than %v in %s", hp, minLength, seq)
			}
			if hp.Start < previousEnd {
				t.Fatalf("run %v overlaps or is out of order in %s", hp, seq)
			}
			previousEnd = hp.End()
			for i := hp.Start; i < hp.End(); i++ {
				if seq[i] != hp.Base {
					t.Fatalf("run %v is not homogeneous in %s", hp, seq)
				}
				covered[i] = true
			}
			if hp.Start > 0 && seq[hp.Start-1] == hp.Base {
				t.Fatalf("run %v is not maximal on the left in %s", hp, seq)
			}
			if int(hp.End()) < len(seq) && seq[hp.End()] == hp.Base {
				t.Fatalf("run %v is not maximal on the right in %s", hp, seq)
			}
		}
		// every long enough stretch must be reported
		for start := 0; start < len(seq); {
			end := start
			for end < len(seq) && seq[end] == seq[start] {
				end++
			}
			if end-start >= minLength && !covered[start] {
				t.Fatalf("missed run at %v in %s", start, seq)
			}
			start = end
		}
	}
}

func BenchmarkFindHomopolymers(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	seq := make([]byte, 20000)
	for i := range seq {
		seq[i] = "ACGT"[r.Intn(4)]
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FindHomopolymers(seq, MinimumHomopolymerLength)
	}
}
