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

// Package dna provides small helpers on nucleotide sequences
// represented as byte slices.
package dna

// Gap is the symbol used for gaps in aligned sequences.
const Gap = '-'

var complementTable [256]byte

func init() {
	for i := range complementTable {
		complementTable[i] = 'N'
	}
	for _, pair := range [][2]byte{
		{'A', 'T'}, {'C', 'G'}, {'G', 'C'}, {'T', 'A'},
		{'a', 't'}, {'c', 'g'}, {'g', 'c'}, {'t', 'a'},
		{'R', 'Y'}, {'Y', 'R'}, {'S', 'S'}, {'W', 'W'},
		{'K', 'M'}, {'M', 'K'}, {'B', 'V'}, {'V', 'B'},
		{'D', 'H'}, {'H', 'D'}, {'N', 'N'}, {Gap, Gap},
	} {
		complementTable[pair[0]] = pair[1]
	}
}

// Complement returns the complementary base. Unknown symbols map to N.
func Complement(base byte) byte {
	return complementTable[base]
}

// ReverseComplement returns a freshly allocated reverse complement
// of the given sequence.
func ReverseComplement(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	result := make([]byte, n)
	for i, base := range seq {
		result[n-1-i] = complementTable[base]
	}
	return result
}

// LengthDifference returns the absolute difference in length between
// two sequences.
func LengthDifference(seq1, seq2 []byte) int {
	d := len(seq1) - len(seq2)
	if d < 0 {
		return -d
	}
	return d
}
