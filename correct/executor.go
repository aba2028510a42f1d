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

import "github.com/bits-and-blooms/bitset"

// ApplyCorrections returns a copy of seq in which every approved
// homopolymer is one base longer. The bits of approved index into
// hps, which must be in ascending order of their start, as returned
// by FindHomopolymers. The result is built from the highest offset
// down, so every insertion uses coordinates of the original sequence.
// seq itself is never modified.
func ApplyCorrections(seq []byte, hps []Homopolymer, approved *bitset.BitSet) []byte {
	insertions := 0
	for i := range hps {
		if approved.Test(uint(i)) {
			insertions++
		}
	}
	result := make([]byte, len(seq)+insertions)
	dst, src := len(result), len(seq)
	for i := len(hps) - 1; i >= 0; i-- {
		if !approved.Test(uint(i)) {
			continue
		}
		hp := hps[i]
		start := int(hp.Start)
		dst -= src - start
		copy(result[dst:], seq[start:src])
		dst--
		result[dst] = hp.Base
		src = start
	}
	copy(result[:dst], seq[:src])
	return result
}
