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
	"strconv"
	"strings"
)

// A CigarOperation is one element of an alignment's CIGAR string.
// Only M, I, D and S operations are produced by the Aligner.
type CigarOperation struct {
	Length    int32
	Operation byte
}

func operatorConsumesQueryBases(operator byte) bool {
	switch operator {
	case 'M', 'I', 'S', '=', 'X':
		return true
	default:
		return false
	}
}

func operatorConsumesTargetBases(operator byte) bool {
	switch operator {
	case 'M', 'D', 'N', '=', 'X':
		return true
	default:
		return false
	}
}

// QueryLengthFromCigar sums the lengths of all CIGAR operations that
// consume query bases.
func QueryLengthFromCigar(cigar []CigarOperation) (length int32) {
	for _, op := range cigar {
		if operatorConsumesQueryBases(op.Operation) {
			length += op.Length
		}
	}
	return length
}

// TargetLengthFromCigar sums the lengths of all CIGAR operations that
// consume target bases.
func TargetLengthFromCigar(cigar []CigarOperation) (length int32) {
	for _, op := range cigar {
		if operatorConsumesTargetBases(op.Operation) {
			length += op.Length
		}
	}
	return length
}

// CigarString formats a CIGAR in the usual SAM notation.
func CigarString(cigar []CigarOperation) string {
	if len(cigar) == 0 {
		return "*"
	}
	var sb strings.Builder
	for _, op := range cigar {
		sb.WriteString(strconv.FormatInt(int64(op.Length), 10))
		sb.WriteByte(op.Operation)
	}
	return sb.String()
}

// mergeCigar drops empty operations and merges adjacent operations
// of the same kind.
func mergeCigar(cigar []CigarOperation) []CigarOperation {
	result := cigar[:0]
	for _, op := range cigar {
		if op.Length == 0 {
			continue
		}
		if n := len(result); n > 0 && result[n-1].Operation == op.Operation {
			result[n-1].Length += op.Length
		} else {
			result = append(result, op)
		}
	}
	return result
}
