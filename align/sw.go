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
	"math"
	"sync"
)

// Scoring holds the parameters of the Smith-Waterman recursion.
type Scoring struct {
	Match, Mismatch, GapOpen, GapExtend int32

	// Alignments with a score <= MinScore are not reported.
	MinScore int32

	// Alignments that leave more than this fraction of the query
	// soft-clipped are not reported.
	MaxClippedFraction float64
}

// DefaultScoring uses the weights for aligning haplotypes to a
// reference.
var DefaultScoring = Scoring{
	Match:              200,
	Mismatch:           -150,
	GapOpen:            -260,
	GapExtend:          -11,
	MinScore:           0,
	MaxClippedFraction: 0.5,
}

type int32Matrix struct {
	cols  int32
	array []int32
}

func (m *int32Matrix) ensureSize(rows, cols int32) {
	m.cols = cols
	totalSize := rows * cols
	if totalSize <= int32(cap(m.array)) {
		m.array = m.array[:totalSize]
		for i := range m.array {
			m.array[i] = 0
		}
	} else {
		m.array = make([]int32, totalSize)
	}
}

func (m *int32Matrix) at(row, col int32) int32 {
	return m.array[row*m.cols+col]
}

func (m *int32Matrix) rowView(row int32) []int32 {
	offset := row * m.cols
	return m.array[offset : offset+m.cols]
}

type smithWatermanMatrices struct {
	sw, backtrack                          int32Matrix
	bestGapV, bestGapH, gapSizeV, gapSizeH []int32
}

var smithWatermanMatricesPool = sync.Pool{New: func() interface{} { return &smithWatermanMatrices{} }}

func ensureVector(v []int32, sz, initValue int32) (result []int32) {
	if sz <= int32(cap(v)) {
		result = v[:sz]
	} else {
		result = make([]int32, sz)
	}
	for i := range result {
		result[i] = initValue
	}
	return
}

func maxInt32(x, y int32) int32 {
	if x > y {
		return x
	}
	return y
}

func absInt32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// exactOffset returns the last offset at which query occurs in
// target, or -1.
func exactOffset(target, query []byte) int32 {
	queryLength := int32(len(query))
	for t := int32(len(target)) - queryLength; t >= 0; t-- {
		q := int32(0)
		for q < queryLength && target[t+q] == query[q] {
			q++
		}
		if q == queryLength {
			return t
		}
	}
	return -1
}

// smithWaterman aligns query against target. Overhangs of the query
// beyond either end of the target are soft-clipped; the target may
// extend beyond the query on both sides. It returns the CIGAR in
// query orientation, the 0-based target offset of the first aligned
// base, and the alignment score.
func smithWaterman(target, query []byte, scoring Scoring) (cigar []CigarOperation, offset, score int32) {
	if len(query) == 0 || len(target) == 0 {
		return nil, -1, math.MinInt32
	}

	if offset = exactOffset(target, query); offset >= 0 {
		return []CigarOperation{{int32(len(query)), 'M'}}, offset, scoring.Match * int32(len(query))
	}

	sw := smithWatermanMatricesPool.Get().(*smithWatermanMatrices)
	defer smithWatermanMatricesPool.Put(sw)

	targetLength := int32(len(target))
	queryLength := int32(len(query))

	nrow := targetLength + 1
	ncol := queryLength + 1
	sw.sw.ensureSize(nrow, ncol)
	sw.backtrack.ensureSize(nrow, ncol)

	const (
		matrixMinCutoff = -1.0e8
		lowInitValue    = math.MinInt32 / 2
	)

	sw.bestGapV = ensureVector(sw.bestGapV, ncol+1, lowInitValue)
	sw.gapSizeV = ensureVector(sw.gapSizeV, ncol+1, 0)
	sw.bestGapH = ensureVector(sw.bestGapH, nrow+1, lowInitValue)
	sw.gapSizeH = ensureVector(sw.gapSizeH, nrow+1, 0)

	curRow := sw.sw.rowView(0)

	for i := int32(1); i < nrow; i++ {
		tBase := target[i-1]
		lastRow := curRow
		curRow = sw.sw.rowView(i)
		curBacktrackRow := sw.backtrack.rowView(i)

		for j := int32(1); j < ncol; j++ {
			stepDiag := lastRow[j-1]
			if tBase == query[j-1] {
				stepDiag += scoring.Match
			} else {
				stepDiag += scoring.Mismatch
			}

			prevGap := lastRow[j] + scoring.GapOpen
			sw.bestGapV[j] += scoring.GapExtend
			if prevGap > sw.bestGapV[j] {
				sw.bestGapV[j] = prevGap
				sw.gapSizeV[j] = 1
			} else {
				sw.gapSizeV[j]++
			}
			stepDown := sw.bestGapV[j]
			kd := sw.gapSizeV[j]

			prevGap = curRow[j-1] + scoring.GapOpen
			sw.bestGapH[i] += scoring.GapExtend
			if prevGap > sw.bestGapH[i] {
				sw.bestGapH[i] = prevGap
				sw.gapSizeH[i] = 1
			} else {
				sw.gapSizeH[i]++
			}
			stepRight := sw.bestGapH[i]
			ki := sw.gapSizeH[i]

			switch {
			case stepDiag >= stepDown && stepDiag >= stepRight:
				curRow[j] = maxInt32(matrixMinCutoff, stepDiag)
				curBacktrackRow[j] = 0
			case stepRight >= stepDown:
				curRow[j] = maxInt32(matrixMinCutoff, stepRight)
				curBacktrackRow[j] = -ki
			default:
				curRow[j] = maxInt32(matrixMinCutoff, stepDown)
				curBacktrackRow[j] = kd
			}
		}
	}

	// The query is either consumed entirely (last column), or its tail
	// hangs over the end of the target (last row) and gets clipped.
	maxScore := int32(math.MinInt32)
	var segmentLength, p1 int32
	p2 := queryLength
	for i := int32(1); i < nrow; i++ {
		if s := sw.sw.at(i, queryLength); s >= maxScore {
			p1 = i
			maxScore = s
		}
	}
	bottomRow := sw.sw.rowView(targetLength)
	for j := int32(1); j < ncol; j++ {
		if s := bottomRow[j]; s > maxScore || (s == maxScore && absInt32(targetLength-j) < absInt32(p1-p2)) {
			p1 = targetLength
			p2 = j
			maxScore = s
			segmentLength = queryLength - j
		}
	}

	cigar = make([]CigarOperation, 0, 8)
	if segmentLength > 0 {
		cigar = append(cigar, CigarOperation{segmentLength, 'S'})
		segmentLength = 0
	}
	state := byte('M')
	for {
		stepLength := int32(1)
		var newState byte
		switch btr := sw.backtrack.at(p1, p2); {
		case btr > 0:
			newState = 'D'
			stepLength = btr
			p1 -= btr
		case btr < 0:
			newState = 'I'
			stepLength = -btr
			p2 += btr
		default:
			newState = 'M'
			p1--
			p2--
		}
		if newState == state {
			segmentLength += stepLength
		} else {
			cigar = append(cigar, CigarOperation{segmentLength, state})
			segmentLength = stepLength
			state = newState
		}
		if p1 <= 0 || p2 <= 0 {
			break
		}
	}
	cigar = append(cigar, CigarOperation{segmentLength, state})
	if p2 > 0 {
		cigar = append(cigar, CigarOperation{p2, 'S'})
	}

	for i, j := 0, len(cigar)-1; i < j; i, j = i+1, j-1 {
		cigar[i], cigar[j] = cigar[j], cigar[i]
	}
	return mergeCigar(cigar), p1, maxScore
}
