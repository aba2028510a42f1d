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
	"errors"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/exascience/hpcorrector/align"
	"github.com/exascience/hpcorrector/reads"
)

var (
	// ErrBlankID is returned for reads without an identifier.
	ErrBlankID = errors.New("read has a blank identifier")

	// ErrNoReference is returned for reads without an assigned
	// reference.
	ErrNoReference = errors.New("read has no assigned reference")
)

// DefaultMaxLengthDifference is the default bound on the length
// difference between a subread and its consensus.
const DefaultMaxLengthDifference = 25

// DefaultExcludedReference is the reference whose reads are not
// corrected by default.
const DefaultExcludedReference = "SmrtBellSequence"

// Options configure a Corrector.
type Options struct {
	MinHomopolymerLength int
	MaxLengthDifference  int

	// Reads assigned to these references are skipped by Run.
	ExcludeReferences []string

	// Also align every subread to the reverse complement of the
	// reference, and log the result. This has no effect on the
	// corrections.
	AlignToReference bool

	// Number of reads corrected in parallel, 0 for GOMAXPROCS.
	Threads int

	Verbose bool
}

// DefaultOptions returns the default Options.
func DefaultOptions() Options {
	return Options{
		MinHomopolymerLength: MinimumHomopolymerLength,
		MaxLengthDifference:  DefaultMaxLengthDifference,
		ExcludeReferences:    []string{DefaultExcludedReference},
	}
}

// State is the progress of the correction of one read.
type State uint8

// States.
const (
	Scanned State = iota
	Evaluated
	Corrected
	Unchanged
)

func (s State) String() string {
	switch s {
	case Scanned:
		return "Scanned"
	case Evaluated:
		return "Evaluated"
	case Corrected:
		return "Corrected"
	case Unchanged:
		return "Unchanged"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// A Result describes the correction of one read.
type Result struct {
	ID         string
	Candidates []Homopolymer
	// Approved indexes into Candidates.
	Approved *bitset.BitSet
	// Decisions are in the same order as Candidates.
	Decisions    []Decision
	State        State
	LengthBefore int
}

// Fixes returns the number of approved candidates.
func (result Result) Fixes() int {
	if result.Approved == nil {
		return 0
	}
	return int(result.Approved.Count())
}

// A Corrector corrects the homopolymers of consensus reads. A
// Corrector is safe for concurrent use once configured.
type Corrector struct {
	Options Options
	Aligner Aligner
	Caller  VariantCaller
	Policy  Policy

	// Counter counts the approved corrections of all reads. Observer,
	// if not nil, is notified of each increment.
	Counter  *Counter
	Observer Observer

	// ReadDone, if not nil, is called by Run after each read,
	// whatever the outcome.
	ReadDone func()
}

// NewCorrector returns a Corrector that uses the built-in aligner and
// variant caller, and logs every 100th fix.
func NewCorrector(options Options, policy Policy) *Corrector {
	return &Corrector{
		Options:  options,
		Aligner:  align.NewAligner(),
		Caller:   align.NewCaller(),
		Policy:   policy,
		Counter:  new(Counter),
		Observer: ProgressLogger{Every: 100},
	}
}

// CorrectRead corrects the homopolymers of read. Candidates are
// evaluated from the highest offset down, and all approved
// corrections are installed at once. On error, read is left as it
// was and the counter is not touched.
func (c *Corrector) CorrectRead(read *reads.ConsensusRead) (result Result, err error) {
	result.ID = read.ID
	result.LengthBefore = len(read.Bases)
	if strings.TrimSpace(read.ID) == "" {
		return result, ErrBlankID
	}
	if read.Reference == nil {
		return result, ErrNoReference
	}

	result.Candidates = FindHomopolymers(read.Bases, c.Options.MinHomopolymerLength)
	result.State = Scanned
	result.Approved = bitset.New(uint(len(result.Candidates)))
	result.Decisions = make([]Decision, len(result.Candidates))
	if len(result.Candidates) == 0 {
		result.State = Unchanged
		return result, nil
	}

	calls, err := c.callSubReads(read)
	if err != nil {
		return result, fmt.Errorf("%v, while aligning subreads of read %v", err, read.ID)
	}
	for i := len(result.Candidates) - 1; i >= 0; i-- {
		hp := result.Candidates[i]
		ev, err := c.evidence(read, calls, hp)
		if err != nil {
			return result, fmt.Errorf("%v, while evaluating homopolymer %v of read %v", err, hp, read.ID)
		}
		decision := c.Policy.Decide(ev)
		result.Decisions[i] = decision
		if decision.Approve {
			result.Approved.Set(uint(i))
		}
	}
	result.State = Evaluated

	if result.Approved.None() {
		result.State = Unchanged
		return result, nil
	}
	read.Bases = ApplyCorrections(read.Bases, result.Candidates, result.Approved)
	for n := result.Approved.Count(); n > 0; n-- {
		count := c.Counter.IncrementAndGet()
		if c.Observer != nil {
			c.Observer.Observe(count)
		}
	}
	result.State = Corrected
	return result, nil
}
