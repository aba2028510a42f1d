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

import "fmt"

// Evidence holds the subread votes for one homopolymer.
type Evidence struct {
	// Number of subreads that aligned to the consensus.
	Alignments int
	// Subreads with an insertion or a deletion right before the run.
	Insertions, Deletions int
	// Subreads without a variant right before the run that still
	// cover that position.
	Matches int
}

func (ev Evidence) String() string {
	return fmt.Sprintf("alignments=%v insertions=%v deletions=%v matches=%v", ev.Alignments, ev.Insertions, ev.Deletions, ev.Matches)
}

// A Decision is the verdict of a Policy together with the numbers
// that led to it.
type Decision struct {
	Approve bool
	Evidence
	DeletionRatio, ErrorRate float64
}

// A Policy decides whether a homopolymer needs an extra base.
// Implementations must not panic, whatever the evidence.
type Policy interface {
	Decide(ev Evidence) Decision
}

// Default thresholds of RatioPolicy.
const (
	DefaultMinReadsNeeded     = 4
	DefaultMinErrorPercentage = 0.1
	DefaultMaxDeletionRatio   = 0.5
)

// RatioPolicy approves a homopolymer when enough subreads show an
// indel right before it, the indels are not dominated by deletions,
// and the indel rate among aligned subreads is high enough.
type RatioPolicy struct {
	MinReadsNeeded     int
	MinErrorPercentage float64
	MaxDeletionRatio   float64
}

// DefaultRatioPolicy returns a RatioPolicy with the default
// thresholds.
func DefaultRatioPolicy() RatioPolicy {
	return RatioPolicy{
		MinReadsNeeded:     DefaultMinReadsNeeded,
		MinErrorPercentage: DefaultMinErrorPercentage,
		MaxDeletionRatio:   DefaultMaxDeletionRatio,
	}
}

// Decide implements the Policy interface. Missing evidence yields NaN
// ratios, which compare false and therefore reject. Votes without
// alignments are inconsistent and also reject.
func (policy RatioPolicy) Decide(ev Evidence) Decision {
	totalErrors := ev.Insertions + ev.Deletions
	deletionRatio := float64(ev.Deletions) / float64(totalErrors)
	errorRate := float64(totalErrors) / float64(ev.Alignments)
	return Decision{
		Approve: ev.Alignments > 0 &&
			totalErrors >= policy.MinReadsNeeded &&
			deletionRatio <= policy.MaxDeletionRatio &&
			errorRate > policy.MinErrorPercentage,
		Evidence:      ev,
		DeletionRatio: deletionRatio,
		ErrorRate:     errorRate,
	}
}

// VotingThreshold is the fraction of covering subreads that must show
// an insertion for VotingPolicy to approve.
const VotingThreshold = 0.5

// VotingPolicy approves a homopolymer when a majority of the subreads
// covering the position before it show an insertion there.
type VotingPolicy struct{}

// Decide implements the Policy interface.
func (VotingPolicy) Decide(ev Evidence) Decision {
	totalErrors := ev.Insertions + ev.Deletions
	decision := Decision{
		Evidence:      ev,
		DeletionRatio: float64(ev.Deletions) / float64(totalErrors),
		ErrorRate:     float64(totalErrors) / float64(ev.Alignments),
	}
	if ev.Alignments == 0 {
		return decision
	}
	coverage := totalErrors + ev.Matches
	decision.Approve = float64(ev.Insertions)/float64(coverage) > VotingThreshold
	return decision
}

// PolicyByName returns the policy for the given name, "ratio" or
// "voting".
func PolicyByName(name string, ratio RatioPolicy) (Policy, error) {
	switch name {
	case "ratio":
		return ratio, nil
	case "voting":
		return VotingPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown correction policy %v", name)
	}
}
