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
	"fmt"
	"log"

	"github.com/exascience/hpcorrector/align"
	"github.com/exascience/hpcorrector/dna"
	"github.com/exascience/hpcorrector/reads"
	"github.com/exascience/hpcorrector/variant"
)

// An Aligner aligns a query against a target and returns the
// alignments best-first.
type Aligner interface {
	Align(query, target []byte) []*align.Alignment
}

// A VariantCaller lists the variants of an alignment in ascending
// order of their start, in coordinates of target.
type VariantCaller interface {
	CallVariants(aln *align.Alignment, target []byte) ([]variant.Variant, error)
}

// A subreadCall is the best alignment of one subread against the
// consensus, with its variants.
type subreadCall struct {
	aln      *align.Alignment
	variants []variant.Variant
}

// callSubReads aligns the subreads of read against its consensus and
// calls their variants. Subreads whose length is too far off, or that
// do not align, are left out. The consensus does not change while
// its homopolymers are evaluated, so the calls are shared by all of
// them.
func (c *Corrector) callSubReads(read *reads.ConsensusRead) ([]subreadCall, error) {
	var calls []subreadCall
	for i, sub := range read.SubReads {
		if dna.LengthDifference(sub.Bases, read.Bases) > c.Options.MaxLengthDifference {
			continue
		}
		alns := c.Aligner.Align(sub.Bases, read.Bases)
		if c.Options.AlignToReference && read.Reference != nil {
			if refAlns := c.Aligner.Align(sub.Bases, read.Reference.ReverseComplement()); len(refAlns) > 0 {
				log.Printf("Read %v subread %v to reference %v:\n%v", read.ID, i, read.Reference.ID, refAlns[0])
			} else {
				log.Printf("Read %v subread %v does not align to reference %v", read.ID, i, read.Reference.ID)
			}
		}
		if len(alns) == 0 {
			continue
		}
		variants, err := c.Caller.CallVariants(alns[0], read.Bases)
		if err != nil {
			return nil, fmt.Errorf("%v, while calling variants of subread %v", err, i)
		}
		calls = append(calls, subreadCall{aln: alns[0], variants: variants})
	}
	return calls, nil
}

// variantAt returns the first variant that starts at pos.
func variantAt(variants []variant.Variant, pos int32) (variant.Variant, bool) {
	for _, v := range variants {
		if v.Start == pos {
			return v, true
		}
		if v.Start > pos {
			break
		}
	}
	return variant.Variant{}, false
}

// evidence tallies the votes of the subread calls for hp. The votes
// are taken one position before the run.
func (c *Corrector) evidence(read *reads.ConsensusRead, calls []subreadCall, hp Homopolymer) (ev Evidence, err error) {
	pos := hp.Start - 1
	for _, call := range calls {
		ev.Alignments++
		v, found := variantAt(call.variants, pos)
		if !found {
			if _, ok := call.aln.FindQueryPosition(pos); ok {
				ev.Matches++
			}
			continue
		}
		switch v.Type {
		case variant.Indel:
			hpContext, err := v.HomopolymerContext(read.Bases)
			if err != nil {
				return ev, fmt.Errorf("%v, for variant %v", err, v)
			}
			if c.Options.Verbose {
				log.Printf("Read %v homopolymer %v: %v %v, context %c-%v\n%v", read.ID, hp, v.IndelType, v, hpContext.Base, hpContext.Length, call.aln)
			}
			switch v.IndelType {
			case variant.Insertion:
				ev.Insertions++
			case variant.Deletion:
				ev.Deletions++
			}
		case variant.SNP:
			// no vote
		}
	}
	return ev, nil
}

// CollectEvidence aligns the subreads of read against its consensus
// and tallies their votes for hp. It has no side effects on read.
func (c *Corrector) CollectEvidence(read *reads.ConsensusRead, hp Homopolymer) (Evidence, error) {
	calls, err := c.callSubReads(read)
	if err != nil {
		return Evidence{}, err
	}
	return c.evidence(read, calls, hp)
}
