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

package reads

import (
	"fmt"
	"log"

	"github.com/exascience/pargo/parallel"

	"github.com/exascience/hpcorrector/dna"
	"github.com/exascience/hpcorrector/fasta"
	"github.com/exascience/hpcorrector/internal"
)

// MaxReferenceLengthDifference is the bound on the length difference
// between a consensus read and the reference it gets assigned to.
const MaxReferenceLengthDifference = 25

// An Experiment is a set of consensus reads with their subreads and
// the references they were sequenced from.
type Experiment struct {
	References []*Reference
	Reads      []*ConsensusRead

	// Reads for which no subreads were found.
	Missing int
}

func loadConsensusReads(filename string) []*ConsensusRead {
	records := fasta.ParseFasta(filename)
	result := make([]*ConsensusRead, 0, len(records))
	for _, record := range records {
		read, err := NewConsensusRead(record.Header, record.Seq)
		if err != nil {
			log.Panicf("%v, in file %v", err, filename)
		}
		result = append(result, read)
	}
	return result
}

func loadSubReads(filename string) map[string][]*SubRead {
	records := fasta.ParseFasta(filename)
	result := make(map[string][]*SubRead)
	for _, record := range records {
		sub, err := NewSubRead(record.Header, record.Seq)
		if err != nil {
			log.Panicf("%v, in file %v", err, filename)
		}
		key := sub.Key()
		result[key] = append(result[key], sub)
	}
	return result
}

// LoadReferences parses a FASTA file of references.
func LoadReferences(filename string) []*Reference {
	records := fasta.ParseFasta(filename)
	result := make([]*Reference, len(records))
	for i, record := range records {
		result[i] = NewReference(record.Name(), record.Seq)
	}
	return result
}

// GroupSubReads attaches subreads to the consensus reads of the same
// ZMW, and returns the number of reads for which none were found.
func GroupSubReads(reads []*ConsensusRead, subReads map[string][]*SubRead) (missing int) {
	for _, read := range reads {
		if subs, ok := subReads[read.Key()]; ok {
			read.SubReads = subs
		} else {
			missing++
		}
	}
	return missing
}

// AssignReferences assigns each read the first reference whose length
// is close enough to its own. Reads without such a reference keep a
// nil Reference.
func AssignReferences(reads []*ConsensusRead, references []*Reference) {
	parallel.Range(0, len(reads), 0, func(low, high int) {
		for _, read := range reads[low:high] {
			for _, ref := range references {
				if dna.LengthDifference(ref.Bases, read.Bases) < MaxReferenceLengthDifference {
					read.Reference = ref
					break
				}
			}
		}
	})
}

// LoadExperiment loads the consensus reads, subreads, and references
// of an experiment, and links them together. FASTA files may be
// gzip-compressed.
func LoadExperiment(ccsFiles, subReadFiles []string, referenceFile string) (exp *Experiment, err error) {
	exp = new(Experiment)
	err = internal.Catch(func() error {
		ccsPerFile := make([][]*ConsensusRead, len(ccsFiles))
		subReadsPerFile := make([]map[string][]*SubRead, len(subReadFiles))
		parallel.Do(
			func() {
				parallel.Range(0, len(ccsFiles), len(ccsFiles), func(low, high int) {
					for i := low; i < high; i++ {
						ccsPerFile[i] = loadConsensusReads(ccsFiles[i])
					}
				})
			},
			func() {
				parallel.Range(0, len(subReadFiles), len(subReadFiles), func(low, high int) {
					for i := low; i < high; i++ {
						subReadsPerFile[i] = loadSubReads(subReadFiles[i])
					}
				})
			},
			func() {
				exp.References = LoadReferences(referenceFile)
			},
		)
		for _, reads := range ccsPerFile {
			exp.Reads = append(exp.Reads, reads...)
		}
		subReads := make(map[string][]*SubRead)
		for _, m := range subReadsPerFile {
			for key, subs := range m {
				subReads[key] = append(subReads[key], subs...)
			}
		}
		exp.Missing = GroupSubReads(exp.Reads, subReads)
		AssignReferences(exp.Reads, exp.References)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%v, while loading experiment", err)
	}
	exp.logStatistics()
	return exp, nil
}

func (exp *Experiment) logStatistics() {
	total := len(exp.Reads)
	if total == 0 {
		log.Println("Total reads: 0")
		return
	}
	counts := make(map[*Reference]int)
	unassigned := 0
	for _, read := range exp.Reads {
		if read.Reference == nil {
			unassigned++
		} else {
			counts[read.Reference]++
		}
	}
	log.Println("Total reads:", total)
	log.Printf("Unmatched between CCS and subreads (missing): %v reads\n", exp.Missing)
	log.Printf("Not assigned to references: %v reads (%.4f%%)\n", unassigned, 100*float64(unassigned)/float64(total))
	for _, ref := range exp.References {
		c := counts[ref]
		log.Printf("Assigned to %v: %v reads (%.4f%%)\n", ref.ID, c, 100*float64(c)/float64(total))
	}
}
