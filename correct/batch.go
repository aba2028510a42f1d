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
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/exascience/pargo/pipeline"

	"github.com/exascience/hpcorrector/internal"
	"github.com/exascience/hpcorrector/reads"
)

// A Sink receives corrected reads. Implementations must serialize
// their own writes.
type Sink interface {
	Write(result Result, read *reads.ConsensusRead) error
}

// MultiSink writes each read to all its sinks in order, and stops at
// the first error.
type MultiSink []Sink

// Write implements the Sink interface.
func (sinks MultiSink) Write(result Result, read *reads.ConsensusRead) error {
	for _, sink := range sinks {
		if err := sink.Write(result, read); err != nil {
			return err
		}
	}
	return nil
}

// A Failure records a read that could not be corrected or written.
type Failure struct {
	ID  string
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("read %v: %v", f.ID, f.Err)
}

// A Summary describes the outcome of Run.
type Summary struct {
	Reads     int
	Corrected int
	Unchanged int
	Skipped   int
	Failed    []Failure
	Fixes     int
}

func (s *Summary) add(result Result, skipped bool, err error) {
	s.Reads++
	switch {
	case err != nil:
		s.Failed = append(s.Failed, Failure{ID: result.ID, Err: err})
	case skipped:
		s.Skipped++
	case result.State == Corrected:
		s.Corrected++
		s.Fixes += result.Fixes()
	default:
		s.Unchanged++
	}
}

func (c *Corrector) excluded(ref *reads.Reference) bool {
	for _, id := range c.Options.ExcludeReferences {
		if ref.ID == id {
			return true
		}
	}
	return false
}

// Orient aligns the consensus of read to its reference and records
// the orientation of the best hit.
func (c *Corrector) Orient(read *reads.ConsensusRead) {
	alns := c.Aligner.Align(read.Bases, read.Reference.Bases)
	switch {
	case len(alns) == 0:
		read.Orientation = reads.Unaligned
	case alns[0].Reversed:
		read.Orientation = reads.Reversed
	default:
		read.Orientation = reads.Forward
	}
}

// process orients, corrects, and writes one read. It reports whether
// the read was skipped.
func (c *Corrector) process(read *reads.ConsensusRead, sink Sink) (result Result, skipped bool, err error) {
	result.ID = read.ID
	err = internal.Catch(func() error {
		if read.Reference == nil || c.excluded(read.Reference) {
			skipped = true
			return nil
		}
		if strings.TrimSpace(read.ID) == "" {
			return ErrBlankID
		}
		c.Orient(read)
		var err error
		if result, err = c.CorrectRead(read); err != nil {
			return err
		}
		return sink.Write(result, read)
	})
	return result, skipped, err
}

// Run corrects reads in parallel and writes every corrected read to
// sink. Reads without a reference, or with an excluded reference, are
// skipped. A read that fails is logged and recorded in the summary,
// and does not stop the others. When ctx is done, no further reads
// are started and Run returns ctx.Err().
func (c *Corrector) Run(ctx context.Context, input []*reads.ConsensusRead, sink Sink) (summary Summary, err error) {
	if len(input) == 0 {
		return summary, ctx.Err()
	}
	var mutex sync.Mutex
	var p pipeline.Pipeline
	p.Source(input)
	p.SetVariableBatchSize(1, 1)
	p.Add(pipeline.LimitedPar(c.Options.Threads, pipeline.Receive(func(_ int, data interface{}) interface{} {
		for _, read := range data.([]*reads.ConsensusRead) {
			if err := ctx.Err(); err != nil {
				p.SetErr(err)
				return nil
			}
			result, skipped, err := c.process(read, sink)
			if err != nil {
				log.Printf("Failed to correct read %v: %v\n", read.ID, err)
			} else if c.Options.Verbose && !skipped {
				log.Printf("Read %v: %v of %v homopolymers corrected\n", read.ID, result.Fixes(), len(result.Candidates))
			}
			mutex.Lock()
			summary.add(result, skipped, err)
			mutex.Unlock()
			if c.ReadDone != nil {
				c.ReadDone()
			}
		}
		return nil
	})))
	p.Run()
	if err = p.Err(); err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}

// A RecordWriter writes identified sequences, such as a FASTA
// writer.
type RecordWriter interface {
	WriteRecord(id string, seq []byte) error
}

// RecordSink adapts a RecordWriter to the Sink interface.
type RecordSink struct {
	RecordWriter
}

// Write implements the Sink interface.
func (sink RecordSink) Write(_ Result, read *reads.ConsensusRead) error {
	return sink.WriteRecord(read.ID, read.Bases)
}
