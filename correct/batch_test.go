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
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/exascience/hpcorrector/align"
	"github.com/exascience/hpcorrector/reads"
	"github.com/exascience/hpcorrector/variant"
)

type recordingSink struct {
	mutex   sync.Mutex
	written map[string]string
	fail    string
}

func (sink *recordingSink) Write(result Result, read *reads.ConsensusRead) error {
	if read.ID == sink.fail {
		return errors.New("sink failure")
	}
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	if _, ok := sink.written[read.ID]; ok {
		return fmt.Errorf("read %v written twice", read.ID)
	}
	sink.written[read.ID] = string(read.Bases)
	return nil
}

// panickingCaller panics for one subread index.
type panickingCaller struct {
	fakeCaller
	index int32
}

func (c panickingCaller) CallVariants(aln *align.Alignment, target []byte) ([]variant.Variant, error) {
	if aln.Score == c.index {
		panic("caller panic")
	}
	return c.fakeCaller.CallVariants(aln, target)
}

func TestRun(t *testing.T) {
	s := newScenario("ACGGGGT", [][]variant.Variant{
		insertionAt(1), insertionAt(1), insertionAt(1), insertionAt(1), insertionAt(1), nil,
	})
	poison := &reads.SubRead{Bases: []byte("ACGGGGTTTTT")}
	s.aligner.index[string(poison.Bases)] = 99

	smrtBell := reads.NewReference(DefaultExcludedReference, []byte("ACGGGGT"))
	var input []*reads.ConsensusRead
	const n = 200
	for i := 0; i < n; i++ {
		input = append(input, &reads.ConsensusRead{
			ID:        fmt.Sprintf("m1/%v/ccs", i),
			Bases:     []byte("ACGGGGT"),
			Reference: s.read.Reference,
			SubReads:  s.read.SubReads,
		})
	}
	input[3].Reference = nil
	input[4].Reference = smrtBell
	input[5].ID = ""
	input[6].SubReads = append([]*reads.SubRead{poison}, s.read.SubReads...)
	input[7].ID = "sinkfail"

	c := s.corrector(DefaultRatioPolicy())
	c.Caller = panickingCaller{fakeCaller: s.caller, index: 99}
	var observed uint64
	var observedMutex sync.Mutex
	c.Observer = ObserverFunc(func(uint64) {
		observedMutex.Lock()
		observed++
		observedMutex.Unlock()
	})
	var done uint64
	var doneMutex sync.Mutex
	c.ReadDone = func() {
		doneMutex.Lock()
		done++
		doneMutex.Unlock()
	}
	c.Options.Threads = 4
	sink := &recordingSink{written: make(map[string]string), fail: "sinkfail"}

	summary, err := c.Run(context.Background(), input, sink)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Reads != n || done != n {
		t.Errorf("expected %v reads, got %v (done %v)", n, summary.Reads, done)
	}
	if summary.Skipped != 2 {
		t.Errorf("expected 2 skipped reads, got %v", summary.Skipped)
	}
	if len(summary.Failed) != 3 {
		t.Errorf("expected 3 failures, got %v", summary.Failed)
	}
	failed := make(map[string]bool)
	for _, f := range summary.Failed {
		failed[f.ID] = true
	}
	if !failed[""] || !failed["m1/6/ccs"] || !failed["sinkfail"] {
		t.Errorf("unexpected failures %v", summary.Failed)
	}
	if summary.Corrected != n-5 || summary.Fixes != n-5 {
		t.Errorf("expected %v corrected reads and fixes, got %v and %v", n-5, summary.Corrected, summary.Fixes)
	}
	// the read that failed in its sink was corrected before the write
	if c.Counter.Get() != uint64(n-4) || observed != uint64(n-4) {
		t.Errorf("expected counter %v, got %v (observed %v)", n-4, c.Counter.Get(), observed)
	}
	if len(sink.written) != n-5 {
		t.Errorf("expected %v written reads, got %v", n-5, len(sink.written))
	}
	for id, bases := range sink.written {
		if bases != "ACGGGGGT" {
			t.Errorf("read %v written as %v", id, bases)
		}
	}
	for _, i := range []int{3, 4, 6} {
		if string(input[i].Bases) != "ACGGGGT" {
			t.Errorf("read %v modified: %s", i, input[i].Bases)
		}
		if _, ok := sink.written[input[i].ID]; ok {
			t.Errorf("read %v should not be written", i)
		}
	}
	if input[0].Orientation != reads.Forward {
		t.Errorf("expected forward orientation, got %v", input[0].Orientation)
	}
	if input[3].Orientation != reads.Unaligned {
		t.Errorf("skipped read should stay unaligned, got %v", input[3].Orientation)
	}
}

func TestRunCanceled(t *testing.T) {
	s := newScenario("ACGGGGT", [][]variant.Variant{insertionAt(1)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &recordingSink{written: make(map[string]string)}
	_, err := s.corrector(DefaultRatioPolicy()).Run(ctx, []*reads.ConsensusRead{s.read}, sink)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(sink.written) != 0 {
		t.Errorf("nothing should be written after cancellation, got %v", sink.written)
	}
}

func TestRunEmpty(t *testing.T) {
	summary, err := NewCorrector(DefaultOptions(), DefaultRatioPolicy()).Run(context.Background(), nil, MultiSink{})
	if err != nil || summary.Reads != 0 {
		t.Errorf("unexpected summary %+v, %v", summary, err)
	}
}

func TestMultiSink(t *testing.T) {
	first := &recordingSink{written: make(map[string]string)}
	second := &recordingSink{written: make(map[string]string), fail: "b"}
	sink := MultiSink{first, second}
	if err := sink.Write(Result{}, &reads.ConsensusRead{ID: "a", Bases: []byte("AC")}); err != nil {
		t.Fatal(err)
	}
	if err := sink.Write(Result{}, &reads.ConsensusRead{ID: "b"}); err == nil {
		t.Error("expected the second sink to fail")
	}
	if first.written["a"] != "AC" || second.written["a"] != "AC" {
		t.Error("read a not written to both sinks")
	}
}

type records []string

func (r *records) WriteRecord(id string, seq []byte) error {
	*r = append(*r, id+":"+string(seq))
	return nil
}

func TestRecordSink(t *testing.T) {
	var r records
	if err := (RecordSink{&r}).Write(Result{}, &reads.ConsensusRead{ID: "x", Bases: []byte("ACGT")}); err != nil {
		t.Fatal(err)
	}
	if len(r) != 1 || r[0] != "x:ACGT" {
		t.Errorf("unexpected records %v", r)
	}
}
