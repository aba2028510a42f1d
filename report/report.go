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

// Package report writes a tab-separated summary of the corrections
// made to each read.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/snksoft/crc"

	"github.com/exascience/hpcorrector/correct"
	"github.com/exascience/hpcorrector/reads"
)

// Header is the column header of a report.
const Header = "id\treference\torientation\tlength_before\tlength_after\tcandidates\tapproved\tstate\tcrc32"

// A Writer writes one report line per read. It implements
// correct.Sink and is safe for concurrent use.
type Writer struct {
	mutex sync.Mutex
	w     *bufio.Writer
	file  *os.File
	err   error
}

// NewWriter writes the report header to w, tagged with the run
// identifier.
func NewWriter(w io.Writer, run uuid.UUID) (*Writer, error) {
	writer := &Writer{w: bufio.NewWriter(w)}
	if _, err := fmt.Fprintf(writer.w, "# run %v\n%v\n", run, Header); err != nil {
		return nil, err
	}
	return writer, nil
}

// Create creates a report file.
func Create(name string, run uuid.UUID) (*Writer, error) {
	file, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	writer, err := NewWriter(file, run)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	writer.file = file
	return writer, nil
}

// Checksum returns the CRC-32 of a sequence.
func Checksum(seq []byte) uint32 {
	return uint32(crc.CalculateCRC(crc.CRC32, seq))
}

// Write implements the correct.Sink interface.
func (writer *Writer) Write(result correct.Result, read *reads.ConsensusRead) error {
	reference := "*"
	if read.Reference != nil {
		reference = read.Reference.ID
	}
	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	if writer.err != nil {
		return writer.err
	}
	_, writer.err = fmt.Fprintf(writer.w, "%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t%08x\n",
		read.ID, reference, read.Orientation,
		result.LengthBefore, len(read.Bases),
		len(result.Candidates), result.Fixes(), result.State,
		Checksum(read.Bases))
	return writer.err
}

// Close flushes the report and closes the file, if any.
func (writer *Writer) Close() error {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	err := writer.w.Flush()
	if writer.file != nil {
		if nerr := writer.file.Close(); err == nil {
			err = nerr
		}
		writer.file = nil
	}
	return err
}
