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

// Package fasta reads and writes FASTA files.
package fasta

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/exascience/hpcorrector/internal"
	"github.com/exascience/hpcorrector/utils"
)

// A Record is one entry of a FASTA file.
type Record struct {
	// Header is the header line without the leading '>'.
	Header string
	Seq    []byte
}

// Name returns the first word of the header.
func (r Record) Name() string {
	if i := strings.IndexAny(r.Header, " \t"); i >= 0 {
		return r.Header[:i]
	}
	return r.Header
}

var iupacUpperTable = map[byte]byte{
	'A': 'A', 'a': 'A',
	'C': 'C', 'c': 'C',
	'G': 'G', 'g': 'G',
	'T': 'T', 't': 'T',
	'N': 'N', 'n': 'N',
	'R': 'N', 'r': 'N',
	'Y': 'N', 'y': 'N',
	'M': 'N', 'm': 'N',
	'K': 'N', 'k': 'N',
	'W': 'N', 'w': 'N',
	'S': 'N', 's': 'N',
	'B': 'N', 'b': 'N',
	'D': 'N', 'd': 'N',
	'H': 'N', 'h': 'N',
	'V': 'N', 'v': 'N',
}

// ToUpperAndN can be used to normalize ambiguity codes in FASTA files,
// and convert all codes to upper case.
func ToUpperAndN(base byte) byte {
	if n, ok := iupacUpperTable[base]; ok {
		return n
	}
	return base
}

func headerFromLine(b []byte) string {
	return strings.TrimSpace(string(b[1:]))
}

const maxLineLength = 1 << 28

// Parse sequentially parses FASTA records from r, which may be
// gzip-compressed. Bases are upper-cased and ambiguity codes are
// normalized to N. The name is only used in error messages.
func Parse(r io.Reader, name string) (records []Record) {
	scanner := bufio.NewScanner(utils.HandleGzip(bufio.NewReader(r)))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var b []byte
	for {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				log.Panic(err)
			}
			return nil
		}
		if b = scanner.Bytes(); len(b) > 0 {
			break
		}
	}
	if b[0] != '>' {
		log.Panicf("invalid fasta file %v - missing first header", name)
	}

	record := Record{Header: headerFromLine(b)}
	for scanner.Scan() {
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		if b[0] == '>' {
			records = append(records, record)
			record = Record{Header: headerFromLine(b)}
			continue
		}
		for _, c := range b {
			if c == '\r' || c == ' ' || c == '\t' {
				continue
			}
			record.Seq = append(record.Seq, ToUpperAndN(c))
		}
	}
	records = append(records, record)

	if err := scanner.Err(); err != nil {
		log.Panic(err)
	}
	return records
}

// ParseFasta sequentially parses a FASTA file, which may be
// gzip-compressed.
func ParseFasta(filename string) []Record {
	f := internal.FileOpen(filename)
	defer internal.Close(f)
	return Parse(f, filename)
}

// ErrBlankID is returned when a record without an identifier is
// written.
var ErrBlankID = errors.New("blank identifier for FASTA record")

// DefaultLineWidth is the number of bases written per line.
const DefaultLineWidth = 80

// A Writer writes FASTA records. It is safe for concurrent use;
// records from different goroutines are never interleaved.
type Writer struct {
	mutex     sync.Mutex
	w         *bufio.Writer
	closers   []io.Closer
	lineWidth int
	records   int
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer, lineWidth int) *Writer {
	if lineWidth <= 0 {
		lineWidth = DefaultLineWidth
	}
	return &Writer{w: bufio.NewWriter(w), lineWidth: lineWidth}
}

// Create creates a FASTA file for output. If the name ends in .gz,
// the output is gzip-compressed. If the name is "/dev/stdout", the
// output is written to os.Stdout.
func Create(name string) (*Writer, error) {
	if name == "/dev/stdout" {
		return NewWriter(os.Stdout, DefaultLineWidth), nil
	}
	file, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(name) == ".gz" {
		gz := gzip.NewWriter(file)
		writer := NewWriter(gz, DefaultLineWidth)
		writer.closers = []io.Closer{gz, file}
		return writer, nil
	}
	writer := NewWriter(file, DefaultLineWidth)
	writer.closers = []io.Closer{file}
	return writer, nil
}

// WriteRecord writes one record. The id must not be blank.
func (writer *Writer) WriteRecord(id string, seq []byte) (err error) {
	if strings.TrimSpace(id) == "" {
		return ErrBlankID
	}
	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	if err = writer.w.WriteByte('>'); err != nil {
		return err
	}
	if _, err = writer.w.WriteString(id); err != nil {
		return err
	}
	if err = writer.w.WriteByte('\n'); err != nil {
		return err
	}
	for len(seq) > 0 {
		n := writer.lineWidth
		if n > len(seq) {
			n = len(seq)
		}
		if _, err = writer.w.Write(seq[:n]); err != nil {
			return err
		}
		if err = writer.w.WriteByte('\n'); err != nil {
			return err
		}
		seq = seq[n:]
	}
	writer.records++
	return nil
}

// Records returns the number of records written so far.
func (writer *Writer) Records() int {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	return writer.records
}

// Close flushes the output and closes the underlying files, if any.
func (writer *Writer) Close() error {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	err := writer.w.Flush()
	for _, c := range writer.closers {
		if nerr := c.Close(); err == nil {
			err = nerr
		}
	}
	writer.closers = nil
	return err
}
