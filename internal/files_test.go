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

package internal

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "hpcorrector")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	for _, name := range []string{"b.ccs.fasta.gz", "a.ccs.fasta", "a.subreads.fasta", "notes.txt"} {
		if err := ioutil.WriteFile(filepath.Join(dir, name), nil, 0666); err != nil {
			t.Fatal(err)
		}
	}
	single := filepath.Join(dir, "notes.txt")
	files, err := ExpandFiles(dir+","+single, ".ccs.fasta", ".ccs.fasta.gz")
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{filepath.Join(dir, "a.ccs.fasta"), filepath.Join(dir, "b.ccs.fasta.gz"), single}
	if len(files) != len(expected) {
		t.Fatalf("ExpandFiles = %v, want %v", files, expected)
	}
	for i := range files {
		if files[i] != expected[i] {
			t.Errorf("ExpandFiles[%v] = %v, want %v", i, files[i], expected[i])
		}
	}
	if _, err := ExpandFiles(filepath.Join(dir, "missing")); err == nil {
		t.Error("ExpandFiles on a missing file should fail")
	}
}
