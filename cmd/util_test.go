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

package cmd

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckExist(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "reads.ccs.fasta")
	if err := ioutil.WriteFile(file, []byte(">m1/1/ccs\nACGT\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if !checkExist("", file) {
		t.Error("existing file reported missing")
	}
	if checkExist("", filepath.Join(dir, "missing.fasta")) {
		t.Error("missing file reported existing")
	}
	if checkExist("--report", "") || checkExist("--report", "--verbose") {
		t.Error("missing filename accepted")
	}
	if !checkExistList("", strings.Join([]string{file, dir}, ",")) {
		t.Error("existing list reported missing")
	}
	if checkExistList("", file+","+filepath.Join(dir, "missing.fasta")) {
		t.Error("list with missing entry accepted")
	}
}

func TestCheckCreate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "out", "corrected.fasta")
	if !checkCreate("", file) {
		t.Error("cannot create output file")
	}
	if _, err := ioutil.ReadFile(file); err == nil {
		t.Error("checkCreate should not leave the file behind")
	}
	if checkCreate("", "") {
		t.Error("empty filename accepted")
	}
}

func TestCreateLogFilename(t *testing.T) {
	name := createLogFilename()
	if !strings.HasPrefix(name, "logs/hpcorrector/hpcorrector-") || !strings.HasSuffix(name, ".log") {
		t.Errorf("unexpected log filename %v", name)
	}
}
