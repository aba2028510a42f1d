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

package utils

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"testing"
)

func TestHandleGzip(t *testing.T) {
	const content = ">m1/1/ccs\nACGT\n"
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	for _, input := range [][]byte{[]byte(content), buf.Bytes()} {
		data, err := ioutil.ReadAll(HandleGzip(bufio.NewReader(bytes.NewReader(input))))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != content {
			t.Errorf("HandleGzip produced %q, want %q", data, content)
		}
	}
}

func TestIsGzipEmpty(t *testing.T) {
	ok, err := IsGzip(bufio.NewReader(bytes.NewReader(nil)))
	if ok || err != nil {
		t.Errorf("IsGzip on empty input = %v, %v", ok, err)
	}
}
