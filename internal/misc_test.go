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
	"errors"
	"testing"
)

func TestCatch(t *testing.T) {
	if err := Catch(func() error { return nil }); err != nil {
		t.Errorf("Catch without panic = %v", err)
	}
	sentinel := errors.New("sentinel")
	if err := Catch(func() error { return sentinel }); err != sentinel {
		t.Errorf("Catch with returned error = %v", err)
	}
	if err := Catch(func() error { panic(sentinel) }); err != sentinel {
		t.Errorf("Catch with error panic = %v", err)
	}
	if err := Catch(func() error { panic("boom") }); err == nil || err.Error() != "boom" {
		t.Errorf("Catch with string panic = %v", err)
	}
}
