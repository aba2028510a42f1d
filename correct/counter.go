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
	"log"
	"sync/atomic"
)

// A Counter counts approved corrections across all reads. It is safe
// for concurrent use.
type Counter struct {
	value uint64
}

// IncrementAndGet atomically adds one and returns the new value.
func (c *Counter) IncrementAndGet() uint64 {
	return atomic.AddUint64(&c.value, 1)
}

// Get returns the current value.
func (c *Counter) Get() uint64 {
	return atomic.LoadUint64(&c.value)
}

// An Observer is notified of every new value of a Counter.
type Observer interface {
	Observe(count uint64)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(count uint64)

// Observe implements the Observer interface.
func (f ObserverFunc) Observe(count uint64) {
	f(count)
}

// ProgressLogger logs the fix count at regular intervals.
type ProgressLogger struct {
	Every uint64
}

// Observe implements the Observer interface.
func (logger ProgressLogger) Observe(count uint64) {
	if logger.Every > 0 && count%logger.Every == 0 {
		log.Println("Fixed:", count)
	}
}
