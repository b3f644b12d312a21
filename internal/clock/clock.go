// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package clock provides the time source used by token issuance and expiry
// checks. Production code uses [Real]; tests use [Fake] to move time forward
// deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// Real returns a [Clock] backed by [time.Now].
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

// Fake is a manually driven [Clock]. The zero value is frozen at the zero
// [time.Time], January 1 of year 1 UTC; use [NewFake] to pick the start.
// It is safe for concurrent use.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a [Fake] frozen at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the frozen time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Set moves the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}
