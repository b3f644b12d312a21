// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReal_Now(t *testing.T) {
	before := time.Now()
	now := Real().Now()
	after := time.Now()

	assert.False(t, now.Before(before))
	assert.False(t, now.After(after))
}

func TestFake_AdvanceAndSet(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	assert.Equal(t, start, f.Now())

	f.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), f.Now())

	later := start.Add(48 * time.Hour)
	f.Set(later)
	assert.Equal(t, later, f.Now())
}

func TestFake_ZeroValue(t *testing.T) {
	var f Fake

	assert.True(t, f.Now().IsZero())
	assert.Equal(t, 1, f.Now().Year())

	f.Advance(time.Hour)
	assert.Equal(t, time.Time{}.Add(time.Hour), f.Now())
}
