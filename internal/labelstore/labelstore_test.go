// SPDX-License-Identifier: GPL-3.0-or-later

package labelstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddDedup(t *testing.T) {
	s := New("example.com")

	assert.True(t, s.Add("www"))
	assert.False(t, s.Add("WWW"))
	assert.False(t, s.Add("www."))
	assert.False(t, s.Add(" www "))
	assert.Equal(t, 1, s.Size())
}

func TestAddRejectsEmptyAndApex(t *testing.T) {
	s := New("example.com")

	assert.False(t, s.Add(""))
	assert.False(t, s.Add("   "))
	assert.False(t, s.Add("example.com"))
	assert.False(t, s.Add("EXAMPLE.COM."))
	assert.Equal(t, 0, s.Size())
}

func TestAddRejectsIllegalDNSNames(t *testing.T) {
	s := New("example.com")

	assert.False(t, s.Add("has a space"))
	assert.False(t, s.Add("trailing..dot"))
	assert.Equal(t, 0, s.Size())
}

func TestInsertionOrder(t *testing.T) {
	s := New("example.com")
	s.Add("www")
	s.Add("mail")
	s.Add("api")

	assert.Equal(t, []string{"www", "mail", "api"}, s.Snapshot())
}

func TestIterateSeesPreExistingAndLateAdditions(t *testing.T) {
	s := New("example.com")
	s.Add("www")

	ch := s.Iterate()
	s.Add("mail")
	s.Freeze()

	var got []string
	for label := range ch {
		got = append(got, label)
	}
	assert.Equal(t, []string{"www", "mail"}, got)
}

func TestAddAfterFreezeStillGrowsStore(t *testing.T) {
	s := New("example.com")
	s.Add("www")
	ch := s.Iterate()
	s.Freeze()

	// Drain the channel the dispatcher would have consumed.
	for range ch {
	}

	assert.True(t, s.Add("late"))
	assert.Equal(t, 2, s.Size())
}
