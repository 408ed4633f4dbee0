// SPDX-License-Identifier: GPL-3.0-or-later

package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelFromHost(t *testing.T) {
	cases := []struct {
		host    string
		apex    string
		label   string
		ok      bool
	}{
		{"www.example.com", "example.com", "www", true},
		{"*.example.com", "example.com", "", false},
		{"*.api.example.com", "example.com", "api", true},
		{"example.com", "example.com", "", false},
		{"evilexample.com", "example.com", "", false},
		{"WWW.Example.COM", "example.com", "www", true},
		{"other.org", "example.com", "", false},
	}
	for _, c := range cases {
		label, ok := labelFromHost(c.host, c.apex)
		assert.Equal(t, c.ok, ok, c.host)
		if c.ok {
			assert.Equal(t, c.label, label, c.host)
		}
	}
}
