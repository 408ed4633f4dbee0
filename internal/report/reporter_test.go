// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoundWritesOnlyFQDNToStdout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := New(&stdout, &stderr)

	assert.NoError(t, r.Found("www.example.com"))
	assert.NoError(t, r.Found("mail.example.com"))

	assert.Equal(t, "www.example.com\nmail.example.com\n", stdout.String())
}

func TestInfoAndStatsGoToStderrOnly(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := New(&stdout, &stderr)

	r.Info("scrape certspotter yielded 2 labels, of which 1 are new")
	r.Stats(3, 10, 2)

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "[info] scrape certspotter")
	assert.Contains(t, stderr.String(), "[stats] attempted=3 total=10 found=2")
}

func TestBannerFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := New(&stdout, &stderr)
	r.Banner("0.1.0", "the dnsmap maintainers")
	assert.Equal(t, "dnsmap 0.1.0 - DNS Network Mapper by the dnsmap maintainers\n", stderr.String())
}

func TestProgressRendersBarFields(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := New(&stdout, &stderr)
	r.Progress(5, 10, 3)

	out := stderr.String()
	assert.True(t, strings.Contains(out, "5/10"))
	assert.True(t, strings.Contains(out, "found=3"))
}
