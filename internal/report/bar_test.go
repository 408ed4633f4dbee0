// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarRenderPercentAndCounts(t *testing.T) {
	b := newBar(100)
	line := b.render(25, 100, 10, 5.0)
	assert.Contains(t, line, "25.0%")
	assert.Contains(t, line, "25/100")
	assert.Contains(t, line, "found=10")
	assert.Contains(t, line, "5.0/s")
}

func TestBarRenderZeroTotal(t *testing.T) {
	b := newBar(0)
	line := b.render(0, 0, 0, 0)
	assert.Contains(t, line, "0/0")
	assert.Contains(t, line, "eta=?")
}

func TestBarUpdateReturnsRenderedLine(t *testing.T) {
	b := newBar(100)
	line := b.update(1, 100, 0)
	assert.True(t, strings.HasPrefix(line, "["))
}
