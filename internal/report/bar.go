// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/VividCortex/ewma"
	"github.com/cheggaaa/pb/v3"
)

// barWidth is the number of hash characters in the fill portion of the bar.
const barWidth = 30

// bar tracks progress bookkeeping and renders the single-line format spec
// §4.6 requires: percent, attempted/total, found, rate, ETA.
//
// Current/total bookkeeping is delegated to [pb.ProgressBar] rather than
// hand-rolled counters: SetCurrent/SetTotal/Current give us the same
// accounting a full cheggaaa/pb render loop would use, but the line itself
// is rendered by [bar.render] in the exact shape the spec requires instead
// of one of the library's built-in templates.
type bar struct {
	pb      *pb.ProgressBar
	rate    ewma.MovingAverage
	started time.Time
	lastT   time.Time
	lastN   int64
}

func newBar(total int) *bar {
	p := pb.New(total)
	return &bar{
		pb:      p,
		rate:    ewma.NewMovingAverage(),
		started: time.Now(),
		lastT:   time.Now(),
	}
}

// update records a new attempted/found count and returns the rendered
// line. found is reported separately from attempted because a probe can
// be attempted without resolving.
func (b *bar) update(attempted, total, found int) string {
	b.pb.SetTotal(int64(total))
	b.pb.SetCurrent(int64(attempted))

	now := time.Now()
	dt := now.Sub(b.lastT).Seconds()
	if dt > 0 {
		instantRate := float64(int64(attempted)-b.lastN) / dt
		b.rate.Add(instantRate)
	}
	b.lastT = now
	b.lastN = int64(attempted)

	return b.render(attempted, total, found, b.rate.Value())
}

func (b *bar) render(attempted, total, found int, rate float64) string {
	var percent float64
	if total > 0 {
		percent = float64(attempted) / float64(total) * 100
	}

	filled := 0
	if total > 0 {
		filled = int(float64(barWidth) * float64(attempted) / float64(total))
	}
	if filled > barWidth {
		filled = barWidth
	}
	hashes := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)

	eta := "?"
	if rate > 0.5 && total > attempted {
		remaining := time.Duration(float64(total-attempted)/rate) * time.Second
		eta = remaining.Round(time.Second).String()
	}

	return fmt.Sprintf("[%s] %5.1f%% %d/%d found=%d %.1f/s eta=%s",
		hashes, percent, attempted, total, found, rate, eta)
}
