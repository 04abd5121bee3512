// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress renders a single-line terminal progress bar for the
// long fetch and inspection loops.
package progress

import (
	"fmt"
	"io"
	"strings"
)

const defaultWidth = 50

// Bar redraws itself in place on every tick and finishes the line when
// the count reaches the total. The filled portion uses 'M', the rest
// '-'.
type Bar struct {
	w      io.Writer
	prefix string
	width  int
}

// NewBar builds a bar writing to w, labeled with prefix.
func NewBar(w io.Writer, prefix string) *Bar {
	return &Bar{w: w, prefix: prefix, width: defaultWidth}
}

// Tick renders the bar at done of total.
func (b *Bar) Tick(done, total int) {
	if total <= 0 {
		return
	}
	if done > total {
		done = total
	}
	filled := b.width * done / total
	bar := strings.Repeat("M", filled) + strings.Repeat("-", b.width-filled)
	percent := 100 * float64(done) / float64(total)
	fmt.Fprintf(b.w, "\r%s |%s| %.1f%% (%d/%d)", b.prefix, bar, percent, done, total)
	if done == total {
		fmt.Fprintln(b.w)
	}
}

// Observer adapts the bar to the retriever's (done, total) callback
// shape.
func (b *Bar) Observer() func(done, total int) {
	return b.Tick
}
