package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// barSink renders one progress bar per transfer. Unknown totals render as a spinner.
type barSink struct {
	out   io.Writer
	bar   *progressbar.ProgressBar
	label string
}

func newBarSink(out io.Writer) *barSink {
	return &barSink{out: out}
}

// Update starts a new bar whenever a transfer (or a retry of one) begins
func (s *barSink) Update(received, total int64, label string) {
	if s.bar == nil || label != s.label || received == 0 {
		s.Finish()
		s.bar = newBar(s.out, total, label)
		s.label = label
	}
	s.bar.Set64(received)
}

// Finish closes the current bar, if any
func (s *barSink) Finish() {
	if s.bar == nil {
		return
	}
	s.bar.Finish()
	fmt.Fprintln(s.out)
	s.bar = nil
	s.label = ""
}

func newBar(out io.Writer, total int64, label string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}
