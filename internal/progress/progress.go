// Package progress formats and emits progress lines for the generate and scan
// loops. It only observes the counters it is handed.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Line renders "current/total (pct) elapsed X eta Y".
func Line(current, total int, elapsed time.Duration) string {
	pct := 0.0
	if total > 0 {
		pct = float64(current) * 100 / float64(total)
	}
	eta := "?"
	if current > 0 && current <= total {
		remaining := time.Duration(float64(elapsed) / float64(current) * float64(total-current))
		eta = HumanDuration(remaining)
	}
	return fmt.Sprintf("%d/%d (%.1f%%) elapsed %s eta %s", current, total, pct, HumanDuration(elapsed), eta)
}

// Rate is items per second over elapsed.
func Rate(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(n) / elapsed.Seconds()
}

func HumanDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
}

// Counter logs a progress line every `every` processed items.
type Counter struct {
	log   *zap.SugaredLogger
	every int
	total int
	start time.Time
}

func NewCounter(log *zap.SugaredLogger, every, total int, start time.Time) *Counter {
	return &Counter{log: log, every: every, total: total, start: start}
}

// Observe is called with the running processed count after every increment.
func (c *Counter) Observe(processed int) {
	if c.every <= 0 || processed == 0 || processed%c.every != 0 {
		return
	}
	elapsed := time.Since(c.start)
	c.log.Infow("progress",
		"processed", processed,
		"total", c.total,
		"rate_per_sec", fmt.Sprintf("%.2f", Rate(processed, elapsed)),
		"line", Line(processed, c.total, elapsed),
	)
}

// Bar tracks per-item progress of one scan file.
type Bar interface {
	Add(n int)
	Finish()
}

// NewBar returns a terminal progress bar when out is a TTY and a log-based
// fallback that reports every 10% otherwise.
func NewBar(log *zap.SugaredLogger, out io.Writer, desc string, total int) Bar {
	if isTerminal(out) {
		return &ttyBar{bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(desc),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(out) }),
		)}
	}
	step := total / 10
	if step == 0 {
		step = 1
	}
	return &logBar{log: log, desc: desc, total: total, step: step, start: time.Now()}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type ttyBar struct {
	bar *progressbar.ProgressBar
}

func (b *ttyBar) Add(n int) { _ = b.bar.Add(n) }
func (b *ttyBar) Finish()   { _ = b.bar.Finish() }

type logBar struct {
	log   *zap.SugaredLogger
	desc  string
	total int
	step  int
	done  int
	start time.Time
}

func (b *logBar) Add(n int) {
	before := b.done / b.step
	b.done += n
	if b.done/b.step != before {
		b.log.Infow(b.desc, "progress", Line(b.done, b.total, time.Since(b.start)))
	}
}

func (b *logBar) Finish() {}
