package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// progress prints single-line counters to stderr when it is a terminal.
type progress struct {
	w        io.Writer
	enabled  bool
	mu       sync.Mutex
	attempts atomic.Int64
	rejected atomic.Int64
}

func newProgress() *progress {
	fd := os.Stderr.Fd()
	return &progress{
		w:       os.Stderr,
		enabled: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// attempt is an acceptance hook; safe for concurrent use.
func (p *progress) attempt(_ int, _ uint64, accepted bool) {
	n := p.attempts.Add(1)
	if !accepted {
		p.rejected.Add(1)
	}
	if p.enabled && n%50 == 0 {
		p.printf("\rsequences tested: %s (%s rejected)", humanize.Comma(n), humanize.Comma(p.rejected.Load()))
	}
}

// armDone is a runner hook; safe for concurrent use.
func (p *progress) armDone(done, total int) {
	if p.enabled {
		p.printf("\rarms: %d/%d", done, total)
	}
}

// finish ends the progress line.
func (p *progress) finish() {
	if p.enabled {
		p.printf("\r%60s\r", "")
	}
}

// summary reports how many candidate sequences were tested.
func (p *progress) summary() (attempts, rejected int64) {
	return p.attempts.Load(), p.rejected.Load()
}

func (p *progress) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}
