package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/apoorvam/goterminal"
)

// progressDisplay rewrites one status line in place while tokens are
// sampled. It is only created when stderr is a terminal, so redirected
// output never sees control sequences.
type progressDisplay struct {
	mu     sync.Mutex
	w      *goterminal.Writer
	total  int
	counts []int
}

func newProgressDisplay(out *os.File, samples, total int) *progressDisplay {
	return &progressDisplay{
		w:      goterminal.New(out),
		total:  total,
		counts: make([]int, samples),
	}
}

// observe is an inference.TokenFunc.
func (p *progressDisplay) observe(sample, step, _ int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if sample < 0 || sample >= len(p.counts) {
		return
	}
	p.counts[sample] = step + 1

	done := 0
	for _, c := range p.counts {
		done += c
	}
	p.w.Clear()
	if len(p.counts) > 1 {
		fmt.Fprintf(p.w, "generating %d/%d tokens (%d samples)\n", done, p.total*len(p.counts), len(p.counts))
	} else {
		fmt.Fprintf(p.w, "generating %d/%d tokens\n", done, p.total)
	}
	p.w.Print()
}

// finish erases the status line so the samples start on a clean row.
func (p *progressDisplay) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.w.Clear()
	p.w.Reset()
}
