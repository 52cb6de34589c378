// Package trace provides the debug trace side-channel of the resolution
// engine.
//
// A Sink is threaded explicitly through every resolution pass. It is never
// global state, so concurrent independent path resolutions do not interleave
// or race on trace output.
package trace

import (
	"fmt"
	"io"
	"sync"
)

// Sink receives single-line, human-readable trace entries in decision order.
type Sink interface {
	Logf(format string, args ...any)
}

type nopSink struct{}

func (nopSink) Logf(string, ...any) {}

// Nop returns a sink that discards all entries.
func Nop() Sink {
	return nopSink{}
}

type writerSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a sink that writes one line per entry to w.
func NewWriter(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) Logf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format+"\n", args...)
}

// Buffer is a sink that collects entries in memory, in order.
type Buffer struct {
	mu    sync.Mutex
	lines []string
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Logf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of the collected entries.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}
