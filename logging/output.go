package logging

import (
	"io"
	"os"
	"sync/atomic"
)

// sink is the stderr destination shared by every store logger. Commands
// that embed a store swap it out to capture diagnostics.
type sink struct {
	dst atomic.Pointer[io.Writer]
}

func (s *sink) Write(p []byte) (int, error) {
	return (*s.dst.Load()).Write(p)
}

func (s *sink) swap(w io.Writer) io.Writer {
	return *s.dst.Swap(&w)
}

var stderrSink = newSink(os.Stderr)

func newSink(w io.Writer) *sink {
	s := &sink{}
	s.dst.Store(&w)
	return s
}

// RedirectOutput sends stderr-bound log output to w until the returned
// restore func is called.
func RedirectOutput(w io.Writer) (restore func()) {
	prev := stderrSink.swap(w)
	return func() { stderrSink.swap(prev) }
}

// Output returns the writer loggers use when logging to stderr.
func Output() io.Writer {
	return stderrSink
}
