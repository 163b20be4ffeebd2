package log

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records the raw output captured from external tools.
type RawLogger interface {
	Log(source string, data []byte)
}

// rawLogger implements RawLogger with thread-safe log.
type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If writer is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log writes a timestamped header followed by the captured output, each
// line prefixed with its line number.
func (r *rawLogger) Log(source string, data []byte) {
	if len(data) == 0 {
		return
	}
	if r.w == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bw := bufio.NewWriter(r.w)
	fmt.Fprintf(bw, "%s %s output: %d bytes\n",
		time.Now().Format("2006/01/02 15:04:05"),
		source,
		len(data))

	n := 0
	start := 0
	for i, b := range data {
		if b != '\n' {
			continue
		}
		n++
		fmt.Fprintf(bw, "%6d  %s\n", n, data[start:i])
		start = i + 1
	}
	if start < len(data) {
		n++
		fmt.Fprintf(bw, "%6d  %s\n", n, data[start:])
	}
	_ = bw.Flush()
}
