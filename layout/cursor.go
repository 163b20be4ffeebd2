package layout

import (
	"bufio"
	"io"
	"strings"
)

// Cursor reads the generated source line by line and can hand the last line
// back once, so a scanner may look one line past its own section.
type Cursor struct {
	next    func() (string, bool)
	err     func() error
	last    string
	line    int
	hasLast bool
	pending bool
}

// NewCursor reads lines from r.
func NewCursor(r io.Reader) *Cursor {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Cursor{
		next: func() (string, bool) {
			if !sc.Scan() {
				return "", false
			}
			return sc.Text(), true
		},
		err: sc.Err,
	}
}

// NewCursorFromLines iterates over an already buffered source.
func NewCursorFromLines(lines []string) *Cursor {
	i := 0
	return &Cursor{
		next: func() (string, bool) {
			if i >= len(lines) {
				return "", false
			}
			i++
			return lines[i-1], true
		},
		err: func() error { return nil },
	}
}

// Next returns the next line with trailing whitespace removed. It returns
// false once the stream is exhausted.
func (c *Cursor) Next() (string, bool) {
	if c.pending {
		c.pending = false
		return c.last, true
	}
	raw, ok := c.next()
	if !ok {
		c.hasLast = false
		return "", false
	}
	c.line++
	c.last = strings.TrimRight(raw, " \t\r")
	c.hasLast = true
	return c.last, true
}

// PushBack makes the following Next call return the most recent line again.
func (c *Cursor) PushBack() error {
	if c.pending {
		return ErrPushBackPending
	}
	if !c.hasLast {
		return ErrNothingToPushBack
	}
	c.pending = true
	return nil
}

// Line is the 1-based number of the most recently delivered line.
func (c *Cursor) Line() int {
	return c.line
}

// Err returns the first read error of the underlying reader, if any.
func (c *Cursor) Err() error {
	return c.err()
}
