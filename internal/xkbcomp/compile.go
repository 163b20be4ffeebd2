// Package xkbcomp runs the X keyboard tools to turn a layout selection into
// the C source representation that package layout parses.
package xkbcomp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Alia5/xkbrev/internal/log"
)

const (
	DefaultSetxkbmap = "/usr/bin/setxkbmap"
	DefaultXkbcomp   = "/usr/bin/xkbcomp"
)

var discardLogger = slog.New(slog.DiscardHandler)

// Selection names a layout the same way setxkbmap does.
type Selection struct {
	Layout  string
	Variant string
	Options []string
}

// Args returns the setxkbmap arguments that print the keymap description.
func (s Selection) Args() []string {
	var args []string
	if s.Layout != "" {
		args = append(args, "-layout", s.Layout)
	}
	if s.Variant != "" {
		args = append(args, "-variant", s.Variant)
	}
	for _, o := range s.Options {
		args = append(args, "-option", o)
	}
	return append(args, "-print")
}

// Result is the compiled layout.
type Result struct {
	// Description is the symbols include of the keymap, e.g. "us+no(nodeadkeys)".
	// Empty if setxkbmap did not report one.
	Description string
	// Lines is the generated C source, fully buffered.
	Lines []string
}

// Compiler invokes setxkbmap and xkbcomp.
type Compiler struct {
	SetxkbmapPath string
	XkbcompPath   string
	Logger        *slog.Logger
	Raw           log.RawLogger
}

// New returns a compiler using the default tool locations.
func New(logger *slog.Logger, raw log.RawLogger) *Compiler {
	return &Compiler{
		SetxkbmapPath: DefaultSetxkbmap,
		XkbcompPath:   DefaultXkbcomp,
		Logger:        logger,
		Raw:           raw,
	}
}

// Compile prints the keymap description for sel and compiles it to C source.
func (c *Compiler) Compile(ctx context.Context, sel Selection) (*Result, error) {
	descr, err := c.run(ctx, nil, c.SetxkbmapPath, sel.Args()...)
	if err != nil {
		return nil, err
	}

	res := &Result{Description: IdentifyLayout(bytes.NewReader(descr))}
	if res.Description != "" {
		c.logger().Info("Layout", "symbols", res.Description)
	}

	src, err := c.run(ctx, bytes.NewReader(descr), c.XkbcompPath, "-w", "0", "-C", "-", "-o", "-")
	if err != nil {
		return nil, err
	}
	res.Lines = splitLines(src)
	c.logger().Debug("Compiled layout", "lines", len(res.Lines))
	return res, nil
}

func (c *Compiler) run(ctx context.Context, stdin io.Reader, prog string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, prog, args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger().Debug("Running", "cmd", cmd.String())
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", prog, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", prog, err)
	}
	if c.Raw != nil {
		c.Raw.Log(prog, stdout.Bytes())
	}
	return stdout.Bytes(), nil
}

func (c *Compiler) logger() *slog.Logger {
	if c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}

func splitLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

// xkb_symbols { include "pc+us+inet(evdev)" };
var symbolsRe = regexp.MustCompile(`^\s*xkb_symbols\s*\{\s*include\s+"([^"]*)"\s*\};`)

// parts setxkbmap adds to every layout
var standardParts = map[string]bool{
	"pc":          true,
	"inet(evdev)": true,
}

// IdentifyLayout extracts the symbols description from setxkbmap -print
// output, without the parts common to every layout.
func IdentifyLayout(r io.Reader) string {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := symbolsRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		var parts []string
		for _, p := range strings.Split(m[1], "+") {
			if !standardParts[p] {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, "+")
	}
	return ""
}
