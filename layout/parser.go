// Package layout rebuilds an X11 keyboard layout from the C source emitted by
// `xkbcomp -C`.
//
// The generated source is consumed in one forward pass by six section
// scanners sharing a single Cursor: key count, key names, activation maps,
// key types, the flat symbol cache and the per-key symbol map. Assemble then
// joins the sections into a LayoutMap of virtual key -> modifiers -> symbol.
package layout

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// Section names used in errors and diagnostics.
const (
	SectionKeyCount    = "key count"
	SectionKeyNames    = "key names"
	SectionActivations = "activation maps"
	SectionKeyTypes    = "key types"
	SectionSymbols     = "symbols"
	SectionKeyMap      = "key map"
)

const endMarker = "};"

var discardLogger = slog.New(slog.DiscardHandler)

// Parser drives the section scanners over a Cursor.
type Parser struct {
	// Logger receives debug output; nil discards it.
	Logger *slog.Logger
	// StrictGroups makes keys with more than one group a parse error instead
	// of a diagnostic.
	StrictGroups bool

	diags []Diagnostic
}

// NewParser returns a parser logging to logger.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{Logger: logger}
}

// Diagnostics returns the anomalies tolerated during the last Parse.
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diags
}

// Parse reads every section in order.
func (p *Parser) Parse(c *Cursor) (*Sections, error) {
	p.diags = nil

	numKeys, err := p.ReadNumKeys(c)
	if err != nil {
		return nil, err
	}
	names, err := p.ReadKeyNames(c, numKeys)
	if err != nil {
		return nil, err
	}
	acts, err := p.ReadActivationMaps(c)
	if err != nil {
		return nil, err
	}
	types, err := p.ReadKeyTypes(c)
	if err != nil {
		return nil, err
	}
	syms, err := p.ReadSymbols(c)
	if err != nil {
		return nil, err
	}
	keyMap, err := p.ReadKeyMap(c, numKeys)
	if err != nil {
		return nil, err
	}

	return &Sections{
		NumKeys:     numKeys,
		KeyNames:    names,
		Activations: acts,
		KeyTypes:    types,
		Symbols:     syms,
		KeyMap:      keyMap,
	}, nil
}

// ParseLayout parses the generated source from r and assembles the layout.
func (p *Parser) ParseLayout(r io.Reader) (LayoutMap, error) {
	s, err := p.Parse(NewCursor(r))
	if err != nil {
		return nil, err
	}
	return Assemble(s)
}

func (p *Parser) log() *slog.Logger {
	if p.Logger == nil {
		return discardLogger
	}
	return p.Logger
}

func (p *Parser) warn(c *Cursor, section, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{
		Section: section,
		Line:    c.Line(),
		Message: fmt.Sprintf(format, args...),
	})
}

func malformed(c *Cursor, section, expected, actual string) *ParseError {
	return &ParseError{Section: section, Line: c.Line(), Expected: expected, Actual: actual, Err: ErrMalformed}
}

func truncated(c *Cursor, section, expected string) *ParseError {
	err := ErrTruncated
	if rerr := c.Err(); rerr != nil {
		err = fmt.Errorf("%w: %w", ErrTruncated, rerr)
	}
	return &ParseError{Section: section, Line: c.Line(), Expected: expected, Err: err}
}

// next returns the next line or a truncation error.
func next(c *Cursor, section, expected string) (string, error) {
	line, ok := c.Next()
	if !ok {
		return "", truncated(c, section, expected)
	}
	return line, nil
}

// skipTo discards lines until one matches re and returns its submatches.
func skipTo(c *Cursor, section string, re *regexp.Regexp, expected string) ([]string, error) {
	for {
		line, err := next(c, section, expected)
		if err != nil {
			return nil, err
		}
		if m := re.FindStringSubmatch(line); m != nil {
			return m, nil
		}
	}
}

func isEnd(line string) bool {
	return strings.TrimSpace(line) == endMarker
}
