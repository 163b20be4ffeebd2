package xkbdata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

const (
	// DefaultKeycodesDir holds the xkb keycodes files.
	DefaultKeycodesDir = "/usr/share/X11/xkb/keycodes"
	// DefaultKeycodes is the keycode set XRDP uses.
	DefaultKeycodes = "xfree86"
	// MaxScancode is the highest scancode a keycodes file may bind.
	MaxScancode = 0xFFFF
)

var (
	keycodeRe = regexp.MustCompile(`^\s*<([^>]+)>\s*=\s*([0-9]+);`)
	aliasRe   = regexp.MustCompile(`^\s*alias\s+<([^>]+)>\s*=\s*<([^>]+)>;`)
)

// Diagnostic is a tolerated anomaly in a keycodes file.
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("keycodes: line %d: %s", d.Line, d.Message)
}

// ScancodeTable maps scancodes to virtual key names and back.
type ScancodeTable struct {
	// Names is indexed by scancode; an empty string marks an unused scancode.
	Names []string

	codes   map[string]int
	aliases map[string]string
	// alias names per scancode, in file order
	aliasesOf map[int][]string
}

// Len is one past the highest assigned scancode.
func (t *ScancodeTable) Len() int {
	return len(t.Names)
}

// Name returns the virtual key bound to scancode.
func (t *ScancodeTable) Name(scancode int) (string, bool) {
	if scancode < 0 || scancode >= len(t.Names) || t.Names[scancode] == "" {
		return "", false
	}
	return t.Names[scancode], true
}

// Scancode resolves a virtual key name, following aliases.
func (t *ScancodeTable) Scancode(name string) (int, bool) {
	sc, ok := t.codes[name]
	return sc, ok
}

// Canonical returns the virtual key name bound to the scancode of name,
// which differs from name when name is an alias.
func (t *ScancodeTable) Canonical(name string) (string, bool) {
	sc, ok := t.Scancode(name)
	if !ok {
		return "", false
	}
	return t.Name(sc)
}

// Keys returns every name bound to scancode: the direct binding first, then
// the aliases resolving to it in file order.
func (t *ScancodeTable) Keys(scancode int) []string {
	var keys []string
	if name, ok := t.Name(scancode); ok {
		keys = append(keys, name)
	}
	return append(keys, t.aliasesOf[scancode]...)
}

type pendingAlias struct {
	line          int
	alias, target string
}

// LoadKeycodes parses an xkb keycodes file. The first binding of a name wins,
// later redefinitions are reported as diagnostics. Aliases are resolved
// after all direct bindings have been read.
func LoadKeycodes(r io.Reader) (*ScancodeTable, []Diagnostic, error) {
	t := &ScancodeTable{
		codes:     make(map[string]int),
		aliases:   make(map[string]string),
		aliasesOf: make(map[int][]string),
	}
	var diags []Diagnostic
	var pending []pendingAlias
	var order []string
	maxCode := -1

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()

		if m := keycodeRe.FindStringSubmatch(line); m != nil {
			code, err := strconv.Atoi(m[2])
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return nil, nil, fmt.Errorf("keycodes: line %d: invalid scancode %q: %w", lineNo, m[2], err)
			}
			if err != nil || code > MaxScancode {
				diags = append(diags, Diagnostic{Line: lineNo, Message: fmt.Sprintf("<%s> = %s is above the highest scancode %d, ignored", m[1], m[2], MaxScancode)})
				continue
			}
			if prev, seen := t.codes[m[1]]; seen {
				diags = append(diags, Diagnostic{Line: lineNo, Message: fmt.Sprintf("<%s> redefined as %d, keeping %d", m[1], code, prev)})
				continue
			}
			t.codes[m[1]] = code
			order = append(order, m[1])
			if code > maxCode {
				maxCode = code
			}
			continue
		}

		if m := aliasRe.FindStringSubmatch(line); m != nil {
			pending = append(pending, pendingAlias{line: lineNo, alias: m[1], target: m[2]})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read keycodes: %w", err)
	}

	t.Names = make([]string, maxCode+1)
	for _, name := range order {
		// the first name bound to a scancode owns it
		if code := t.codes[name]; t.Names[code] == "" {
			t.Names[code] = name
		}
	}

	for _, a := range pending {
		t.aliases[a.alias] = a.target
	}
	for _, a := range pending {
		if _, direct := t.codes[a.alias]; direct {
			continue
		}
		code, ok := t.resolveAlias(a.alias)
		if !ok {
			diags = append(diags, Diagnostic{Line: a.line, Message: fmt.Sprintf("alias <%s> refers to unknown key <%s>", a.alias, a.target)})
			continue
		}
		t.codes[a.alias] = code
		t.aliasesOf[code] = append(t.aliasesOf[code], a.alias)
	}

	return t, diags, nil
}

func (t *ScancodeTable) resolveAlias(name string) (int, bool) {
	seen := map[string]bool{}
	for !seen[name] {
		seen[name] = true
		if code, ok := t.codes[name]; ok {
			return code, true
		}
		target, ok := t.aliases[name]
		if !ok {
			return 0, false
		}
		name = target
	}
	return 0, false
}

// LoadKeycodeFile reads the keycodes file called name from dir.
func LoadKeycodeFile(dir, name string) (*ScancodeTable, []Diagnostic, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open keycodes: %w", err)
	}
	defer f.Close()
	return LoadKeycodes(f)
}
