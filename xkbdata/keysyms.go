// Package xkbdata loads the system-wide X11 reference tables: keysym
// definitions from keysymdef.h and scancode assignments from xkb keycodes
// files.
package xkbdata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
)

// DefaultKeysymPath is where keysymdef.h is installed on most systems.
const DefaultKeysymPath = "/usr/include/X11/keysymdef.h"

// #define XK_exclam                        0x0021  /* U+0021 EXCLAMATION MARK */
var keysymDefRe = regexp.MustCompile(`^#define\sXK_(\w+)\s+0x0*([0-9A-Fa-f]+)(\s\s/\* U\+0*([0-9A-Fa-f]+)\s.*)?`)

// Keysym is the character code of a symbol and its unicode codepoint, when
// keysymdef.h declares one.
type Keysym struct {
	Code       int
	Unicode    int
	HasUnicode bool
}

// Keysyms maps symbol names (without the XK_ prefix) to their codes.
type Keysyms map[string]Keysym

// Lookup returns the definition of a symbol name.
func (k Keysyms) Lookup(name string) (Keysym, bool) {
	sym, ok := k[name]
	return sym, ok
}

// LoadKeysyms parses keysymdef.h style definitions from r.
func LoadKeysyms(r io.Reader) (Keysyms, error) {
	out := make(Keysyms)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := keysymDefRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		code, err := strconv.ParseInt(m[2], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("keysym %s: invalid code %q: %w", m[1], m[2], err)
		}
		sym := Keysym{Code: int(code)}
		if m[4] != "" {
			u, err := strconv.ParseInt(m[4], 16, 64)
			if err != nil {
				return nil, fmt.Errorf("keysym %s: invalid unicode %q: %w", m[1], m[4], err)
			}
			sym.Unicode = int(u)
			sym.HasUnicode = true
		}
		out[m[1]] = sym
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keysym definitions: %w", err)
	}
	return out, nil
}

// LoadKeysymFile reads keysym definitions from path.
func LoadKeysymFile(path string) (Keysyms, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keysym definitions: %w", err)
	}
	defer f.Close()
	return LoadKeysyms(f)
}
