package layout

import (
	"regexp"
	"strings"
)

var symbolsHeadRe = regexp.MustCompile(`^static\s+KeySym\s+symCache\[NUM_SYMBOLS\]\s*=\s*\{`)

// ReadSymbols reads the flat symCache table. Keys reference it by offset.
func (p *Parser) ReadSymbols(c *Cursor) (SymbolTable, error) {
	if _, err := skipTo(c, SectionSymbols, symbolsHeadRe, "symCache[NUM_SYMBOLS] table"); err != nil {
		return nil, err
	}

	var syms SymbolTable
	for {
		line, err := next(c, SectionSymbols, endMarker)
		if err != nil {
			return nil, err
		}
		if isEnd(line) {
			break
		}
		syms = append(syms, splitSymbols(line)...)
	}

	p.log().Debug("Read symbols", "count", len(syms))
	return syms, nil
}

// splitSymbols turns "    XK_a,  XK_A," into ["a", "A"].
func splitSymbols(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ",")
	if line == "" {
		return nil
	}
	parts := strings.Split(line, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, strings.TrimPrefix(s, "XK_"))
	}
	return out
}
