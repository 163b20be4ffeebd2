package layout

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	numKeysRe      = regexp.MustCompile(`^#define\s+NUM_KEYS\s+([0-9]+)`)
	keyNamesHeadRe = regexp.MustCompile(`^static\s+XkbKeyNameRec\s+keyNames\[NUM_KEYS\]\s*=\s*\{`)
	keyNameRe      = regexp.MustCompile(`\{\s*"([^"]*)"\s*\}`)
)

// ReadNumKeys scans forward to the NUM_KEYS declaration.
func (p *Parser) ReadNumKeys(c *Cursor) (int, error) {
	m, err := skipTo(c, SectionKeyCount, numKeysRe, "#define NUM_KEYS <n>")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &ParseError{Section: SectionKeyCount, Line: c.Line(), Expected: "integer key count", Actual: m[1], Err: ErrMalformed}
	}
	p.log().Debug("Number of keys", "count", n)
	return n, nil
}

// ReadKeyNames reads the virtual key name table. The position of a name is
// the virtual key index used by the key map.
func (p *Parser) ReadKeyNames(c *Cursor, numKeys int) ([]string, error) {
	if _, err := skipTo(c, SectionKeyNames, keyNamesHeadRe, "keyNames[NUM_KEYS] table"); err != nil {
		return nil, err
	}

	names := make([]string, 0, numKeys)
	for {
		line, err := next(c, SectionKeyNames, endMarker)
		if err != nil {
			return nil, err
		}
		if isEnd(line) {
			break
		}
		for _, m := range keyNameRe.FindAllStringSubmatch(line, -1) {
			names = append(names, m[1])
		}
	}

	p.log().Debug("Read key names", "count", len(names))
	if len(names) != numKeys {
		return nil, &ParseError{
			Section:  SectionKeyNames,
			Line:     c.Line(),
			Expected: fmt.Sprintf("%d names", numKeys),
			Actual:   strconv.Itoa(len(names)),
			Err:      ErrKeyCount,
		}
	}
	return names, nil
}
