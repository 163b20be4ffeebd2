package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	mapHeadRe = regexp.MustCompile(`^static\s+XkbKTMapEntryRec\s+map_(\w+)\[([0-9]+)\]\s*=\s*\{`)
	// { active, level, { mask, real_mods, vmods } }
	mapRowRe = regexp.MustCompile(`^\s*\{\s*([01]),\s*([0-9]+),\s*\{\s*([^,]*?)\s*,\s*([^,]*?)\s*,\s*([^,]*?)\s*\}\s*\},?$`)
)

// ReadActivationMaps reads every map_<TYPE> block up to the key type table.
// The key type header is pushed back onto the cursor for ReadKeyTypes.
func (p *Parser) ReadActivationMaps(c *Cursor) (ActivationMaps, error) {
	acts := ActivationMaps{OneLevel: {0: 0}}

	for {
		line, err := next(c, SectionActivations, "dflt_types[] table")
		if err != nil {
			return nil, err
		}
		if keyTypesHeadRe.MatchString(line) {
			if err := c.PushBack(); err != nil {
				return nil, err
			}
			break
		}
		m := mapHeadRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		name := m[1]
		count, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, malformed(c, SectionActivations, "entry count", m[2])
		}
		act, err := p.readActivationBlock(c, count)
		if err != nil {
			return nil, err
		}
		p.log().Debug("Read activation map", "type", name, "entries", count)
		acts[name] = act
	}

	return acts, nil
}

func (p *Parser) readActivationBlock(c *Cursor, count int) (ActivationMap, error) {
	// no modifiers selects the base level unless a row says otherwise
	act := ActivationMap{0: 0}

	for i := 0; i < count; i++ {
		line, err := next(c, SectionActivations, "map entry")
		if err != nil {
			return nil, err
		}
		m := mapRowRe.FindStringSubmatch(line)
		if m == nil {
			return nil, malformed(c, SectionActivations, "{ active, level, { mask, real_mods, vmods } }", line)
		}
		level, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, malformed(c, SectionActivations, "integer level", m[2])
		}
		if m[3] != m[4] {
			p.warn(c, SectionActivations, "modifier columns differ: %q vs %q, using %q", m[3], m[4], m[3])
		}

		set, err := parseModifierExpr(m[3])
		if err != nil {
			return nil, &ParseError{Section: SectionActivations, Line: c.Line(), Actual: line, Err: err}
		}
		extra, err := parseModifierExpr(m[5])
		if err != nil {
			return nil, &ParseError{Section: SectionActivations, Line: c.Line(), Actual: line, Err: err}
		}
		set |= extra

		p.log().Debug("Level activation", "level", level, "modifiers", set.String())
		act[set] = level
	}

	line, err := next(c, SectionActivations, endMarker)
	if err != nil {
		return nil, err
	}
	if !isEnd(line) {
		return nil, malformed(c, SectionActivations, endMarker, line)
	}
	return act, nil
}

// parseModifierExpr turns "ShiftMask|vmod_LevelThreMask" into a ModifierSet.
func parseModifierExpr(expr string) (ModifierSet, error) {
	var set ModifierSet
	for _, tok := range strings.Split(expr, "|") {
		tok = canonicalModifierToken(tok)
		if tok == "0" || tok == "" {
			continue
		}
		mod, ok := ModifierByToken(tok)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownModifier, tok)
		}
		set = set.With(mod)
	}
	return set, nil
}

func canonicalModifierToken(tok string) string {
	tok = strings.TrimSpace(tok)
	tok = strings.TrimPrefix(tok, "vmod_")
	tok = strings.TrimSuffix(tok, "Mask")
	return tok
}
