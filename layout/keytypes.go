package layout

import (
	"regexp"
	"strconv"
	"strings"
)

var keyTypesHeadRe = regexp.MustCompile(`^static\s+XkbKeyTypeRec\s+dflt_types\[\]\s*=\s*\{`)

// ReadKeyTypes reads the dflt_types table. Each type is a six line record:
//
//	    {
//		{ mask, real_mods, vmods },
//		<num_levels>,
//		<map_count>, map_<NAME>, <preserve>,
//		None, lnames_<NAME>
//	    },
//
// The position of a type in the result is the type index of the key map.
func (p *Parser) ReadKeyTypes(c *Cursor) ([]KeyType, error) {
	if _, err := skipTo(c, SectionKeyTypes, keyTypesHeadRe, "dflt_types[] table"); err != nil {
		return nil, err
	}

	var types []KeyType
	for {
		line, err := next(c, SectionKeyTypes, "{ or "+endMarker)
		if err != nil {
			return nil, err
		}
		if isEnd(line) {
			break
		}
		if strings.TrimSpace(line) != "{" {
			return nil, malformed(c, SectionKeyTypes, "opening brace", line)
		}

		// modifier masks are already known from the activation maps
		if _, err := next(c, SectionKeyTypes, "modifier masks"); err != nil {
			return nil, err
		}

		line, err = next(c, SectionKeyTypes, "level count")
		if err != nil {
			return nil, err
		}
		field, _, _ := strings.Cut(line, ",")
		levels, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, malformed(c, SectionKeyTypes, "level count", line)
		}

		// map_count, map and preserve; types without a map have NULL here,
		// so the name is taken from the level names below
		if _, err := next(c, SectionKeyTypes, "map reference"); err != nil {
			return nil, err
		}

		line, err = next(c, SectionKeyTypes, "None, lnames_<NAME>")
		if err != nil {
			return nil, err
		}
		_, ref, ok := strings.Cut(line, ",")
		if !ok {
			return nil, malformed(c, SectionKeyTypes, "None, lnames_<NAME>", line)
		}
		name := strings.TrimPrefix(strings.TrimSpace(ref), "lnames_")

		line, err = next(c, SectionKeyTypes, "closing brace")
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(strings.TrimSpace(line), "}") {
			return nil, malformed(c, SectionKeyTypes, "closing brace", line)
		}

		p.log().Debug("Read key type", "index", len(types), "name", name, "levels", levels)
		types = append(types, KeyType{Name: name, Levels: levels})
	}

	return types, nil
}
