package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	keyMapHeadRe = regexp.MustCompile(`^static\s+XkbSymMapRec\s+symMap\[NUM_KEYS\]\s*=\s*\{`)
	// { kt_index, group_info, offset }
	keyMapRe = regexp.MustCompile(`\{\s*([0-9]+),\s*0x([0-9A-Fa-f]+),\s*([0-9]+)\s*\}`)
)

// number of groups is stored in the low nibble of group_info
const groupCountMask = 0x0f

// ReadKeyMap reads the symMap table, one entry per virtual key index. Every
// piece of a row line must be a record, and the table must hold exactly
// numKeys records.
func (p *Parser) ReadKeyMap(c *Cursor, numKeys int) ([]KeyMapEntry, error) {
	if _, err := skipTo(c, SectionKeyMap, keyMapHeadRe, "symMap[NUM_KEYS] table"); err != nil {
		return nil, err
	}

	var entries []KeyMapEntry
	for {
		line, err := next(c, SectionKeyMap, endMarker)
		if err != nil {
			return nil, err
		}
		if isEnd(line) {
			break
		}

		if rest := strings.Trim(keyMapRe.ReplaceAllString(line, ""), " \t,"); rest != "" {
			return nil, malformed(c, SectionKeyMap, "{ type, 0xgroups, offset } records", line)
		}
		for _, m := range keyMapRe.FindAllStringSubmatch(line, -1) {
			typeIndex, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, malformed(c, SectionKeyMap, "type index", m[1])
			}
			groupInfo, err := strconv.ParseUint(m[2], 16, 32)
			if err != nil {
				return nil, malformed(c, SectionKeyMap, "group info", m[2])
			}
			offset, err := strconv.Atoi(m[3])
			if err != nil {
				return nil, malformed(c, SectionKeyMap, "symbol offset", m[3])
			}

			groups := int(groupInfo & groupCountMask)
			if groups > 1 {
				if p.StrictGroups {
					return nil, malformed(c, SectionKeyMap, "at most one group", m[0])
				}
				p.warn(c, SectionKeyMap, "key %d has %d groups, only the first is used", len(entries), groups)
			}

			entries = append(entries, KeyMapEntry{
				TypeIndex: typeIndex,
				Groups:    groups,
				Defined:   groups > 0,
				Offset:    offset,
			})
		}
	}

	p.log().Debug("Read key map", "entries", len(entries))
	if len(entries) != numKeys {
		return nil, &ParseError{
			Section:  SectionKeyMap,
			Line:     c.Line(),
			Expected: fmt.Sprintf("%d entries", numKeys),
			Actual:   strconv.Itoa(len(entries)),
			Err:      ErrKeyCount,
		}
	}
	return entries, nil
}
