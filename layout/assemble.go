package layout

import (
	"fmt"
	"strconv"
)

const sectionAssemble = "assemble"

// Assemble joins the scanned sections into a LayoutMap. Keys without a
// definition are left out. An activation level that the key type does not
// declare is an error.
func Assemble(s *Sections) (LayoutMap, error) {
	out := make(LayoutMap)

	for i, entry := range s.KeyMap {
		if !entry.Defined {
			continue
		}
		if i >= len(s.KeyNames) {
			return nil, assembleErr(i, fmt.Sprintf("key name for index %d", i), strconv.Itoa(len(s.KeyNames))+" names", ErrKeyCount)
		}
		key := s.KeyNames[i]

		if entry.TypeIndex < 0 || entry.TypeIndex >= len(s.KeyTypes) {
			return nil, assembleErr(i, fmt.Sprintf("type index below %d", len(s.KeyTypes)), strconv.Itoa(entry.TypeIndex), ErrMalformed)
		}
		kt := s.KeyTypes[entry.TypeIndex]

		end := entry.Offset + kt.Levels
		if entry.Offset < 0 || end > len(s.Symbols) {
			return nil, assembleErr(i, fmt.Sprintf("symbols [%d,%d) within %d", entry.Offset, end, len(s.Symbols)), key, ErrMalformed)
		}
		levels := s.Symbols[entry.Offset:end]

		act, ok := s.Activations[kt.Name]
		if !ok {
			return nil, assembleErr(i, "activation map for type "+kt.Name, key, ErrMalformed)
		}

		syms := make(map[ModifierSet]string, len(act))
		for mods, level := range act {
			if level < 0 || level >= kt.Levels {
				return nil, assembleErr(i, fmt.Sprintf("level below %d for type %s", kt.Levels, kt.Name), strconv.Itoa(level), ErrLevelRange)
			}
			syms[mods] = levels[level]
		}
		out[key] = syms
	}

	return out, nil
}

func assembleErr(index int, expected, actual string, err error) *ParseError {
	return &ParseError{
		Section:  fmt.Sprintf("%s: key %d", sectionAssemble, index),
		Expected: expected,
		Actual:   actual,
		Err:      err,
	}
}
