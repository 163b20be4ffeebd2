// Package testing writes xkbcomp -C shaped source for parser tests.
package testing

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Alia5/xkbrev/layout"
)

// tokens the generated source uses for each modifier
var modifierTokens = map[layout.Modifier]string{
	layout.Shift:     "ShiftMask",
	layout.CapsLock:  "LockMask",
	layout.Control:   "ControlMask",
	layout.NumLock:   "vmod_NumLockMask",
	layout.AltGr:     "vmod_LevelThreMask",
	layout.Super:     "Mod4Mask",
	layout.Alt:       "vmod_AltMask",
	layout.LevelFive: "vmod_LevelFivMask",
	layout.LeftAlt:   "vmod_LAltMask",
	layout.RightAlt:  "vmod_RAltMask",
	layout.LeftCtrl:  "vmod_LControlMask",
	layout.RightCtrl: "vmod_RControlMask",
}

// ModifierExpr renders a set as a "|"-joined mask expression, "0" if empty.
func ModifierExpr(s layout.ModifierSet) string {
	if s.Empty() {
		return "0"
	}
	mods := s.Modifiers()
	parts := make([]string, len(mods))
	for i, m := range mods {
		parts[i] = modifierTokens[m]
	}
	return strings.Join(parts, "|")
}

// WriteSource writes s in the layout of xkbcomp's C output. Activation maps
// are written in name order, rows in level then mask order; the implicit
// empty set -> 0 row is omitted.
func WriteSource(w io.Writer, s *layout.Sections) error {
	var b strings.Builder

	fmt.Fprintf(&b, "/* generated for tests */\n#define NUM_KEYS\t%d\n\n", s.NumKeys)

	b.WriteString("static XkbKeyNameRec\tkeyNames[NUM_KEYS]= {\n")
	for i, name := range s.KeyNames {
		sep := ","
		if i == len(s.KeyNames)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    {  %q  }%s\n", name, sep)
	}
	b.WriteString("};\n\n")

	names := make([]string, 0, len(s.Activations))
	for name := range s.Activations {
		if name != layout.OneLevel {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		rows := activationRows(s.Activations[name])
		fmt.Fprintf(&b, "static XkbKTMapEntryRec map_%s[%d]= {\n", name, len(rows))
		for i, r := range rows {
			sep := ","
			if i == len(rows)-1 {
				sep = ""
			}
			expr := ModifierExpr(r.mods)
			fmt.Fprintf(&b, "    { 1, %2d, { %15s, %15s, %15s } }%s\n", r.level, expr, expr, "0", sep)
		}
		b.WriteString("};\n")
	}
	b.WriteString("\n")

	b.WriteString("static XkbKeyTypeRec dflt_types[]= {\n")
	for i, kt := range s.KeyTypes {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("    {\n")
		b.WriteString("\t{       0,       0,       0 },\n")
		fmt.Fprintf(&b, "\t%d,\n", kt.Levels)
		b.WriteString("\t0,\tNULL,\tNULL,\n")
		fmt.Fprintf(&b, "\tNone,\tlnames_%s\n", kt.Name)
		b.WriteString("    }")
	}
	b.WriteString("\n};\n\n")

	fmt.Fprintf(&b, "#define NUM_SYMBOLS\t%d\n", len(s.Symbols))
	b.WriteString("static KeySym\tsymCache[NUM_SYMBOLS]= {\n")
	for i := 0; i < len(s.Symbols); i += 4 {
		end := min(i+4, len(s.Symbols))
		toks := make([]string, 0, end-i)
		for _, sym := range s.Symbols[i:end] {
			toks = append(toks, "XK_"+sym)
		}
		line := "    " + strings.Join(toks, ",\t")
		if end < len(s.Symbols) {
			line += ","
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("};\n\n")

	b.WriteString("static XkbSymMapRec\tsymMap[NUM_KEYS]= {\n")
	for i, e := range s.KeyMap {
		sep := ","
		if i == len(s.KeyMap)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    { %3d, 0x%x, %3d }%s\n", e.TypeIndex, e.Groups, e.Offset, sep)
	}
	b.WriteString("};\n")

	_, err := io.WriteString(w, b.String())
	return err
}

type activationRow struct {
	mods  layout.ModifierSet
	level int
}

func activationRows(act layout.ActivationMap) []activationRow {
	rows := make([]activationRow, 0, len(act))
	for mods, level := range act {
		if mods.Empty() && level == 0 {
			continue
		}
		rows = append(rows, activationRow{mods: mods, level: level})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].level != rows[j].level {
			return rows[i].level < rows[j].level
		}
		return rows[i].mods < rows[j].mods
	})
	return rows
}
