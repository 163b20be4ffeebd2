package layout

import (
	"fmt"
	"strings"
)

// Modifier is a single keyboard modifier. Each value occupies its own bit so
// that combinations can be stored in a ModifierSet.
type Modifier uint16

// Modifier bitmasks
const (
	Shift     Modifier = 1 << 0
	AltGr     Modifier = 1 << 1
	NumLock   Modifier = 1 << 2
	CapsLock  Modifier = 1 << 3
	Super     Modifier = 1 << 4
	LevelFive Modifier = 1 << 5
	Control   Modifier = 1 << 6
	Alt       Modifier = 1 << 7
	LeftCtrl  Modifier = 1 << 8
	LeftAlt   Modifier = 1 << 9
	RightCtrl Modifier = 1 << 10
	RightAlt  Modifier = 1 << 11

	allModifiers = Shift | AltGr | NumLock | CapsLock | Super | LevelFive |
		Control | Alt | LeftCtrl | LeftAlt | RightCtrl | RightAlt
)

// ModifierName maps each modifier to its display name.
var ModifierName = map[Modifier]string{
	Shift:     "Shift",
	AltGr:     "AltGr",
	NumLock:   "NumLock",
	CapsLock:  "CapsLock",
	Super:     "Super",
	LevelFive: "LevelFive",
	Control:   "Control",
	Alt:       "Alt",
	LeftCtrl:  "LeftCtrl",
	LeftAlt:   "LeftAlt",
	RightCtrl: "RightCtrl",
	RightAlt:  "RightAlt",
}

// modifierTokens maps canonicalised generated-source tokens to modifiers.
// xkbcomp drops the last letter of virtual modifier names, so both the
// truncated and the full spelling are accepted.
var modifierTokens = map[string]Modifier{
	"Shift":      Shift,
	"Lock":       CapsLock,
	"Control":    Control,
	"NumLoc":     NumLock,
	"NumLock":    NumLock,
	"LevelThre":  AltGr,
	"LevelThree": AltGr,
	"Mod4":       Super,
	"Al":         Alt,
	"Alt":        Alt,
	"LevelFiv":   LevelFive,
	"LevelFive":  LevelFive,
	"LAl":        LeftAlt,
	"LAlt":       LeftAlt,
	"RAl":        RightAlt,
	"RAlt":       RightAlt,
	"LContro":    LeftCtrl,
	"LControl":   LeftCtrl,
	"RContro":    RightCtrl,
	"RControl":   RightCtrl,
}

func (m Modifier) String() string {
	if n, ok := ModifierName[m]; ok {
		return n
	}
	return fmt.Sprintf("Modifier(%#x)", uint16(m))
}

// ModifierByToken resolves a canonicalised modifier token from the generated
// source.
func ModifierByToken(tok string) (Modifier, bool) {
	m, ok := modifierTokens[tok]
	return m, ok
}

// ModifierSet is an unordered set of modifiers stored as a bitmask.
// The zero value is the empty set.
type ModifierSet uint16

// NewModifierSet builds a set from the given modifiers.
func NewModifierSet(mods ...Modifier) ModifierSet {
	var s ModifierSet
	for _, m := range mods {
		s |= ModifierSet(m)
	}
	return s
}

func (s ModifierSet) Has(m Modifier) bool {
	return s&ModifierSet(m) != 0
}

func (s ModifierSet) With(m Modifier) ModifierSet {
	return s | ModifierSet(m)
}

func (s ModifierSet) Empty() bool {
	return s == 0
}

// IsValid reports whether the set only contains known modifiers.
func (s ModifierSet) IsValid() bool {
	return s&^ModifierSet(allModifiers) == 0
}

// Modifiers returns the members in bit order.
func (s ModifierSet) Modifiers() []Modifier {
	var out []Modifier
	for bit := Modifier(1); bit != 0 && bit <= RightAlt; bit <<= 1 {
		if s.Has(bit) {
			out = append(out, bit)
		}
	}
	return out
}

// String renders the set as "Shift+AltGr"; the empty set is "none".
func (s ModifierSet) String() string {
	if s == 0 {
		return "none"
	}
	mods := s.Modifiers()
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.String()
	}
	return strings.Join(names, "+")
}

// ParseModifierSet is the inverse of ModifierSet.String.
func ParseModifierSet(s string) (ModifierSet, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return 0, nil
	}
	var set ModifierSet
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		found := false
		for m, n := range ModifierName {
			if strings.EqualFold(n, part) {
				set = set.With(m)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %q", ErrUnknownModifier, part)
		}
	}
	return set, nil
}
