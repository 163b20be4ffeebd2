// Package xrdp writes a layout as an XRDP keymap (km-XXXX.ini).
//
// The keymap has one section per supported modifier combination. Each line
// maps a scancode to the keysym and unicode codepoint produced:
//
//	[shift]
//	Key24=81:81
package xrdp

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Alia5/xkbrev/generator"
	"github.com/Alia5/xkbrev/layout"
)

// Name is the generator name this package registers.
const Name = "xrdp"

// Section is a keymap section and the modifiers that select it.
type Section struct {
	Name      string
	Modifiers layout.ModifierSet
}

var sections = []Section{
	{Name: "noshift", Modifiers: layout.NewModifierSet()},
	{Name: "shift", Modifiers: layout.NewModifierSet(layout.Shift)},
	{Name: "altgr", Modifiers: layout.NewModifierSet(layout.AltGr)},
	{Name: "shiftaltgr", Modifiers: layout.NewModifierSet(layout.Shift, layout.AltGr)},
	{Name: "capslock", Modifiers: layout.NewModifierSet(layout.CapsLock)},
	{Name: "capslockaltgr", Modifiers: layout.NewModifierSet(layout.CapsLock, layout.AltGr)},
	{Name: "shiftcapslock", Modifiers: layout.NewModifierSet(layout.Shift, layout.CapsLock)},
	{Name: "shiftcapslockaltgr", Modifiers: layout.NewModifierSet(layout.Shift, layout.CapsLock, layout.AltGr)},
}

func init() {
	generator.Register(Name, Generator{})
}

// Sections returns the keymap sections in file order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// Generator renders the XRDP keymap format.
type Generator struct{}

func (Generator) UsesReferenceTables() bool { return true }

// layoutKey picks the layout key for sc. The direct binding is preferred; an
// alias is used when the layout names the key by it.
func layoutKey(in *generator.Input, sc int) (string, bool) {
	for _, key := range in.Scancodes.Keys(sc) {
		if _, ok := in.Layout[key]; ok {
			return key, true
		}
	}
	return "", false
}

// Generate writes every section in order. Scancodes without a virtual key,
// keys missing from the layout and modifier combinations a key does not
// define are skipped. Symbols unknown to the keysym table are written as 0.
func (Generator) Generate(w io.Writer, in *generator.Input) error {
	if in.Scancodes == nil {
		return fmt.Errorf("xrdp: scancode table is required")
	}

	bw := bufio.NewWriter(w)
	for i, sec := range sections {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "[%s]\n", sec.Name)

		for sc := 0; sc < in.Scancodes.Len(); sc++ {
			key, ok := layoutKey(in, sc)
			if !ok {
				continue
			}
			sym, ok := in.Layout.Symbol(key, sec.Modifiers)
			if !ok {
				continue
			}
			var code, unicode int
			if ks, ok := in.Keysyms.Lookup(sym); ok {
				code = ks.Code
				if ks.HasUnicode {
					unicode = ks.Unicode
				}
			}
			fmt.Fprintf(bw, "Key%d=%d:%d\n", sc, code, unicode)
		}
	}
	return bw.Flush()
}
