// Package generator holds the registry of output formats a reconstructed
// layout can be rendered to.
package generator

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/Alia5/xkbrev/layout"
	"github.com/Alia5/xkbrev/xkbdata"
)

// Input is everything a generator may render from.
type Input struct {
	Layout    layout.LayoutMap
	Keysyms   xkbdata.Keysyms
	Scancodes *xkbdata.ScancodeTable
}

// Generator renders a layout to w.
type Generator interface {
	Generate(w io.Writer, in *Input) error
}

// ReferenceUser is implemented by generators that need the keysym and
// scancode tables. Callers may skip loading them for other generators.
type ReferenceUser interface {
	UsesReferenceTables() bool
}

// Func adapts a plain function to Generator.
type Func func(w io.Writer, in *Input) error

func (f Func) Generate(w io.Writer, in *Input) error {
	return f(w, in)
}

var (
	registry   = make(map[string]Generator)
	registryMu sync.RWMutex
)

// Register makes a generator available under name.
// This should be called from generator package init() functions.
// The name is case-insensitive and will be lowercased.
func Register(name string, g Generator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = g
}

// Lookup returns the generator registered under name, or nil.
func Lookup(name string) Generator {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[strings.ToLower(name)]
}

// Names returns all registered generator names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UsesReferenceTables reports whether g needs keysyms and scancodes.
func UsesReferenceTables(g Generator) bool {
	if ru, ok := g.(ReferenceUser); ok {
		return ru.UsesReferenceTables()
	}
	return false
}
