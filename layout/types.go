package layout

import "sort"

// OneLevel is the built-in key type whose keys ignore modifiers.
const OneLevel = "ONE_LEVEL"

// KeyType is a named activation policy shared by several keys.
type KeyType struct {
	Name   string
	Levels int
}

// ActivationMap maps a modifier combination to the 0-based level it selects.
type ActivationMap map[ModifierSet]int

// ActivationMaps holds the activation map of every key type by name.
type ActivationMaps map[string]ActivationMap

// SymbolTable is the flat list of symbol names all keys index into.
type SymbolTable []string

// KeyMapEntry describes one virtual key slot.
type KeyMapEntry struct {
	TypeIndex int
	Groups    int
	Defined   bool
	Offset    int
}

// Sections is the raw result of scanning every section of the generated source.
type Sections struct {
	NumKeys     int
	KeyNames    []string
	Activations ActivationMaps
	KeyTypes    []KeyType
	Symbols     SymbolTable
	KeyMap      []KeyMapEntry
}

// LayoutMap maps virtual key name -> modifier combination -> symbol name.
type LayoutMap map[string]map[ModifierSet]string

// Keys returns the virtual key names in sorted order.
func (l LayoutMap) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Symbol returns the symbol produced by key with exactly the given modifiers.
func (l LayoutMap) Symbol(key string, mods ModifierSet) (string, bool) {
	m, ok := l[key]
	if !ok {
		return "", false
	}
	sym, ok := m[mods]
	return sym, ok
}
