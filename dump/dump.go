// Package dump renders a layout as a structured document for inspection:
//
//	AD01:
//	  none: q
//	  Shift: Q
package dump

import (
	"encoding/json"
	"fmt"
	"io"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/xkbrev/generator"
	"github.com/Alia5/xkbrev/layout"
)

func init() {
	generator.Register("json", generator.Func(JSON))
	generator.Register("yaml", generator.Func(YAML))
	generator.Register("toml", generator.Func(TOML))
}

// Document converts the layout into plain maps keyed by virtual key and
// modifier combination name.
func Document(l layout.LayoutMap) map[string]any {
	out := make(map[string]any, len(l))
	for key, syms := range l {
		m := make(map[string]any, len(syms))
		for mods, sym := range syms {
			m[mods.String()] = sym
		}
		out[key] = m
	}
	return out
}

// FromDocument is the inverse of Document.
func FromDocument(doc map[string]map[string]string) (layout.LayoutMap, error) {
	out := make(layout.LayoutMap, len(doc))
	for key, syms := range doc {
		m := make(map[layout.ModifierSet]string, len(syms))
		for name, sym := range syms {
			mods, err := layout.ParseModifierSet(name)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", key, err)
			}
			m[mods] = sym
		}
		out[key] = m
	}
	return out, nil
}

func JSON(w io.Writer, in *generator.Input) error {
	data, err := json.MarshalIndent(Document(in.Layout), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func YAML(w io.Writer, in *generator.Input) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document(in.Layout)); err != nil {
		return err
	}
	return enc.Close()
}

func TOML(w io.Writer, in *generator.Input) error {
	data, err := toml.Marshal(Document(in.Layout))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
