// SPDX-License-Identifier: MPL-2.0

package material

import (
	"strconv"
	"strings"
)

type (
	// Value is a renderer property value. Each kind knows its string
	// form(s); multi-component values contribute several tokens to one
	// property line.
	Value interface {
		propertyTokens() []string
	}

	// Float is a scalar property value.
	Float float64

	// Color is an RGB property value.
	Color [3]float64

	// String is a literal token, used for type names and enum values.
	String string

	// NodeRef references another exported node by its renderer name,
	// e.g. a texture feeding a color input.
	NodeRef string

	// Tuple concatenates the tokens of several values, used for wrapped
	// values such as colorspace-annotated colors.
	Tuple []Value

	// Props is the ordered property bag handed to the renderer. Keys
	// keep insertion order so exported scenes are reproducible.
	Props struct {
		keys   []string
		values map[string][]string
	}

	// Definitions is the ordered key -> value set one node export
	// produces before it is prefixed into the property bag.
	Definitions struct {
		keys   []string
		values map[string]Value
	}
)

func (f Float) propertyTokens() []string {
	return []string{strconv.FormatFloat(float64(f), 'g', -1, 64)}
}

func (c Color) propertyTokens() []string {
	out := make([]string, len(c))
	for i, ch := range c {
		out[i] = strconv.FormatFloat(ch, 'g', -1, 64)
	}
	return out
}

func (s String) propertyTokens() []string { return []string{string(s)} }

func (n NodeRef) propertyTokens() []string { return []string{string(n)} }

func (t Tuple) propertyTokens() []string {
	var out []string
	for _, v := range t {
		out = append(out, v.propertyTokens()...)
	}
	return out
}

// NewProps returns an empty property bag.
func NewProps() *Props {
	return &Props{values: make(map[string][]string)}
}

// Set stores a property under key, overwriting any previous value but
// keeping the original position.
func (p *Props) Set(key string, v Value) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v.propertyTokens()
}

// Get returns the tokens stored under key.
func (p *Props) Get(key string) ([]string, bool) {
	tokens, ok := p.values[key]
	return tokens, ok
}

// Lines renders the bag as "key = token token ..." lines in insertion
// order, the flat format the renderer parses.
func (p *Props) Lines() []string {
	out := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, k+" = "+strings.Join(p.values[k], " "))
	}
	return out
}

// NewDefinitions returns an empty definition set.
func NewDefinitions() *Definitions {
	return &Definitions{values: make(map[string]Value)}
}

// Set stores a definition, overwriting any previous value but keeping the
// original position.
func (d *Definitions) Set(key string, v Value) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Get returns the value stored under key.
func (d *Definitions) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// CreateProps copies the definitions into props under the material prefix
// "scene.materials.<name>." and returns the material name the renderer
// will know the node by.
func CreateProps(props *Props, defs *Definitions, name string) string {
	prefix := "scene.materials." + name + "."
	for _, k := range defs.keys {
		props.Set(prefix+k, defs.values[k])
	}
	return name
}
