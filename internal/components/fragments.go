package components

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/purg-com/pleroma-iss/internal/iss"
)

// Fragments maps state or variant names to selector fragments and remembers
// declaration order, which drives combination order.
type Fragments struct {
	keys   []string
	values map[string]string
}

// NewFragments builds Fragments from alternating name, fragment pairs.
func NewFragments(pairs ...string) Fragments {
	var f Fragments
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

// Set adds or replaces a fragment, keeping the original position on replace.
func (f *Fragments) Set(name, fragment string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, exists := f.values[name]; !exists {
		f.keys = append(f.keys, name)
	}
	f.values[name] = fragment
}

// Get returns the fragment for name.
func (f Fragments) Get(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Keys returns names in declaration order.
func (f Fragments) Keys() []string {
	return append([]string(nil), f.keys...)
}

// Len is the number of declared names.
func (f Fragments) Len() int {
	return len(f.keys)
}

// WithNormal returns a copy that starts with "normal". A declared normal
// fragment is kept but moved to the front.
func (f Fragments) WithNormal() Fragments {
	out := NewFragments(iss.Normal, "")
	for _, key := range f.keys {
		out.Set(key, f.values[key])
	}
	return out
}

// Map exposes the fragments as a plain map.
func (f Fragments) Map() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// UnmarshalYAML reads a mapping node while keeping key order.
func (f *Fragments) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of names to selector fragments", value.Line)
	}
	*f = Fragments{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: fragment for %q must be a string", val.Line, key.Value)
		}
		f.Set(key.Value, val.Value)
	}
	return nil
}

// MarshalYAML writes the fragments back in declaration order.
func (f Fragments) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range f.keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.values[key]},
		)
	}
	return node, nil
}
