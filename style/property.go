/*
Package style holds CSS property values as they are attached to keyframes.

Property maps are immutable values: every "modification" returns a new map
and leaves the original untouched, so a map may be shared freely between
snapshots of the animation state.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"strings"
)

// Property is a raw value for a CSS property. For example, with
//
//     opacity: 0.5
//
// a property value of "0.5" is set. Values are kept verbatim; they are
// neither validated nor case-folded.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

// --- Property maps ---------------------------------------------------------

// PropertyMap maps CSS property names to values and remembers the order in
// which names have been inserted. The zero value is an empty map.
type PropertyMap struct {
	keys   []string
	values map[string]Property
}

// NewPropertyMap creates a property map from a list of key/value pairs.
// Later pairs overwrite earlier ones with the same key.
func NewPropertyMap(kv ...KeyValue) PropertyMap {
	m := PropertyMap{}
	for _, p := range kv {
		m = m.With(p.Key, p.Value)
	}
	return m
}

// Properties creates a property map from alternating keys and values, e.g.
//
//     style.Properties("opacity", "0", "color", "red")
//
// A dangling key without value is ignored.
func Properties(keysAndValues ...string) PropertyMap {
	m := PropertyMap{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		m = m.With(keysAndValues[i], Property(keysAndValues[i+1]))
	}
	return m
}

// Len returns the number of properties in m.
func (m PropertyMap) Len() int {
	return len(m.keys)
}

// Get a property's value.
func (m PropertyMap) Get(key string) (Property, bool) {
	if m.values == nil {
		return NullStyle, false
	}
	p, ok := m.values[key]
	return p, ok
}

// IsSet is a predicate wether a property is present in m.
func (m PropertyMap) IsSet(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// With returns a copy of m with key set to p. An existing key keeps its
// position, a new key is appended.
func (m PropertyMap) With(key string, p Property) PropertyMap {
	key = strings.TrimSpace(key)
	if key == "" {
		return m
	}
	if old, ok := m.Get(key); ok && old == p {
		return m
	}
	n := m.clone(1)
	if _, exists := n.values[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.values[key] = p
	return n
}

// Without returns a copy of m with key removed.
func (m PropertyMap) Without(key string) PropertyMap {
	if !m.IsSet(key) {
		return m
	}
	n := PropertyMap{
		keys:   make([]string, 0, len(m.keys)-1),
		values: make(map[string]Property, len(m.keys)-1),
	}
	for _, k := range m.keys {
		if k != key {
			n.keys = append(n.keys, k)
			n.values[k] = m.values[k]
		}
	}
	return n
}

// Merge returns a copy of m with every property of other set. Keys already
// present in m keep their position.
func (m PropertyMap) Merge(other PropertyMap) PropertyMap {
	if other.Len() == 0 {
		return m
	}
	n := m.clone(other.Len())
	for _, k := range other.keys {
		if _, exists := n.values[k]; !exists {
			n.keys = append(n.keys, k)
		}
		n.values[k] = other.values[k]
	}
	return n
}

// Keys returns the property names in insertion order.
func (m PropertyMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Properties returns all properties in insertion order.
func (m PropertyMap) Properties() []KeyValue {
	r := make([]KeyValue, len(m.keys))
	for i, k := range m.keys {
		r[i] = KeyValue{k, m.values[k]}
	}
	return r
}

// Each calls f for every property in insertion order.
func (m PropertyMap) Each(f func(key string, value Property)) {
	for _, k := range m.keys {
		f(k, m.values[k])
	}
}

// Equal reports whether m and other contain the same properties in the same
// order.
func (m PropertyMap) Equal(other PropertyMap) bool {
	if len(m.keys) != len(other.keys) {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k || other.values[k] != m.values[k] {
			return false
		}
	}
	return true
}

// Stringer for property maps; used for debugging.
func (m PropertyMap) String() string {
	b := strings.Builder{}
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(string(m.values[k]))
	}
	b.WriteByte('}')
	return b.String()
}

func (m PropertyMap) clone(extra int) PropertyMap {
	n := PropertyMap{
		keys:   make([]string, len(m.keys), len(m.keys)+extra),
		values: make(map[string]Property, len(m.keys)+extra),
	}
	copy(n.keys, m.keys)
	for k, v := range m.values {
		n.values[k] = v
	}
	return n
}
