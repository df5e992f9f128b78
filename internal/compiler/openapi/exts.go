package openapi

import (
	"github.com/invopop/jsonschema"

	"github.com/edfi-tools/apischema/internal/compiler/synth"
)

// ExtKey identifies the properties one namespace adds to a base schema
type ExtKey struct {
	Namespace  string
	BaseSchema string
}

// Ext is one contribution to a base schema
type Ext struct {
	// Source names the extension entity, for diagnostics
	Source     string
	Properties *synth.Properties
}

// ExtIndex collects extension contributions. Entries are only ever
// appended; rendering never changes what was added.
type ExtIndex struct {
	keys    []ExtKey
	entries map[ExtKey][]*Ext
}

// NewExtIndex creates an empty index
func NewExtIndex() *ExtIndex {
	return &ExtIndex{entries: make(map[ExtKey][]*Ext)}
}

// Add appends a contribution under key
func (x *ExtIndex) Add(key ExtKey, ext *Ext) {
	if _, ok := x.entries[key]; !ok {
		x.keys = append(x.keys, key)
	}
	x.entries[key] = append(x.entries[key], ext)
}

// Keys returns the keys recorded for a namespace in insertion order
func (x *ExtIndex) Keys(namespace string) []ExtKey {
	var out []ExtKey
	for _, k := range x.keys {
		if k.Namespace == namespace {
			out = append(out, k)
		}
	}
	return out
}

// Render merges the contributions of a namespace into one object schema per
// base schema name. When two contributions add the same property the first
// one is kept.
func (x *ExtIndex) Render(namespace string) map[string]*jsonschema.Schema {
	out := make(map[string]*jsonschema.Schema)
	for _, key := range x.Keys(namespace) {
		props := jsonschema.NewProperties()
		for _, ext := range x.entries[key] {
			for pair := ext.Properties.Oldest(); pair != nil; pair = pair.Next() {
				if _, exists := props.Get(pair.Key); !exists {
					props.Set(pair.Key, pair.Value)
				}
			}
		}
		out[key.BaseSchema] = &jsonschema.Schema{
			Type:       "object",
			Properties: props,
		}
	}
	return out
}
