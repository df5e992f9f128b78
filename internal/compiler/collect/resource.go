package collect

import (
	"strings"

	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
	"github.com/edfi-tools/apischema/internal/model"
	stringutil "github.com/edfi-tools/apischema/internal/util/strings"
)

// Resource is the ordered field tree of one resource document, or of the
// properties an extension adds to a resource in another namespace
type Resource struct {
	Entity *model.Entity
	Name   string
	Fields []*Field

	// Superclass is the direct base of a subclass resource.
	Superclass *model.Entity
	// IdentityRename records an inherited identity replaced by a subclass.
	IdentityRename *IdentityRename
	// Extended is the entity an extension resource adds to.
	Extended   *model.Entity
	Descriptor bool
}

// IdentityRename pairs the inherited identity field with its replacement
type IdentityRename struct {
	Old *Field
	New *Field
}

// IsExtension reports whether the resource only carries added properties
func (r *Resource) IsExtension() bool {
	return r.Extended != nil
}

// IsSubclass reports whether the resource inherits from a superclass
func (r *Resource) IsSubclass() bool {
	return r.Superclass != nil
}

// ProjectName is the title prefix of the owning namespace
func (r *Resource) ProjectName() string {
	return r.Entity.Namespace.ProjectName
}

// Endpoint is the URL segment of the resource (School -> schools)
func (r *Resource) Endpoint() string {
	return EndpointName(r.Name)
}

// EndpointName converts a resource name to its URL segment
func EndpointName(resourceName string) string {
	return stringutil.Uncapitalize(stringutil.Pluralize(resourceName))
}

// IdentityFields returns the top-level identity fields in document order
func (r *Resource) IdentityFields() []*Field {
	var out []*Field
	for _, f := range r.Fields {
		if f.Identity {
			out = append(out, f)
		}
	}
	return out
}

// DocLeaf is one value position of a resource document
type DocLeaf struct {
	// Chain is the path of logical names from the document root.
	Chain []string
	// Aliases are chains of merged-away identity leaves resolving here.
	Aliases [][]string
	// Path is the JSON path of the value, with [*] for collection items.
	Path string
	// Field is the top-level or group field owning the value.
	Field *Field
	// Identity is the target identity leaf, for reference values.
	Identity *refcomp.IdentityLeaf
	// Property is the declaring leaf property.
	Property *model.Property
}

// Matches reports whether the leaf's chain, or an alias, starts with prefix
func (l *DocLeaf) Matches(prefix []string) bool {
	if refcomp.HasPrefix(l.Chain, prefix) {
		return true
	}
	for _, alias := range l.Aliases {
		if refcomp.HasPrefix(alias, prefix) {
			return true
		}
	}
	return false
}

// Leaves returns every value position of the document in field order
func (r *Resource) Leaves() []*DocLeaf {
	return FieldLeaves(r.Fields, nil, "$")
}

// FieldLeaves returns the value positions of fields nested under chain and path
func FieldLeaves(fields []*Field, chain []string, path string) []*DocLeaf {
	var out []*DocLeaf
	for _, f := range fields {
		c := extend(chain, f.Name())
		p := FieldPath(path, f)

		switch f.Kind {
		case ScalarField, DescriptorField:
			out = append(out, &DocLeaf{Chain: c, Path: p, Field: f, Property: f.Property})
		case EnumerationField:
			out = append(out, &DocLeaf{
				Chain:    c,
				Path:     p + "." + refcomp.EnumerationValueName(f.Target),
				Field:    f,
				Property: f.Property,
			})
		case ReferenceField:
			for _, l := range f.Leaves {
				leaf := &DocLeaf{
					Chain:    extend(c, l.Chain...),
					Path:     p + "." + l.ObjectPath(),
					Field:    f,
					Identity: l,
					Property: l.Property,
				}
				for _, alias := range l.Aliases {
					leaf.Aliases = append(leaf.Aliases, extend(c, alias...))
				}
				out = append(out, leaf)
			}
		case GroupField:
			out = append(out, FieldLeaves(f.Children, c, p)...)
		}
	}
	return out
}

// FieldPath is the JSON path of a field's value under parent. For
// collections it addresses the value inside each item.
func FieldPath(parent string, f *Field) string {
	p := parent + "." + f.JSONName()
	if !f.Collection {
		return p
	}
	p += "[*]"
	if f.Kind != GroupField {
		p += "." + f.ItemJSONName()
	}
	return p
}

func extend(chain []string, tail ...string) []string {
	out := make([]string, 0, len(chain)+len(tail))
	out = append(out, chain...)
	return append(out, tail...)
}

// ChainKey renders a logical chain as a dotted key (Address.City)
func ChainKey(chain []string) string {
	return strings.Join(chain, ".")
}
