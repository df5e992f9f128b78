package collect

import (
	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
	"github.com/edfi-tools/apischema/internal/model"
	stringutil "github.com/edfi-tools/apischema/internal/util/strings"
)

// FieldKind is the document shape of a field
type FieldKind int

const (
	ScalarField FieldKind = iota
	DescriptorField
	EnumerationField
	ReferenceField
	GroupField
)

func (k FieldKind) String() string {
	switch k {
	case ScalarField:
		return "scalar"
	case DescriptorField:
		return "descriptor"
	case EnumerationField:
		return "enumeration"
	case ReferenceField:
		return "reference"
	case GroupField:
		return "group"
	default:
		return "unknown"
	}
}

// Candidate is one naming alternative of a field. Logical is the
// role-qualified property name; Base is the name JSON names derive from,
// which drops a leading parent entity name for non-reference collections.
type Candidate struct {
	Logical string
	Base    string
}

// Field is one property of a resource document
type Field struct {
	Property   *model.Property
	Kind       FieldKind
	Candidates []Candidate
	Prefix     []string

	Required   bool
	Identity   bool
	Collection bool
	Inherited  bool
	// Depth counts the collections enclosing the field.
	Depth int

	// Scalar facets, for scalar fields
	Scalar model.Scalar
	// Target is the descriptor, enumeration, referenced entity or group entity
	Target *model.Entity
	// Leaves is the target identity, for reference fields
	Leaves []*refcomp.IdentityLeaf
	// Children are the members of a common or choice group
	Children []*Field
	Choice   bool

	choice int
}

// Name returns the field's current logical name
func (f *Field) Name() string {
	return f.Candidates[f.choice].Logical
}

// Base returns the name the field's JSON names derive from
func (f *Field) Base() string {
	return f.Candidates[f.choice].Base
}

// JSONName returns the JSON property name of the field. Collections are
// named by the pluralized base name.
func (f *Field) JSONName() string {
	if f.Collection {
		return stringutil.Uncapitalize(stringutil.Pluralize(f.Base()))
	}
	return f.ItemJSONName()
}

// ItemJSONName returns the name of the single property of a collection
// item, which is the name the field would have outside a collection
func (f *Field) ItemJSONName() string {
	base := f.Base()
	switch f.Kind {
	case ScalarField:
		return refcomp.ScalarJSONName(base)
	case DescriptorField:
		return refcomp.DescriptorJSONName(base)
	case EnumerationField:
		return refcomp.EnumerationJSONName(base)
	case ReferenceField:
		return refcomp.ReferenceJSONName(base)
	default:
		return stringutil.Uncapitalize(base)
	}
}

// Advance switches the field to its next naming candidate. It returns false
// when no candidate is left.
func (f *Field) Advance() bool {
	if f.choice+1 >= len(f.Candidates) {
		return false
	}
	f.choice++
	return true
}

// Specificity ranks fields for collision resolution: locally declared
// fields outrank inherited ones, then more role tokens outrank fewer.
func (f *Field) Specificity() int {
	rank := len(f.Prefix)
	if f.Property.RoleName != "" {
		rank++
	}
	if !f.Inherited {
		rank += 100
	}
	return rank
}

// String identifies the field for diagnostics
func (f *Field) String() string {
	if f.Property.Parent == nil {
		return f.Name()
	}
	return f.Property.Parent.Name + "." + f.Name()
}

// candidates derives the naming alternatives of a component. A stripped
// collection name keeps its unstripped spelling as a later alternative.
func candidates(c *refcomp.Component, kind FieldKind) []Candidate {
	var out []Candidate
	seen := make(map[Candidate]bool)
	add := func(cand Candidate) {
		if !seen[cand] {
			seen[cand] = true
			out = append(out, cand)
		}
	}

	logicals := c.Candidates()
	strip := c.Property.Collection && kind != ReferenceField && c.Property.Parent != nil
	for _, logical := range logicals {
		base := logical
		if strip {
			base = stringutil.TrimParentPrefix(c.Property.Parent.Name, logical)
		}
		add(Candidate{Logical: logical, Base: base})
	}
	if strip {
		for _, logical := range logicals {
			add(Candidate{Logical: logical, Base: logical})
		}
	}
	return out
}

func fieldKind(p *model.Property) FieldKind {
	switch t := p.Type.(type) {
	case model.Scalar:
		return ScalarField
	case model.DescriptorRef:
		return DescriptorField
	case model.EnumerationRef:
		return EnumerationField
	case model.EntityRef:
		return ReferenceField
	case model.Composition:
		return GroupField
	default:
		panic(model.UnhandledType(t))
	}
}
