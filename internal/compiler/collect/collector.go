// Package collect builds the ordered field tree of every resource from its
// reference components, following subclass ancestry.
package collect

import (
	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
	"github.com/edfi-tools/apischema/internal/model"
)

// Collector builds resources from resolved components
type Collector struct {
	resolver *refcomp.Resolver
}

// NewCollector creates a collector reading from resolver
func NewCollector(resolver *refcomp.Resolver) *Collector {
	return &Collector{resolver: resolver}
}

// Collect builds the resource of a domain entity, association or subclass.
// Inherited fields come first, in ancestry order; a subclass identity that
// renames an inherited identity takes its place.
func (c *Collector) Collect(e *model.Entity) (*Resource, error) {
	m := c.resolver.Model()
	res := &Resource{
		Entity:     e,
		Name:       e.Name,
		Superclass: m.Superclass(e),
	}

	lin := m.Ancestry(e)
	for i, anc := range lin {
		comps, err := c.resolver.ResolveEntity(anc)
		if err != nil {
			return nil, err
		}
		inherited := anc != e
		for _, comp := range comps {
			f, err := c.newField(comp, inherited, 0)
			if err != nil {
				return nil, err
			}
			if renamed := comp.Property.RenamesIdentity; renamed != "" && i > 0 {
				idx := indexOfIdentity(res.Fields, renamed)
				if idx < 0 {
					return nil, errors.NewUnknownRenameTarget(model.LocationOf(anc, comp.Property), renamed)
				}
				res.IdentityRename = &IdentityRename{Old: res.Fields[idx], New: f}
				res.Fields[idx] = f
				continue
			}
			res.Fields = append(res.Fields, f)
		}
	}
	return res, nil
}

// CollectExtension builds the fields an extension adds to its base entity
func (c *Collector) CollectExtension(e *model.Entity) (*Resource, error) {
	base := c.resolver.Model().ExtendedEntity(e)
	if base == nil {
		return nil, errors.NewUnknownBase(model.LocationOf(e, nil), e.Name)
	}
	res := &Resource{Entity: e, Name: base.Name, Extended: base}

	comps, err := c.resolver.ResolveEntity(e)
	if err != nil {
		return nil, err
	}
	for _, comp := range comps {
		f, err := c.newField(comp, false, 0)
		if err != nil {
			return nil, err
		}
		res.Fields = append(res.Fields, f)
	}
	return res, nil
}

func indexOfIdentity(fields []*Field, name string) int {
	for i, f := range fields {
		if f.Identity && f.Property.FullName() == name {
			return i
		}
	}
	return -1
}

func (c *Collector) newField(comp *refcomp.Component, inherited bool, depth int) (*Field, error) {
	p := comp.Property
	f := &Field{
		Property:   p,
		Kind:       fieldKind(p),
		Prefix:     comp.Prefix,
		Required:   comp.Required,
		Identity:   comp.Identity,
		Collection: p.Collection,
		Inherited:  inherited,
		Depth:      depth,
		Target:     comp.Target,
	}
	f.Candidates = candidates(comp, f.Kind)

	switch t := p.Type.(type) {
	case model.Scalar:
		f.Scalar = t
	case model.DescriptorRef, model.EnumerationRef:
	case model.EntityRef:
		leaves, err := c.resolver.Identity(comp.Target)
		if err != nil {
			return nil, err
		}
		f.Leaves = leaves
	case model.Composition:
		f.Choice = t.Kind == model.ChoiceComposition
		childDepth := depth
		if f.Collection {
			childDepth++
		}
		for _, cc := range comp.Children {
			child, err := c.newField(cc, inherited, childDepth)
			if err != nil {
				return nil, err
			}
			if f.Choice {
				child.Required = false
			}
			f.Children = append(f.Children, child)
		}
	default:
		panic(model.UnhandledType(t))
	}
	return f, nil
}
