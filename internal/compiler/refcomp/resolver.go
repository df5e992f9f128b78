// Package refcomp flattens property composition into reference components
// and computes the flattened identity of every referencable entity.
package refcomp

import (
	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/model"
)

// Resolver resolves components and identities model-wide. Results are
// memoized, so one Resolver is shared by every namespace of a compilation.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	model *model.Model

	members    map[*model.Entity][]*Component
	inProgress map[*model.Entity]bool
	stack      []*model.Entity

	identities      map[*model.Entity][]*IdentityLeaf
	identityErrs    map[*model.Entity]error
	identityPending map[*model.Entity]bool
	identityStack   []*model.Entity
}

// NewResolver creates a resolver over m
func NewResolver(m *model.Model) *Resolver {
	return &Resolver{
		model:           m,
		members:         make(map[*model.Entity][]*Component),
		inProgress:      make(map[*model.Entity]bool),
		identities:      make(map[*model.Entity][]*IdentityLeaf),
		identityErrs:    make(map[*model.Entity]error),
		identityPending: make(map[*model.Entity]bool),
	}
}

// Model returns the model the resolver reads
func (r *Resolver) Model() *model.Model {
	return r.model
}

// ResolveEntity returns the components of every property e declares, in
// declaration order. Inherited properties are not included.
func (r *Resolver) ResolveEntity(e *model.Entity) ([]*Component, error) {
	return r.resolveMembers(e)
}

// Resolve returns the components of one property. Leaves and groups yield
// one component; an inline composition yields its spliced members.
func (r *Resolver) Resolve(p *model.Property) ([]*Component, error) {
	target := r.model.Target(p)

	switch t := p.Type.(type) {
	case model.Scalar:
		return []*Component{newLeaf(p, nil)}, nil
	case model.DescriptorRef, model.EnumerationRef, model.EntityRef:
		return []*Component{newLeaf(p, target)}, nil
	case model.Composition:
		if target == nil {
			return nil, errors.NewUnknownTarget(model.LocationOf(p.Parent, p), string(t.Kind), t.Target.String())
		}
		children, err := r.resolveMembers(target)
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case model.InlineComposition:
			if p.Collection {
				return nil, errors.NewInlineCollection(model.LocationOf(p.Parent, p), target.Name)
			}
			spliced := make([]*Component, 0, len(children))
			for _, c := range children {
				spliced = append(spliced, c.splice(p))
			}
			return spliced, nil
		default:
			group := newLeaf(p, target)
			group.Children = children
			return []*Component{group}, nil
		}
	default:
		panic(model.UnhandledType(t))
	}
}

func newLeaf(p *model.Property, target *model.Entity) *Component {
	return &Component{
		Property: p,
		Identity: p.Identity,
		Required: p.Required || p.Identity,
		Target:   target,
	}
}

// resolveMembers resolves every property of e, detecting composition cycles
func (r *Resolver) resolveMembers(e *model.Entity) ([]*Component, error) {
	if comps, ok := r.members[e]; ok {
		return comps, nil
	}
	if r.inProgress[e] {
		return nil, errors.NewCompositionCycle(model.LocationOf(e, nil), cycleNames(r.stack, e))
	}

	r.inProgress[e] = true
	r.stack = append(r.stack, e)
	defer func() {
		delete(r.inProgress, e)
		r.stack = r.stack[:len(r.stack)-1]
	}()

	out := make([]*Component, 0, len(e.Properties))
	for _, p := range e.Properties {
		comps, err := r.Resolve(p)
		if err != nil {
			return nil, err
		}
		out = append(out, comps...)
	}
	r.members[e] = out
	return out, nil
}

// cycleNames renders the part of stack that loops back to e
func cycleNames(stack []*model.Entity, e *model.Entity) []string {
	start := 0
	for i, s := range stack {
		if s == e {
			start = i
			break
		}
	}
	names := make([]string, 0, len(stack)-start+1)
	for _, s := range stack[start:] {
		names = append(names, s.Name)
	}
	return append(names, e.Name)
}
