package refcomp

import (
	"strings"

	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/model"
	stringutil "github.com/edfi-tools/apischema/internal/util/strings"
)

// IdentityLeaf is one scalar, descriptor or enumeration value in the
// flattened natural key of an entity
type IdentityLeaf struct {
	// Chain is the path of full property names from the identified entity
	// down to the leaf (Session, School, SchoolId).
	Chain []string
	// Aliases are the chains of identity leaves merged into this one.
	Aliases [][]string
	// Name is the logical leaf name inside a reference object.
	Name string
	// Property is the declaring leaf property.
	Property *model.Property
	// Target is the descriptor or enumeration of the leaf, nil for scalars.
	Target *model.Entity
	// DocumentPath locates the leaf in the identified entity's own
	// document, without the leading "$.".
	DocumentPath string
}

// JSONName is the leaf's property name inside a reference object
func (l *IdentityLeaf) JSONName() string {
	switch t := l.Property.Type.(type) {
	case model.Scalar:
		return ScalarJSONName(l.Name)
	case model.DescriptorRef:
		return DescriptorJSONName(l.Name)
	case model.EnumerationRef:
		return EnumerationJSONName(l.Name)
	case model.EntityRef, model.Composition:
		panic("refcomp: identity leaf over a non-leaf property")
	default:
		panic(model.UnhandledType(t))
	}
}

// ObjectPath is the dotted path of the leaf value inside a reference object.
// Enumeration leaves are wrapped in a typed object.
func (l *IdentityLeaf) ObjectPath() string {
	if _, ok := l.Property.Type.(model.EnumerationRef); ok {
		return l.JSONName() + "." + EnumerationValueName(l.Target)
	}
	return l.JSONName()
}

// Matches reports whether the leaf's chain, or one of its aliases, starts
// with prefix
func (l *IdentityLeaf) Matches(prefix []string) bool {
	if HasPrefix(l.Chain, prefix) {
		return true
	}
	for _, alias := range l.Aliases {
		if HasPrefix(alias, prefix) {
			return true
		}
	}
	return false
}

// HasPrefix reports whether chain starts with prefix
func HasPrefix(chain, prefix []string) bool {
	if len(prefix) == 0 || len(prefix) > len(chain) {
		return false
	}
	for i := range prefix {
		if chain[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Identity returns the flattened natural key of a referencable entity:
// its identity properties along the ancestry linearization (with renamed
// identities replaced in place), references expanded to the identity of
// their target, and leaves merged away by the entity's own merge
// directives removed.
func (r *Resolver) Identity(e *model.Entity) ([]*IdentityLeaf, error) {
	if leaves, ok := r.identities[e]; ok {
		return leaves, nil
	}
	if err, ok := r.identityErrs[e]; ok {
		return nil, err
	}
	if r.identityPending[e] {
		return nil, errors.NewIdentityCycle(model.LocationOf(e, nil), cycleNames(r.identityStack, e))
	}

	r.identityPending[e] = true
	r.identityStack = append(r.identityStack, e)
	defer func() {
		delete(r.identityPending, e)
		r.identityStack = r.identityStack[:len(r.identityStack)-1]
	}()

	leaves, err := r.flattenIdentity(e)
	if err != nil {
		if !errors.HasCode(err, errors.ErrIdentityCycle) {
			r.identityErrs[e] = err
		}
		return nil, err
	}
	r.identities[e] = leaves
	return leaves, nil
}

func (r *Resolver) flattenIdentity(e *model.Entity) ([]*IdentityLeaf, error) {
	props, err := r.IdentityProperties(e)
	if err != nil {
		return nil, err
	}

	var leaves []*IdentityLeaf
	for _, p := range props {
		ls, err := r.identityLeaves(e, p, nil, p.Identity)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, ls...)
	}

	leaves, err = mergeIdentity(e, props, leaves)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(leaves))
	for _, l := range leaves {
		name := l.JSONName()
		if seen[name] {
			return nil, errors.NewIdentityCollision(model.LocationOf(e, nil), name)
		}
		seen[name] = true
	}
	return leaves, nil
}

// IdentityProperties returns the properties contributing to the identity of
// e along its ancestry. A subclass property renaming an inherited identity
// takes the inherited property's place. Inline commons are included
// because their members may be identities.
func (r *Resolver) IdentityProperties(e *model.Entity) ([]*model.Property, error) {
	var props []*model.Property
	lin := r.model.Ancestry(e)
	for i, anc := range lin {
		for _, p := range anc.Properties {
			if !p.Identity && !isInline(p) {
				continue
			}
			if p.RenamesIdentity != "" && i > 0 {
				idx := -1
				for j, q := range props {
					if q.FullName() == p.RenamesIdentity && q.Identity {
						idx = j
						break
					}
				}
				if idx < 0 {
					return nil, errors.NewUnknownRenameTarget(model.LocationOf(anc, p), p.RenamesIdentity)
				}
				props[idx] = p
				continue
			}
			props = append(props, p)
		}
	}
	return props, nil
}

func isInline(p *model.Property) bool {
	c, ok := p.Type.(model.Composition)
	return ok && c.Kind == model.InlineComposition
}

// identityLeaves flattens one property of e. prefix holds the role names of
// enclosing inline commons; identity is false for inline members that are
// not part of the key.
func (r *Resolver) identityLeaves(e *model.Entity, p *model.Property, prefix []string, identity bool) ([]*IdentityLeaf, error) {
	full := FoldRoles(prefix, p.FullName())
	target := r.model.Target(p)

	switch t := p.Type.(type) {
	case model.Scalar:
		if !identity {
			return nil, nil
		}
		return []*IdentityLeaf{{
			Chain:        []string{full},
			Name:         full,
			Property:     p,
			DocumentPath: ScalarJSONName(full),
		}}, nil
	case model.DescriptorRef:
		if !identity {
			return nil, nil
		}
		return []*IdentityLeaf{{
			Chain:        []string{full},
			Name:         full,
			Property:     p,
			Target:       target,
			DocumentPath: DescriptorJSONName(full),
		}}, nil
	case model.EnumerationRef:
		if !identity {
			return nil, nil
		}
		return []*IdentityLeaf{{
			Chain:        []string{full},
			Name:         full,
			Property:     p,
			Target:       target,
			DocumentPath: EnumerationJSONName(full) + "." + EnumerationValueName(target),
		}}, nil
	case model.EntityRef:
		if !identity {
			return nil, nil
		}
		sub, err := r.Identity(target)
		if err != nil {
			return nil, err
		}
		out := make([]*IdentityLeaf, 0, len(sub))
		for _, s := range sub {
			leaf := &IdentityLeaf{
				Chain:        prepend(full, s.Chain),
				Name:         stringutil.JoinRole(rolePrefix(prefix, p), s.Name),
				Property:     s.Property,
				Target:       s.Target,
				DocumentPath: ReferenceJSONName(full) + "." + s.ObjectPath(),
			}
			for _, alias := range s.Aliases {
				leaf.Aliases = append(leaf.Aliases, prepend(full, alias))
			}
			out = append(out, leaf)
		}
		return out, nil
	case model.Composition:
		switch t.Kind {
		case model.InlineComposition:
			if p.Collection {
				return nil, errors.NewInlineCollection(model.LocationOf(e, p), target.Name)
			}
			inner := prefix
			if p.RoleName != "" {
				inner = append(append([]string{}, prefix...), p.RoleName)
			}
			var out []*IdentityLeaf
			for _, c := range target.Properties {
				ls, err := r.identityLeaves(e, c, inner, identity || c.Identity)
				if err != nil {
					return nil, err
				}
				out = append(out, ls...)
			}
			return out, nil
		default:
			if !identity {
				return nil, nil
			}
			return nil, errors.NewGroupIdentity(model.LocationOf(e, p), target.Name)
		}
	default:
		panic(model.UnhandledType(t))
	}
}

// rolePrefix is the role carried onto the leaves of a referenced identity
func rolePrefix(prefix []string, p *model.Property) string {
	return strings.Join(prefix, "") + p.RoleName
}

func prepend(head string, tail []string) []string {
	out := make([]string, 0, len(tail)+1)
	out = append(out, head)
	return append(out, tail...)
}

// mergeIdentity removes the identity leaves merged away by the merge
// directives of e's identity properties, recording them as aliases of the
// leaves they merge into
func mergeIdentity(e *model.Entity, props []*model.Property, leaves []*IdentityLeaf) ([]*IdentityLeaf, error) {
	removed := make(map[*IdentityLeaf]bool)
	for _, p := range props {
		for _, md := range p.Merges {
			var src, tgt []*IdentityLeaf
			for _, l := range leaves {
				switch {
				case removed[l]:
				case HasPrefix(l.Chain, md.Source):
					src = append(src, l)
				case l.Matches(md.Target):
					tgt = append(tgt, l)
				}
			}
			loc := model.LocationOf(e, p)
			if len(src) == 0 {
				return nil, errors.NewUnresolvableMerge(loc, strings.Join(md.Source, "."))
			}
			if len(tgt) == 0 {
				return nil, errors.NewUnresolvableMerge(loc, strings.Join(md.Target, "."))
			}
			pairs, ok := PairLeaves(src, tgt, func(l *IdentityLeaf) *model.Property { return l.Property })
			if !ok {
				return nil, errors.NewMergeArity(loc, strings.Join(md.Source, "."), strings.Join(md.Target, "."), len(src), len(tgt))
			}
			for _, pair := range pairs {
				s, t := pair[0], pair[1]
				t.Aliases = append(t.Aliases, s.Chain)
				t.Aliases = append(t.Aliases, s.Aliases...)
				removed[s] = true
			}
		}
	}

	if len(removed) == 0 {
		return leaves, nil
	}
	out := make([]*IdentityLeaf, 0, len(leaves)-len(removed))
	for _, l := range leaves {
		if !removed[l] {
			out = append(out, l)
		}
	}
	return out, nil
}

// PairLeaves pairs merge source leaves with target leaves. Leaves are
// matched by their underlying property when every source has a distinct
// match, and by position otherwise. ok is false when the counts differ.
func PairLeaves[T comparable](src, tgt []T, property func(T) *model.Property) (pairs [][2]T, ok bool) {
	if len(src) != len(tgt) {
		return nil, false
	}

	used := make(map[int]bool, len(tgt))
	byProperty := make([][2]T, 0, len(src))
	for _, s := range src {
		found := -1
		for i, t := range tgt {
			if !used[i] && property(s) == property(t) {
				found = i
				break
			}
		}
		if found < 0 {
			byProperty = nil
			break
		}
		used[found] = true
		byProperty = append(byProperty, [2]T{s, tgt[found]})
	}
	if byProperty != nil {
		return byProperty, true
	}

	pairs = make([][2]T, len(src))
	for i := range src {
		pairs[i] = [2]T{src[i], tgt[i]}
	}
	return pairs, true
}
