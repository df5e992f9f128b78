// Package model holds the resolved entity model the compiler reads.
// A Model is linked and validated once by Build and is read-only afterwards.
package model

import (
	"fmt"
	"strconv"

	"github.com/edfi-tools/apischema/internal/compiler/errors"
	stringutil "github.com/edfi-tools/apischema/internal/util/strings"
)

// Model is the set of loaded namespaces with precomputed cross-links
type Model struct {
	Namespaces []*Namespace

	byName     map[string]*Namespace
	targets    map[*Property]*Entity
	parents    map[*Entity]*Entity
	ancestry   map[*Entity][]*Entity
	extensions map[*Entity][]*Entity
}

// Build links the namespaces into a Model: it applies namespace defaults,
// sets back-pointers, resolves every property target and base entity, and
// computes the ancestry linearization of each entity. All problems are
// reported together.
func Build(namespaces ...*Namespace) (*Model, error) {
	m := &Model{
		byName:     make(map[string]*Namespace),
		targets:    make(map[*Property]*Entity),
		parents:    make(map[*Entity]*Entity),
		ancestry:   make(map[*Entity][]*Entity),
		extensions: make(map[*Entity][]*Entity),
	}

	var errs errors.ErrorList
	for _, ns := range namespaces {
		if _, exists := m.byName[ns.Name]; exists {
			errs = errs.Append(errors.NewDuplicateNamespace(ns.Name))
			continue
		}
		if ns.ProjectName == "" {
			ns.ProjectName = ns.Name
		}
		if ns.ProjectEndpoint == "" {
			ns.ProjectEndpoint = stringutil.ToKebabCase(ns.Name)
		}
		m.byName[ns.Name] = ns
		m.Namespaces = append(m.Namespaces, ns)
	}

	for _, ns := range m.Namespaces {
		for _, dep := range ns.Dependencies {
			if _, ok := m.byName[dep]; !ok {
				errs = errs.Append(errors.NewUnknownNamespace(errors.Location{Namespace: ns.Name}, dep))
			}
		}
		errs = append(errs, indexNamespace(ns)...)
	}

	for _, ns := range m.Namespaces {
		for _, e := range ns.Entities {
			errs = append(errs, m.linkEntity(ns, e)...)
		}
	}

	for _, ns := range m.Namespaces {
		for _, e := range ns.Entities {
			if err := m.linearize(e); err != nil {
				errs = errs.Append(err)
			}
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// indexNamespace sets entity and property back-pointers and applies
// property defaults
func indexNamespace(ns *Namespace) errors.ErrorList {
	var errs errors.ErrorList
	ns.index = make(map[EntityKind]map[string]*Entity)
	for _, e := range ns.Entities {
		e.Namespace = ns
		loc := LocationOf(e, nil)
		if !entityKinds[e.Kind] {
			errs = errs.Append(errors.NewInvalidModel(loc, fmt.Sprintf("unknown entity kind %q", e.Kind)))
			continue
		}
		if ns.index[e.Kind] == nil {
			ns.index[e.Kind] = make(map[string]*Entity)
		}
		if _, exists := ns.index[e.Kind][e.Name]; exists {
			errs = errs.Append(errors.NewDuplicateEntity(loc, string(e.Kind)))
			continue
		}
		ns.index[e.Kind][e.Name] = e

		if e.IntegerValued {
			for _, item := range e.EnumerationItems {
				if _, err := strconv.Atoi(item); err != nil {
					errs = errs.Append(errors.NewInvalidModel(loc, fmt.Sprintf("enumeration item %q is not an integer", item)))
				}
			}
		}

		for _, p := range e.Properties {
			p.Parent = e
			if p.Identity {
				p.Required = true
			}
			if p.Type == nil {
				errs = errs.Append(errors.NewInvalidModel(LocationOf(e, p), "property has no type"))
				continue
			}
			if ref, ok := TargetRef(p.Type); ok && p.Name == "" {
				p.Name = ref.Name
			}
		}
	}
	return errs
}

// linkEntity resolves the base entity and every property target of e
func (m *Model) linkEntity(ns *Namespace, e *Entity) errors.ErrorList {
	var errs errors.ErrorList

	if kinds := e.Kind.baseKinds(); kinds != nil {
		if e.Base == nil {
			errs = errs.Append(errors.NewUnknownBase(LocationOf(e, nil), "<none>"))
		} else if base, err := m.lookup(LocationOf(e, nil), ns, *e.Base, kinds...); err != nil {
			if errors.HasCode(err, errors.ErrUnknownTarget) {
				err = errors.NewUnknownBase(LocationOf(e, nil), e.Base.String())
			}
			errs = errs.Append(err)
		} else if e.Kind.IsExtension() {
			m.extensions[base] = append(m.extensions[base], e)
			m.parents[e] = base
		} else {
			m.parents[e] = base
		}
	}

	for _, p := range e.Properties {
		if p.Type == nil {
			continue
		}
		var kinds []EntityKind
		switch t := p.Type.(type) {
		case Scalar:
			if !scalarKinds[t.Kind] {
				errs = errs.Append(errors.NewInvalidModel(LocationOf(e, p), fmt.Sprintf("unknown scalar type %q", t.Kind)))
			}
			continue
		case DescriptorRef:
			kinds = []EntityKind{Descriptor}
		case EnumerationRef:
			kinds = []EntityKind{Enumeration}
		case EntityRef:
			kinds = ReferencableKinds
		case Composition:
			switch t.Kind {
			case CommonComposition:
				kinds = []EntityKind{Common}
			case ChoiceComposition:
				kinds = []EntityKind{Choice}
			case InlineComposition:
				kinds = []EntityKind{InlineCommon}
			default:
				errs = errs.Append(errors.NewInvalidModel(LocationOf(e, p), fmt.Sprintf("unknown composition kind %q", t.Kind)))
				continue
			}
		default:
			panic(UnhandledType(t))
		}

		ref, _ := TargetRef(p.Type)
		target, err := m.lookup(LocationOf(e, p), ns, ref, kinds...)
		if err != nil {
			errs = errs.Append(err)
			continue
		}
		m.targets[p] = target
	}
	return errs
}

// lookup finds ref from namespace ns. Unqualified names are searched in ns
// and then in its declared dependencies; qualified names must name ns or a
// declared dependency.
func (m *Model) lookup(loc errors.Location, ns *Namespace, ref Ref, kinds ...EntityKind) (*Entity, error) {
	if ref.Namespace != "" && ref.Namespace != ns.Name {
		if !ns.DependsOn(ref.Namespace) {
			return nil, errors.NewUndeclaredDependency(loc, ref.Namespace)
		}
		target, ok := m.byName[ref.Namespace]
		if !ok {
			return nil, errors.NewUnknownNamespace(loc, ref.Namespace)
		}
		if e := target.Entity(ref.Name, kinds...); e != nil {
			return e, nil
		}
		return nil, errors.NewUnknownTarget(loc, kindLabel(kinds), ref.String())
	}

	if e := ns.Entity(ref.Name, kinds...); e != nil {
		return e, nil
	}
	for _, dep := range ns.Dependencies {
		if target, ok := m.byName[dep]; ok {
			if e := target.Entity(ref.Name, kinds...); e != nil {
				return e, nil
			}
		}
	}
	return nil, errors.NewUnknownTarget(loc, kindLabel(kinds), ref.String())
}

// linearize records the ancestry of e from its ultimate base to e
func (m *Model) linearize(e *Entity) error {
	if _, done := m.ancestry[e]; done {
		return nil
	}
	chain := []*Entity{e}
	seen := map[*Entity]bool{e: true}
	for cur := e; cur.Kind.IsSubclass(); {
		parent, ok := m.parents[cur]
		if !ok {
			break
		}
		if seen[parent] {
			names := make([]string, 0, len(chain)+1)
			for _, c := range chain {
				names = append(names, c.Name)
			}
			return errors.NewAncestryCycle(LocationOf(e, nil), append(names, parent.Name))
		}
		seen[parent] = true
		chain = append(chain, parent)
		cur = parent
	}

	lin := make([]*Entity, len(chain))
	for i, c := range chain {
		lin[len(chain)-1-i] = c
	}
	m.ancestry[e] = lin
	return nil
}

// Namespace returns the namespace with the given name
func (m *Model) Namespace(name string) *Namespace {
	return m.byName[name]
}

// Target returns the entity a property refers to or composes
func (m *Model) Target(p *Property) *Entity {
	return m.targets[p]
}

// Ancestry returns the linearization of e from its ultimate base to e itself.
// Entities that are not subclasses have an ancestry of one.
func (m *Model) Ancestry(e *Entity) []*Entity {
	if lin, ok := m.ancestry[e]; ok {
		return lin
	}
	return []*Entity{e}
}

// Superclass returns the direct base of a subclass, or nil
func (m *Model) Superclass(e *Entity) *Entity {
	if !e.Kind.IsSubclass() {
		return nil
	}
	return m.parents[e]
}

// ExtendedEntity returns the entity an extension adds properties to, or nil
func (m *Model) ExtendedEntity(e *Entity) *Entity {
	if !e.Kind.IsExtension() {
		return nil
	}
	return m.parents[e]
}

// Extensions returns the extensions of base across all namespaces, in load order
func (m *Model) Extensions(base *Entity) []*Entity {
	return m.extensions[base]
}

// LocationOf builds an error location for an entity and optional property
func LocationOf(e *Entity, p *Property) errors.Location {
	loc := errors.Location{}
	if e != nil {
		loc.Entity = e.Name
		if e.Namespace != nil {
			loc.Namespace = e.Namespace.Name
		}
	}
	if p != nil {
		loc.Property = p.FullName()
	}
	return loc
}

func kindLabel(kinds []EntityKind) string {
	if len(kinds) == 1 {
		return stringutil.Capitalize(string(kinds[0]))
	}
	return "Entity"
}
