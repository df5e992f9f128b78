package model

// EntityKind enumerates the kinds of model entities
type EntityKind string

const (
	DomainEntity          EntityKind = "domainEntity"
	Association           EntityKind = "association"
	Common                EntityKind = "common"
	InlineCommon          EntityKind = "inlineCommon"
	Choice                EntityKind = "choice"
	Descriptor            EntityKind = "descriptor"
	Enumeration           EntityKind = "enumeration"
	DomainEntitySubclass  EntityKind = "domainEntitySubclass"
	AssociationSubclass   EntityKind = "associationSubclass"
	DomainEntityExtension EntityKind = "domainEntityExtension"
	AssociationExtension  EntityKind = "associationExtension"
)

var entityKinds = map[EntityKind]bool{
	DomainEntity: true, Association: true, Common: true, InlineCommon: true, Choice: true,
	Descriptor: true, Enumeration: true, DomainEntitySubclass: true, AssociationSubclass: true,
	DomainEntityExtension: true, AssociationExtension: true,
}

// ReferencableKinds are the kinds an entity reference may target
var ReferencableKinds = []EntityKind{DomainEntity, Association, DomainEntitySubclass, AssociationSubclass}

// IsSubclass reports whether the kind inherits from a base entity
func (k EntityKind) IsSubclass() bool {
	return k == DomainEntitySubclass || k == AssociationSubclass
}

// IsExtension reports whether the kind adds properties to an entity in another namespace
func (k EntityKind) IsExtension() bool {
	return k == DomainEntityExtension || k == AssociationExtension
}

// IsReferencable reports whether other entities may reference this kind
func (k EntityKind) IsReferencable() bool {
	for _, r := range ReferencableKinds {
		if k == r {
			return true
		}
	}
	return false
}

// IsAssociation reports whether the kind is an association or derived from one
func (k EntityKind) IsAssociation() bool {
	return k == Association || k == AssociationSubclass || k == AssociationExtension
}

// baseKinds returns the kinds allowed as the base of a subclass or extension
func (k EntityKind) baseKinds() []EntityKind {
	switch k {
	case DomainEntitySubclass:
		return []EntityKind{DomainEntity, DomainEntitySubclass}
	case AssociationSubclass:
		return []EntityKind{Association, AssociationSubclass}
	case DomainEntityExtension:
		return []EntityKind{DomainEntity, DomainEntitySubclass}
	case AssociationExtension:
		return []EntityKind{Association, AssociationSubclass}
	default:
		return nil
	}
}

// Entity is a named declaration inside a namespace
type Entity struct {
	Kind          EntityKind
	Name          string
	Documentation string
	Abstract      bool
	Base          *Ref
	Properties    []*Property

	// Enumeration-only
	EnumerationItems []string
	IntegerValued    bool

	Namespace *Namespace
}

// IsResource reports whether the entity produces a resource schema
func (e *Entity) IsResource() bool {
	if e.Kind == Descriptor {
		return true
	}
	return e.Kind.IsReferencable() && !e.Abstract
}

// Property returns the declared property with the given full name
func (e *Entity) Property(fullName string) *Property {
	for _, p := range e.Properties {
		if p.FullName() == fullName {
			return p
		}
	}
	return nil
}

func (e *Entity) String() string {
	if e.Namespace == nil {
		return e.Name
	}
	return e.Namespace.Name + "." + e.Name
}

// Namespace is a named, dependency-ordered group of entities
type Namespace struct {
	Name            string
	ProjectName     string
	ProjectEndpoint string
	ProjectVersion  string
	Description     string
	Dependencies    []string
	Entities        []*Entity

	index map[EntityKind]map[string]*Entity
}

// IsExtension reports whether the namespace builds on other namespaces
func (ns *Namespace) IsExtension() bool {
	return len(ns.Dependencies) > 0
}

// DependsOn reports whether name is a declared dependency
func (ns *Namespace) DependsOn(name string) bool {
	for _, d := range ns.Dependencies {
		if d == name {
			return true
		}
	}
	return false
}

// Entity looks up an entity by name among the given kinds, in kind order
func (ns *Namespace) Entity(name string, kinds ...EntityKind) *Entity {
	for _, k := range kinds {
		if e, ok := ns.index[k][name]; ok {
			return e
		}
	}
	return nil
}

// EntitiesOf returns the namespace's entities of the given kinds in declaration order
func (ns *Namespace) EntitiesOf(kinds ...EntityKind) []*Entity {
	var out []*Entity
	for _, e := range ns.Entities {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
