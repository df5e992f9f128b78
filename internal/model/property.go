package model

import (
	"fmt"
	"strings"

	stringutil "github.com/edfi-tools/apischema/internal/util/strings"
)

// Property is one declared member of an entity
type Property struct {
	Name            string
	Documentation   string
	RoleName        string
	Required        bool
	Collection      bool
	Identity        bool
	RenamesIdentity string
	Merges          []MergeDirective
	Type            PropertyType
	Parent          *Entity
}

// FullName returns the role-qualified property name (ResponsibleSchool)
func (p *Property) FullName() string {
	return stringutil.JoinRole(p.RoleName, p.Name)
}

// String identifies the property as Namespace.Entity.Property
func (p *Property) String() string {
	if p.Parent == nil {
		return p.FullName()
	}
	return p.Parent.String() + "." + p.FullName()
}

// PropertyType is the closed set of property type shapes. The concrete
// types are Scalar, DescriptorRef, EnumerationRef, EntityRef and Composition.
type PropertyType interface {
	isPropertyType()
}

// UnhandledType builds the panic message for a type switch that missed a case
func UnhandledType(t PropertyType) string {
	return fmt.Sprintf("model: unhandled property type %T", t)
}

// ScalarKind enumerates scalar property types
type ScalarKind string

const (
	String   ScalarKind = "string"
	Integer  ScalarKind = "integer"
	Short    ScalarKind = "short"
	Decimal  ScalarKind = "decimal"
	Currency ScalarKind = "currency"
	Percent  ScalarKind = "percent"
	Duration ScalarKind = "duration"
	Boolean  ScalarKind = "boolean"
	Date     ScalarKind = "date"
	DateTime ScalarKind = "datetime"
	Time     ScalarKind = "time"
	Year     ScalarKind = "year"
)

var scalarKinds = map[ScalarKind]bool{
	String: true, Integer: true, Short: true, Decimal: true, Currency: true, Percent: true,
	Duration: true, Boolean: true, Date: true, DateTime: true, Time: true, Year: true,
}

// Scalar is a simple-valued property with optional facets.
// MinValue and MaxValue hold decimal literals so currency bounds stay exact.
type Scalar struct {
	Kind          ScalarKind
	MinLength     *int
	MaxLength     *int
	MinValue      string
	MaxValue      string
	TotalDigits   *int
	DecimalPlaces *int
}

// DescriptorRef refers to a descriptor by name
type DescriptorRef struct {
	Target Ref
}

// EnumerationRef refers to an enumeration by name
type EnumerationRef struct {
	Target Ref
}

// EntityRef refers to a domain entity, association or one of their subclasses
type EntityRef struct {
	Target Ref
}

// CompositionKind distinguishes the three grouping forms
type CompositionKind string

const (
	CommonComposition CompositionKind = "common"
	ChoiceComposition CompositionKind = "choice"
	InlineComposition CompositionKind = "inline"
)

// Composition embeds the properties of a common, choice or inline common
type Composition struct {
	Target Ref
	Kind   CompositionKind
}

func (Scalar) isPropertyType()         {}
func (DescriptorRef) isPropertyType()  {}
func (EnumerationRef) isPropertyType() {}
func (EntityRef) isPropertyType()      {}
func (Composition) isPropertyType()    {}

// Ref names an entity, optionally qualified by namespace. An empty
// Namespace means the namespace of the referring entity.
type Ref struct {
	Namespace string
	Name      string
}

// ParseRef parses "Name" or "Namespace.Name"
func ParseRef(s string) Ref {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return Ref{Namespace: s[:i], Name: s[i+1:]}
	}
	return Ref{Name: s}
}

func (r Ref) String() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// TargetRef returns the referenced entity name of a property type, if any
func TargetRef(t PropertyType) (Ref, bool) {
	switch t := t.(type) {
	case Scalar:
		return Ref{}, false
	case DescriptorRef:
		return t.Target, true
	case EnumerationRef:
		return t.Target, true
	case EntityRef:
		return t.Target, true
	case Composition:
		return t.Target, true
	default:
		panic(UnhandledType(t))
	}
}

// MergeDirective declares that the Source sub-path of a reference holds the
// same value as the Target path. Both are dotted chains of full property
// names; Source begins with the owning property's full name.
type MergeDirective struct {
	Source []string
	Target []string
}

// ParseMerge builds a directive from two dotted paths
func ParseMerge(source, target string) MergeDirective {
	return MergeDirective{
		Source: strings.Split(source, "."),
		Target: strings.Split(target, "."),
	}
}

func (m MergeDirective) String() string {
	return strings.Join(m.Source, ".") + " -> " + strings.Join(m.Target, ".")
}
