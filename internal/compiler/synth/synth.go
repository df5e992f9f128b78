// Package synth synthesizes the insert, update and query JSON Schema
// documents of every resource, plus the reference-object schema other
// resources use to point at it.
package synth

import (
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/edfi-tools/apischema/internal/compiler/apischema"
	"github.com/edfi-tools/apischema/internal/compiler/collect"
)

// Variant selects which of the three documents to build
type Variant int

const (
	Insert Variant = iota
	Update
	Query
)

func (v Variant) String() string {
	switch v {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Query:
		return "query"
	default:
		return "unknown"
	}
}

// Variants lists every document variant in output order
var Variants = []Variant{Insert, Update, Query}

// Properties is the ordered property map of an object schema
type Properties = orderedmap.OrderedMap[string, *jsonschema.Schema]

const (
	IDProperty  = apischema.IDProperty
	ExtProperty = apischema.ExtProperty
)

// Option configures a Builder
type Option func(*Builder)

// WithReferenceSchema replaces the inline object of every reference field
// with the schema fn returns
func WithReferenceSchema(fn func(f *collect.Field) *jsonschema.Schema) Option {
	return func(b *Builder) {
		b.reference = fn
	}
}

// WithItemSchema replaces the item schema of every collection field with
// the schema fn returns for it
func WithItemSchema(fn func(f *collect.Field, item *jsonschema.Schema) *jsonschema.Schema) Option {
	return func(b *Builder) {
		b.item = fn
	}
}

// Builder builds JSON Schema documents from collected resources
type Builder struct {
	reference func(f *collect.Field) *jsonschema.Schema
	item      func(f *collect.Field, item *jsonschema.Schema) *jsonschema.Schema
}

// NewBuilder creates a builder. Without options every schema is inline.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Synthesize fills the three documents of rs
func (b *Builder) Synthesize(res *collect.Resource, rs *apischema.ResourceSchema) {
	rs.JSONSchemaForInsert = b.Document(res, Insert)
	rs.JSONSchemaForUpdate = b.Document(res, Update)
	rs.JSONSchemaForQuery = b.Document(res, Query)
}

// Document builds one variant of the resource document. Only the update
// document carries the id, and the query document requires nothing.
func (b *Builder) Document(res *collect.Resource, v Variant) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	var required []string
	if v == Update {
		props.Set(IDProperty, &jsonschema.Schema{
			Type:        "string",
			Description: "The item id",
		})
		required = append(required, IDProperty)
	}
	required = append(required, b.fill(props, res.Fields, v)...)
	props.Set(ExtProperty, &jsonschema.Schema{
		Type:                 "object",
		Description:          "optional extension collection",
		AdditionalProperties: jsonschema.TrueSchema,
	})

	s := &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                res.ProjectName() + "." + res.Name,
		Description:          res.Entity.Documentation,
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: jsonschema.FalseSchema,
	}
	setRequired(s, required)
	return s
}

// Object builds the object schema of a list of fields
func (b *Builder) Object(fields []*collect.Field, v Variant) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	s := &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: jsonschema.FalseSchema,
	}
	s.Required = b.fill(props, fields, v)
	return s
}

// fill adds the schemas of fields to props and returns the names required
// in variant v
func (b *Builder) fill(props *Properties, fields []*collect.Field, v Variant) []string {
	var required []string
	for _, f := range fields {
		name := f.JSONName()
		props.Set(name, b.Field(f, v))
		if v != Query && (f.Required || f.Identity) {
			required = append(required, name)
		}
	}
	return required
}

// Field builds the schema of one field. Collections become arrays of
// objects; a non-group item wraps the value in a single property.
func (b *Builder) Field(f *collect.Field, v Variant) *jsonschema.Schema {
	value := b.value(f, v)
	if !f.Collection {
		return value
	}

	item := value
	if f.Kind != collect.GroupField {
		props := jsonschema.NewProperties()
		props.Set(f.ItemJSONName(), value)
		item = &jsonschema.Schema{
			Type:                 "object",
			Properties:           props,
			AdditionalProperties: jsonschema.FalseSchema,
		}
		if v != Query {
			item.Required = []string{f.ItemJSONName()}
		}
	}
	if b.item != nil {
		item = b.item(f, item)
	}

	minItems := uint64(0)
	if f.Required && v != Query {
		minItems = 1
	}
	return &jsonschema.Schema{
		Type:        "array",
		Description: f.Property.Documentation,
		Items:       item,
		MinItems:    &minItems,
		Extras:      map[string]interface{}{"uniqueItems": false},
	}
}

func (b *Builder) value(f *collect.Field, v Variant) *jsonschema.Schema {
	var s *jsonschema.Schema
	switch f.Kind {
	case collect.ScalarField:
		s = ScalarSchema(f.Scalar)
	case collect.DescriptorField:
		s = DescriptorSchema()
	case collect.EnumerationField:
		s = EnumerationSchema(f.Target, v)
	case collect.ReferenceField:
		if b.reference != nil {
			return b.reference(f)
		}
		s = ReferenceObject(f.Leaves, v)
	case collect.GroupField:
		s = b.Object(f.Children, v)
	default:
		panic("synth: unhandled field kind " + f.Kind.String())
	}
	s.Description = f.Property.Documentation
	return s
}

// setRequired records the required list of a top-level document. An empty
// list is still emitted.
func setRequired(s *jsonschema.Schema, required []string) {
	if len(required) > 0 {
		s.Required = required
		return
	}
	if s.Extras == nil {
		s.Extras = make(map[string]interface{})
	}
	s.Extras["required"] = []string{}
}
