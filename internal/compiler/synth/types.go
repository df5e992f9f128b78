package synth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
	"github.com/edfi-tools/apischema/internal/model"
)

const (
	// DescriptorMaxLength bounds descriptor URIs (namespace + "#" + code value)
	DescriptorMaxLength = 306
	// DurationMaxLength bounds ISO 8601 duration strings
	DurationMaxLength = 30

	shortMin = "-32768"
	shortMax = "32767"
)

// ScalarSchema maps a scalar kind and its facets to a JSON Schema type
func ScalarSchema(s model.Scalar) *jsonschema.Schema {
	switch s.Kind {
	case model.String:
		return &jsonschema.Schema{
			Type:      "string",
			MinLength: length(s.MinLength),
			MaxLength: length(s.MaxLength),
		}
	case model.Integer, model.Year:
		return &jsonschema.Schema{
			Type:    "integer",
			Minimum: json.Number(s.MinValue),
			Maximum: json.Number(s.MaxValue),
		}
	case model.Short:
		out := &jsonschema.Schema{Type: "integer", Minimum: shortMin, Maximum: shortMax}
		if s.MinValue != "" {
			out.Minimum = json.Number(s.MinValue)
		}
		if s.MaxValue != "" {
			out.Maximum = json.Number(s.MaxValue)
		}
		return out
	case model.Decimal, model.Currency, model.Percent:
		min, max := decimalBounds(s)
		return &jsonschema.Schema{Type: "number", Minimum: min, Maximum: max}
	case model.Boolean:
		return &jsonschema.Schema{Type: "boolean"}
	case model.Date:
		return &jsonschema.Schema{Type: "string", Format: "date"}
	case model.DateTime:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	case model.Time:
		return &jsonschema.Schema{Type: "string", Format: "time"}
	case model.Duration:
		return &jsonschema.Schema{Type: "string", MaxLength: length(intPtr(DurationMaxLength))}
	default:
		panic(fmt.Sprintf("synth: unhandled scalar kind %q", s.Kind))
	}
}

// decimalBounds takes explicit facets first and otherwise derives the
// widest value allowed by total digits and decimal places (9,2 -> 9999999.99)
func decimalBounds(s model.Scalar) (min, max json.Number) {
	min, max = json.Number(s.MinValue), json.Number(s.MaxValue)
	if s.TotalDigits == nil {
		return min, max
	}

	places := 0
	if s.DecimalPlaces != nil {
		places = *s.DecimalPlaces
	}
	whole := *s.TotalDigits - places
	if whole < 0 {
		return min, max
	}

	limit := strings.Repeat("9", whole)
	if whole == 0 {
		limit = "0"
	}
	if places > 0 {
		limit += "." + strings.Repeat("9", places)
	}
	if min == "" {
		min = json.Number("-" + limit)
	}
	if max == "" {
		max = json.Number(limit)
	}
	return min, max
}

// DescriptorSchema is the string form of a descriptor value
func DescriptorSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:      "string",
		MaxLength: length(intPtr(DescriptorMaxLength)),
	}
}

// EnumerationSchema is the typed object wrapping an enumeration value
func EnumerationSchema(enum *model.Entity, v Variant) *jsonschema.Schema {
	name := refcomp.EnumerationValueName(enum)
	value := &jsonschema.Schema{Type: "string"}
	if enum.IntegerValued {
		value.Type = "integer"
	}
	for _, item := range enum.EnumerationItems {
		if !enum.IntegerValued {
			value.Enum = append(value.Enum, item)
			continue
		}
		// model.Build rejects non-integer items
		if n, err := strconv.Atoi(item); err == nil {
			value.Enum = append(value.Enum, n)
		}
	}

	props := jsonschema.NewProperties()
	props.Set(name, value)
	s := &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: jsonschema.FalseSchema,
	}
	if v != Query {
		s.Required = []string{name}
	}
	return s
}

// ReferenceObject is the object holding a referenced identity. In the query
// variant no leaf is required.
func ReferenceObject(leaves []*refcomp.IdentityLeaf, v Variant) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	s := &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: jsonschema.FalseSchema,
	}
	for _, l := range leaves {
		name := l.JSONName()
		props.Set(name, leafSchema(l, v))
		if v != Query {
			s.Required = append(s.Required, name)
		}
	}
	return s
}

// ReferenceName is the component name of a reference schema
func ReferenceName(resourceName string) string {
	return resourceName + "_Reference"
}

// ReferenceSchema builds the <Name>_Reference schema of an entity identity
func ReferenceSchema(projectName, resourceName string, leaves []*refcomp.IdentityLeaf) *jsonschema.Schema {
	s := ReferenceObject(leaves, Insert)
	s.Title = projectName + "." + ReferenceName(resourceName)
	return s
}

func leafSchema(l *refcomp.IdentityLeaf, v Variant) *jsonschema.Schema {
	var s *jsonschema.Schema
	switch t := l.Property.Type.(type) {
	case model.Scalar:
		s = ScalarSchema(t)
	case model.DescriptorRef:
		s = DescriptorSchema()
	case model.EnumerationRef:
		s = EnumerationSchema(l.Target, v)
	case model.EntityRef, model.Composition:
		panic("synth: identity leaf over a non-leaf property")
	default:
		panic(model.UnhandledType(t))
	}
	s.Description = l.Property.Documentation
	return s
}

func length(n *int) *uint64 {
	if n == nil || *n < 0 {
		return nil
	}
	u := uint64(*n)
	return &u
}

func intPtr(i int) *int { return &i }
