package synth

import (
	"encoding/json"
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edfi-tools/apischema/internal/compiler/apischema"
	"github.com/edfi-tools/apischema/internal/compiler/collect"
	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
	"github.com/edfi-tools/apischema/internal/model"
	"github.com/edfi-tools/apischema/internal/model/modeltest"
)

// decode renders a schema the way it is serialized
func decode(t *testing.T, s *jsonschema.Schema) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func propertyNames(s *jsonschema.Schema) []string {
	var names []string
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func property(t *testing.T, s *jsonschema.Schema, name string) *jsonschema.Schema {
	t.Helper()
	p, ok := s.Properties.Get(name)
	require.True(t, ok, "property %s", name)
	return p
}

func synthesize(t *testing.T, m *model.Model, ns, name string) *apischema.ResourceSchema {
	t.Helper()
	res, err := collect.NewCollector(refcomp.NewResolver(m)).Collect(modeltest.Entity(t, m, ns, name))
	require.NoError(t, err)
	rs := apischema.NewResourceSchema(res.Name)
	NewBuilder().Synthesize(res, rs)
	return rs
}

func TestDocumentEnvelope(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	rs := synthesize(t, m, "EdFi", "School")

	for _, s := range []*jsonschema.Schema{rs.JSONSchemaForInsert, rs.JSONSchemaForUpdate, rs.JSONSchemaForQuery} {
		doc := decode(t, s)
		assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", doc["$schema"])
		assert.Equal(t, "Ed-Fi.School", doc["title"])
		assert.Equal(t, "object", doc["type"])
		assert.Equal(t, false, doc["additionalProperties"])
		assert.Contains(t, doc["properties"], "_ext")
		assert.Contains(t, doc, "required")
	}
}

func TestRequiredPerVariant(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	rs := synthesize(t, m, "EdFi", "School")

	assert.Equal(t, []string{"schoolId", "nameOfInstitution", "gradeLevels"}, rs.JSONSchemaForInsert.Required)
	assert.NotContains(t, propertyNames(rs.JSONSchemaForInsert), "id")

	assert.Equal(t, []string{"id", "schoolId", "nameOfInstitution", "gradeLevels"}, rs.JSONSchemaForUpdate.Required)
	assert.Equal(t, "id", propertyNames(rs.JSONSchemaForUpdate)[0])

	query := decode(t, rs.JSONSchemaForQuery)
	assert.Equal(t, []interface{}{}, query["required"])
	assert.NotContains(t, propertyNames(rs.JSONSchemaForQuery), "id")
}

func TestSubclassDocumentReplacesRenamedIdentity(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	rs := synthesize(t, m, "EdFi", "School")

	names := propertyNames(rs.JSONSchemaForInsert)
	assert.Equal(t, []string{
		"schoolId",
		"nameOfInstitution",
		"addresses",
		"gradeLevels",
		"charterApprovalSchoolYearTypeReference",
		"_ext",
	}, names)
	assert.NotContains(t, names, "educationOrganizationId")
	assert.Equal(t, "integer", property(t, rs.JSONSchemaForInsert, "schoolId").Type)
}

func TestCollections(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	rs := synthesize(t, m, "EdFi", "School")

	grades := decode(t, property(t, rs.JSONSchemaForInsert, "gradeLevels"))
	assert.Equal(t, "array", grades["type"])
	assert.Equal(t, float64(1), grades["minItems"])
	assert.Equal(t, false, grades["uniqueItems"])
	item := grades["items"].(map[string]interface{})
	assert.Equal(t, []interface{}{"gradeLevelDescriptor"}, item["required"])
	descriptor := item["properties"].(map[string]interface{})["gradeLevelDescriptor"].(map[string]interface{})
	assert.Equal(t, "string", descriptor["type"])
	assert.Equal(t, float64(306), descriptor["maxLength"])

	addresses := decode(t, property(t, rs.JSONSchemaForInsert, "addresses"))
	assert.Equal(t, float64(0), addresses["minItems"])
	address := addresses["items"].(map[string]interface{})
	assert.Equal(t, []interface{}{"addressTypeDescriptor", "streetNumberName", "city"}, address["required"])
	assert.Contains(t, address["properties"], "periods")

	queryGrades := decode(t, property(t, rs.JSONSchemaForQuery, "gradeLevels"))
	assert.Equal(t, float64(0), queryGrades["minItems"])
	assert.NotContains(t, queryGrades["items"], "required")
}

func TestEnumerationIdentityInsideReference(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	rs := synthesize(t, m, "EdFi", "CourseOffering")

	ref := decode(t, property(t, rs.JSONSchemaForInsert, "sessionReference"))
	assert.Equal(t, []interface{}{"schoolId", "schoolYearTypeReference", "sessionName"}, ref["required"])

	year := ref["properties"].(map[string]interface{})["schoolYearTypeReference"].(map[string]interface{})
	assert.Equal(t, "object", year["type"])
	value := year["properties"].(map[string]interface{})["schoolYear"].(map[string]interface{})
	assert.Equal(t, "integer", value["type"])
	assert.Equal(t, []interface{}{float64(2022), float64(2023), float64(2024)}, value["enum"])
}

func TestScalarSchema(t *testing.T) {
	digits := func(total, places int) (*int, *int) { return &total, &places }
	total, places := digits(9, 2)
	zero := 0

	tests := []struct {
		name   string
		scalar model.Scalar
		want   map[string]interface{}
	}{
		{"string", model.Scalar{Kind: model.String, MaxLength: intPtr(60)}, map[string]interface{}{"type": "string", "maxLength": float64(60)}},
		{"short", model.Scalar{Kind: model.Short}, map[string]interface{}{"type": "integer", "minimum": float64(-32768), "maximum": float64(32767)}},
		{"integer", model.Scalar{Kind: model.Integer, MinValue: "1"}, map[string]interface{}{"type": "integer", "minimum": float64(1)}},
		{"decimal", model.Scalar{Kind: model.Decimal, TotalDigits: total, DecimalPlaces: places}, map[string]interface{}{"type": "number", "minimum": -9999999.99, "maximum": 9999999.99}},
		{"decimal facet", model.Scalar{Kind: model.Decimal, TotalDigits: total, DecimalPlaces: places, MinValue: "0"}, map[string]interface{}{"type": "number", "minimum": float64(0), "maximum": 9999999.99}},
		{"percent", model.Scalar{Kind: model.Percent, TotalDigits: intPtr(1), DecimalPlaces: &zero}, map[string]interface{}{"type": "number", "minimum": float64(-9), "maximum": float64(9)}},
		{"currency", model.Scalar{Kind: model.Currency}, map[string]interface{}{"type": "number"}},
		{"boolean", model.Scalar{Kind: model.Boolean}, map[string]interface{}{"type": "boolean"}},
		{"date", model.Scalar{Kind: model.Date}, map[string]interface{}{"type": "string", "format": "date"}},
		{"datetime", model.Scalar{Kind: model.DateTime}, map[string]interface{}{"type": "string", "format": "date-time"}},
		{"time", model.Scalar{Kind: model.Time}, map[string]interface{}{"type": "string", "format": "time"}},
		{"duration", model.Scalar{Kind: model.Duration}, map[string]interface{}{"type": "string", "maxLength": float64(30)}},
		{"year", model.Scalar{Kind: model.Year}, map[string]interface{}{"type": "integer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decode(t, ScalarSchema(tt.scalar)))
		})
	}
}

func TestDecimalWithoutWholeDigits(t *testing.T) {
	total, places := 2, 2
	min, max := decimalBounds(model.Scalar{Kind: model.Decimal, TotalDigits: &total, DecimalPlaces: &places})
	assert.Equal(t, "-0.99", string(min))
	assert.Equal(t, "0.99", string(max))
}

func TestUnhandledScalarKindPanics(t *testing.T) {
	assert.Panics(t, func() { ScalarSchema(model.Scalar{Kind: "money"}) })
}

func TestReferenceSchema(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	leaves, err := refcomp.NewResolver(m).Identity(modeltest.Entity(t, m, "EdFi", "Session"))
	require.NoError(t, err)

	s := ReferenceSchema("Ed-Fi", "Session", leaves)
	assert.Equal(t, "Ed-Fi.Session_Reference", s.Title)
	assert.Equal(t, []string{"schoolId", "schoolYearTypeReference", "sessionName"}, propertyNames(s))
	assert.Equal(t, []string{"schoolId", "schoolYearTypeReference", "sessionName"}, s.Required)
	assert.Equal(t, "Session_Reference", ReferenceName("Session"))
}

func TestBuilderHooks(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	res, err := collect.NewCollector(refcomp.NewResolver(m)).Collect(modeltest.Entity(t, m, "EdFi", "Section"))
	require.NoError(t, err)

	b := NewBuilder(
		WithReferenceSchema(func(f *collect.Field) *jsonschema.Schema {
			return &jsonschema.Schema{Ref: "#/components/schemas/" + f.Target.Name}
		}),
		WithItemSchema(func(f *collect.Field, item *jsonschema.Schema) *jsonschema.Schema {
			return &jsonschema.Schema{Ref: "#/components/schemas/Item" + f.Name()}
		}),
	)
	doc := b.Document(res, Insert)

	assert.Equal(t, "#/components/schemas/CourseOffering", property(t, doc, "courseOfferingReference").Ref)
	assert.Equal(t, "#/components/schemas/ItemClassPeriod", property(t, doc, "classPeriods").Items.Ref)
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "insert", Insert.String())
	assert.Equal(t, "update", Update.String())
	assert.Equal(t, "query", Query.String())
	assert.Equal(t, []Variant{Insert, Update, Query}, Variants)
}
