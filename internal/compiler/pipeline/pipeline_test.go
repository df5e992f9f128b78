package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/edfi-tools/apischema/internal/compiler/apischema"
	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/compiler/openapi"
	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
	"github.com/edfi-tools/apischema/internal/model/modeltest"
)

type fakeStage struct {
	name     string
	requires []string
	run      func(st *State) error
}

func (s fakeStage) Name() string       { return s.name }
func (s fakeStage) Requires() []string { return s.requires }
func (s fakeStage) Run(st *State) error {
	if s.run == nil {
		return nil
	}
	return s.run(st)
}

func TestDefaultStageOrder(t *testing.T) {
	assert.Equal(t, []string{
		StageReferenceComponents,
		StagePropertyCollection,
		StageNamingCollisions,
		StageIdentityEquality,
		StageSchemaSynthesis,
		StageDocumentPaths,
		StageOpenAPIFragments,
	}, Default().Stages())
}

func TestNewOrdersByRequirements(t *testing.T) {
	p, err := New([]Stage{
		fakeStage{name: "c", requires: []string{"b"}},
		fakeStage{name: "b", requires: []string{"a"}},
		fakeStage{name: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, p.Stages())
}

func TestNewOrderingErrors(t *testing.T) {
	tests := []struct {
		name   string
		stages []Stage
		code   errors.ErrorCode
	}{
		{
			name:   "missing requirement",
			stages: []Stage{fakeStage{name: "a", requires: []string{"ghost"}}},
			code:   errors.ErrMissingStage,
		},
		{
			name: "requirement cycle",
			stages: []Stage{
				fakeStage{name: "a", requires: []string{"b"}},
				fakeStage{name: "b", requires: []string{"a"}},
			},
			code: errors.ErrStageCycle,
		},
		{
			name:   "duplicate stage",
			stages: []Stage{fakeStage{name: "a"}, fakeStage{name: "a"}},
			code:   errors.ErrDuplicateStage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.stages)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestReadingOutputBeforeStageRuns(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	st := newState(m, m.Namespace("EdFi"), apischema.New(), refcomp.NewResolver(m), openapi.NewExtIndex())

	_, err := st.Resources()
	assert.True(t, errors.HasCode(err, errors.ErrStageNotRun))
	_, err = st.Resolver()
	assert.True(t, errors.HasCode(err, errors.ErrStageNotRun))

	// A stage that forgets to declare its requirement fails loudly.
	p, err := New([]Stage{
		fakeStage{name: "eager", run: func(st *State) error {
			_, err := st.NamedResources()
			return err
		}},
	})
	require.NoError(t, err)
	_, err = p.Compile(m)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrStageNotRun))
}

func TestCompileCoreAndExtension(t *testing.T) {
	// The extension is loaded first; dependencies still compile first.
	m := modeltest.Load(t, modeltest.Extension, modeltest.Core)

	out, err := Default().Compile(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"EdFi", "Sample"}, out.NamespaceOrder)

	core := out.Namespaces["EdFi"]
	assert.False(t, core.IsExtensionProject)
	assert.Equal(t, "ed-fi", core.ProjectEndpointName)
	require.NotNil(t, core.Resource("School"))
	assert.Equal(t, "schools", core.ResourceNameMapping["School"])
	assert.NotNil(t, core.ResourceSchemas["gradeLevelDescriptors"])
	assert.Contains(t, core.ReferenceSchemas, "EducationOrganization_Reference")
	assert.Contains(t, core.OpenAPICoreResources.NewPaths, "/ed-fi/schools")
	assert.Contains(t, core.OpenAPICoreDescriptors.NewPaths, "/ed-fi/gradeLevelDescriptors")

	sample := out.Namespaces["Sample"]
	assert.True(t, sample.IsExtensionProject)
	frags := sample.OpenAPIExtensionResourceFragments
	require.NotNil(t, frags)
	assert.Contains(t, frags.NewPaths, "/sample/buses")
	assert.Contains(t, frags.Exts, "EdFi_School")
	assert.Nil(t, sample.Resource("School"))
	require.NotNil(t, sample.Resource("MembershipTypeDescriptor"))
	assert.True(t, sample.Resource("MembershipTypeDescriptor").IsDescriptor)
}

func TestExtensionLeavesBaseSchemaUnchanged(t *testing.T) {
	coreOnly, err := Default().Compile(modeltest.Load(t, modeltest.Core))
	require.NoError(t, err)
	both, err := Default().Compile(modeltest.Load(t, modeltest.Core, modeltest.Extension))
	require.NoError(t, err)

	want, err := coreOnly.Namespaces["EdFi"].ToJSON()
	require.NoError(t, err)
	got, err := both.Namespaces["EdFi"].ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, want, got)

	ext := both.Namespaces["Sample"].OpenAPIExtensionResourceFragments.Exts["EdFi_School"]
	require.NotNil(t, ext)
	var names []string
	for pair := ext.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	assert.Equal(t, []string{"isExemplary", "membershipTypeDescriptor"}, names)
}

func TestCompileIsIdempotent(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core, modeltest.Extension)
	p := Default()

	first, err := p.Compile(m)
	require.NoError(t, err)
	second, err := p.Compile(m)
	require.NoError(t, err)

	a, err := first.ToJSON()
	require.NoError(t, err)
	b, err := second.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDocumentRequiredRules(t *testing.T) {
	out, err := Default().Compile(modeltest.Load(t, modeltest.Core, modeltest.Extension))
	require.NoError(t, err)

	for _, name := range out.NamespaceOrder {
		for endpoint, rs := range out.Namespaces[name].ResourceSchemas {
			var query map[string]interface{}
			data, err := json.Marshal(rs.JSONSchemaForQuery)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(data, &query))
			assert.Equal(t, []interface{}{}, query["required"], endpoint)

			assert.NotContains(t, rs.JSONSchemaForInsert.Required, "id", endpoint)
			assert.Contains(t, rs.JSONSchemaForUpdate.Required, "id", endpoint)
		}
	}
}

func TestMergedReferenceStaysInDocument(t *testing.T) {
	out, err := Default().Compile(modeltest.Load(t, modeltest.Core))
	require.NoError(t, err)

	rs := out.Namespaces["EdFi"].ResourceSchemas["courseOfferings"]
	require.NotNil(t, rs)

	insert := rs.JSONSchemaForInsert
	for _, name := range []string{"schoolReference", "sessionReference"} {
		_, ok := insert.Properties.Get(name)
		assert.True(t, ok, name)
		assert.Contains(t, insert.Required, name)
	}
	assert.Equal(t, []apischema.EqualityConstraint{
		{SourceJSONPath: "$.schoolReference.schoolId", TargetJSONPath: "$.sessionReference.schoolId"},
	}, rs.EqualityConstraints)

	school := rs.DocumentPathsMapping["School"]
	require.NotNil(t, school)
	assert.Equal(t, "$.schoolReference.schoolId", school.Paths["schoolId"])
}

func TestFailedDependencySkipsNamespace(t *testing.T) {
	m := modeltest.Load(t, `
namespaces:
  - name: EdFi
    entities:
      - kind: common
        name: Left
        properties:
          - {name: Right, type: common}
      - kind: common
        name: Right
        properties:
          - {name: Left, type: common}
      - kind: domainEntity
        name: Holder
        properties:
          - {name: HolderId, type: integer, identity: true}
          - {name: Left, type: common}
  - name: Sample
    dependencies: [EdFi]
    entities:
      - kind: domainEntity
        name: Bus
        properties:
          - {name: BusId, type: integer, identity: true}
`)

	out, err := Default().Compile(m)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCompositionCycle))
	assert.True(t, errors.HasCode(err, errors.ErrDependencyFailed))
	assert.Empty(t, out.Namespaces)
}

func TestNamespaceCycle(t *testing.T) {
	m := modeltest.Load(t, `
namespaces:
  - name: A
    dependencies: [B]
    entities: []
  - name: B
    dependencies: [A]
    entities: []
`)

	_, err := Default().Compile(m)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrNamespaceCycle))
}

func TestCompileLogsStages(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := Default(WithLogger(zap.New(core)))

	_, err := p.Compile(modeltest.Load(t, modeltest.Core))
	require.NoError(t, err)

	started := logs.FilterMessage("stage started").All()
	require.Len(t, started, 7)
	assert.Equal(t, StageReferenceComponents, started[0].ContextMap()["stage"])
	assert.Equal(t, "EdFi", started[0].ContextMap()["namespace"])
	assert.Equal(t, 1, logs.FilterMessage("namespace compiled").Len())
}
