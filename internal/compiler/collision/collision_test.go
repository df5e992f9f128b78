package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edfi-tools/apischema/internal/compiler/collect"
	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
	"github.com/edfi-tools/apischema/internal/model/modeltest"
)

func collected(t *testing.T, yaml, name string) *collect.Resource {
	t.Helper()
	m := modeltest.Load(t, yaml)
	res, err := collect.NewCollector(refcomp.NewResolver(m)).Collect(modeltest.Entity(t, m, "EdFi", name))
	require.NoError(t, err)
	return res
}

func jsonNames(fields []*collect.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.JSONName())
	}
	return out
}

func TestSubclassLocalKeepsRolePrefix(t *testing.T) {
	res := collected(t, `
namespaces:
  - name: EdFi
    entities:
      - kind: domainEntity
        name: EducationOrganization
        properties:
          - {name: EducationOrganizationId, type: integer, identity: true}
          - {name: SchoolId, type: integer}
      - kind: domainEntitySubclass
        name: School
        base: EducationOrganization
        properties:
          - {name: SchoolId, role: School, type: integer}
`, "School")

	require.NoError(t, Resolve(res))
	assert.Equal(t, []string{"educationOrganizationId", "schoolId", "schoolSchoolId"}, jsonNames(res.Fields))
	assert.True(t, res.Fields[1].Inherited)
}

func TestRoleNamedVariantIsRenamed(t *testing.T) {
	res := collected(t, `
namespaces:
  - name: EdFi
    entities:
      - kind: domainEntity
        name: Assignment
        properties:
          - {name: StaffId, role: Staff, type: integer, identity: true}
          - {name: StaffId, type: integer}
`, "Assignment")

	require.NoError(t, Resolve(res))
	assert.Equal(t, []string{"staffStaffId", "staffId"}, jsonNames(res.Fields))
	assert.Equal(t, "StaffStaffId", res.Fields[0].Name())
}

func TestStrippedCollectionFallsBack(t *testing.T) {
	res := collected(t, `
namespaces:
  - name: EdFi
    entities:
      - kind: domainEntity
        name: EducationContent
        properties:
          - {name: ContentIdentifier, type: string, identity: true}
          - {name: EducationContentSuffixName, type: string, collection: true}
          - {name: SuffixName, type: string, collection: true}
`, "EducationContent")

	require.NoError(t, Resolve(res))
	assert.Equal(t, []string{"contentIdentifier", "educationContentSuffixNames", "suffixNames"}, jsonNames(res.Fields))
}

func TestNestedGroupCollision(t *testing.T) {
	res := collected(t, `
namespaces:
  - name: EdFi
    entities:
      - kind: common
        name: Code
        properties:
          - {name: CodeValue, type: string}
          - {name: CodeValue, role: Code, type: string}
      - kind: domainEntity
        name: Thing
        properties:
          - {name: ThingId, type: integer, identity: true}
          - {name: Code, type: common, collection: true}
`, "Thing")

	require.NoError(t, Resolve(res))
	assert.Equal(t, []string{"codeValue", "codeCodeValue"}, jsonNames(res.Fields[1].Children))
}

func TestUnresolvableCollision(t *testing.T) {
	res := collected(t, `
namespaces:
  - name: EdFi
    entities:
      - kind: domainEntity
        name: Base
        properties:
          - {name: BaseId, type: integer, identity: true}
          - {name: Code, type: string}
      - kind: domainEntitySubclass
        name: Derived
        base: Base
        properties:
          - {name: Code, type: integer}
`, "Derived")

	err := Resolve(res)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrNameCollision))
	assert.Contains(t, err.Error(), "Base.Code")
	assert.Contains(t, err.Error(), "Derived.Code")
}

func TestNoCollisionLeavesNamesAlone(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	res, err := collect.NewCollector(refcomp.NewResolver(m)).Collect(modeltest.Entity(t, m, "EdFi", "StudentSchoolAssociation"))
	require.NoError(t, err)

	require.NoError(t, Resolve(res))
	assert.Equal(t, []string{
		"studentReference",
		"schoolReference",
		"entryDate",
		"entryGradeLevelDescriptor",
		"classSchoolYearTypeReference",
		"exitWithdrawDate",
	}, jsonNames(res.Fields))
}

func TestReservedDocumentNames(t *testing.T) {
	res := collected(t, `
namespaces:
  - name: EdFi
    entities:
      - kind: domainEntity
        name: Widget
        properties:
          - {name: Id, type: integer, identity: true}
`, "Widget")

	err := Resolve(res)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReservedName))
	assert.Contains(t, err.Error(), "'id'")
}

func TestReservedNameMovesToNextCandidate(t *testing.T) {
	res := collected(t, `
namespaces:
  - name: EdFi
    entities:
      - kind: domainEntity
        name: Widget
        properties:
          - {name: WidgetCode, type: string, identity: true}
          - {name: Id, role: Id, type: integer}
`, "Widget")

	require.NoError(t, Resolve(res))
	assert.Equal(t, []string{"widgetCode", "idId"}, jsonNames(res.Fields))
}

func TestReservedNamesOnlyAtTopLevel(t *testing.T) {
	res := collected(t, `
namespaces:
  - name: EdFi
    entities:
      - kind: common
        name: Tag
        properties:
          - {name: Id, type: string}
      - kind: domainEntity
        name: Widget
        properties:
          - {name: WidgetCode, type: string, identity: true}
          - {name: Tag, type: common, collection: true}
`, "Widget")

	require.NoError(t, Resolve(res))
	assert.Equal(t, []string{"id"}, jsonNames(res.Fields[1].Children))
}
