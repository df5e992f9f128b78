package refcomp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/model"
	"github.com/edfi-tools/apischema/internal/model/modeltest"
)

func TestIdentitySubclassRename(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	r := NewResolver(m)

	leaves, err := r.Identity(modeltest.Entity(t, m, "EdFi", "School"))
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, "schoolId", leaves[0].JSONName())
	assert.Equal(t, "School", leaves[0].Property.Parent.Name)

	leaves, err = r.Identity(modeltest.Entity(t, m, "EdFi", "EducationOrganization"))
	require.NoError(t, err)
	assert.Equal(t, []string{"educationOrganizationId"}, leafNames(leaves))
}

func TestIdentityEnumerationStaysTyped(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	r := NewResolver(m)

	leaves, err := r.Identity(modeltest.Entity(t, m, "EdFi", "Session"))
	require.NoError(t, err)
	assert.Equal(t, []string{"schoolId", "schoolYearTypeReference", "sessionName"}, leafNames(leaves))

	year := leaves[1]
	assert.Equal(t, "schoolYearTypeReference.schoolYear", year.ObjectPath())
	assert.Equal(t, "schoolYearTypeReference.schoolYear", year.DocumentPath)
	assert.Equal(t, model.Enumeration, year.Target.Kind)

	school := leaves[0]
	assert.Equal(t, []string{"School", "SchoolId"}, school.Chain)
	assert.Equal(t, "schoolReference.schoolId", school.DocumentPath)
}

func TestIdentityMergeRemovesDuplicate(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core)
	r := NewResolver(m)

	leaves, err := r.Identity(modeltest.Entity(t, m, "EdFi", "CourseOffering"))
	require.NoError(t, err)
	assert.Equal(t, []string{"localCourseCode", "schoolId", "schoolYearTypeReference", "sessionName"}, leafNames(leaves))

	school := leaves[1]
	assert.Equal(t, []string{"Session", "School", "SchoolId"}, school.Chain)
	assert.Equal(t, [][]string{{"School", "SchoolId"}}, school.Aliases)
	assert.True(t, school.Matches([]string{"School"}))
	assert.Equal(t, "sessionReference.schoolId", school.DocumentPath)

	leaves, err = r.Identity(modeltest.Entity(t, m, "EdFi", "Section"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sectionIdentifier", "localCourseCode", "schoolId", "schoolYearTypeReference", "sessionName"}, leafNames(leaves))
	assert.True(t, leaves[2].Matches([]string{"CourseOffering", "School"}))
	assert.Equal(t, "courseOfferingReference.schoolYearTypeReference.schoolYear", leaves[3].DocumentPath)
}

func TestIdentityRoleNames(t *testing.T) {
	m := modeltest.Load(t, modeltest.Core, `
namespaces:
  - name: Roles
    dependencies: [EdFi]
    entities:
      - kind: domainEntity
        name: Transfer
        properties:
          - {name: School, role: Sending, type: reference, identity: true}
          - {name: School, role: Receiving, type: reference, identity: true}
`)
	r := NewResolver(m)

	leaves, err := r.Identity(modeltest.Entity(t, m, "Roles", "Transfer"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sendingSchoolId", "receivingSchoolId"}, leafNames(leaves))
	assert.Equal(t, "receivingSchoolReference.schoolId", leaves[1].DocumentPath)
}

func TestIdentityErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		entity string
		code   errors.ErrorCode
	}{
		{
			name: "identity cycle",
			yaml: `
namespaces:
  - name: EdFi
    entities:
      - kind: domainEntity
        name: A
        properties:
          - {name: B, type: reference, identity: true}
      - kind: domainEntity
        name: B
        properties:
          - {name: A, type: reference, identity: true}
`,
			entity: "A",
			code:   errors.ErrIdentityCycle,
		},
		{
			name: "common in identity",
			yaml: `
namespaces:
  - name: EdFi
    entities:
      - kind: common
        name: Period
        properties:
          - {name: BeginDate, type: date}
      - kind: domainEntity
        name: A
        properties:
          - {name: Period, type: common, identity: true}
`,
			entity: "A",
			code:   errors.ErrGroupIdentity,
		},
		{
			name: "unknown rename",
			yaml: `
namespaces:
  - name: EdFi
    entities:
      - kind: domainEntity
        name: Base
        properties:
          - {name: BaseId, type: integer, identity: true}
      - kind: domainEntitySubclass
        name: Derived
        base: Base
        properties:
          - {name: DerivedId, type: integer, identity: true, renamesIdentity: OtherId}
`,
			entity: "Derived",
			code:   errors.ErrUnknownRenameTarget,
		},
		{
			name: "unmerged duplicate leaf",
			yaml: `
namespaces:
  - name: EdFi
    entities:
      - kind: domainEntity
        name: School
        properties:
          - {name: SchoolId, type: integer, identity: true}
      - kind: domainEntity
        name: Session
        properties:
          - {name: School, type: reference, identity: true}
          - {name: SessionName, type: string, identity: true}
      - kind: domainEntity
        name: CourseOffering
        properties:
          - {name: Session, type: reference, identity: true}
          - {name: School, type: reference, identity: true}
`,
			entity: "CourseOffering",
			code:   errors.ErrIdentityCollision,
		},
		{
			name: "unresolvable merge",
			yaml: `
namespaces:
  - name: EdFi
    entities:
      - kind: domainEntity
        name: School
        properties:
          - {name: SchoolId, type: integer, identity: true}
      - kind: domainEntity
        name: Session
        properties:
          - name: School
            type: reference
            identity: true
            merges:
              - {source: School, target: Calendar.School}
`,
			entity: "Session",
			code:   errors.ErrUnresolvableMerge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := modeltest.Load(t, tt.yaml)
			r := NewResolver(m)
			_, err := r.Identity(modeltest.Entity(t, m, "EdFi", tt.entity))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestPairLeaves(t *testing.T) {
	a := &model.Property{Name: "A"}
	b := &model.Property{Name: "B"}
	c := &model.Property{Name: "C"}
	prop := func(p *model.Property) *model.Property { return p }

	pairs, ok := PairLeaves([]*model.Property{a, b}, []*model.Property{b, a}, prop)
	require.True(t, ok)
	assert.Equal(t, [][2]*model.Property{{a, a}, {b, b}}, pairs)

	pairs, ok = PairLeaves([]*model.Property{a, b}, []*model.Property{c, a}, prop)
	require.True(t, ok)
	assert.Equal(t, [][2]*model.Property{{a, c}, {b, a}}, pairs, "falls back to position")

	_, ok = PairLeaves([]*model.Property{a}, []*model.Property{a, b}, prop)
	assert.False(t, ok)
}

func TestHasPrefix(t *testing.T) {
	assert.True(t, HasPrefix([]string{"A", "B", "C"}, []string{"A", "B"}))
	assert.False(t, HasPrefix([]string{"A"}, []string{"A", "B"}))
	assert.False(t, HasPrefix([]string{"A"}, nil))
}
