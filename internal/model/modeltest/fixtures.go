// Package modeltest provides YAML model fixtures shared by compiler tests.
package modeltest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edfi-tools/apischema/internal/model"
)

// Core is a small core namespace exercising subclass identity renames,
// merges, enumeration identities, inline commons and prefixed collections.
const Core = `
namespaces:
  - name: EdFi
    projectName: Ed-Fi
    projectVersion: 5.0.0
    description: Core model
    entities:
      - kind: descriptor
        name: GradeLevel
        documentation: The grade levels offered.
      - kind: descriptor
        name: AddressType
      - kind: enumeration
        name: SchoolYear
        integerValued: true
        items: ["2022", "2023", "2024"]
      - kind: common
        name: Period
        properties:
          - {name: BeginDate, type: date, required: true}
          - {name: EndDate, type: date}
      - kind: common
        name: Address
        properties:
          - {name: AddressType, type: descriptor, required: true}
          - {name: StreetNumberName, type: string, maxLength: 150, required: true}
          - {name: City, type: string, maxLength: 30, required: true}
          - {name: Period, type: common, collection: true}
      - kind: inlineCommon
        name: Name
        properties:
          - {name: FirstName, type: string, maxLength: 75, required: true}
          - {name: LastSurname, type: string, maxLength: 75, required: true}
      - kind: domainEntity
        name: EducationOrganization
        abstract: true
        properties:
          - {name: EducationOrganizationId, type: integer, identity: true}
          - {name: NameOfInstitution, type: string, maxLength: 75, required: true}
          - {name: Address, type: common, collection: true}
      - kind: domainEntitySubclass
        name: School
        documentation: A school.
        base: EducationOrganization
        properties:
          - {name: SchoolId, type: integer, identity: true, renamesIdentity: EducationOrganizationId}
          - {name: GradeLevel, type: descriptor, collection: true, required: true}
          - {name: SchoolYear, role: CharterApproval, type: enumeration}
      - kind: domainEntity
        name: Session
        properties:
          - {name: School, type: reference, identity: true}
          - {name: SchoolYear, type: enumeration, identity: true}
          - {name: SessionName, type: string, maxLength: 60, identity: true}
          - {name: BeginDate, type: date, required: true}
          - {name: TotalInstructionalDays, type: short, required: true}
      - kind: domainEntity
        name: Student
        properties:
          - {name: StudentUniqueId, type: string, maxLength: 32, identity: true}
          - {name: Name, type: inline, required: true}
          - {name: BirthDate, type: date, required: true}
      - kind: domainEntity
        name: ClassPeriod
        properties:
          - {name: ClassPeriodName, type: string, maxLength: 60, identity: true}
          - {name: School, type: reference, identity: true}
      - kind: domainEntity
        name: CourseOffering
        properties:
          - {name: LocalCourseCode, type: string, maxLength: 60, identity: true}
          - {name: Session, type: reference, identity: true}
          - name: School
            type: reference
            identity: true
            merges:
              - {source: School, target: Session.School}
      - kind: domainEntity
        name: Section
        properties:
          - {name: SectionIdentifier, type: string, maxLength: 255, identity: true}
          - {name: CourseOffering, type: reference, identity: true}
          - name: ClassPeriod
            type: reference
            collection: true
            required: true
            merges:
              - {source: ClassPeriod.School, target: CourseOffering.School}
      - kind: domainEntity
        name: EducationContent
        properties:
          - {name: ContentIdentifier, type: string, maxLength: 225, identity: true}
          - {name: EducationContentSuffixName, type: string, maxLength: 75, collection: true}
          - {name: EducationContent, role: EducationContentDerivativeSource, type: reference, collection: true}
          - {name: Cost, type: currency}
          - {name: TimeRequired, type: duration}
      - kind: association
        name: StudentSchoolAssociation
        properties:
          - {name: Student, type: reference, identity: true}
          - {name: School, type: reference, identity: true}
          - {name: EntryDate, type: date, identity: true}
          - {name: GradeLevel, role: Entry, type: descriptor, required: true}
          - {name: SchoolYear, role: Class, type: enumeration}
          - {name: ExitWithdrawDate, type: date}
`

// Extension is a namespace depending on Core that extends School and adds
// a resource referencing a core entity.
const Extension = `
namespaces:
  - name: Sample
    projectName: Sample
    projectVersion: 1.0.0
    dependencies: [EdFi]
    entities:
      - kind: descriptor
        name: MembershipType
      - kind: domainEntityExtension
        name: School
        base: EdFi.School
        properties:
          - {name: IsExemplary, type: boolean}
          - {name: MembershipType, type: descriptor}
      - kind: domainEntity
        name: Bus
        properties:
          - {name: BusId, type: string, maxLength: 60, identity: true}
          - {name: School, type: reference, target: EdFi.School, required: true}
`

// Load decodes every YAML document and builds one model, failing the test
// on any error
func Load(t testing.TB, docs ...string) *model.Model {
	t.Helper()
	m, err := Build(docs...)
	require.NoError(t, err)
	return m
}

// Build decodes every YAML document and builds one model
func Build(docs ...string) (*model.Model, error) {
	var all []*model.Namespace
	for _, doc := range docs {
		namespaces, err := model.DecodeYAML(strings.NewReader(doc))
		if err != nil {
			return nil, err
		}
		all = append(all, namespaces...)
	}
	return model.Build(all...)
}

// Entity returns the named entity of a namespace, failing the test when absent
func Entity(t testing.TB, m *model.Model, namespace, name string) *model.Entity {
	t.Helper()
	ns := m.Namespace(namespace)
	require.NotNil(t, ns, "namespace %s", namespace)
	for _, e := range ns.Entities {
		if e.Name == name && !e.Kind.IsExtension() {
			return e
		}
	}
	for _, e := range ns.Entities {
		if e.Name == name {
			return e
		}
	}
	require.Failf(t, "entity not found", "%s.%s", namespace, name)
	return nil
}
