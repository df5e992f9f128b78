package refcomp

import (
	"github.com/edfi-tools/apischema/internal/model"
	stringutil "github.com/edfi-tools/apischema/internal/util/strings"
)

// JSON property names by property shape. name is a full (role-qualified)
// property name.

// ScalarJSONName names a scalar property (SchoolId -> schoolId)
func ScalarJSONName(name string) string {
	return stringutil.Uncapitalize(name)
}

// DescriptorJSONName names a descriptor property (EntryGradeLevel -> entryGradeLevelDescriptor)
func DescriptorJSONName(name string) string {
	return stringutil.Uncapitalize(name) + "Descriptor"
}

// EnumerationJSONName names the object wrapping an enumeration value
func EnumerationJSONName(name string) string {
	return stringutil.Uncapitalize(name) + "TypeReference"
}

// ReferenceJSONName names a reference object (School -> schoolReference)
func ReferenceJSONName(name string) string {
	return stringutil.Uncapitalize(name) + "Reference"
}

// EnumerationValueName names the single value inside an enumeration object
func EnumerationValueName(enum *model.Entity) string {
	return stringutil.Uncapitalize(enum.Name)
}

// FoldRoles applies role tokens, outermost first, to name with role elision
func FoldRoles(prefix []string, name string) string {
	for i := len(prefix) - 1; i >= 0; i-- {
		name = stringutil.JoinRole(prefix[i], name)
	}
	return name
}
