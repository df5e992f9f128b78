package errors

import "fmt"

// Naming error codes (NAM300-399)
const (
	// ErrNameCollision indicates two properties that serialize to the same JSON name
	ErrNameCollision ErrorCode = "NAM301"
	// ErrIdentityCollision indicates two identity leaves of a reference with the same name
	ErrIdentityCollision ErrorCode = "NAM302"
	// ErrReservedName indicates a top-level property named like the document id or _ext
	ErrReservedName ErrorCode = "NAM303"
)

// NewNameCollision creates a NAM301 error
func NewNameCollision(loc Location, jsonName, first, second string) *CompilerError {
	return newError(
		ErrNameCollision,
		"name_collision",
		CategoryNaming,
		SeverityError,
		fmt.Sprintf("Properties '%s' and '%s' both serialize as '%s'", first, second, jsonName),
		loc,
	).WithSuggestion("Give one of the properties a distinguishing role name")
}

// NewIdentityCollision creates a NAM302 error
func NewIdentityCollision(loc Location, jsonName string) *CompilerError {
	return newError(
		ErrIdentityCollision,
		"identity_collision",
		CategoryNaming,
		SeverityError,
		fmt.Sprintf("Identity leaf '%s' appears more than once in the reference", jsonName),
		loc,
	).WithSuggestion("Add a merge directive equating the duplicated identity paths")
}

// NewReservedName creates a NAM303 error
func NewReservedName(loc Location, jsonName, property string) *CompilerError {
	return newError(
		ErrReservedName,
		"reserved_name",
		CategoryNaming,
		SeverityError,
		fmt.Sprintf("Property '%s' serializes as '%s', which every resource document reserves", property, jsonName),
		loc,
	).WithSuggestion("Rename the property or give it a role name")
}
