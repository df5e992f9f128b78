package errors

import (
	"fmt"
	"strings"
)

// Model error codes (MOD100-299)
const (
	// ErrInternal wraps an unclassified failure
	ErrInternal ErrorCode = "MOD100"
	// ErrCompositionCycle indicates commons, choices or inline commons that compose themselves
	ErrCompositionCycle ErrorCode = "MOD101"
	// ErrIdentityCycle indicates entities whose identities reference each other
	ErrIdentityCycle ErrorCode = "MOD102"
	// ErrUnknownTarget indicates a property whose target entity does not exist
	ErrUnknownTarget ErrorCode = "MOD103"
	// ErrUnknownBase indicates a subclass or extension whose base does not exist
	ErrUnknownBase ErrorCode = "MOD104"
	// ErrInlineCollection indicates an inline common declared as a collection
	ErrInlineCollection ErrorCode = "MOD105"
	// ErrGroupIdentity indicates a common or choice inside a referenced identity
	ErrGroupIdentity ErrorCode = "MOD106"
	// ErrUnknownRenameTarget indicates an identity rename of a missing superclass identity
	ErrUnknownRenameTarget ErrorCode = "MOD107"
	// ErrAncestryCycle indicates a subclass chain that loops back on itself
	ErrAncestryCycle ErrorCode = "MOD108"
	// ErrDuplicateEntity indicates two entities of the same kind and name
	ErrDuplicateEntity ErrorCode = "MOD109"
	// ErrInvalidModel indicates a model document that cannot be decoded
	ErrInvalidModel ErrorCode = "MOD110"
	// ErrUnresolvableMerge indicates a merge directive path that matches nothing
	ErrUnresolvableMerge ErrorCode = "MOD201"
	// ErrMergeArity indicates merge directive sides with different leaf counts
	ErrMergeArity ErrorCode = "MOD202"
)

// NewCompositionCycle creates a MOD101 error
func NewCompositionCycle(loc Location, chain []string) *CompilerError {
	return newError(
		ErrCompositionCycle,
		"composition_cycle",
		CategoryModel,
		SeverityError,
		fmt.Sprintf("Composition cycle: %s", strings.Join(chain, " -> ")),
		loc,
	).WithSuggestion("Commons, choices and inline commons must form a DAG; remove one of the compositions in the chain")
}

// NewIdentityCycle creates a MOD102 error
func NewIdentityCycle(loc Location, chain []string) *CompilerError {
	return newError(
		ErrIdentityCycle,
		"identity_cycle",
		CategoryModel,
		SeverityError,
		fmt.Sprintf("Identity reference cycle: %s", strings.Join(chain, " -> ")),
		loc,
	).WithSuggestion("An entity cannot be part of its own identity through references")
}

// NewUnknownTarget creates a MOD103 error
func NewUnknownTarget(loc Location, kind, target string) *CompilerError {
	return newError(
		ErrUnknownTarget,
		"unknown_target",
		CategoryModel,
		SeverityError,
		fmt.Sprintf("%s '%s' not found", kind, target),
		loc,
	).WithSuggestion("Check the target name and namespace of the property")
}

// NewUnknownBase creates a MOD104 error
func NewUnknownBase(loc Location, base string) *CompilerError {
	return newError(
		ErrUnknownBase,
		"unknown_base",
		CategoryModel,
		SeverityError,
		fmt.Sprintf("Base entity '%s' not found", base),
		loc,
	).WithSuggestion("Subclasses and extensions must name an existing entity of a compatible kind")
}

// NewInlineCollection creates a MOD105 error
func NewInlineCollection(loc Location, target string) *CompilerError {
	return newError(
		ErrInlineCollection,
		"inline_collection",
		CategoryModel,
		SeverityError,
		fmt.Sprintf("Inline common '%s' cannot be a collection", target),
		loc,
	).WithSuggestion("Use a common instead of an inline common for repeating groups")
}

// NewGroupIdentity creates a MOD106 error
func NewGroupIdentity(loc Location, target string) *CompilerError {
	return newError(
		ErrGroupIdentity,
		"group_identity",
		CategoryModel,
		SeverityError,
		fmt.Sprintf("Group '%s' cannot be part of a referenced identity", target),
		loc,
	).WithSuggestion("Only scalars, descriptors, enumerations, references and inline commons may form an identity")
}

// NewUnknownRenameTarget creates a MOD107 error
func NewUnknownRenameTarget(loc Location, renamed string) *CompilerError {
	return newError(
		ErrUnknownRenameTarget,
		"unknown_rename_target",
		CategoryModel,
		SeverityError,
		fmt.Sprintf("Renamed identity property '%s' is not an identity property of the superclass", renamed),
		loc,
	)
}

// NewAncestryCycle creates a MOD108 error
func NewAncestryCycle(loc Location, chain []string) *CompilerError {
	return newError(
		ErrAncestryCycle,
		"ancestry_cycle",
		CategoryModel,
		SeverityError,
		fmt.Sprintf("Subclass cycle: %s", strings.Join(chain, " -> ")),
		loc,
	)
}

// NewDuplicateEntity creates a MOD109 error
func NewDuplicateEntity(loc Location, kind string) *CompilerError {
	return newError(
		ErrDuplicateEntity,
		"duplicate_entity",
		CategoryModel,
		SeverityError,
		fmt.Sprintf("Duplicate %s '%s'", kind, loc.Entity),
		loc,
	)
}

// NewInvalidModel creates a MOD110 error
func NewInvalidModel(loc Location, reason string) *CompilerError {
	return newError(
		ErrInvalidModel,
		"invalid_model",
		CategoryModel,
		SeverityError,
		reason,
		loc,
	)
}

// NewUnresolvableMerge creates a MOD201 error
func NewUnresolvableMerge(loc Location, path string) *CompilerError {
	return newError(
		ErrUnresolvableMerge,
		"unresolvable_merge",
		CategoryModel,
		SeverityError,
		fmt.Sprintf("Merge path '%s' does not resolve to any property", path),
		loc,
	).WithSuggestion("Merge paths are dotted full property names starting at a property of the entity").
		WithExamples("merge: {source: Session.School, target: School}")
}

// NewMergeArity creates a MOD202 error
func NewMergeArity(loc Location, source, target string, sourceCount, targetCount int) *CompilerError {
	return newError(
		ErrMergeArity,
		"merge_arity",
		CategoryModel,
		SeverityError,
		fmt.Sprintf("Merge '%s' with '%s' pairs %d leaves with %d leaves", source, target, sourceCount, targetCount),
		loc,
	)
}
