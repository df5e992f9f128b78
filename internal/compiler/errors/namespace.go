package errors

import (
	"fmt"
	"strings"
)

// Cross-namespace error codes (XNS500-599)
const (
	// ErrUnknownNamespace indicates a dependency on a namespace that was not loaded
	ErrUnknownNamespace ErrorCode = "XNS501"
	// ErrUndeclaredDependency indicates a reference into a namespace that is not a declared dependency
	ErrUndeclaredDependency ErrorCode = "XNS502"
	// ErrNamespaceCycle indicates namespaces that depend on each other
	ErrNamespaceCycle ErrorCode = "XNS503"
	// ErrDependencyFailed indicates a namespace skipped because a dependency failed
	ErrDependencyFailed ErrorCode = "XNS504"
	// ErrMissingBaseSchema indicates an extension or reference whose base schema was not produced
	ErrMissingBaseSchema ErrorCode = "XNS505"
	// ErrDuplicateNamespace indicates a namespace loaded twice
	ErrDuplicateNamespace ErrorCode = "XNS506"
)

// NewUnknownNamespace creates an XNS501 error
func NewUnknownNamespace(loc Location, namespace string) *CompilerError {
	return newError(
		ErrUnknownNamespace,
		"unknown_namespace",
		CategoryNamespace,
		SeverityError,
		fmt.Sprintf("Namespace '%s' is not loaded", namespace),
		loc,
	).WithSuggestion("Load the dependency namespace's model together with this one")
}

// NewUndeclaredDependency creates an XNS502 error
func NewUndeclaredDependency(loc Location, namespace string) *CompilerError {
	return newError(
		ErrUndeclaredDependency,
		"undeclared_dependency",
		CategoryNamespace,
		SeverityError,
		fmt.Sprintf("Namespace '%s' is not a declared dependency of '%s'", namespace, loc.Namespace),
		loc,
	).WithSuggestion(fmt.Sprintf("Add '%s' to the dependencies of namespace '%s'", namespace, loc.Namespace))
}

// NewNamespaceCycle creates an XNS503 error
func NewNamespaceCycle(namespaces []string) *CompilerError {
	return newError(
		ErrNamespaceCycle,
		"namespace_cycle",
		CategoryNamespace,
		SeverityError,
		fmt.Sprintf("Namespace dependencies form a cycle among: %s", strings.Join(namespaces, ", ")),
		Location{},
	)
}

// NewDependencyFailed creates an XNS504 error
func NewDependencyFailed(namespace, dependency string) *CompilerError {
	return newError(
		ErrDependencyFailed,
		"dependency_failed",
		CategoryNamespace,
		SeverityError,
		fmt.Sprintf("Namespace '%s' not compiled: dependency '%s' failed", namespace, dependency),
		Location{Namespace: namespace},
	)
}

// NewMissingBaseSchema creates an XNS505 error
func NewMissingBaseSchema(loc Location, schema string) *CompilerError {
	return newError(
		ErrMissingBaseSchema,
		"missing_base_schema",
		CategoryNamespace,
		SeverityError,
		fmt.Sprintf("Schema '%s' was not produced by its namespace", schema),
		loc,
	)
}

// NewDuplicateNamespace creates an XNS506 error
func NewDuplicateNamespace(namespace string) *CompilerError {
	return newError(
		ErrDuplicateNamespace,
		"duplicate_namespace",
		CategoryNamespace,
		SeverityError,
		fmt.Sprintf("Namespace '%s' loaded more than once", namespace),
		Location{Namespace: namespace},
	)
}
