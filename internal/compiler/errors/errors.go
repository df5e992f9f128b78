// Package errors provides structured error handling for the API schema compiler.
// It defines error codes, categories, and formatting for both human-readable
// terminal output and machine-parseable JSON.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code in the compiler
type ErrorCode string

// ErrorCategory represents the category of compiler error
type ErrorCategory string

const (
	// CategoryModel represents model authoring errors (MOD100-299)
	CategoryModel ErrorCategory = "model"
	// CategoryNaming represents naming collisions (NAM300-399)
	CategoryNaming ErrorCategory = "naming"
	// CategoryOrdering represents pipeline ordering errors (ORD400-499)
	CategoryOrdering ErrorCategory = "ordering"
	// CategoryNamespace represents cross-namespace errors (XNS500-599)
	CategoryNamespace ErrorCategory = "namespace"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an error that prevents compilation
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a warning that suggests potential issues
	SeverityWarning ErrorSeverity = "warning"
	// SeverityInfo indicates informational messages
	SeverityInfo ErrorSeverity = "info"
)

// Location identifies the model element an error is reported against.
// Any field may be empty when the error is not tied to that level.
type Location struct {
	Namespace string `json:"namespace,omitempty"`
	Entity    string `json:"entity,omitempty"`
	Property  string `json:"property,omitempty"`
}

// String renders the location as Namespace.Entity.Property
func (l Location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Namespace, l.Entity, l.Property} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "<model>"
	}
	return strings.Join(parts, ".")
}

// CompilerError represents a structured compiler error
type CompilerError struct {
	// Code is the unique error code (e.g., "MOD101", "NAM301")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Location is the model element the error refers to
	Location Location `json:"location"`
	// File is the model file the element was loaded from (optional)
	File string `json:"file,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Examples provides example fixes (optional)
	Examples []string `json:"examples,omitempty"`
	// Documentation is a URL to detailed error documentation
	Documentation string `json:"documentation,omitempty"`
}

// Error implements the error interface
func (e *CompilerError) Error() string {
	return FormatCompact(e)
}

// Format returns a human-readable error message for terminal output
func (e *CompilerError) Format() string {
	return FormatError(e)
}

// ToJSON returns the error as a JSON string
func (e *CompilerError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WithFile sets the model file name for the error
func (e *CompilerError) WithFile(file string) *CompilerError {
	e.File = file
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *CompilerError) WithSuggestion(suggestion string) *CompilerError {
	e.Suggestion = suggestion
	return e
}

// WithExamples sets example fixes for the error
func (e *CompilerError) WithExamples(examples ...string) *CompilerError {
	e.Examples = examples
	return e
}

// ErrorList is a collection of compiler errors
type ErrorList []*CompilerError

// Error implements the error interface
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	return FormatErrorList(el)
}

// HasErrors returns true if the list contains any errors (excludes warnings/info)
func (el ErrorList) HasErrors() bool {
	for _, err := range el {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns the list as an error, or nil when it holds no errors
func (el ErrorList) Err() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ToJSON returns all errors as a JSON array
func (el ErrorList) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// ErrorCount returns the number of errors by severity
func (el ErrorList) ErrorCount() (errors, warnings, info int) {
	for _, err := range el {
		switch err.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			info++
		}
	}
	return
}

// Codes returns the error codes in the list, in order
func (el ErrorList) Codes() []ErrorCode {
	codes := make([]ErrorCode, 0, len(el))
	for _, err := range el {
		codes = append(codes, err.Code)
	}
	return codes
}

// Append flattens err into the list. CompilerErrors and ErrorLists are kept
// as-is; any other error becomes an unclassified model error.
func (el ErrorList) Append(err error) ErrorList {
	if err == nil {
		return el
	}
	var list ErrorList
	if errors.As(err, &list) {
		return append(el, list...)
	}
	var ce *CompilerError
	if errors.As(err, &ce) {
		return append(el, ce)
	}
	return append(el, newError(ErrInternal, "internal", CategoryModel, SeverityError, err.Error(), Location{}))
}

// HasCode reports whether err is, or contains, a compiler error with code
func HasCode(err error, code ErrorCode) bool {
	var list ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			if e.Code == code {
				return true
			}
		}
		return false
	}
	var ce *CompilerError
	return errors.As(err, &ce) && ce.Code == code
}

// documentationURL returns the documentation URL for an error code
func documentationURL(code ErrorCode) string {
	return fmt.Sprintf("https://docs.edfi-tools.org/apischema/errors/%s", code)
}

// newError creates a new CompilerError with the given parameters
func newError(
	code ErrorCode,
	typ string,
	category ErrorCategory,
	severity ErrorSeverity,
	message string,
	loc Location,
) *CompilerError {
	return &CompilerError{
		Code:          code,
		Type:          typ,
		Category:      category,
		Severity:      severity,
		Message:       message,
		Location:      loc,
		Documentation: documentationURL(code),
	}
}
