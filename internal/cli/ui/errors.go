package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	cerrors "github.com/edfi-tools/apischema/internal/compiler/errors"
)

// Level is the severity of a message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// Message is a structured terminal message
type Message struct {
	Level   Level
	Context string
	Problem string
	// Detail lines are printed indented under the header
	Detail       []string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// Format renders m.
//
// Example output:
//
//	❌ RESOURCE NOT FOUND: Cannot find resource 'Shool' in EdFi.
//
//	   Did you mean: School, Session?
//
//	   → List resources: apischema paths EdFi --help
func Format(m Message) string {
	var b strings.Builder

	headerColor, bodyColor, symbol := levelStyle(m.Level)
	hint := color.New(color.FgYellow)
	help := color.New(color.FgCyan)
	if m.NoColor {
		for _, c := range []*color.Color{headerColor, bodyColor, hint, help} {
			c.DisableColor()
		}
	}

	if m.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(m.Context), m.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, m.Problem)
	}

	for _, line := range m.Detail {
		bodyColor.Fprintf(&b, "   %s\n", line)
	}

	if len(m.Suggestions) > 0 {
		b.WriteString("\n")
		hint.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(m.Suggestions, ", "))
	}

	if len(m.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, cmd := range m.HelpCommands {
			help.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

func levelStyle(level Level) (header, body *color.Color, symbol string) {
	switch level {
	case LevelWarning:
		return color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "⚠️"
	case LevelInfo:
		return color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "ℹ️"
	default:
		return color.New(color.FgRed, color.Bold), color.New(color.FgRed), "❌"
	}
}

// Write writes a formatted message to w
func Write(w io.Writer, m Message) {
	fmt.Fprint(w, Format(m))
}

// CompilerError renders a compiler error with its location and hints
func CompilerError(e *cerrors.CompilerError, noColor bool) string {
	m := Message{
		Level:   levelOf(e.Severity),
		Context: string(e.Code),
		Problem: e.Message,
		Detail:  []string{"at " + e.Location.String()},
		NoColor: noColor,
	}
	if e.File != "" {
		m.Detail = append(m.Detail, "in "+e.File)
	}
	if e.Suggestion != "" {
		m.Detail = append(m.Detail, "hint: "+e.Suggestion)
	}
	if e.Documentation != "" {
		m.HelpCommands = []string{"Docs: " + e.Documentation}
	}
	return Format(m)
}

// WriteCompilerErrors writes every error of list to w, separated by blank lines
func WriteCompilerErrors(w io.Writer, list cerrors.ErrorList, noColor bool) {
	for i, e := range list {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, CompilerError(e, noColor))
	}
}

func levelOf(s cerrors.ErrorSeverity) Level {
	switch s {
	case cerrors.SeverityWarning:
		return LevelWarning
	case cerrors.SeverityInfo:
		return LevelInfo
	default:
		return LevelError
	}
}

// NotFound renders a lookup failure with fuzzy suggestions drawn from candidates
func NotFound(kind, name string, candidates []string, help []string, noColor bool) string {
	return Format(Message{
		Level:        LevelError,
		Context:      kind + " not found",
		Problem:      fmt.Sprintf("Cannot find %s '%s'.", strings.ToLower(kind), name),
		Suggestions:  Suggest(name, candidates, DefaultMaxSuggestions),
		HelpCommands: help,
		NoColor:      noColor,
	})
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}
