package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	cerrors "github.com/edfi-tools/apischema/internal/compiler/errors"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		contains []string
	}{
		{
			name: "error with context",
			msg:  Message{Level: LevelError, Context: "compile failed", Problem: "2 errors"},
			contains: []string{
				"❌ COMPILE FAILED: 2 errors",
			},
		},
		{
			name: "warning without context",
			msg:  Message{Level: LevelWarning, Problem: "no resources"},
			contains: []string{
				"⚠️ no resources",
			},
		},
		{
			name: "detail suggestions help",
			msg: Message{
				Level:        LevelInfo,
				Problem:      "lookup",
				Detail:       []string{"at EdFi"},
				Suggestions:  []string{"School", "Session"},
				HelpCommands: []string{"Get help: apischema --help"},
			},
			contains: []string{
				"ℹ️ lookup",
				"   at EdFi",
				"Did you mean: School, Session?",
				"→ Get help: apischema --help",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.msg.NoColor = true
			out := Format(tt.msg)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestCompilerError(t *testing.T) {
	e := &cerrors.CompilerError{
		Code:          "MOD101",
		Severity:      cerrors.SeverityError,
		Message:       "composition cycle",
		Location:      cerrors.Location{Namespace: "EdFi", Entity: "Left", Property: "Right"},
		File:          "model/core.yaml",
		Suggestion:    "break the cycle with a reference",
		Documentation: "https://docs.example.org/MOD101",
	}

	out := CompilerError(e, true)
	assert.Contains(t, out, "❌ MOD101: composition cycle")
	assert.Contains(t, out, "at EdFi.Left.Right")
	assert.Contains(t, out, "in model/core.yaml")
	assert.Contains(t, out, "hint: break the cycle with a reference")
	assert.Contains(t, out, "→ Docs: https://docs.example.org/MOD101")

	e.Severity = cerrors.SeverityWarning
	assert.Contains(t, CompilerError(e, true), "⚠️ MOD101")
}

func TestWriteCompilerErrors(t *testing.T) {
	var buf bytes.Buffer
	WriteCompilerErrors(&buf, cerrors.ErrorList{
		{Code: "NAM301", Severity: cerrors.SeverityError, Message: "a"},
		{Code: "XNS504", Severity: cerrors.SeverityError, Message: "b"},
	}, true)

	out := buf.String()
	assert.Contains(t, out, "NAM301: a")
	assert.Contains(t, out, "\n\n❌ XNS504: b")
}

func TestNotFound(t *testing.T) {
	out := NotFound("Resource", "Shool", []string{"School", "Student"}, []string{"Get help: apischema paths --help"}, true)
	assert.Contains(t, out, "RESOURCE NOT FOUND: Cannot find resource 'Shool'.")
	assert.Contains(t, out, "Did you mean: School?")
	assert.Contains(t, out, "→ Get help: apischema paths --help")
}

func TestFormatSuccess(t *testing.T) {
	assert.Equal(t, "✓ done", FormatSuccess("done", true))

	var buf bytes.Buffer
	WriteSuccess(&buf, "wrote 3 files", true)
	assert.Equal(t, "✓ wrote 3 files\n", buf.String())
}
