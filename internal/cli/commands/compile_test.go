package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unknownTargetModel = `
namespaces:
  - name: EdFi
    projectName: Ed-Fi
    projectVersion: 5.0.0
    entities:
      - kind: domainEntity
        name: Bus
        properties:
          - {name: BusId, type: string, maxLength: 60, identity: true}
          - {name: Garage, type: reference, target: Garage, required: true}
`

type jsonReport struct {
	Success    bool     `json:"success"`
	Namespaces []string `json:"namespaces"`
	Files      []string `json:"files"`
	Errors     []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func TestCompileWritesFiles(t *testing.T) {
	models := writeModels(t)
	out := filepath.Join(t.TempDir(), "dist")

	stdout, _, err := execute(t, "compile", models, "--output", out, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ Compiled 2 namespace(s)")
	assert.Contains(t, stdout, "EdFi:")
	assert.Contains(t, stdout, "-> ed-fi")
	assert.Contains(t, stdout, "Output:")

	for _, name := range []string{"ed-fi.json", "sample.json", "apischema.json"} {
		assert.FileExists(t, filepath.Join(out, name))
	}

	data, err := os.ReadFile(filepath.Join(out, "ed-fi.json"))
	require.NoError(t, err)
	var ns map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &ns))
	assert.Equal(t, "Ed-Fi", ns["projectName"])
	assert.Equal(t, false, ns["isExtensionProject"])
}

func TestCompileJSONAndGzip(t *testing.T) {
	models := writeModels(t)
	out := t.TempDir()

	stdout, _, err := execute(t, "compile",
		filepath.Join(models, "core.yaml"), filepath.Join(models, "sample.yml"),
		"-o", out, "--json", "--gzip", "--compact", "--verify")
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.True(t, report.Success)
	assert.Equal(t, []string{"EdFi", "Sample"}, report.Namespaces)
	assert.Equal(t, []string{
		filepath.Join(out, "ed-fi.json.gz"),
		filepath.Join(out, "sample.json.gz"),
		filepath.Join(out, "apischema.json.gz"),
	}, report.Files)
}

func TestCompileReportsModelErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(unknownTargetModel), 0o644))

	stdout, _, err := execute(t, "compile", bad, "-o", filepath.Join(dir, "out"), "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compilation failed")

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.False(t, report.Success)
	require.NotEmpty(t, report.Errors)
	assert.Equal(t, "MOD103", report.Errors[0].Code)
	assert.NoDirExists(t, filepath.Join(dir, "out"))

	_, stderr, err := execute(t, "compile", bad, "-o", filepath.Join(dir, "out"), "--no-color")
	require.Error(t, err)
	assert.Contains(t, stderr, "MOD103")
}

func TestCompileUsesConfig(t *testing.T) {
	models := writeModels(t)
	work := t.TempDir()
	chdir(t, work)

	config := "models:\n  - " + models + "\noutput:\n  dir: generated\n  pretty: false\nverify: true\n"
	require.NoError(t, os.WriteFile("apischema.yml", []byte(config), 0o644))

	_, _, err := execute(t, "compile", "--no-color")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(work, "generated", "apischema.json"))
}

func TestCompileWithoutModels(t *testing.T) {
	chdir(t, t.TempDir())

	_, _, err := execute(t, "compile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no model files given")

	empty := t.TempDir()
	_, _, err = execute(t, "compile", empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .yaml or .yml model files")
}
