package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsTable(t *testing.T) {
	models := writeModels(t)

	stdout, _, err := execute(t, "paths", "EdFi", "School", "-m", models, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, stdout, "EdFi.School")
	assert.Contains(t, stdout, "PROPERTY")
	assert.Contains(t, stdout, "$.schoolId")
	assert.Contains(t, stdout, "$.addresses[*].city")
	assert.Contains(t, stdout, "descriptor")
	assert.Contains(t, stdout, "Ed-Fi.GradeLevelDescriptor")
}

func TestPathsRowsInDeclarationOrder(t *testing.T) {
	models := writeModels(t)

	stdout, _, err := execute(t, "paths", "EdFi", "School", "-m", models, "--no-color")
	require.NoError(t, err)

	rows := []string{
		"$.schoolId",
		"$.nameOfInstitution",
		"$.addresses[*].addressTypeDescriptor",
		"$.addresses[*].city",
		"$.gradeLevels[*].gradeLevelDescriptor",
		"$.charterApprovalSchoolYearTypeReference.schoolYear",
	}
	last := -1
	for _, row := range rows {
		i := strings.Index(stdout, row)
		require.GreaterOrEqual(t, i, 0, row)
		assert.Greater(t, i, last, row)
		last = i
	}
}

func TestPathsReferenceRows(t *testing.T) {
	models := writeModels(t)

	stdout, _, err := execute(t, "paths", "Sample", "Bus", "-m", models, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, stdout, "reference")
	assert.Contains(t, stdout, "Ed-Fi.School")
	assert.Contains(t, stdout, "schoolId = $.schoolReference.schoolId")
}

func TestPathsJSON(t *testing.T) {
	models := writeModels(t)

	stdout, _, err := execute(t, "paths", "EdFi", "School", "-m", models, "--json")
	require.NoError(t, err)

	var mapping map[string]struct {
		Paths map[string]string `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &mapping))
	assert.Equal(t, "$.schoolId", mapping["SchoolId"].Paths["schoolId"])
}

func TestPathsNotFound(t *testing.T) {
	models := writeModels(t)

	_, stderr, err := execute(t, "paths", "Edfi", "School", "-m", models, "--no-color")
	require.Error(t, err)
	assert.Contains(t, stderr, "NAMESPACE NOT FOUND")
	assert.Contains(t, stderr, "Did you mean: EdFi?")

	_, stderr, err = execute(t, "paths", "EdFi", "Shool", "-m", models, "--no-color")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource Shool not found in EdFi")
	assert.Contains(t, stderr, "Did you mean: School")
}

func TestPathsArgs(t *testing.T) {
	_, _, err := execute(t, "paths", "EdFi")
	assert.Error(t, err)
}
