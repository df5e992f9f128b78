package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/edfi-tools/apischema/internal/cli/ui"
	"github.com/edfi-tools/apischema/internal/compiler/apischema"
)

var (
	pathsModels []string
	pathsJSON   bool
)

// NewPathsCommand creates the paths command
func NewPathsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths <namespace> <resource>",
		Short: "Show where each property of a resource lives in its documents",
		Long: `Compile the model and print the document paths mapping of one resource:
the JSONPath of every scalar, descriptor and enumeration property, and the
identity paths carried by every reference.`,
		Example: `  # Document paths of EdFi.Section
  apischema paths EdFi Section -m model/

  # As JSON
  apischema paths EdFi Section -m model/ --json`,
		Args: cobra.ExactArgs(2),
		RunE: runPaths,
	}

	cmd.Flags().StringSliceVarP(&pathsModels, "model", "m", nil, "Model files or directories (default: models in apischema.yml)")
	cmd.Flags().BoolVar(&pathsJSON, "json", false, "Output the mapping as JSON")

	return cmd
}

func runPaths(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out, err := compileModels(cfg, pathsModels)
	if err != nil {
		return reportFailure(cmd, err, pathsJSON)
	}

	nsName, resourceName := args[0], args[1]
	ns, ok := out.Namespaces[nsName]
	if !ok {
		fmt.Fprint(cmd.ErrOrStderr(), ui.NotFound("Namespace", nsName, out.NamespaceOrder, nil, noColor))
		return fmt.Errorf("namespace %s not found", nsName)
	}

	rs := ns.Resource(resourceName)
	if rs == nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.NotFound("Resource", resourceName, resourceNames(ns), []string{
			fmt.Sprintf("Resources of %s are listed in %s.json", nsName, ns.ProjectEndpointName),
		}, noColor))
		return fmt.Errorf("resource %s not found in %s", resourceName, nsName)
	}

	if pathsJSON {
		return writeJSON(cmd.OutOrStdout(), rs.DocumentPathsMapping)
	}

	w := cmd.OutOrStdout()
	ui.Header(w, nsName+"."+rs.ResourceName, noColor)
	table := ui.NewTable(w, noColor, "PROPERTY", "KIND", "TARGET", "PATH")
	for _, key := range rs.DocumentPathsOrder {
		addPathRows(table, key, rs.DocumentPathsMapping[key])
	}
	table.Render()
	return nil
}

// addPathRows adds one row per path of dp; the property cells appear on the first row only
func addPathRows(table *ui.Table, key string, dp *apischema.DocumentPaths) {
	kind := "scalar"
	target := ""
	switch {
	case dp.IsReference:
		kind = "reference"
		target = dp.ProjectName + "." + dp.ResourceName
	case dp.IsDescriptor:
		kind = "descriptor"
		target = dp.ProjectName + "." + dp.ResourceName
	}

	for i, name := range dp.PathOrder {
		path := dp.Paths[name]
		if dp.IsReference {
			path = name + " = " + path
		}
		if i == 0 {
			table.AddRow(key, kind, target, path)
			continue
		}
		table.AddRow("", "", "", path)
	}
}

func resourceNames(ns *apischema.NamespaceSchema) []string {
	names := make([]string, 0, len(ns.ResourceNameMapping))
	for name := range ns.ResourceNameMapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
