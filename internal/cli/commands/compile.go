package commands

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edfi-tools/apischema/internal/cli/config"
	"github.com/edfi-tools/apischema/internal/cli/ui"
	"github.com/edfi-tools/apischema/internal/compiler/apischema"
	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/compiler/pipeline"
	"github.com/edfi-tools/apischema/internal/compiler/synth"
	"github.com/edfi-tools/apischema/internal/model"
	"github.com/edfi-tools/apischema/internal/utils"
)

var (
	compileOutput  string
	compileJSON    bool
	compileVerify  bool
	compileGzip    bool
	compileCompact bool
)

// NewCompileCommand creates the compile command
func NewCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [model files or directories...]",
		Short: "Compile a model into API schema files",
		Long: `Compile every namespace of a model and write the API schema.

The compile process:
  1. Load - decode the YAML model files and link entities
  2. Reference components - flatten reference identities to scalar leaves
  3. Property collection - collect each resource's properties and collections
  4. Naming collisions - rename colliding JSON properties
  5. Identity and equality - derive identities, merges and subclass keys
  6. Schema synthesis - build insert, update and query JSON Schemas
  7. Document paths - map every property to its JSONPath
  8. OpenAPI fragments - build paths, component schemas and extensions

One <project-endpoint>.json file is written per namespace, plus apischema.json
holding every namespace. Model files default to the models list of
apischema.yml.`,
		Example: `  # Compile the models listed in apischema.yml
  apischema compile

  # Compile a core model and an extension into dist/
  apischema compile model/core.yaml model/sample.yaml --output dist

  # Validate every generated schema against the 2020-12 meta-schema
  apischema compile model/ --verify

  # Report errors as JSON (useful for tooling)
  apischema compile model/ --json`,
		RunE: runCompile,
	}

	cmd.Flags().StringVarP(&compileOutput, "output", "o", "", "Output directory (default: build/apischema)")
	cmd.Flags().BoolVar(&compileJSON, "json", false, "Output the result and errors as JSON")
	cmd.Flags().BoolVar(&compileVerify, "verify", false, "Verify generated JSON Schemas against the 2020-12 meta-schema")
	cmd.Flags().BoolVar(&compileGzip, "gzip", false, "Gzip every output file")
	cmd.Flags().BoolVar(&compileCompact, "compact", false, "Write JSON without indentation")

	return cmd
}

// compileResult is the --json report of a compile run
type compileResult struct {
	Success    bool             `json:"success"`
	Namespaces []string         `json:"namespaces,omitempty"`
	Files      []string         `json:"files,omitempty"`
	Errors     errors.ErrorList `json:"errors,omitempty"`
}

func runCompile(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out, err := compileModels(cfg, args)
	if err != nil {
		return reportFailure(cmd, err, compileJSON)
	}

	if compileVerify || cfg.Verify {
		if err := verifyAll(out); err != nil {
			return reportFailure(cmd, err, compileJSON)
		}
	}

	dir := compileOutput
	if dir == "" {
		dir = cfg.Output.Dir
	}
	files, err := apischema.WriteFiles(out, dir, apischema.WriteOptions{
		Pretty:   cfg.Output.Pretty && !compileCompact,
		Compress: cfg.Output.Compress || compileGzip,
	})
	if err != nil {
		return fmt.Errorf("failed to write api schema: %w", err)
	}

	if compileJSON {
		return writeJSON(cmd.OutOrStdout(), compileResult{
			Success:    true,
			Namespaces: out.NamespaceOrder,
			Files:      files,
		})
	}

	w := cmd.OutOrStdout()
	ui.WriteSuccess(w, fmt.Sprintf("Compiled %d namespace(s) in %s", len(out.NamespaceOrder), time.Since(startTime).Round(time.Millisecond)), noColor)
	summary := ui.NewKeyValueTable(w, noColor)
	for _, name := range out.NamespaceOrder {
		ns := out.Namespaces[name]
		summary.AddRow(name, fmt.Sprintf("%d resource(s) -> %s", len(ns.ResourceSchemas), ns.ProjectEndpointName))
	}
	summary.AddRow("Output", dir)
	summary.Render()
	return nil
}

// compileModels loads the model files named by paths, or by the config when
// paths is empty, and compiles them
func compileModels(cfg *config.Config, paths []string) (*apischema.ApiSchema, error) {
	if len(paths) == 0 {
		paths = cfg.Models
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no model files given: pass files or directories, or list them under models in apischema.yml")
	}

	files, err := utils.ExpandModelPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to find model files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .yaml or .yml model files found in %v", paths)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	logger.Debug("loading model", zap.Strings("files", files))
	m, err := model.LoadFiles(files...)
	if err != nil {
		return nil, err
	}

	return pipeline.Default(pipeline.WithLogger(logger)).Compile(m)
}

// verifyAll compiles every generated resource schema against the 2020-12
// meta-schema
func verifyAll(out *apischema.ApiSchema) error {
	for _, name := range out.NamespaceOrder {
		ns := out.Namespaces[name]
		endpoints := make([]string, 0, len(ns.ResourceSchemas))
		for endpoint := range ns.ResourceSchemas {
			endpoints = append(endpoints, endpoint)
		}
		sort.Strings(endpoints)

		for _, endpoint := range endpoints {
			if err := synth.VerifyResource(ns.ResourceSchemas[endpoint]); err != nil {
				return fmt.Errorf("%s: invalid generated schema: %w", name, err)
			}
		}
	}
	return nil
}

// reportFailure prints compiler errors, in JSON when asJSON is set, and
// returns a short summary error for the exit status. Any other error is
// returned unchanged.
func reportFailure(cmd *cobra.Command, err error, asJSON bool) error {
	var ce *errors.CompilerError
	var el errors.ErrorList
	if !stderrors.As(err, &el) && !stderrors.As(err, &ce) {
		return err
	}
	list := errors.ErrorList{}.Append(err)

	if asJSON {
		if werr := writeJSON(cmd.OutOrStdout(), compileResult{Success: false, Errors: list}); werr != nil {
			return werr
		}
	} else {
		ui.WriteCompilerErrors(cmd.ErrOrStderr(), list, noColor)
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	return fmt.Errorf("compilation failed with %d error(s)", len(list))
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
