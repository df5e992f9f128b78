package commands

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edfi-tools/apischema/internal/cli/config"
	"github.com/edfi-tools/apischema/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

var (
	configFile string
	verbose    bool
	noColor    bool
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "apischema",
		Short: "Ed-Fi API schema compiler",
		Long: color.CyanString(`apischema - Ed-Fi API schema compiler

apischema reads an Ed-Fi style entity model and compiles it into the API
schema a document-store Ed-Fi API runs on: JSON Schemas for insert, update
and query, identity and equality metadata, document paths and OpenAPI
fragments for every resource of every namespace.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./apischema.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every compiler stage")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewCompileCommand())
	rootCmd.AddCommand(NewPathsCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the apischema version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			w := cmd.OutOrStdout()

			for _, row := range [][2]string{
				{"apischema version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", goVer},
			} {
				titleColor.Fprint(w, row[0])
				fmt.Fprintln(w, row[1])
			}
		},
	}
}

// loadConfig loads the config named by --config, or the one in the working directory
func loadConfig() (*config.Config, error) {
	return config.LoadFile(configFile)
}

// newLogger builds the compiler logger. --verbose forces debug logging.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if verbose {
		return logging.New("debug", true)
	}
	return logging.New(cfg.Log.Level, cfg.Log.Development)
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
