package main

import (
	"os"

	"github.com/dhamidi/testgen/config"
	"github.com/dhamidi/testgen/generate"
	"github.com/dhamidi/testgen/generate/naming"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var version = "dev"

var log = commonlog.GetLogger("testgen")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    int
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:          "testgen",
		Short:        "Generate JUnit test scaffolding for Spring components",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "configuration file (default "+config.FileName+" when present)")
	rootCmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newGenerateCmd(g))
	rootCmd.AddCommand(newInspectCmd(g))
	rootCmd.AddCommand(newWatchCmd(g))
	rootCmd.AddCommand(newLSPCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))

	return rootCmd
}

// load resolves the configuration, applying overrides over the file and
// environment, and configures logging from it.
func (g *globalFlags) load(overrides map[string]any) (*config.Config, error) {
	if overrides == nil {
		overrides = map[string]any{}
	}
	if g.verbose > 0 {
		overrides["log.verbosity"] = g.verbose
	}
	cfg, err := config.Load(config.Options{Path: g.configPath, Overrides: overrides})
	if err != nil {
		return nil, err
	}
	configureLogging(cfg.Log)
	return cfg, nil
}

// configureLogging maps verbosity 0 to warnings and each step above it to
// one more detailed level.
func configureLogging(lc config.LogConfig) {
	var path *string
	if lc.File != "" {
		path = &lc.File
	}
	commonlog.Configure(lc.Verbosity-1, path)
}

func generateOptions(cfg *config.Config) (generate.Options, error) {
	testType, err := generate.ParseTestType(cfg.Type)
	if err != nil {
		return generate.Options{}, err
	}
	strategy, err := naming.Lookup(cfg.Naming)
	if err != nil {
		return generate.Options{}, err
	}
	return generate.Options{Naming: strategy, TestType: testType}, nil
}

// changed copies the values of flags the user set into overrides under
// their configuration keys.
func changed(cmd *cobra.Command, overrides map[string]any, keys map[string]any) {
	for flag, value := range keys {
		if cmd.Flags().Changed(flag) {
			overrides[flag] = value
		}
	}
}
