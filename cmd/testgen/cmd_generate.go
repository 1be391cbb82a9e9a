package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dhamidi/testgen/config"
	"github.com/dhamidi/testgen/generate"
	"github.com/dhamidi/testgen/java"
	"github.com/dhamidi/testgen/java/scanner"
	"github.com/dhamidi/testgen/output"
	"github.com/spf13/cobra"
)

func newGenerateCmd(g *globalFlags) *cobra.Command {
	var (
		out       string
		testType  string
		strategy  string
		include   []string
		exclude   []string
		workers   int
		overwrite bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "generate [source]",
		Short: "Generate tests for every Spring component below a source directory",
		Long: `Generate scans a source directory, a single .java file, or a zip/jar
archive of sources, and writes one test class per applicable generator
below the output directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			if len(args) == 1 {
				overrides["source"] = args[0]
			}
			changed(cmd, overrides, map[string]any{
				"output":    out,
				"type":      testType,
				"naming":    strategy,
				"include":   include,
				"exclude":   exclude,
				"workers":   workers,
				"overwrite": overwrite,
			})
			cfg, err := g.load(overrides)
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), cfg, dryRun)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "directory test files are written to")
	cmd.Flags().StringVarP(&testType, "type", "t", "", "kinds of tests to generate: unit, integration, or both")
	cmd.Flags().StringVarP(&strategy, "naming", "n", "", "test method naming: standard, bdd, given-when-then, or snake")
	cmd.Flags().StringSliceVar(&include, "include", nil, "glob of source files to include (repeatable)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "glob of source files to exclude (repeatable)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of files extracted in parallel")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing test files whose content differs")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be written without writing")

	return cmd
}

func runGenerate(ctx context.Context, w io.Writer, cfg *config.Config, dryRun bool) error {
	opts, err := generateOptions(cfg)
	if err != nil {
		return err
	}

	req, err := scanRequest(cfg)
	if err != nil {
		return err
	}
	s := scanner.New(scanner.WithWorkers(cfg.Workers))
	defer s.Close()

	result, err := s.Scan(ctx, req)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		log.Warningf("%s", warning)
	}
	if result.Status == scanner.StatusFailed {
		return fmt.Errorf("scan %s: %s", cfg.Source, result.Error)
	}

	outputs, genErr := generate.NewDispatcher(opts).GenerateAll(result.Models)
	writer := output.NewWriter(cfg.Output, output.WithOverwrite(cfg.Overwrite), output.WithDryRun(dryRun))
	results, writeErr := writer.WriteAll(outputs)
	for _, res := range results {
		fmt.Fprintf(w, "%-9s %s\n", res.Action, res.Path)
	}
	fmt.Fprintf(w, "%d classes, %d test files\n", len(result.Models), len(outputs))

	return errors.Join(genErr, writeErr)
}

// scanRequest picks the scan mode from what the source path names.
func scanRequest(cfg *config.Config) (scanner.Request, error) {
	req := scanner.Request{Include: cfg.Include, Exclude: cfg.Exclude}
	info, err := os.Stat(cfg.Source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return req, fmt.Errorf("%w: source %s", java.ErrNotFound, cfg.Source)
		}
		return req, fmt.Errorf("source %s: %w", cfg.Source, err)
	}
	switch {
	case info.IsDir():
		req.Path = cfg.Source
	case filepath.Ext(cfg.Source) == ".zip", filepath.Ext(cfg.Source) == ".jar":
		req.ZipFile = cfg.Source
	default:
		req.Files = []string{cfg.Source}
	}
	return req, nil
}
