package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dhamidi/testgen/config"
	"github.com/dhamidi/testgen/generate"
	"github.com/dhamidi/testgen/output"
	"github.com/dhamidi/testgen/workspace"
	"github.com/spf13/cobra"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	var (
		out       string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "watch [source]",
		Short: "Regenerate tests whenever a source file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			if len(args) == 1 {
				overrides["source"] = args[0]
			}
			changed(cmd, overrides, map[string]any{
				"output":    out,
				"overwrite": overwrite,
			})
			cfg, err := g.load(overrides)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "directory test files are written to")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing test files whose content differs")

	return cmd
}

// runWatch generates tests for the whole source tree once, then for every
// file that changes, until ctx is done.
func runWatch(ctx context.Context, w io.Writer, cfg *config.Config) error {
	opts, err := generateOptions(cfg)
	if err != nil {
		return err
	}
	dispatcher := generate.NewDispatcher(opts)
	writer := output.NewWriter(cfg.Output, output.WithOverwrite(cfg.Overwrite))

	emit := func(outputs []generate.Output) {
		results, _ := writer.WriteAll(outputs)
		for _, res := range results {
			if res.Err != nil {
				log.Warningf("%s", res.Err)
				continue
			}
			if res.Action != output.ActionUnchanged {
				fmt.Fprintf(w, "%-9s %s\n", res.Action, res.Path)
			}
		}
	}

	ws := workspace.New(cfg.Source,
		workspace.WithInclude(cfg.Include...),
		workspace.WithExclude(cfg.Exclude...))
	if err := ws.ScanAll(); err != nil {
		log.Warningf("%s", err)
	}
	outputs, err := dispatcher.GenerateAll(ws.Models())
	if err != nil {
		log.Warningf("%s", err)
	}
	emit(outputs)

	watcher, err := workspace.NewWatcher(ws, func(c workspace.Change) {
		if c.Removed() || c.File.Extraction.Model == nil {
			return
		}
		outputs, err := dispatcher.Generate(c.File.Extraction.Model)
		if err != nil {
			log.Warningf("%s", err)
		}
		emit(outputs)
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	fmt.Fprintf(w, "watching %s\n", ws.Root())
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
