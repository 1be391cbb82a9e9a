package main

import (
	"github.com/dhamidi/testgen/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd(g *globalFlags) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(nil)
			if err != nil {
				return err
			}
			opts, err := generateOptions(cfg)
			if err != nil {
				return err
			}
			lspOpts := lsp.Options{
				Version:   version,
				Generate:  opts,
				Include:   cfg.Include,
				Exclude:   cfg.Exclude,
				Overwrite: cfg.Overwrite,
			}
			if write {
				lspOpts.Output = cfg.Output
			}
			return lsp.NewServer(lspOpts).RunStdio()
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "write generated tests to the configured output directory")

	return cmd
}
