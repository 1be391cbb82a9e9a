package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/testgen/format"
	"github.com/dhamidi/testgen/java"
	"github.com/spf13/cobra"
)

func newInspectCmd(g *globalFlags) *cobra.Command {
	var formatName string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the class model extracted from a Java source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := g.load(nil); err != nil {
				return err
			}
			enc, err := format.NewEncoder(formatName, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			extraction, err := java.NewExtractor().ExtractFile(args[0])
			if err != nil {
				return err
			}
			if extraction.Diagnostic != nil {
				return extraction.Diagnostic
			}
			if extraction.Model == nil {
				return fmt.Errorf("%w: %s declares no type", java.ErrInvalidArgument, args[0])
			}
			return enc.Encode(extraction.Model)
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "yaml", "output format: "+strings.Join(format.Names(), ", "))

	return cmd
}
