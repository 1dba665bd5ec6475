package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zoobzio/dt0/internal/scaffold"
)

func newMakeCommand() *cobra.Command {
	var opts scaffold.Options

	cmd := &cobra.Command{
		Use:   "make <Name>",
		Short: "Create a new DTO",
		Long: `Create a new DTO type and its definition.

Custom stubs named dt0.stub and dt0.validated.stub in the stubs
directory next to the output directory replace the built-in ones.

Examples:
  dt0 make User
  dt0 make Signup --validated
  dt0 make Order --dir internal/dto --package dto`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			successColor := color.New(color.FgGreen, color.Bold)
			warningColor := color.New(color.FgYellow)

			opts.Name = args[0]
			path, err := scaffold.Generate(opts)
			if errors.Is(err, scaffold.ErrExists) {
				warningColor.Fprintf(cmd.OutOrStdout(), "%s already exists, use --force to overwrite\n", path)
				return nil
			}
			if err != nil {
				return err
			}

			successColor.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Validated, "validated", false, "create with validation scaffolding")
	cmd.Flags().StringVar(&opts.Package, "package", "", "package name (defaults to the directory name)")
	cmd.Flags().StringVar(&opts.Dir, "dir", "dto", "output directory")
	cmd.Flags().StringVar(&opts.StubDir, "stubs", "", "custom stub directory")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing file")

	return cmd
}
