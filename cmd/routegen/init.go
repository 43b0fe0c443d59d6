package main

import (
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routegen/internal/config"
	"github.com/vango-dev/routegen/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		file   string
		input  string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with the default target.

A .yaml or .yml file name writes YAML, anything else JSON.

Examples:
  routegen init
  routegen init --file routegen.yaml -i src/app/api`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(file); err == nil && !force {
				return errors.New("E140").
					WithLocation(file, 0, 0).
					WithSuggestion("Pass --force to overwrite it")
			} else if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
				return errors.New("E160").WithLocation(file, 0, 0).Wrap(err)
			}

			target := config.Default()
			if input != "" {
				target.Input = input
			}
			if output != "" {
				target.Output = output
				target.Package = config.PackageName(output)
			}
			if err := target.Check(); err != nil {
				return err
			}
			if err := config.Save(file, target); err != nil {
				return err
			}
			success("Created %s", file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "routegen.json", "Config file to write")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Route directory")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Generated file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
