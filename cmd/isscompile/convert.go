package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/purg-com/pleroma-iss/internal/config"
	"github.com/purg-com/pleroma-iss/internal/theme2"
)

func newConvertCmd(root *rootOptions) *cobra.Command {
	var output, check string

	cmd := &cobra.Command{
		Use:   "convert <legacy-theme>",
		Short: "Convert a legacy flat theme into a style ruleset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := root.setup(cmd)
			if err != nil {
				return err
			}

			path := args[0]
			theme, err := config.ParseLegacyTheme(root.fs, path)
			if err != nil {
				return newCommandError("convert theme", path, err, "Check that the file is a legacy theme with a colors mapping.")
			}

			ruleset := config.Ruleset{
				Name:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
				Rules: theme2.Convert(theme, log.With("theme", path)),
			}
			data, err := yaml.Marshal(&ruleset)
			if err != nil {
				return newCommandError("convert theme", path, err, "This is a bug; please report it with the theme file.")
			}

			if check != "" {
				return checkOutput(cmd, root, check, string(data))
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := afero.WriteFile(root.fs, output, data, 0o644); err != nil {
				return newCommandError("write ruleset", output, err, "Check that the output directory exists and is writable.")
			}
			log.With("output", output).Info("ruleset written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the ruleset to a file instead of stdout")
	cmd.Flags().StringVar(&check, "check", "", "Compare the ruleset with this file instead of writing it")

	return cmd
}
