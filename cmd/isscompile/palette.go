package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/purg-com/pleroma-iss/internal/render"
	"github.com/purg-com/pleroma-iss/internal/source"
)

func newPaletteCmd(root *rootOptions) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Show the static variables of the resolved theme as colour swatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := resolveTheme(cmd, root, opts)
			if err != nil {
				return err
			}

			title := fmt.Sprintf("palette %s, style %s", run.assembly.PaletteUsed, run.assembly.StyleUsed)
			if run.assembly.ThemeUsed != source.Stock {
				title = "theme " + run.assembly.ThemeUsed
			}

			out := cmd.OutOrStdout()
			_, err = fmt.Fprintln(out, render.ForWriter(out).Palette(title, run.result.StaticVars))
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.rulesPath, "rules", "r", "", "Extra rules applied after the chosen style and palette")
	cmd.Flags().StringVar(&opts.componentsDir, "components", "", "Directory of additional component definitions")

	return cmd
}
