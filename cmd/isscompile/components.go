package main

import (
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/purg-com/pleroma-iss/internal/components"
	"github.com/purg-com/pleroma-iss/internal/engine"
	"github.com/purg-com/pleroma-iss/internal/render"
)

func newComponentsCmd(root *rootOptions) *cobra.Command {
	var (
		dir    string
		plan   bool
		export string
	)

	cmd := &cobra.Command{
		Use:   "components",
		Short: "List registered components and their resolution plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := root.setup(cmd)
			if err != nil {
				return err
			}
			registry, err := loadRegistry(root, dir, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if export != "" {
				written, err := exportBuiltin(root.fs, export)
				if err != nil {
					return newCommandError("export components", export, err, "Check that the directory is writable.")
				}
				_, err = fmt.Fprintf(out, "wrote %d definitions to %s\n", written, export)
				return err
			}
			if plan {
				resolution, err := engine.GeneratePlan(registry)
				if err != nil {
					return newCommandError("plan resolution", "component registry", err, "Check the nesting of the component definitions.")
				}
				_, err = fmt.Fprint(out, resolution.String())
				return err
			}

			table := &render.Table{Headers: []string{"NAME", "SELECTOR", "STATES", "VARIANTS", "COMBINATIONS", "FLAGS"}}
			for _, def := range registry.All() {
				var flags []string
				if def.Lazy {
					flags = append(flags, "lazy")
				}
				if def.Virtual {
					flags = append(flags, "virtual")
				}
				table.AddRow(
					def.Name,
					def.Selector,
					strings.Join(def.StateNames(), ","),
					strings.Join(def.VariantNames(), ","),
					strconv.Itoa(engine.CombinationCount(def)),
					strings.Join(flags, ","),
				)
			}
			_, err = fmt.Fprint(out, table.Render(render.ForWriter(out)))
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "components", "", "Directory of additional component definitions")
	cmd.Flags().BoolVar(&plan, "plan", false, "Print the resolution plan by nesting level")
	cmd.Flags().StringVar(&export, "export", "", "Write the built-in definitions to this directory as a starting point for --components")

	return cmd
}

func exportBuiltin(fs afero.Fs, dir string) (int, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	builtin := components.BuiltinFS()
	entries, err := iofs.ReadDir(builtin, ".")
	if err != nil {
		return 0, err
	}

	written := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := iofs.ReadFile(builtin, entry.Name())
		if err != nil {
			return written, err
		}
		if err := afero.WriteFile(fs, filepath.Join(dir, entry.Name()), data, 0o644); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
