package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/purg-com/pleroma-iss/internal/components"
	"github.com/purg-com/pleroma-iss/internal/config"
	"github.com/purg-com/pleroma-iss/internal/directive"
	"github.com/purg-com/pleroma-iss/internal/engine"
	"github.com/purg-com/pleroma-iss/internal/logger"
	"github.com/purg-com/pleroma-iss/internal/render"
	"github.com/purg-com/pleroma-iss/internal/source"
)

type compileOptions struct {
	format        string
	rulesPath     string
	componentsDir string
	eagerOnly     bool
	checkPath     string
}

// compiled is what compile writes in json format.
type compiled struct {
	Palette    string                        `json:"palette"`
	Style      string                        `json:"style"`
	Theme      string                        `json:"theme"`
	StaticVars map[string]directive.Resolved `json:"staticVars"`
	Rules      []engine.ResolvedRule         `json:"rules"`
}

func newCompileCmd(root *rootOptions) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Resolve the component tree with the configured palette, style and hacks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format: json, css or table")
	cmd.Flags().StringVarP(&opts.rulesPath, "rules", "r", "", "Extra rules applied after the chosen style and palette")
	cmd.Flags().StringVar(&opts.componentsDir, "components", "", "Directory of additional component definitions")
	cmd.Flags().BoolVar(&opts.eagerOnly, "eager-only", false, "Skip lazily resolved components")
	cmd.Flags().StringVar(&opts.checkPath, "check", "", "Compare the output with this file instead of printing it")

	return cmd
}

func runCompile(cmd *cobra.Command, root *rootOptions, opts *compileOptions) error {
	switch opts.format {
	case "json", "css", "table":
	default:
		return newCommandError("compile", "unknown format "+opts.format, fmt.Errorf("unsupported output format"), "Use json, css or table.")
	}

	run, err := resolveTheme(cmd, root, opts)
	if err != nil {
		return err
	}

	rules := run.result.Eager
	if !opts.eagerOnly {
		rules, err = run.result.All(cmd.Context())
		if err != nil {
			return newCommandError("compile", "resolving lazy components", err, "Check the rules targeting the named component.")
		}
	}
	run.log.WithFields(map[string]any{
		"rules":       len(rules),
		"static_vars": len(run.result.StaticVars),
	}).Info("theme compiled")

	if opts.checkPath == "" {
		return writeCompiled(cmd.OutOrStdout(), opts.format, run, rules)
	}
	var buf bytes.Buffer
	if err := writeCompiled(&buf, opts.format, run, rules); err != nil {
		return err
	}
	return checkOutput(cmd, root, opts.checkPath, buf.String())
}

func writeCompiled(out io.Writer, format string, run *themeRun, rules []engine.ResolvedRule) error {
	switch format {
	case "css":
		return render.CSS(out, run.result.StaticVars, rules)
	case "table":
		table := &render.Table{Headers: []string{"SELECTOR", "COMPONENT", "VARIANT", "STATE", "BACKGROUND"}, MaxCell: 60}
		for _, rule := range rules {
			background := ""
			if bg, ok := rule.Directives[directive.Background]; ok {
				background = bg.CSS()
			}
			table.AddRow(rule.Selector, rule.Component, rule.Variant, strings.Join(rule.State, ","), background)
		}
		_, err := fmt.Fprint(out, table.Render(render.ForWriter(out)))
		return err
	default:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(compiled{
			Palette:    run.assembly.PaletteUsed,
			Style:      run.assembly.StyleUsed,
			Theme:      run.assembly.ThemeUsed,
			StaticVars: run.result.StaticVars,
			Rules:      rules,
		})
	}
}

type themeRun struct {
	log      *logger.Logger
	assembly *source.Assembly
	result   *engine.Result
}

// resolveTheme runs the whole pipeline: settings, component registry,
// override assembly and the eager resolution pass.
func resolveTheme(cmd *cobra.Command, root *rootOptions, opts *compileOptions) (*themeRun, error) {
	settings, log, err := root.setup(cmd)
	if err != nil {
		return nil, err
	}

	registry, err := loadRegistry(root, opts.componentsDir, log)
	if err != nil {
		return nil, err
	}

	resources, err := source.Open(root.fs, settings.ResourceDir, log)
	if err != nil {
		return nil, newCommandError("index resources", settings.ResourceDir, err, "Check the index files under the resource directory.")
	}
	assembly, err := resources.Assemble(source.OverridesFromSettings(settings))
	if err != nil {
		return nil, newCommandError("assemble overrides", describeChoice(settings), err, "Check the chosen palette, style or theme file.")
	}

	rules := assembly.Rules
	if opts.rulesPath != "" {
		extra, err := config.ParseRuleset(root.fs, opts.rulesPath)
		if err != nil {
			return nil, newCommandError("load rules", opts.rulesPath, err, "Check that the file is a list of rules or a mapping with a rules key.")
		}
		rules = append(rules, extra.Rules...)
	}

	result, err := engine.Resolve(cmd.Context(), registry, rules, settings.UltimateBackground, engine.Options{
		Logger:   log,
		Parallel: settings.Parallel,
	})
	if err != nil {
		return nil, newCommandError("resolve theme", describeChoice(settings), err, "Check the component definitions and override rules.")
	}
	return &themeRun{log: log, assembly: assembly, result: result}, nil
}

func loadRegistry(root *rootOptions, dir string, log *logger.Logger) (*components.Registry, error) {
	registry, err := components.LoadBuiltin(log)
	if err != nil {
		return nil, newCommandError("load components", "builtin definitions", err, "This is a bug in the build; please report it.")
	}
	if dir == "" {
		return registry, nil
	}
	if err := components.LoadDir(registry, root.fs, dir); err != nil {
		return nil, newCommandError("load components", dir, err, "Check the component definitions in the directory.")
	}
	return registry, nil
}

func describeChoice(s *config.Settings) string {
	parts := []string{}
	for _, kv := range [][2]string{{"palette", s.Palette}, {"style", s.Style}, {"theme", s.Theme}} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	if len(parts) == 0 {
		return "stock theme"
	}
	return strings.Join(parts, ", ")
}
