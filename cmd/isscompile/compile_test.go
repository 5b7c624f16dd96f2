package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/purg-com/pleroma-iss/internal/config"
)

func testFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func execute(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmdWithFs(fs)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

type compiledOutput struct {
	Palette    string            `json:"palette"`
	Style      string            `json:"style"`
	Theme      string            `json:"theme"`
	StaticVars map[string]any    `json:"staticVars"`
	Rules      []json.RawMessage `json:"rules"`
}

func TestCompileJSONWithSettingsFile(t *testing.T) {
	fs := testFs(t, map[string]string{
		"settings.yaml":           "log_level: warn\npalette: ocean\nresource_dir: res\n",
		"res/palettes/ocean.yaml": "bg: \"#102030\"\nlink: \"#00aaff\"\n",
	})

	stdout, _, err := execute(t, fs, "--config", "settings.yaml", "compile", "--eager-only")
	require.NoError(t, err)

	var out compiledOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Equal(t, "ocean", out.Palette)
	require.Equal(t, "stock", out.Style)
	require.Equal(t, "#102030", out.StaticVars["bg"])
	require.Equal(t, "#00aaff", out.StaticVars["link"])
	require.NotEmpty(t, out.Rules)
}

func TestCompileFlagsOverrideSettings(t *testing.T) {
	fs := testFs(t, map[string]string{
		"settings.yaml":              "palette: ocean\n",
		"static/palettes/ocean.yaml": "bg: \"#102030\"\n",
		"static/palettes/ember.yaml": "bg: \"#301000\"\n",
	})

	stdout, _, err := execute(t, fs, "--config", "settings.yaml", "--palette", "ember", "--log-level", "error", "compile", "--eager-only")
	require.NoError(t, err)

	var out compiledOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Equal(t, "ember", out.Palette)
	require.Equal(t, "#301000", out.StaticVars["bg"])
}

func TestCompileCSSWithExtraRules(t *testing.T) {
	fs := testFs(t, map[string]string{
		"extra.yaml": "- component: Root\n  directives:\n    --accent: \"color | #ff8800\"\n",
	})

	stdout, _, err := execute(t, fs, "--log-level", "error", "compile", "--format", "css", "--rules", "extra.yaml")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(stdout, ":root {\n"))
	require.Contains(t, stdout, "  --accent: #ff8800;\n")
	require.Contains(t, stdout, "#content .panel {\n")
}

func TestCompileTable(t *testing.T) {
	stdout, _, err := execute(t, afero.NewMemMapFs(), "--log-level", "error", "compile", "--format", "table", "--eager-only")
	require.NoError(t, err)

	lines := strings.Split(stdout, "\n")
	require.True(t, strings.HasPrefix(lines[0], "SELECTOR"))
	require.Contains(t, stdout, ":root")
}

func TestCompileRejectsUnknownFormat(t *testing.T) {
	_, _, err := execute(t, afero.NewMemMapFs(), "compile", "--format", "xml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Use json, css or table.")
}

func TestCompileRejectsInvalidSettings(t *testing.T) {
	fs := testFs(t, map[string]string{"settings.yaml": "ultimate_background: nope\n"})

	_, _, err := execute(t, fs, "--config", "settings.yaml", "compile")
	require.Error(t, err)
	require.Contains(t, err.Error(), "validating settings")
}

func TestCompileMissingSettingsFile(t *testing.T) {
	_, _, err := execute(t, afero.NewMemMapFs(), "--config", "missing.yaml", "compile")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing.yaml")
}

func TestPaletteCommand(t *testing.T) {
	stdout, _, err := execute(t, afero.NewMemMapFs(), "--log-level", "error", "palette")
	require.NoError(t, err)

	require.Contains(t, stdout, "palette stock, style stock")
	require.Contains(t, stdout, "#121a24")
}

func TestConvertCommand(t *testing.T) {
	fs := testFs(t, map[string]string{
		"themes/redmond.json": `{"colors": {"bg": "#c0c0c0", "fg": "#d4d0c8", "text": "#000000", "link": "#000080", "btnText": "#000000"}}`,
	})

	stdout, _, err := execute(t, fs, "--log-level", "error", "convert", "themes/redmond.json")
	require.NoError(t, err)

	var ruleset config.Ruleset
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &ruleset))
	require.Equal(t, "redmond", ruleset.Name)
	require.NotEmpty(t, ruleset.Rules)
	require.Equal(t, "Root", ruleset.Rules[0].Component)
	require.Equal(t, "color | #c0c0c0", ruleset.Rules[0].Directives["--bg"])

	_, _, err = execute(t, fs, "--log-level", "error", "convert", "themes/redmond.json", "--output", "out.yaml")
	require.NoError(t, err)
	written, err := afero.ReadFile(fs, "out.yaml")
	require.NoError(t, err)
	require.Equal(t, stdout, string(written))
}

func TestComponentsCommand(t *testing.T) {
	stdout, _, err := execute(t, afero.NewMemMapFs(), "--log-level", "error", "components")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "NAME"))
	require.Contains(t, stdout, "Root")
	require.Contains(t, stdout, "lazy")

	stdout, _, err = execute(t, afero.NewMemMapFs(), "--log-level", "error", "components", "--plan")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "Level 0 (1 components): Root(1)"))
}

func TestCompileCheck(t *testing.T) {
	fs := afero.NewMemMapFs()

	golden, _, err := execute(t, fs, "--log-level", "error", "compile", "--format", "css")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "golden.css", []byte(golden), 0o644))

	stdout, _, err := execute(t, fs, "--log-level", "error", "compile", "--format", "css", "--check", "golden.css")
	require.NoError(t, err)
	require.Equal(t, "golden.css is up to date\n", stdout)

	stdout, _, err = execute(t, fs, "--log-level", "error", "--underlay", "transparent", "compile", "--format", "css", "--check", "golden.css")
	require.Error(t, err)
	require.Contains(t, err.Error(), "lines added")
	require.True(t, strings.HasPrefix(stdout, "--- golden.css\n+++ generated\n"))
}

func TestConvertCheckMissingFile(t *testing.T) {
	fs := testFs(t, map[string]string{
		"theme.yaml": "colors:\n  bg: \"#c0c0c0\"\n",
	})

	_, _, err := execute(t, fs, "--log-level", "error", "convert", "theme.yaml", "--check", "missing.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "without --check")
}

func TestComponentsExportRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()

	stdout, _, err := execute(t, fs, "--log-level", "error", "components", "--export", "defs")
	require.NoError(t, err)
	require.Equal(t, "wrote 25 definitions to defs\n", stdout)

	root, err := afero.ReadFile(fs, "defs/root.yaml")
	require.NoError(t, err)
	require.Contains(t, string(root), "name: Root")

	_, _, err = execute(t, fs, "--log-level", "error", "components", "--components", "defs")
	require.NoError(t, err)
}
