package components

import (
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/purg-com/pleroma-iss/internal/logger"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

//go:embed definitions/*.yaml
var builtinFS embed.FS

// DecodeDefinition parses one component definition document.
func DecodeDefinition(data []byte, source string) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, isserrors.NewParseError(source, 0, err)
	}
	if def.Name == "" {
		return nil, isserrors.NewValidationError(source+".name", "component name is required", nil)
	}
	return &def, nil
}

// LoadBuiltin returns a validated registry holding the stock component tree.
func LoadBuiltin(log *logger.Logger) (*Registry, error) {
	registry := NewRegistry(log, DefaultPriority...)
	if err := registerDir(registry, afero.FromIOFS{FS: builtinFS}, "definitions"); err != nil {
		return nil, err
	}
	if err := registry.Validate(); err != nil {
		return nil, err
	}
	return registry, nil
}

// LoadDir extends registry with every *.yaml definition under dir. Files are
// read in name order; a name that is already registered keeps its first
// definition.
func LoadDir(registry *Registry, fsys afero.Fs, dir string) error {
	if err := registerDir(registry, fsys, dir); err != nil {
		return err
	}
	return registry.Validate()
}

func registerDir(registry *Registry, fsys afero.Fs, dir string) error {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return isserrors.NewParseError(dir, 0, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		file := path.Join(dir, entry.Name())
		data, err := afero.ReadFile(fsys, file)
		if err != nil {
			return isserrors.NewParseError(file, 0, err)
		}
		def, err := DecodeDefinition(data, file)
		if err != nil {
			return err
		}
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// BuiltinFS exposes the embedded definitions, e.g. for listing or export.
func BuiltinFS() fs.FS {
	sub, err := fs.Sub(builtinFS, "definitions")
	if err != nil {
		return builtinFS
	}
	return sub
}
