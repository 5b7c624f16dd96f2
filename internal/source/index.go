// Package source locates palette, style and legacy theme resources on disk
// and assembles the override rules handed to the resolver.
package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/purg-com/pleroma-iss/internal/logger"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

// Kind is a resource family, stored under "<resource dir>/<kind>s".
type Kind string

const (
	KindPalette Kind = "palette"
	KindStyle   Kind = "style"
	KindTheme   Kind = "theme"
)

// Reserved selection names.
const (
	// Stock selects the built-in component defaults and loads nothing.
	Stock = "stock"
	// Custom reports that inline data was used instead of a named resource.
	Custom = "custom"
)

const indexFile = "index.yaml"

// Index maps resource names of one kind to files.
type Index struct {
	kind   Kind
	fs     afero.Fs
	paths  map[string]string
	names  []string
	logger *logger.Logger
}

// Selection is the outcome of a lookup. Data is nil for Stock.
type Selection struct {
	NameUsed string
	Path     string
	Data     []byte
}

// LoadIndex reads the index of kind under dir. An index.yaml mapping names
// to paths relative to the kind directory wins; otherwise every YAML or
// JSON file in the directory is listed under its base name. A missing
// directory yields an empty index.
func LoadIndex(fs afero.Fs, dir string, kind Kind, log *logger.Logger) (*Index, error) {
	idx := &Index{kind: kind, fs: fs, paths: make(map[string]string), logger: log}
	base := filepath.Join(dir, string(kind)+"s")

	exists, err := afero.DirExists(fs, base)
	if err != nil {
		return nil, isserrors.NewParseError(base, 0, err)
	}
	if !exists {
		log.WithFields(map[string]any{"kind": string(kind), "dir": base}).Debug("resource directory not found")
		return idx, nil
	}

	indexPath := filepath.Join(base, indexFile)
	if data, err := afero.ReadFile(fs, indexPath); err == nil {
		var listed map[string]string
		if err := yaml.Unmarshal(data, &listed); err != nil {
			return nil, isserrors.NewParseError(indexPath, 0, err)
		}
		for name, rel := range listed {
			idx.add(name, filepath.Join(base, rel))
		}
	} else if !os.IsNotExist(err) {
		return nil, isserrors.NewParseError(indexPath, 0, err)
	} else {
		infos, err := afero.ReadDir(fs, base)
		if err != nil {
			return nil, isserrors.NewParseError(base, 0, err)
		}
		for _, info := range infos {
			if info.IsDir() || !isResourceFile(info.Name()) {
				continue
			}
			name := strings.TrimSuffix(info.Name(), filepath.Ext(info.Name()))
			idx.add(name, filepath.Join(base, info.Name()))
		}
	}

	sort.Strings(idx.names)
	return idx, nil
}

func (i *Index) add(name, path string) {
	if _, dup := i.paths[name]; dup {
		return
	}
	i.paths[name] = path
	i.names = append(i.names, name)
}

// Names lists the indexed resource names in sorted order.
func (i *Index) Names() []string {
	if i == nil {
		return nil
	}
	return append([]string(nil), i.names...)
}

// Select picks the resource to use. Custom data beats any name; an empty
// name or Stock loads nothing. An unknown name falls back to the first
// indexed resource, and to Stock when the index is empty.
func (i *Index) Select(name string, custom []byte) (Selection, error) {
	if len(custom) > 0 {
		return Selection{NameUsed: Custom, Data: custom}, nil
	}
	if name == "" || name == Stock {
		return Selection{NameUsed: Stock}, nil
	}

	path, ok := i.paths[name]
	if !ok {
		if len(i.names) == 0 {
			i.logger.WithFields(map[string]any{"kind": string(i.kind), "name": name}).
				Warn("resource not found and no fallback available; using stock")
			return Selection{NameUsed: Stock}, nil
		}
		fallback := i.names[0]
		i.logger.WithFields(map[string]any{"kind": string(i.kind), "name": name, "fallback": fallback}).
			Warn("resource not found; falling back")
		name, path = fallback, i.paths[fallback]
	}

	data, err := afero.ReadFile(i.fs, path)
	if err != nil {
		return Selection{}, isserrors.NewParseError(path, 0, err)
	}
	return Selection{NameUsed: name, Path: path, Data: data}, nil
}

func isResourceFile(name string) bool {
	if name == indexFile {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
