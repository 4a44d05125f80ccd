package gen

import (
	"errors"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// importPath resolves the import path of dir from the closest go.mod. It returns an empty string when
// dir is not inside a module.
func importPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for root := abs; ; root = filepath.Dir(root) {
		data, err := os.ReadFile(filepath.Join(root, "go.mod"))
		if err == nil {
			module := modfile.ModulePath(data)
			if module == "" {
				return "", nil
			}

			rel, err := filepath.Rel(root, abs)
			if err != nil {
				return "", err
			}

			return path.Join(module, filepath.ToSlash(rel)), nil
		}

		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		if filepath.Dir(root) == root {
			return "", nil
		}
	}
}
