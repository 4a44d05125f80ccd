// Package gen turns `//invokable:annotate` directives on method declarations into registry calls.
package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/format"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"golang.org/x/sync/errgroup"
)

// GeneratedFile is the name of the file written into every package with directives.
const GeneratedFile = "invokable_annotations_gen.go"

const invokableImport = "github.com/zhulik/invokable"

var fileTemplate = template.Must(template.New(GeneratedFile).Parse(`// Code generated by invokablegen{{if .ImportPath}} for {{.ImportPath}}{{end}}. DO NOT EDIT.

package {{.Name}}

import (
	"{{.Invokable}}"
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}"{{.Path}}"
{{- end}}
)

func init() {
{{- range .Annotations}}
	invokable.MustAnnotate[{{.Receiver}}]({{printf "%q" .Method}}, {{.Payload}})
{{- end}}
}
`))

// Result describes the outcome of Generate for one directory.
type Result struct {
	Package *Package
	File    string
	Written bool
}

// Generator generates annotation files.
type Generator struct {
	// DryRun makes the generator print the files to Out instead of writing them.
	DryRun bool
	Out    io.Writer
	Logger *slog.Logger
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return g.Logger
}

// Generate scans dir and writes the annotation file. A stale file is removed when dir has no directives.
func (g *Generator) Generate(dir string) (*Result, error) {
	logger := g.logger().With("dir", dir)

	pkg, err := Scan(dir)
	if err != nil {
		return nil, err
	}

	result := &Result{Package: pkg, File: filepath.Join(dir, GeneratedFile)}

	if len(pkg.Annotations) == 0 {
		logger.Debug("No directives found")

		if _, err := g.Clean(dir); err != nil {
			return nil, err
		}

		return result, nil
	}

	src, err := Render(pkg)
	if err != nil {
		return nil, err
	}

	if g.DryRun {
		out := g.Out
		if out == nil {
			out = os.Stdout
		}

		_, err := fmt.Fprintf(out, "// %s\n%s", result.File, src)

		return result, err
	}

	if err := os.WriteFile(result.File, src, 0o644); err != nil { //nolint:gosec
		return nil, err
	}

	result.Written = true
	logger.Debug("Generated", "file", result.File, "annotations", len(pkg.Annotations))

	return result, nil
}

// GenerateAll runs Generate for every dir concurrently. Results keep the order of dirs, failed directories
// have nil results and their errors are joined.
func (g *Generator) GenerateAll(ctx context.Context, dirs []string) ([]*Result, error) {
	results := make([]*Result, len(dirs))
	errs := make([]error, len(dirs))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i, dir := range dirs {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := g.Generate(dir)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", dir, err)
				return nil
			}

			results[i] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}

	return results, errors.Join(errs...)
}

// Clean removes the annotation file from dir. It reports whether a file was removed.
func (g *Generator) Clean(dir string) (bool, error) {
	file := filepath.Join(dir, GeneratedFile)

	if g.DryRun {
		_, err := os.Stat(file)
		return err == nil, nil
	}

	err := os.Remove(file)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	g.logger().Debug("Removed", "file", file)

	return true, nil
}

// Render returns the formatted source of the annotation file for pkg.
func Render(pkg *Package) ([]byte, error) {
	var buf bytes.Buffer

	err := fileTemplate.Execute(&buf, struct {
		*Package
		Invokable string
	}{pkg, invokableImport})
	if err != nil {
		return nil, err
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code for %s: %w", pkg.Dir, err)
	}

	return src, nil
}

// ExpandDirs resolves patterns into directories. A pattern ending in "/..." matches the directory and all of
// its subdirectories, except hidden ones, testdata, vendor and those starting with an underscore.
func ExpandDirs(patterns []string) ([]string, error) {
	var dirs []string

	for _, pattern := range patterns {
		root, recursive := strings.CutSuffix(pattern, "...")
		if !recursive {
			dirs = append(dirs, pattern)
			continue
		}

		root = filepath.Clean(strings.TrimSuffix(root, "/"))
		if root == "" {
			root = "."
		}

		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}

			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
				name == "testdata" || name == "vendor") {
				return filepath.SkipDir
			}

			dirs = append(dirs, path)

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return dirs, nil
}
