package gen

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Annotation is a directive found on a method declaration.
type Annotation struct {
	// Receiver is the receiver type expression, either "T" or "*T".
	Receiver string
	Method   string
	Payload  string
	Pos      token.Position
}

// Import is an import the generated file needs for the payload expressions.
type Import struct {
	Name string
	Path string
}

// Package is the result of scanning a single directory.
type Package struct {
	Dir         string
	Name        string
	ImportPath  string
	Annotations []Annotation
	Imports     []Import

	// declared holds the package level identifiers, selectors on them need no import.
	declared map[string]bool
}

var (
	versionSuffix = regexp.MustCompile(`^v[0-9]+$`)
	gopkgInSuffix = regexp.MustCompile(`\.v[0-9]+$`)
)

// Scan parses the non-test Go files of dir and collects the annotation directives of method declarations.
// Files generated by a previous run are skipped.
func Scan(dir string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	pkg := &Package{Dir: dir, declared: map[string]bool{}}

	pkg.ImportPath, err = importPath(dir)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()

	var files []*ast.File

	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(fileName, ".go") ||
			strings.HasSuffix(fileName, "_test.go") || fileName == GeneratedFile {
			continue
		}

		file, err := goparser.ParseFile(fset, filepath.Join(dir, fileName), nil, goparser.ParseComments)
		if err != nil {
			return nil, err
		}

		if pkg.Name == "" {
			pkg.Name = file.Name.Name
		} else if pkg.Name != file.Name.Name {
			return nil, fmt.Errorf("%s: found packages %s and %s", dir, pkg.Name, file.Name.Name)
		}

		pkg.declare(file)
		files = append(files, file)
	}

	for _, file := range files {
		if err := pkg.scanFile(fset, file); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(pkg.Imports, func(a, b Import) int {
		return strings.Compare(a.Path, b.Path)
	})

	return pkg, nil
}

func (p *Package) declare(file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				p.declared[d.Name.Name] = true
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					p.declared[s.Name.Name] = true
				case *ast.ValueSpec:
					for _, name := range s.Names {
						p.declared[name.Name] = true
					}
				}
			}
		}
	}
}

func (p *Package) scanFile(fset *token.FileSet, file *ast.File) error {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || fn.Doc == nil {
			continue
		}

		for _, comment := range fn.Doc.List {
			if !isDirective(comment.Text) {
				continue
			}

			pos := fset.Position(comment.Pos())

			annotation, err := p.annotation(file, fn, comment.Text)
			if err != nil {
				return fmt.Errorf("%s: %w", pos, err)
			}

			annotation.Pos = pos
			p.Annotations = append(p.Annotations, annotation)
		}
	}

	return nil
}

func (p *Package) annotation(file *ast.File, fn *ast.FuncDecl, comment string) (Annotation, error) {
	d, err := parseDirective(comment)
	if err != nil {
		return Annotation{}, err
	}

	if !fn.Name.IsExported() {
		return Annotation{}, fmt.Errorf("method %s is not exported", fn.Name.Name)
	}

	receiver, err := receiverType(fn.Recv.List[0].Type)
	if err != nil {
		return Annotation{}, err
	}

	expr, err := goparser.ParseExpr(d.Payload)
	if err != nil {
		return Annotation{}, fmt.Errorf("invalid payload %q: %w", d.Payload, err)
	}

	if err := p.addImports(file, expr); err != nil {
		return Annotation{}, err
	}

	return Annotation{Receiver: receiver, Method: fn.Name.Name, Payload: d.Payload}, nil
}

func (p *Package) addImports(file *ast.File, expr ast.Expr) error {
	var err error

	ast.Inspect(expr, func(node ast.Node) bool {
		sel, ok := node.(*ast.SelectorExpr)
		if !ok || err != nil {
			return err == nil
		}

		ident, ok := sel.X.(*ast.Ident)
		if !ok || p.declared[ident.Name] {
			return true
		}

		imp, found := resolveImport(file, ident.Name)
		if !found {
			err = fmt.Errorf("cannot resolve package %s in the payload, import it with an explicit name", ident.Name)
			return false
		}

		if imp.Path != invokableImport && !slices.Contains(p.Imports, imp) {
			p.Imports = append(p.Imports, imp)
		}

		return true
	})

	return err
}

func resolveImport(file *ast.File, name string) (Import, bool) {
	for _, spec := range file.Imports {
		imp := importOf(spec)
		if imp.Name == name || (imp.Name == "" && defaultName(imp.Path) == name) {
			return imp, true
		}
	}

	return Import{}, false
}

func importOf(spec *ast.ImportSpec) Import {
	imp := Import{}
	imp.Path, _ = strconv.Unquote(spec.Path.Value)

	if spec.Name != nil {
		imp.Name = spec.Name.Name
	}

	return imp
}

// defaultName guesses the package name of an import path: its last element without a major version suffix,
// either "/vN" or the gopkg.in ".vN".
func defaultName(importPath string) string {
	base := path.Base(importPath)
	if versionSuffix.MatchString(base) {
		base = path.Base(path.Dir(importPath))
	}

	return strings.TrimPrefix(gopkgInSuffix.ReplaceAllString(base, ""), "go-")
}

func receiverType(expr ast.Expr) (string, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name, nil
	case *ast.StarExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return "*" + ident.Name, nil
		}
	}

	return "", fmt.Errorf("unsupported receiver %T, generic receivers are not supported", expr)
}
