package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a bean graph.
type Analyzer struct {
	// Dir is the directory packages are resolved from; empty means the
	// current directory.
	Dir   string
	graph *BeanGraph
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{graph: NewBeanGraph()}
}

// LoadPackages loads the specified packages and adds their beans to the graph.
// Patterns are standard Go package patterns (e.g., "./shapes", "beanser/examples/...").
func (a *Analyzer) LoadPackages(patterns ...string) (*BeanGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.graph, nil
}

// Graph returns the current bean graph.
func (a *Analyzer) Graph() *BeanGraph {
	return a.graph
}

// processPackage records every exported, non-generic struct of pkg.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	info := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}

		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}

		id := TypeID{PkgPath: pkg.PkgPath, Name: name}
		a.graph.Beans[id] = &BeanInfo{
			ID:         id,
			Properties: properties(st),
			GoType:     named,
		}
		info.Beans = append(info.Beans, id)
	}

	a.graph.Packages[pkg.PkgPath] = info
}

func properties(st *types.Struct) []PropertyInfo {
	var out []PropertyInfo

	for i := range st.NumFields() {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))

		name, ok := propertyName(field, tag)
		if !ok {
			continue
		}

		out = append(out, PropertyInfo{
			Name:  name,
			Field: field.Name(),
			Type:  field.Type(),
			Tag:   tag,
			Index: i,
		})
	}

	return out
}

// GetBean returns the bean for a package path and type name.
func (a *Analyzer) GetBean(pkgPath, typeName string) (*BeanInfo, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}

	info := a.graph.Bean(id)
	if info == nil {
		return nil, fmt.Errorf("bean %s not found", id)
	}

	return info, nil
}
