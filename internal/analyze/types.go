package analyze

import (
	"go/types"
	"path"
	"reflect"
	"slices"
	"strings"

	"beanser/internal/common"
	"beanser/meta"
)

// beanTagKey must match the tag read by meta.NewStructMetaBean.
const beanTagKey = "bean"

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "beanser/examples/shapes"
	Name    string // e.g., "Circle"
}

// ParseTypeID splits a wire type name into its package path and name.
func ParseTypeID(name string) TypeID {
	pkg := meta.PackageOf(name)
	if pkg == "" {
		return TypeID{Name: name}
	}

	return TypeID{PkgPath: pkg, Name: name[len(pkg)+1:]}
}

// String returns the wire name of the type.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// BeanInfo describes a struct type the serializer can treat as a bean.
type BeanInfo struct {
	ID         TypeID
	Properties []PropertyInfo
	GoType     types.Type
}

// Property looks up a property by wire name.
func (b *BeanInfo) Property(name string) (*PropertyInfo, bool) {
	for i := range b.Properties {
		if b.Properties[i].Name == name {
			return &b.Properties[i], true
		}
	}

	return nil, false
}

// PropertyNames returns the wire names in declaration order.
func (b *BeanInfo) PropertyNames() []string {
	names := make([]string, len(b.Properties))
	for i, p := range b.Properties {
		names[i] = p.Name
	}

	return names
}

// PropertyInfo describes one bean property.
type PropertyInfo struct {
	Name  string            // wire name
	Field string            // Go field name
	Type  types.Type        // field type
	Tag   reflect.StructTag // raw struct tag
	Index int               // field index in the struct
}

// TypeString renders the field type with packages shortened to their alias,
// e.g. "*collect.OrderedMap[string, []shapes.Shape]".
func (p *PropertyInfo) TypeString() string {
	return types.TypeString(p.Type, func(pkg *types.Package) string {
		return common.PkgAlias(pkg.Path())
	})
}

// propertyName applies the naming rule of meta.NewStructMetaBean. It reports
// false for fields that do not become properties.
func propertyName(field *types.Var, tag reflect.StructTag) (string, bool) {
	value := tag.Get(beanTagKey)
	if value == "-" || !field.Exported() {
		return "", false
	}

	if field.Embedded() && value == "" {
		return "", false
	}

	if name, _, _ := strings.Cut(value, ","); name != "" {
		return name, true
	}

	return field.Name(), true
}

// BeanGraph holds the beans found in the loaded packages.
type BeanGraph struct {
	// Beans maps TypeID to BeanInfo for every exported struct.
	Beans map[TypeID]*BeanInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewBeanGraph creates an empty BeanGraph.
func NewBeanGraph() *BeanGraph {
	return &BeanGraph{
		Beans:    make(map[TypeID]*BeanInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// Bean returns the bean for a given TypeID, or nil if not found.
func (g *BeanGraph) Bean(id TypeID) *BeanInfo {
	return g.Beans[id]
}

// Lookup finds a bean by wire type name.
func (g *BeanGraph) Lookup(name string) (*BeanInfo, bool) {
	b, ok := g.Beans[ParseTypeID(name)]
	return b, ok
}

// Loaded reports whether the package of a wire type name was loaded, i.e.
// whether a failed Lookup is conclusive.
func (g *BeanGraph) Loaded(name string) bool {
	_, ok := g.Packages[ParseTypeID(name).PkgPath]
	return ok
}

// Names returns the wire names of all beans, sorted.
func (g *BeanGraph) Names() []string {
	names := make([]string, 0, len(g.Beans))
	for id := range g.Beans {
		names = append(names, id.String())
	}

	slices.Sort(names)

	return names
}

// Match returns the sorted wire names matching a path.Match pattern.
func (g *BeanGraph) Match(pattern string) []string {
	var out []string

	for _, name := range g.Names() {
		if ok, _ := path.Match(pattern, name); ok {
			out = append(out, name)
		}
	}

	return out
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Beans []TypeID // Beans defined in this package
}
