// Package analyze loads Go packages and extracts the bean graph used to
// check migration rules before they are shipped.
//
// It uses golang.org/x/tools/go/packages with go/types to find every
// exported struct and the property names the serializer derives from it.
//
// Key types:
//   - TypeID: package import path + type name
//   - BeanInfo: a struct type and its properties in declaration order
//   - PropertyInfo: wire name, Go field name, field type and tag
//   - BeanGraph: all beans of the loaded packages
package analyze
