package analyze

import (
	"fmt"
	"maps"
	"slices"

	"beanser/deser"
	"beanser/diagnostic"
	"beanser/internal/match"
)

const maxSuggestions = 3

// CheckRules validates rf and then checks its type and property names
// against graph. Names in packages that were not loaded only produce
// warnings, since the graph cannot tell whether they exist.
func CheckRules(rf *deser.RulesFile, graph *BeanGraph) *diagnostic.Diagnostics {
	res := deser.Validate(rf)
	if rf == nil || !res.IsValid() {
		return res
	}

	for i := range rf.Migrations {
		checkMigration(res, &rf.Migrations[i], graph)
	}

	return res
}

func checkMigration(res *diagnostic.Diagnostics, m *deser.Migration, graph *BeanGraph) {
	subject := m.Subject()

	if m.Pattern != "" && len(graph.Match(m.Pattern)) == 0 {
		res.AddWarning("pattern_matches_nothing",
			fmt.Sprintf("pattern %q matches no loaded bean", m.Pattern), subject, "")
	}

	var bean *BeanInfo

	if m.Type != "" {
		if b, ok := graph.Lookup(m.Type); ok {
			bean = b
		} else if m.Target == "" {
			checkMissing(res, graph, "unknown_type", m.Type, subject)
			return
		}
	}

	if m.Target != "" {
		b, ok := graph.Lookup(m.Target)
		if !ok {
			checkMissing(res, graph, "unknown_target", m.Target, subject)
			return
		}

		bean = b
	}

	if bean != nil {
		checkProperties(res, m, bean, subject)
	}
}

// checkMissing reports a type name absent from the graph: an error when its
// package was loaded, a warning otherwise.
func checkMissing(res *diagnostic.Diagnostics, graph *BeanGraph, code, name, subject string) {
	if !graph.Loaded(name) {
		res.AddWarning(code, fmt.Sprintf("type %q is not in a loaded package", name), subject, "")
		return
	}

	res.AddError(code, fmt.Sprintf("type %q does not exist", name), subject, "", suggestTypes(graph, name)...)
}

// suggestTypes proposes beans of the same package with a similar simple name.
func suggestTypes(graph *BeanGraph, name string) []string {
	id := ParseTypeID(name)

	var candidates []string
	for _, b := range graph.Packages[id.PkgPath].Beans {
		candidates = append(candidates, b.Name)
	}

	slices.Sort(candidates)

	out := match.Closest(id.Name, candidates, maxSuggestions)
	for i, simple := range out {
		out[i] = TypeID{PkgPath: id.PkgPath, Name: simple}.String()
	}

	return out
}

func checkProperties(res *diagnostic.Diagnostics, m *deser.Migration, bean *BeanInfo, subject string) {
	names := bean.PropertyNames()

	expect := func(name, role string) {
		if _, ok := bean.Property(name); ok {
			return
		}

		res.AddError("unknown_property",
			fmt.Sprintf("%s %q is not a property of %s", role, name, bean.ID),
			subject, name, match.Closest(name, names, maxSuggestions)...)
	}

	for _, from := range slices.Sorted(maps.Keys(m.Rename)) {
		expect(m.Rename[from], "rename target")
	}

	for _, name := range slices.Sorted(maps.Keys(m.Defaults)) {
		expect(name, "default")
	}

	for _, from := range slices.Sorted(maps.Keys(m.Split)) {
		for _, into := range m.Split[from].Into {
			expect(into, "split target")
		}
	}

	for _, name := range m.Ignore {
		if _, ok := bean.Property(name); ok {
			res.AddWarning("ignored_property_exists",
				fmt.Sprintf("ignored property %q is still declared by %s", name, bean.ID), subject, name)
		}
	}
}
