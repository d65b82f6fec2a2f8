package deser

import (
	"fmt"
	"path"

	"beanser/diagnostic"
)

// Validate checks the structure of a rules file without resolving any type.
func Validate(rf *RulesFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if rf == nil {
		res.AddError("rules_is_nil", "rules file is nil", "", "")
		return res
	}

	if rf.Version != RulesVersion {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported rules version %q", rf.Version), "", "")
	}

	seen := map[string]struct{}{}

	for i := range rf.Migrations {
		m := &rf.Migrations[i]
		subject := m.Subject()

		switch {
		case m.Type == "" && m.Pattern == "":
			res.AddError("missing_subject", fmt.Sprintf("migration #%d has neither type nor pattern", i+1), "", "")
			continue
		case m.Type != "" && m.Pattern != "":
			res.AddError("ambiguous_subject", "migration has both type and pattern", subject, "")
			continue
		}

		if m.Pattern != "" {
			if _, err := path.Match(m.Pattern, ""); err != nil {
				res.AddError("bad_pattern", fmt.Sprintf("invalid pattern: %v", err), subject, "")
			}
		}

		if _, dup := seen[subject]; dup {
			res.AddError("duplicate_migration", fmt.Sprintf("duplicate migration for %q", subject), subject, "")
		}

		seen[subject] = struct{}{}

		validateProperties(res, m)
	}

	return res
}

func validateProperties(res *diagnostic.Diagnostics, m *Migration) {
	subject := m.Subject()
	// wire names consumed by ignore, rename or split
	consumed := map[string]string{}

	claim := func(name, how string) {
		if prev, ok := consumed[name]; ok {
			res.AddError("conflicting_rules", fmt.Sprintf("property is both %s and %s", prev, how), subject, name)
			return
		}

		consumed[name] = how
	}

	for _, name := range m.Ignore {
		claim(name, "ignored")
	}

	targets := map[string]string{}

	for from, to := range m.Rename {
		claim(from, "renamed")

		if to == "" {
			res.AddError("empty_rename", "rename has no target", subject, from)
			continue
		}

		if prev, ok := targets[to]; ok {
			res.AddError("rename_collision", fmt.Sprintf("%q and %q are both renamed to %q", prev, from, to), subject, to)
		}

		targets[to] = from
	}

	for from, rule := range m.Split {
		claim(from, "split")

		if rule.Separator == "" {
			res.AddError("empty_separator", "split has no separator", subject, from)
		}

		if len(rule.Into) < 2 {
			res.AddError("split_too_few", "split needs at least two target properties", subject, from)
		}
	}

	if m.Pattern != "" && m.Target != "" {
		res.AddWarning("pattern_redirect", fmt.Sprintf("every type matching %q is redirected to %s", m.Pattern, m.Target), subject, "")
	}
}
