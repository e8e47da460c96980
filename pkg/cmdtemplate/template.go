package cmdtemplate

import (
	"regexp"
	"sort"
	"strings"
)

// DomainPlaceholder is the reserved placeholder name for the target domain.
const DomainPlaceholder = "DOMAIN"

var placeholderRe = regexp.MustCompile(`\{\{([a-zA-Z0-9_]+)\}\}`)

// Render substitutes every {{NAME}} placeholder in tmpl in a single
// left-to-right pass. Substituted text is never re-expanded.
//
// {{DOMAIN}} in any letter case yields the trimmed domain and cannot be
// shadowed by a variable. Other names resolve against vars case-insensitively;
// an exact-case key wins, otherwise the lexicographically first matching key.
// Non-string values and unknown names substitute as empty text.
func Render(tmpl, domain string, vars map[string]any) string {
	domain = strings.TrimSpace(domain)
	keys := sortedKeys(vars)

	return placeholderRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[2 : len(match)-2]
		if strings.EqualFold(name, DomainPlaceholder) {
			return domain
		}

		v, ok := lookup(name, vars, keys)
		if !ok {
			return ""
		}
		s, ok := v.(string)
		if !ok {
			return ""
		}
		return s
	})
}

// Unresolved returns the distinct placeholder names in tmpl that Render would
// replace with empty text, in order of first appearance.
func Unresolved(tmpl string, vars map[string]any) []string {
	keys := sortedKeys(vars)
	seen := make(map[string]bool)

	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		name := m[1]
		if strings.EqualFold(name, DomainPlaceholder) || seen[name] {
			continue
		}
		seen[name] = true

		v, ok := lookup(name, vars, keys)
		if _, isString := v.(string); !ok || !isString {
			out = append(out, name)
		}
	}
	return out
}

func lookup(name string, vars map[string]any, sorted []string) (any, bool) {
	if v, ok := vars[name]; ok {
		return v, true
	}
	for _, k := range sorted {
		if strings.EqualFold(k, name) {
			return vars[k], true
		}
	}
	return nil, false
}

func sortedKeys(vars map[string]any) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
