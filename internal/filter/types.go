package filter

import (
	"fmt"
	"sort"
	"strings"
)

// typeGlobs maps a canonical file type name to the glob patterns (matched
// against a basename) that belong to it.
var typeGlobs = map[string][]string{
	"c":        {"*.c", "*.h"},
	"cpp":      {"*.cpp", "*.cc", "*.cxx", "*.hpp", "*.hh", "*.hxx", "*.h", "*.inl"},
	"css":      {"*.css", "*.scss"},
	"go":       {"*.go"},
	"html":     {"*.html", "*.htm"},
	"java":     {"*.java"},
	"js":       {"*.js", "*.mjs", "*.cjs", "*.jsx"},
	"json":     {"*.json"},
	"markdown": {"*.md", "*.markdown", "*.mdx"},
	"py":       {"*.py", "*.pyi"},
	"rust":     {"*.rs"},
	"ts":       {"*.ts", "*.tsx", "*.mts", "*.cts"},
	"yaml":     {"*.yml", "*.yaml"},
}

// typeAliases maps alternate spellings onto a canonical type name.
var typeAliases = map[string]string{
	"python":     "py",
	"typescript": "ts",
	"javascript": "js",
	"md":         "markdown",
}

// ValidTypeNames returns the sorted set of type names (including aliases)
// accepted by ResolveTypes, for use in validation error messages.
func ValidTypeNames() []string {
	seen := map[string]bool{}
	for k := range typeGlobs {
		seen[k] = true
	}
	for k := range typeAliases {
		seen[k] = true
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ResolveTypes unions the extension glob patterns of every named type:
// multiple type names OR together. An unknown name is a validation error
// naming the full valid set.
func ResolveTypes(names []string) ([]string, error) {
	seen := map[string]bool{}
	var globs []string
	for _, name := range names {
		canonical := name
		if alias, ok := typeAliases[name]; ok {
			canonical = alias
		}
		patterns, ok := typeGlobs[canonical]
		if !ok {
			return nil, fmt.Errorf("unknown file type %q; valid types: %s", name, strings.Join(ValidTypeNames(), ", "))
		}
		for _, p := range patterns {
			if !seen[p] {
				seen[p] = true
				globs = append(globs, p)
			}
		}
	}
	return globs, nil
}
