// Package filter compiles the glob/type options of a search request into a
// reusable, read-only path matcher shared across every walker worker. The
// content regex itself is compiled and owned by the caller, since it is a
// scanning concern, not a candidate-selection one.
package filter

import (
	"github.com/bmatcuk/doublestar/v4"
)

// Compiled is the immutable matcher set produced by Compile. A zero value
// (empty Glob, empty Types) matches every path.
type Compiled struct {
	Glob  string   // "" disables glob filtering
	Types []string // extension glob patterns; empty disables type filtering
}

// Options mirrors the subset of the request relevant to filter compilation.
type Options struct {
	Glob  string
	Types []string
}

// Compile builds a Compiled matcher set, or returns an error naming the
// unknown type if one of opts.Types isn't recognized.
func Compile(opts Options) (*Compiled, error) {
	c := &Compiled{Glob: opts.Glob}

	if len(opts.Types) > 0 {
		globs, err := ResolveTypes(opts.Types)
		if err != nil {
			return nil, err
		}
		c.Types = globs
	}

	return c, nil
}

// MatchPath reports whether a candidate file passes the glob AND type
// filters. relPath is slash-separated and relative to the search root;
// baseName is its final path component. A pattern with no "/" is matched
// against both relPath and baseName, so "*.py" matches "src/utils.py" by
// basename while "src/*.py" only matches direct children of src/.
func (c *Compiled) MatchPath(relPath, baseName string) bool {
	if c.Glob != "" && !matchEither(c.Glob, relPath, baseName) {
		return false
	}
	if len(c.Types) > 0 {
		matched := false
		for _, pattern := range c.Types {
			if matchEither(pattern, relPath, baseName) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func matchEither(pattern, relPath, baseName string) bool {
	if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
		return true
	}
	if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
		return true
	}
	return false
}
