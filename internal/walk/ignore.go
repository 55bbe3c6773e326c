package walk

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// ignoreLevel is the compiled matcher for the ignore files found in one
// directory (.gitignore and .ignore combined, .ignore lines taking
// precedence by being appended last).
type ignoreLevel struct {
	dir     string
	matcher *gitignore.GitIgnore // nil if neither file exists at this level
}

func loadLevel(dir string) ignoreLevel {
	var lines []string
	for _, name := range []string{".gitignore", ".ignore"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		lines = append(lines, splitLines(string(data))...)
	}
	if len(lines) == 0 {
		return ignoreLevel{dir: dir}
	}
	return ignoreLevel{dir: dir, matcher: gitignore.CompileIgnoreLines(lines...)}
}

func (l ignoreLevel) matches(path string, isDir bool) bool {
	if l.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(l.dir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return l.matcher.MatchesPath(rel)
}

// ignoreChain is the ordered list of ignore levels from the search root
// down to the directory currently being visited. It is immutable: each
// subdirectory extends its parent's chain into a new value, so concurrent
// walker goroutines processing sibling directories never share mutable
// state (unlike a single-threaded walker's natural push/pop call stack).
type ignoreChain struct {
	levels []ignoreLevel
}

func (c ignoreChain) extend(dir string) ignoreChain {
	next := make([]ignoreLevel, len(c.levels)+1)
	copy(next, c.levels)
	next[len(c.levels)] = loadLevel(dir)
	return ignoreChain{levels: next}
}

func (c ignoreChain) isIgnored(global *ignoreLevel, path string, isDir bool) bool {
	if global != nil && global.matches(path, isDir) {
		return true
	}
	for _, lvl := range c.levels {
		if lvl.matches(path, isDir) {
			return true
		}
	}
	return false
}

// globalIgnoreFile locates the per-user global ignore file the same way
// git does by default: $XDG_CONFIG_HOME/git/ignore, falling back to
// ~/.config/git/ignore.
func globalIgnoreFile() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "git", "ignore")
}

// loadGlobalIgnore reads the per-user global ignore file afresh on every
// call, so no ignore state outlives a single walk; it returns nil if no
// such file exists.
func loadGlobalIgnore() *ignoreLevel {
	path := globalIgnoreFile()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return &ignoreLevel{
		dir:     filepath.Dir(path),
		matcher: gitignore.CompileIgnoreLines(splitLines(string(data))...),
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, trimCR(s[start:i]))
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, trimCR(s[start:]))
	}
	return lines
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}
