// Package pathscope resolves a search root into an absolute, symlink-free
// path. There is no process-wide session and no allow/deny list here: a
// graze.Search call is self-contained, so the only job left is turning
// whatever the caller passed into a real filesystem path and reporting
// plainly when it does not exist.
package pathscope

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolve canonicalizes path relative to cwd (when path is not already
// absolute) and evaluates symlinks. It returns an error satisfying
// os.IsNotExist when no such path exists, so callers can translate it into
// the PathNotFound error kind without string matching.
func Resolve(cwd, path string) (string, error) {
	if path == "" {
		path = "."
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// Stat resolves path and stats it in one step, returning a descriptive
// error when the root does not exist or is not readable.
func Stat(cwd, path string) (resolved string, info os.FileInfo, err error) {
	resolved, err = Resolve(cwd, path)
	if err != nil {
		return "", nil, err
	}
	info, err = os.Stat(resolved)
	if err != nil {
		return "", nil, fmt.Errorf("stat %q: %w", resolved, err)
	}
	return resolved, info, nil
}
