// Package walk implements the recursive, ignore-aware, parallel directory
// traversal that discovers candidate files for a search.
package walk

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/nullptr-dev/graze/internal/diag"
	"github.com/nullptr-dev/graze/internal/filter"
)

// skipNames are always excluded, independent of any ignore file, matching
// mainstream code-search tools' hard-coded defaults.
var skipNames = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// Candidate is a file the walker has accepted: it passed ignore, hidden,
// glob, and type filtering and is not a symlink, directory, or binary.
type Candidate struct {
	// Abs is the absolute filesystem path.
	Abs string
	// Rel is the slash-separated path relative to the search root, used
	// both for filter matching and as the display path in results.
	Rel string
	// ModTime is the file's modification time, used only to order
	// files/files_with_matches results newest-first.
	ModTime time.Time
}

// Options configures a single Walk call.
type Options struct {
	Root    string
	Filters *filter.Compiled
	Logger  diag.Logger
}

// job is one directory awaiting processing by a worker.
type job struct {
	dir   string
	rel   string
	chain ignoreChain
}

// Walk traverses Root and returns every candidate file, sorted into walk
// order (see order.go) so that the result is identical regardless of how
// the worker goroutines below interleaved. Traversal runs across a bounded
// pool of goroutines pulling from an unbounded work queue (see queue.go):
// workers are both producers (a directory's subdirectories) and consumers,
// so the queue itself must never block a submit -- a bounded channel here
// can deadlock every worker at once on a wide enough tree, with nothing
// left to drain it.
func Walk(ctx context.Context, opts Options) ([]Candidate, error) {
	logger := opts.Logger
	if logger == nil {
		logger = diag.DevNull
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > 16 {
		numWorkers = 16
	}

	var global *ignoreLevel
	if g := loadGlobalIgnore(); g != nil {
		copied := *g
		copied.dir = opts.Root
		global = &copied
	}

	q := newWorkQueue()
	stop := q.watchCancel(ctx)
	defer stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var results []Candidate

	worker := func() {
		defer wg.Done()
		for {
			j, ok := q.next(ctx)
			if !ok {
				return
			}
			processDir(ctx, j, opts.Filters, global, logger, q.submit, &mu, &results)
			q.done()
		}
	}

	// Submit the root job before starting any worker, so outstanding is
	// already nonzero by the time a worker can observe it.
	q.submit(job{dir: opts.Root, rel: "", chain: ignoreChain{}})

	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go worker()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return Less(results[i].Rel, results[j].Rel)
	})
	return results, nil
}

func processDir(
	ctx context.Context,
	j job,
	filters *filter.Compiled,
	global *ignoreLevel,
	logger diag.Logger,
	submit func(job),
	mu *sync.Mutex,
	results *[]Candidate,
) {
	if ctx.Err() != nil {
		return
	}

	chain := j.chain.extend(j.dir)

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		logger.Warn("could not read directory", "dir", j.dir, "error", err)
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}

		name := entry.Name()
		if skipNames[name] || isHidden(name) {
			continue
		}

		entryAbs := filepath.Join(j.dir, name)
		entryRel := name
		if j.rel != "" {
			entryRel = j.rel + "/" + name
		}

		if entry.Type()&os.ModeSymlink != 0 {
			// Symlinks are not followed by default.
			continue
		}

		isDir := entry.IsDir()
		if chain.isIgnored(global, entryAbs, isDir) {
			continue
		}

		if isDir {
			submit(job{dir: entryAbs, rel: entryRel, chain: chain})
			continue
		}

		if filters != nil && !filters.MatchPath(entryRel, name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logger.Warn("could not stat file", "path", entryAbs, "error", err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if looksBinary(entryAbs, logger) {
			continue
		}

		mu.Lock()
		*results = append(*results, Candidate{Abs: entryAbs, Rel: entryRel, ModTime: info.ModTime()})
		mu.Unlock()
	}
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// looksBinary sniffs the first block of a file for a NUL byte, the same
// heuristic ripgrep and the file(1)-adjacent tools in this ecosystem use.
func looksBinary(path string, logger diag.Logger) bool {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("could not open file", "path", path, "error", err)
		return true // treat unreadable files as skippable, not candidates
	}
	defer f.Close()

	header := make([]byte, 512)
	n, _ := f.Read(header)
	for _, b := range header[:n] {
		if b == 0 {
			return true
		}
	}
	return false
}
