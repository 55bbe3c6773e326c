// Package exec runs the per-file scan+aggregate pipeline across a worker
// pool while preserving walk order in the final output, and enforces the
// head-limit and deadline policies shared by every output mode.
package exec

import (
	"context"
	"runtime"
	"sync"

	"github.com/nullptr-dev/graze/internal/aggregate"
	"github.com/nullptr-dev/graze/internal/scan"
	"github.com/nullptr-dev/graze/internal/walk"
)

// FileResult is what one candidate file contributed, in the order the
// walker discovered it (index ties it back to the candidate list).
type FileResult struct {
	Candidate  walk.Candidate
	Entries    []scan.Entry
	MatchCount int
	Regions    []aggregate.Region
	Rendered   []string
	HasMatch   bool
	Err        error
}

// Options configures a Run call.
type Options struct {
	Candidates      []walk.Candidate
	Before, After   int
	ShowLineNumbers bool
	// MatchRequired, when false, treats every candidate as a match
	// instead of consulting Matcher.
	MatchRequired bool
	Matcher       func(entries []scan.Entry) bool
}

// numWorkers bounds the concurrency of the fan-out to GOMAXPROCS, capped
// at 8 (the walker caps its own pool at 16), independent of GOMAXPROCS
// spikes from unrelated load.
func numWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	if n > 8 {
		n = 8
	}
	return n
}

// Run scans every candidate concurrently and returns results indexed in
// walk order, regardless of which worker finished first. The scan function
// itself is injected so callers can plug in regex-backed scanning without
// this package importing regexp directly.
func Run(ctx context.Context, opts Options, scanFile func(ctx context.Context, path string) ([]scan.Entry, bool, error)) ([]FileResult, error) {
	results := make([]FileResult, len(opts.Candidates))

	type indexed struct {
		idx int
		c   walk.Candidate
	}
	work := make(chan indexed, 256)
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var firstErr error
	var errOnce sync.Once

	worker := func() {
		for item := range work {
			if ctx.Err() != nil {
				// Keep draining without scanning, so the feeder below
				// never blocks on a full channel after cancellation.
				continue
			}
			entries, ok, err := scanFile(ctx, item.c.Abs)
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				continue
			}
			if !ok {
				continue
			}

			fr := FileResult{Candidate: item.c, Entries: entries}
			if opts.MatchRequired {
				fr.HasMatch = opts.Matcher(entries)
			} else {
				fr.HasMatch = true
			}
			if fr.HasMatch {
				fr.MatchCount = len(scan.MatchedLineNumbers(entries))
				fr.Regions = aggregate.Regions(entries, opts.Before, opts.After)
				fr.Rendered = aggregate.Render(item.c.Rel, entries, fr.Regions, opts.ShowLineNumbers)
			}
			results[item.idx] = fr
		}
	}

	for i := 0; i < numWorkers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker()
		}()
	}

	for i, c := range opts.Candidates {
		work <- indexed{idx: i, c: c}
	}
	close(work)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Matching filters a Run result down to the files that actually matched,
// preserving walk order.
func Matching(results []FileResult) []FileResult {
	var out []FileResult
	for _, r := range results {
		if r.HasMatch {
			out = append(out, r)
		}
	}
	return out
}

// TruncateByHeadLimit trims a sequence of already-rendered per-file line
// blocks so that the total number of emitted lines -- including "--"
// separators, which count toward the limit the same as content lines --
// does not exceed limit. It reports the number of items emitted and how
// many trailing non-empty blocks were dropped entirely (a block cut
// partway is not counted as dropped), so callers can log what was cut.
func TruncateByHeadLimit(blocks [][]string, limit int) (truncated [][]string, emitted int, droppedFiles int) {
	if limit <= 0 {
		return blocks, countLines(blocks), 0
	}

	remaining := limit
	first := true
	for i, b := range blocks {
		if len(b) == 0 {
			truncated = append(truncated, nil)
			continue
		}
		sepCost := 0
		if !first {
			sepCost = 1
		}
		avail := remaining - sepCost
		if avail <= 0 {
			droppedFiles = countNonEmpty(blocks[i:])
			return truncated, emitted, droppedFiles
		}
		if len(b) <= avail {
			truncated = append(truncated, b)
			emitted += sepCost + len(b)
			remaining -= sepCost + len(b)
			first = false
			continue
		}
		cut := trimTrailingSeparator(b[:avail])
		truncated = append(truncated, cut)
		emitted += sepCost + len(cut)
		droppedFiles = countNonEmpty(blocks[i+1:])
		return truncated, emitted, droppedFiles
	}
	return truncated, emitted, 0
}

// trimTrailingSeparator drops a "--" region separator left dangling when a
// truncation cuts a rendered block immediately after one: a separator must
// never be the last emitted element of a block.
func trimTrailingSeparator(lines []string) []string {
	if len(lines) > 0 && lines[len(lines)-1] == "--" {
		return lines[:len(lines)-1]
	}
	return lines
}

func countNonEmpty(blocks [][]string) int {
	n := 0
	for _, b := range blocks {
		if len(b) > 0 {
			n++
		}
	}
	return n
}

func countLines(blocks [][]string) int {
	n := 0
	for i, b := range blocks {
		if len(b) == 0 {
			continue
		}
		if i > 0 {
			n++
		}
		n += len(b)
	}
	return n
}
