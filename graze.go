// Package graze is an in-process, parallel, ignore-aware recursive text
// search engine. It has no CLI and no server: Search is the only entry
// point, and a Request is consumed once per call with no state carried
// between calls.
package graze

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"

	"github.com/nullptr-dev/graze/internal/aggregate"
	"github.com/nullptr-dev/graze/internal/diag"
	"github.com/nullptr-dev/graze/internal/exec"
	"github.com/nullptr-dev/graze/internal/filter"
	"github.com/nullptr-dev/graze/internal/pathscope"
	"github.com/nullptr-dev/graze/internal/scan"
	"github.com/nullptr-dev/graze/internal/walk"
)

// OutputMode selects which of the four public result shapes Search produces.
type OutputMode string

const (
	ModeFilesWithMatches OutputMode = "files_with_matches"
	ModeContent          OutputMode = "content"
	ModeCount            OutputMode = "count"
	ModeFiles            OutputMode = "files"
)

// Request is an immutable description of one search. The zero value is
// usable: Path defaults to the process's working directory and OutputMode
// defaults to ModeFilesWithMatches.
type Request struct {
	Pattern string
	Path    string

	Glob  string
	Types []string

	OutputMode OutputMode

	Before, After int
	Context       int // sets both Before and After unless they are set explicitly

	ShowLineNumbers bool
	CaseInsensitive bool
	Multiline       bool

	HeadLimit      int // 0 means unbounded
	TimeoutSeconds float64

	Logger diag.Logger
}

// Result carries exactly one of the three shapes Search can produce,
// selected by the Request's OutputMode.
type Result struct {
	Mode OutputMode

	Files []string       // ModeFiles, ModeFilesWithMatches
	Lines []string       // ModeContent
	Count map[string]int // ModeCount
}

// Search validates req, then compiles, walks, scans, aggregates, and
// shapes a result. It is safe to call concurrently from multiple
// goroutines: no state survives past the returned call.
func Search(ctx context.Context, req Request) (*Result, error) {
	if req.OutputMode == "" {
		req.OutputMode = ModeFilesWithMatches
	}
	before, after := resolveWindow(req)

	if err := validate(req); err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, info, err := pathscope.Stat(cwd, req.Path)
	if err != nil {
		return nil, &Error{Kind: PathNotFound, Path: req.Path, cause: err}
	}

	logger := req.Logger
	if logger == nil {
		logger = diag.DevNull
	}

	if req.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutSeconds*float64(time.Second)))
		defer cancel()
	}

	var re *regexp.Regexp
	if req.OutputMode != ModeFiles {
		re, err = compileRegex(req)
		if err != nil {
			return nil, &Error{Kind: InvalidPattern, cause: err}
		}
	}

	compiled, err := filter.Compile(filter.Options{
		Glob:  req.Glob,
		Types: req.Types,
	})
	if err != nil {
		return nil, &Error{Kind: InvalidOption, cause: err}
	}

	candidates, err := resolveCandidates(ctx, root, info, compiled, logger)
	if err != nil {
		return nil, translateContextErr(err)
	}

	if req.OutputMode == ModeFiles {
		return shapeFiles(candidates, req.HeadLimit), nil
	}

	results, err := exec.Run(ctx, exec.Options{
		Candidates:      candidates,
		Before:          before,
		After:           after,
		ShowLineNumbers: req.ShowLineNumbers,
		MatchRequired:   true,
		Matcher: func(entries []scan.Entry) bool {
			return len(scan.MatchedLineNumbers(entries)) > 0
		},
	}, func(ctx context.Context, path string) ([]scan.Entry, bool, error) {
		entries, ok, err := scan.File(ctx, path, re, req.Multiline)
		if err != nil && ctx.Err() == nil {
			logger.Warn("could not scan file", "path", path, "error", err)
			return nil, false, nil
		}
		return entries, ok, err
	})
	if err != nil {
		return nil, translateContextErr(err)
	}

	matched := exec.Matching(results)

	switch req.OutputMode {
	case ModeFilesWithMatches:
		return shapeFilesWithMatches(matched, req.HeadLimit), nil
	case ModeCount:
		return shapeCount(matched, req.HeadLimit), nil
	default:
		return shapeContent(matched, req.HeadLimit, logger), nil
	}
}

func resolveWindow(req Request) (before, after int) {
	before, after = req.Before, req.After
	if req.Context > 0 {
		if req.Before == 0 {
			before = req.Context
		}
		if req.After == 0 {
			after = req.Context
		}
	}
	return before, after
}

func compileRegex(req Request) (*regexp.Regexp, error) {
	expr := req.Pattern
	if req.Multiline {
		// (?s) lets . match newlines; (?m) makes ^/$ anchor to each line
		// rather than the whole buffer, so both halves of "multiline" hold.
		expr = "(?s)(?m)" + expr
	}
	if req.CaseInsensitive {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

func resolveCandidates(ctx context.Context, root string, info os.FileInfo, compiled *filter.Compiled, logger diag.Logger) ([]walk.Candidate, error) {
	if !info.IsDir() {
		return []walk.Candidate{{Abs: root, Rel: infoBaseName(root), ModTime: info.ModTime()}}, nil
	}
	return walk.Walk(ctx, walk.Options{Root: root, Filters: compiled, Logger: logger})
}

func infoBaseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

func shapeFiles(candidates []walk.Candidate, headLimit int) *Result {
	ordered := make([]walk.Candidate, len(candidates))
	copy(ordered, candidates)
	sortByModTimeDesc(ordered)

	files := make([]string, len(ordered))
	for i, c := range ordered {
		files[i] = c.Rel
	}
	if headLimit > 0 && len(files) > headLimit {
		files = files[:headLimit]
	}
	return &Result{Mode: ModeFiles, Files: files}
}

func shapeFilesWithMatches(matched []exec.FileResult, headLimit int) *Result {
	ordered := make([]walk.Candidate, len(matched))
	for i, r := range matched {
		ordered[i] = r.Candidate
	}
	sortByModTimeDesc(ordered)

	files := make([]string, len(ordered))
	for i, c := range ordered {
		files[i] = c.Rel
	}
	if headLimit > 0 && len(files) > headLimit {
		files = files[:headLimit]
	}
	return &Result{Mode: ModeFilesWithMatches, Files: files}
}

// sortByModTimeDesc orders candidates newest-first, falling back to their
// existing (walk) order for ties -- the common case on a freshly created
// tree, where determinism still has to hold bit-for-bit.
func sortByModTimeDesc(candidates []walk.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ModTime.After(candidates[j].ModTime)
	})
}

func shapeCount(matched []exec.FileResult, headLimit int) *Result {
	counts := make(map[string]int, len(matched))
	n := 0
	for _, r := range matched {
		if headLimit > 0 && n >= headLimit {
			break
		}
		if r.MatchCount > 0 {
			counts[r.Candidate.Rel] = r.MatchCount
			n++
		}
	}
	return &Result{Mode: ModeCount, Count: counts}
}

func shapeContent(matched []exec.FileResult, headLimit int, logger diag.Logger) *Result {
	blocks := make([][]string, len(matched))
	for i, r := range matched {
		blocks[i] = r.Rendered
	}
	truncated, emitted, dropped := exec.TruncateByHeadLimit(blocks, headLimit)
	if dropped > 0 {
		logger.Debug("head_limit truncated output", "dropped_files", dropped, "emitted", emitted)
	}
	joined := aggregate.Join(truncated)
	var lines []string
	if joined != "" {
		lines = splitNonEmpty(joined)
	}
	return &Result{Mode: ModeContent, Lines: lines}
}

func splitNonEmpty(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func translateContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: Timeout, cause: err}
	}
	return err
}

func validate(req Request) error {
	switch req.OutputMode {
	case ModeFilesWithMatches, ModeContent, ModeCount, ModeFiles:
	default:
		return &Error{Kind: InvalidOption, cause: fmt.Errorf("unknown output_mode %q", req.OutputMode)}
	}
	if req.OutputMode != ModeFiles && req.Pattern == "" {
		return &Error{Kind: PatternRequired}
	}
	if req.Before < 0 || req.After < 0 || req.Context < 0 {
		return &Error{Kind: InvalidOption, cause: fmt.Errorf("context values must be non-negative")}
	}
	return nil
}
