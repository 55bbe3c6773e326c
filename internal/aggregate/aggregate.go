// Package aggregate merges the matched/unmatched lines produced by the
// scanner into the disjoint context regions that make up a "content"-mode
// result, including where "--" separators belong.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/nullptr-dev/graze/internal/scan"
)

// Region is a contiguous, inclusive run of line numbers to render together.
type Region struct {
	StartLine int
	EndLine   int
}

// Regions merges every matched line's [line-before, line+after] window with
// its neighbors, returning the minimal set of disjoint, ascending regions
// that cover all of them. Two windows that touch or overlap become one
// region; this is what lets a dense cluster of matches render as a single
// block instead of one per match with redundant separators in between.
func Regions(entries []scan.Entry, before, after int) []Region {
	var regions []Region
	for _, e := range entries {
		if !e.IsMatch {
			continue
		}
		start := e.LineNumber - before
		if start < 1 {
			start = 1
		}
		end := e.LineNumber + after
		if len(entries) > 0 && end > entries[len(entries)-1].LineNumber {
			end = entries[len(entries)-1].LineNumber
		}

		if len(regions) > 0 && start <= regions[len(regions)-1].EndLine+1 {
			if end > regions[len(regions)-1].EndLine {
				regions[len(regions)-1].EndLine = end
			}
			continue
		}
		regions = append(regions, Region{StartLine: start, EndLine: end})
	}
	return regions
}

// Render formats a file's regions as ripgrep-style content output: each
// region's lines in order, a separator line ("--") between non-adjacent
// regions, and each line prefixed with the path followed by ":" when its
// entry IsMatch or "-" when it is context. showLineNumbers controls
// whether "N:" / "N-" prefixes are emitted at all.
func Render(path string, entries []scan.Entry, regions []Region, showLineNumbers bool) []string {
	byLine := make(map[int]scan.Entry, len(entries))
	for _, e := range entries {
		byLine[e.LineNumber] = e
	}

	var out []string
	for i, r := range regions {
		if i > 0 {
			out = append(out, "--")
		}
		for line := r.StartLine; line <= r.EndLine; line++ {
			e, ok := byLine[line]
			if !ok {
				continue
			}
			out = append(out, renderLine(path, e, showLineNumbers))
		}
	}
	return out
}

func renderLine(path string, e scan.Entry, showLineNumbers bool) string {
	sep := "-"
	if e.IsMatch {
		sep = ":"
	}
	if !showLineNumbers {
		return fmt.Sprintf("%s%s%s", path, sep, e.Text)
	}
	return fmt.Sprintf("%s%s%d%s%s", path, sep, e.LineNumber, sep, e.Text)
}

// Join assembles the rendered blocks of multiple files into the final
// content-mode body, inserting "--" between files the same way Render
// inserts it between regions within one file.
func Join(blocks [][]string) string {
	var parts []string
	for _, b := range blocks {
		if len(b) == 0 {
			continue
		}
		if len(parts) > 0 {
			parts = append(parts, "--")
		}
		parts = append(parts, b...)
	}
	return strings.Join(parts, "\n")
}
