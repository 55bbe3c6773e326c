// Package scan turns a single file into an ordered sequence of line
// entries, marking which lines matched the compiled regex.
package scan

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"regexp"
	"slices"
	"sort"
)

// Entry is one physical line of a scanned file.
type Entry struct {
	LineNumber int // 1-based
	Text       string
	IsMatch    bool
}

// File scans path line-by-line (or, in multiline mode, as a whole) and
// returns every line alongside whether the regex matched it. A file that
// looks binary is skipped with nil entries, ok=false and a nil error, so
// callers distinguish "skipped" from "scanned with zero matches" by the
// bool return. An open or read failure is returned as err; per the error
// handling design, the caller reports it through its diagnostics channel
// and skips the file, never failing the call.
func File(ctx context.Context, path string, re *regexp.Regexp, multiline bool) (entries []Entry, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	header := make([]byte, 512)
	n, _ := f.Read(header)
	for _, b := range header[:n] {
		if b == 0 {
			return nil, false, nil
		}
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, false, err
	}

	if multiline {
		entries, err := scanMultiline(f, re)
		return entries, true, err
	}
	entries, err = scanLineByLine(ctx, f, re)
	return entries, true, err
}

func scanLineByLine(ctx context.Context, f *os.File, re *regexp.Regexp) ([]Entry, error) {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var entries []Entry
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum%4096 == 0 && ctx.Err() != nil {
			return entries, ctx.Err()
		}
		text := scanner.Text()
		entries = append(entries, Entry{
			LineNumber: lineNum,
			Text:       text,
			IsMatch:    re.MatchString(text),
		})
	}
	return entries, scanner.Err()
}

// scanMultiline evaluates the regex over the whole file so that `.`
// (under (?s)) can span newlines, then marks every physical line a match
// overlaps as IsMatch.
func scanMultiline(f *os.File, re *regexp.Regexp) ([]Entry, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, err
	}
	content := buf.String()

	lines := splitLines(content)
	entries := make([]Entry, len(lines))
	for i, text := range lines {
		entries[i] = Entry{LineNumber: i + 1, Text: text}
	}

	matchSet := map[int]bool{}
	for _, m := range re.FindAllStringIndex(content, -1) {
		start, end := m[0], m[1]
		startLine := byteOffsetToLine(content, start)
		endLine := byteOffsetToLine(content, end-1)
		if end > 0 && end <= len(content) && content[end-1] == '\n' && endLine > startLine {
			endLine--
		}
		for l := startLine; l <= endLine; l++ {
			matchSet[l] = true
		}
	}
	for l := range matchSet {
		if l >= 1 && l <= len(entries) {
			entries[l-1].IsMatch = true
		}
	}
	return entries, nil
}

// splitLines splits content into physical lines, dropping the trailing
// empty element produced by a final newline.
func splitLines(content string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, content[start:i])
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

func byteOffsetToLine(content string, offset int) int {
	if offset < 0 {
		return 1
	}
	if offset >= len(content) {
		offset = len(content) - 1
	}
	line := 1
	for i := 0; i < offset; i++ {
		if content[i] == '\n' {
			line++
		}
	}
	return line
}

// MatchedLineNumbers returns the ascending, deduplicated line numbers
// flagged as matches -- used by the count output mode, where the reported
// figure is the number of distinct matching lines, not the number of
// regex matches (a single line can contain several).
func MatchedLineNumbers(entries []Entry) []int {
	var nums []int
	for _, e := range entries {
		if e.IsMatch {
			nums = append(nums, e.LineNumber)
		}
	}
	sort.Ints(nums)
	return slices.Compact(nums)
}
