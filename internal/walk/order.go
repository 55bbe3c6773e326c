package walk

import "strings"

// Less reports whether a sorts before b in walk order: the order a
// single-threaded, depth-first, lexicographic-per-directory traversal would
// produce. This is NOT the same as comparing a and b as raw strings -- a
// byte-wise comparison of "foo.bar" and "foo/bar.txt" puts "foo.bar" first
// (since '.' < '/'), but depth-first traversal visits every descendant of
// directory "foo" before the sibling entry "foo.bar", because "foo" sorts
// before "foo.bar" as a directory-entry name (shorter string that is a
// prefix of the other sorts first). Comparing path-component slices
// segment-by-segment reproduces that traversal order regardless of which
// goroutine discovered each path first.
func Less(a, b string) bool {
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}
