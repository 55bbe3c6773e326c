package walk

import "testing"

func TestLessDirectoryBeforeSiblingFile(t *testing.T) {
	// "foo" (a directory with descendants) must sort before "foo.bar" (a
	// sibling file), even though a byte-wise string compare would put
	// "foo.bar" first because '.' < '/'.
	if !Less("foo/bar.txt", "foo.bar") {
		t.Fatal("foo/bar.txt should sort before foo.bar in walk order")
	}
}

func TestLessSameDirLexicographic(t *testing.T) {
	if !Less("a/alpha.go", "a/beta.go") {
		t.Fatal("alpha.go should sort before beta.go within the same directory")
	}
	if Less("a/beta.go", "a/alpha.go") {
		t.Fatal("beta.go should not sort before alpha.go")
	}
}

func TestLessPrefixDirFirst(t *testing.T) {
	if !Less("a", "a/b") {
		t.Fatal("a shorter path that is a prefix of a longer one should sort first")
	}
}

func TestLessIrreflexive(t *testing.T) {
	if Less("a/b.go", "a/b.go") {
		t.Fatal("a path must not be Less than itself")
	}
}
