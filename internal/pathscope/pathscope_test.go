package pathscope

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveAbsolute(t *testing.T) {
	tmp := t.TempDir()
	testFile := filepath.Join(tmp, "test.txt")
	if err := os.WriteFile(testFile, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolved, err := Resolve("/", testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != testFile {
		t.Errorf("got %q, want %q", resolved, testFile)
	}
}

func TestResolveRelativeToCwd(t *testing.T) {
	tmp := t.TempDir()
	subDir := filepath.Join(tmp, "sub")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}
	testFile := filepath.Join(subDir, "file.txt")
	if err := os.WriteFile(testFile, []byte("f"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolved, err := Resolve(subDir, "file.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != testFile {
		t.Errorf("got %q, want %q", resolved, testFile)
	}
}

func TestResolveEmptyPathIsCwd(t *testing.T) {
	tmp := t.TempDir()
	resolved, err := Resolve(tmp, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != tmp {
		t.Errorf("got %q, want %q", resolved, tmp)
	}
}

func TestResolveSymlink(t *testing.T) {
	tmp := t.TempDir()
	realFile := filepath.Join(tmp, "real.txt")
	if err := os.WriteFile(realFile, []byte("r"), 0o644); err != nil {
		t.Fatal(err)
	}
	linkFile := filepath.Join(tmp, "link.txt")
	if err := os.Symlink(realFile, linkFile); err != nil {
		t.Skip("symlinks not supported")
	}

	resolved, err := Resolve("/", linkFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != realFile {
		t.Errorf("got %q, want %q (resolved symlink)", resolved, realFile)
	}
}

func TestStatMissingPath(t *testing.T) {
	tmp := t.TempDir()
	_, _, err := Stat(tmp, "does-not-exist")
	if err == nil {
		t.Fatal("expected an error for a missing path")
	}
}

func TestStatExistingDir(t *testing.T) {
	tmp := t.TempDir()
	resolved, info, err := Stat("/", tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != tmp {
		t.Errorf("got %q, want %q", resolved, tmp)
	}
	if !info.IsDir() {
		t.Error("expected a directory FileInfo")
	}
}
