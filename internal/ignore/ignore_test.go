package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExcluded_BuiltinNames(t *testing.T) {
	f := New(nil)

	cases := []struct {
		rel, name string
		isDir     bool
		want      bool
	}{
		{".git", ".git", true, true},
		{"node_modules", "node_modules", true, true},
		{"src/node_modules", "node_modules", true, true},
		{"package-lock.json", "package-lock.json", false, true},
		{"src/main.go", "main.go", false, false},
		{"README.md", "README.md", false, false},
	}

	for _, c := range cases {
		if got := f.Excluded(c.rel, c.name, c.isDir); got != c.want {
			t.Errorf("Excluded(%q) = %v, want %v", c.rel, got, c.want)
		}
	}
}

func TestExcluded_BuiltinGlobs(t *testing.T) {
	f := New(nil)

	cases := []struct {
		name string
		want bool
	}{
		{"logo.png", true},
		{"app.min.js", true},
		{"lib.so", true},
		{"main.go", false},
		{"notes.txt", false},
	}

	for _, c := range cases {
		if got := f.Excluded(c.name, c.name, false); got != c.want {
			t.Errorf("Excluded(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestExcluded_BasenamePatterns(t *testing.T) {
	f := New([]string{"*.log", "secrets.txt"})

	if !f.Excluded("debug.log", "debug.log", false) {
		t.Error("*.log should match at the root")
	}
	if !f.Excluded("deep/nested/trace.log", "trace.log", false) {
		t.Error("*.log should match anywhere in the tree")
	}
	if !f.Excluded("conf/secrets.txt", "secrets.txt", false) {
		t.Error("plain names should match basenames anywhere")
	}
	if f.Excluded("debug.log.bak", "debug.log.bak", false) {
		t.Error("*.log should not match debug.log.bak")
	}
}

func TestExcluded_DirOnlyPatterns(t *testing.T) {
	f := New([]string{"tmp/"})

	if !f.Excluded("tmp", "tmp", true) {
		t.Error("tmp/ should match a directory named tmp")
	}
	if f.Excluded("tmp", "tmp", false) {
		t.Error("tmp/ should not match a file named tmp")
	}
}

func TestExcluded_SlashPatterns(t *testing.T) {
	f := New([]string{"docs/internal", "/rootonly.txt", "gen/**"})

	if !f.Excluded("docs/internal", "internal", true) {
		t.Error("docs/internal should match the path itself")
	}
	if !f.Excluded("docs/internal/design.md", "design.md", false) {
		t.Error("docs/internal should exclude everything beneath it")
	}
	if f.Excluded("other/docs/internal", "internal", true) {
		t.Error("slash patterns are root-relative")
	}
	if !f.Excluded("rootonly.txt", "rootonly.txt", false) {
		t.Error("/rootonly.txt should match at the root")
	}
	if !f.Excluded("gen/a/b.go", "b.go", false) {
		t.Error("gen/** should exclude everything beneath gen")
	}
}

func TestExcluded_NegationIsInert(t *testing.T) {
	f := New([]string{"*.log", "!keep.log"})

	if !f.Excluded("keep.log", "keep.log", false) {
		t.Error("negation must not override a prior exclusion")
	}
	// A lone negated pattern excludes nothing.
	f2 := New([]string{"!important.txt"})
	if f2.Excluded("important.txt", "important.txt", false) {
		t.Error("a negated pattern alone must not exclude")
	}
}

func TestExcluded_CommentsAndBlanks(t *testing.T) {
	f := New([]string{"# a comment", "", "   ", "*.tmp"})

	if len(f.rules) != 1 {
		t.Fatalf("Expected 1 rule, got %d", len(f.rules))
	}
	if !f.Excluded("x.tmp", "x.tmp", false) {
		t.Error("*.tmp should still apply")
	}
}

func TestLoad_RootIgnoreFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "# build output\n*.log\ncache/\n"
	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write ignore file: %v", err)
	}

	f, err := Load(tmpDir, []string{"extra.txt"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !f.Excluded("debug.log", "debug.log", false) {
		t.Error("pattern from ignore file should apply")
	}
	if !f.Excluded("cache", "cache", true) {
		t.Error("directory pattern from ignore file should apply")
	}
	if !f.Excluded("extra.txt", "extra.txt", false) {
		t.Error("extra patterns should apply")
	}
}

func TestLoad_MissingIgnoreFile(t *testing.T) {
	f, err := Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Load should tolerate a missing ignore file: %v", err)
	}
	if f.Excluded("main.go", "main.go", false) {
		t.Error("nothing beyond the builtins should be excluded")
	}
}

func TestLoad_NestedIgnoreFilesNotMerged(t *testing.T) {
	tmpDir := t.TempDir()
	sub := filepath.Join(tmpDir, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, FileName), []byte("*.txt\n"), 0644); err != nil {
		t.Fatalf("Failed to write nested ignore file: %v", err)
	}

	f, err := Load(tmpDir, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Excluded("sub/note.txt", "note.txt", false) {
		t.Error("nested ignore files must not contribute patterns")
	}
}
