// Package ignore decides which filesystem entries participate in a snapshot.
//
// Two layers are checked in order: a built-in set of well-known junk
// (VCS metadata, dependency caches, lockfiles, binaries, media) and the
// patterns of a single ignore file at the scan root. Nested ignore files
// are not merged, and a leading "!" is parsed but never re-includes
// anything; both are deliberate simplifications. Changing either would
// change tree membership and therefore every directory hash.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the ignore file read from the scan root.
const FileName = ".gitignore"

var builtinNames = map[string]struct{}{
	// Directories
	".git": {}, ".svn": {}, ".hg": {}, "node_modules": {}, "__pycache__": {},
	".pytest_cache": {}, ".mypy_cache": {}, ".ruff_cache": {}, "venv": {},
	".venv": {}, "env": {}, ".env": {}, "dist": {}, "build": {}, ".next": {},
	".nuxt": {}, ".output": {}, "coverage": {}, ".coverage": {},
	".nyc_output": {}, "target": {}, "vendor": {}, ".bundle": {}, ".cargo": {},
	// Files
	".DS_Store": {}, "Thumbs.db": {}, "package-lock.json": {}, "yarn.lock": {},
	"pnpm-lock.yaml": {}, "bun.lockb": {}, "Cargo.lock": {}, "poetry.lock": {},
	"Gemfile.lock": {}, "composer.lock": {},
}

var builtinGlobs = []string{
	"*.pyc", "*.pyo", "*.so", "*.dylib", "*.dll", "*.exe", "*.o", "*.a",
	"*.lib", "*.class", "*.jar", "*.war", "*.egg", "*.whl", "*.lock",
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.ico", "*.svg", "*.webp",
	"*.mp3", "*.mp4", "*.wav", "*.avi", "*.mov", "*.pdf", "*.zip",
	"*.tar", "*.gz", "*.rar", "*.7z", "*.woff", "*.woff2", "*.ttf",
	"*.eot", "*.otf",
	"*.min.js", "*.min.css", "*.map", "*.chunk.js", "*.bundle.js",
}

type rule struct {
	pattern  string
	dirOnly  bool // trailing "/"
	anchored bool // leading "/"
	hasSlash bool // matched against the root-relative path
	negated  bool // leading "!", recognized but inert
}

// Filter is a pure predicate over relative paths; it does no I/O after
// construction.
type Filter struct {
	rules []rule
}

// Load builds a filter from the built-in set, the root's ignore file if one
// exists, and any extra patterns (typically from config, same syntax as
// ignore file lines).
func Load(root string, extra []string) (*Filter, error) {
	f := &Filter{}

	path := filepath.Join(root, FileName)
	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		sc := bufio.NewScanner(file)
		for sc.Scan() {
			f.addPattern(sc.Text())
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open %s: %w", FileName, err)
	}

	for _, p := range extra {
		f.addPattern(p)
	}

	return f, nil
}

// New builds a filter from patterns alone, without consulting the
// filesystem.
func New(patterns []string) *Filter {
	f := &Filter{}
	for _, p := range patterns {
		f.addPattern(p)
	}
	return f
}

func (f *Filter) addPattern(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	r := rule{pattern: line}
	if strings.HasPrefix(r.pattern, "!") {
		r.negated = true
		r.pattern = r.pattern[1:]
	}
	if strings.HasSuffix(r.pattern, "/") {
		r.dirOnly = true
		r.pattern = strings.TrimSuffix(r.pattern, "/")
	}
	if strings.HasPrefix(r.pattern, "/") {
		r.anchored = true
		r.pattern = r.pattern[1:]
	}
	r.hasSlash = strings.Contains(r.pattern, "/")
	// "dir/**" is approximated as "everything beneath dir", which matchRel
	// already provides for a bare "dir".
	r.pattern = strings.TrimSuffix(r.pattern, "/**")
	if r.pattern == "" {
		return
	}
	f.rules = append(f.rules, r)
}

// Excluded reports whether the entry at relPath (slash-separated, relative
// to the scan root) should be left out of the tree. name is the entry's
// basename.
func (f *Filter) Excluded(relPath, name string, isDir bool) bool {
	if _, ok := builtinNames[name]; ok {
		return true
	}
	for _, g := range builtinGlobs {
		if ok, _ := filepath.Match(g, name); ok {
			return true
		}
	}

	for _, r := range f.rules {
		if r.negated {
			// Negation does not re-include; it simply never excludes.
			continue
		}
		if r.dirOnly && !isDir {
			continue
		}
		if r.hasSlash || r.anchored {
			if matchRel(r.pattern, relPath) {
				return true
			}
		} else if ok, _ := filepath.Match(r.pattern, name); ok {
			return true
		}
	}
	return false
}

// matchRel matches pattern against the relative path, or against any
// ancestor of it: a pattern naming a directory excludes everything
// beneath it (the "pattern/**" approximation).
func matchRel(pattern, rel string) bool {
	if ok, _ := filepath.Match(pattern, rel); ok {
		return true
	}
	for i := 0; i < len(rel); i++ {
		if rel[i] == '/' {
			if ok, _ := filepath.Match(pattern, rel[:i]); ok {
				return true
			}
		}
	}
	return false
}
