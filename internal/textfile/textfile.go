// Package textfile classifies files as text or binary. Known source and
// config extensions short-circuit to text; everything else is decided by
// sniffing the first 8 KiB.
package textfile

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const sniffLen = 8192

var textExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".ts": {}, ".jsx": {}, ".tsx": {}, ".vue": {},
	".svelte": {}, ".html": {}, ".htm": {}, ".css": {}, ".scss": {},
	".sass": {}, ".less": {}, ".json": {}, ".yaml": {}, ".yml": {},
	".toml": {}, ".xml": {}, ".md": {}, ".mdx": {}, ".txt": {}, ".rst": {},
	".sh": {}, ".bash": {}, ".zsh": {}, ".fish": {}, ".ps1": {}, ".bat": {},
	".cmd": {}, ".sql": {}, ".graphql": {}, ".gql": {}, ".proto": {},
	".go": {}, ".rs": {}, ".rb": {}, ".php": {}, ".java": {}, ".kt": {},
	".kts": {}, ".scala": {}, ".clj": {}, ".cljs": {}, ".edn": {}, ".ex": {},
	".exs": {}, ".erl": {}, ".hrl": {}, ".hs": {}, ".lhs": {}, ".ml": {},
	".mli": {}, ".fs": {}, ".fsx": {}, ".fsi": {}, ".cs": {}, ".vb": {},
	".swift": {}, ".m": {}, ".mm": {}, ".h": {}, ".hpp": {}, ".c": {},
	".cpp": {}, ".cc": {}, ".cxx": {}, ".r": {}, ".jl": {}, ".lua": {},
	".vim": {}, ".el": {}, ".lisp": {}, ".scm": {}, ".rkt": {}, ".zig": {},
	".nim": {}, ".d": {}, ".dart": {}, ".v": {}, ".sv": {}, ".vhd": {},
	".vhdl": {}, ".tf": {}, ".hcl": {}, ".dockerfile": {}, ".makefile": {},
	".cmake": {}, ".gradle": {}, ".groovy": {}, ".rake": {}, ".gemspec": {},
	".podspec": {}, ".cabal": {}, ".nix": {}, ".dhall": {}, ".jsonc": {},
	".json5": {}, ".cson": {}, ".ini": {}, ".cfg": {}, ".conf": {},
	".config": {}, ".env": {}, ".gitignore": {}, ".gitattributes": {},
	".editorconfig": {}, ".prettierrc": {}, ".eslintrc": {},
	".stylelintrc": {}, ".babelrc": {}, ".nvmrc": {},
}

var textNames = map[string]struct{}{
	"readme": {}, "license": {}, "licence": {}, "changelog": {},
	"authors": {}, "contributors": {}, "copying": {}, "dockerfile": {},
	"containerfile": {}, "makefile": {}, "rakefile": {}, "gemfile": {},
	"procfile": {}, "brewfile": {}, "vagrantfile": {}, "justfile": {},
	"taskfile": {},
}

// IsText reports whether the file at path is likely text. A NUL byte in the
// first 8 KiB means binary; otherwise UTF-8 validity decides.
func IsText(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := textExtensions[ext]; ok {
		return true
	}
	if _, ok := textNames[strings.ToLower(filepath.Base(path))]; ok {
		return true
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	if n == 0 {
		// Empty files are text.
		return true
	}
	chunk := buf[:n]

	for _, b := range chunk {
		if b == 0 {
			return false
		}
	}

	// The sniff window may end mid-rune; drop an incomplete trailing
	// sequence before validating.
	if n == sniffLen {
		for i := 0; i < utf8.UTFMax && len(chunk) > 0; i++ {
			if utf8.Valid(chunk) {
				break
			}
			chunk = chunk[:len(chunk)-1]
		}
	}
	return utf8.Valid(chunk)
}
