// Package render turns a snapshot into human-readable listings. Rendering
// consumes a finished snapshot and never feeds back into hashing.
package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"snaptree/internal/snapshot"
)

type TreeOptions struct {
	ShowTokens bool
	ShowHash   bool
}

type treeEntry struct {
	children map[string]*treeEntry
	node     *snapshot.Node // set for files only
}

func newTreeEntry() *treeEntry {
	return &treeEntry{children: make(map[string]*treeEntry)}
}

func (e *treeEntry) isDir() bool { return e.node == nil }

// Tree renders the snapshot's included files as an indented hierarchy.
func Tree(s *snapshot.Snapshot, opts TreeOptions) string {
	var b strings.Builder

	rootName := filepath.Base(s.Root)
	if opts.ShowHash && s.RootHash != "" {
		fmt.Fprintf(&b, "%s/ [%s]\n", rootName, s.RootHash)
	} else {
		fmt.Fprintf(&b, "%s/\n", rootName)
	}
	fmt.Fprintf(&b, "Total: %d files, %d tokens\n\n", s.TotalFiles, s.TotalTokens)

	root := newTreeEntry()
	for path, node := range s.Nodes {
		if node.Type != snapshot.File {
			continue
		}
		cur := root
		parts := strings.Split(path, "/")
		for _, part := range parts[:len(parts)-1] {
			next, ok := cur.children[part]
			if !ok {
				next = newTreeEntry()
				cur.children[part] = next
			}
			cur = next
		}
		n := node
		leaf := newTreeEntry()
		leaf.node = &n
		cur.children[parts[len(parts)-1]] = leaf
	}

	writeLevel(&b, root, "", opts)
	return b.String()
}

func writeLevel(b *strings.Builder, e *treeEntry, prefix string, opts TreeOptions) {
	names := make([]string, 0, len(e.children))
	for name := range e.children {
		names = append(names, name)
	}
	// Directories first, then case-insensitive name order, matching the
	// walker's traversal order.
	sort.Slice(names, func(i, j int) bool {
		di, dj := e.children[names[i]].isDir(), e.children[names[j]].isDir()
		if di != dj {
			return di
		}
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	for i, name := range names {
		child := e.children[name]
		connector := "├── "
		extension := "│   "
		if i == len(names)-1 {
			connector = "└── "
			extension = "    "
		}

		if child.isDir() {
			fmt.Fprintf(b, "%s%s%s/\n", prefix, connector, name)
			writeLevel(b, child, prefix+extension, opts)
			continue
		}

		switch {
		case opts.ShowHash && opts.ShowTokens:
			fmt.Fprintf(b, "%s%s%s (%d tok) [%s]\n", prefix, connector, name, child.node.Tokens, child.node.Hash)
		case opts.ShowTokens:
			fmt.Fprintf(b, "%s%s%s (%d tokens)\n", prefix, connector, name, child.node.Tokens)
		case opts.ShowHash:
			fmt.Fprintf(b, "%s%s%s [%s]\n", prefix, connector, name, child.node.Hash)
		default:
			fmt.Fprintf(b, "%s%s%s\n", prefix, connector, name)
		}
	}
}

// Compact renders the included files one per line, largest token cost
// first.
func Compact(s *snapshot.Snapshot) string {
	type entry struct {
		path string
		node snapshot.Node
	}

	files := make([]entry, 0, len(s.Nodes))
	for path, node := range s.Nodes {
		if node.Type == snapshot.File {
			files = append(files, entry{path, node})
		}
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].node.Tokens != files[j].node.Tokens {
			return files[i].node.Tokens > files[j].node.Tokens
		}
		return files[i].path < files[j].path
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", s.Root)
	fmt.Fprintf(&b, "# Total: %d files, %d tokens\n", s.TotalFiles, s.TotalTokens)
	fmt.Fprintf(&b, "# Merkle root: %s\n\n", s.RootHash)
	for _, f := range files {
		fmt.Fprintf(&b, "%8d [%s] %s\n", f.node.Tokens, f.node.Hash, f.path)
	}
	return b.String()
}
