// Package diff classifies every path of two snapshots as added, removed,
// changed, or unchanged. It works purely on path→node maps and never
// touches the filesystem, so snapshots from different runs or machines
// compare the same way.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"snaptree/internal/snapshot"
)

type Result struct {
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Changed   []string `json:"changed"`
	Unchanged []string `json:"unchanged"`
}

func (r *Result) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0 || len(r.Changed) > 0
}

// Diff compares two path→node maps. Comparison is hash-based per path;
// a move with unchanged content shows up as one removed plus one added,
// never as a rename.
func Diff(oldNodes, newNodes map[string]snapshot.Node) *Result {
	result := &Result{
		Added:     make([]string, 0),
		Removed:   make([]string, 0),
		Changed:   make([]string, 0),
		Unchanged: make([]string, 0),
	}

	for path, newNode := range newNodes {
		oldNode, exists := oldNodes[path]
		switch {
		case !exists:
			result.Added = append(result.Added, path)
		case oldNode.Hash != newNode.Hash:
			result.Changed = append(result.Changed, path)
		default:
			result.Unchanged = append(result.Unchanged, path)
		}
	}

	for path := range oldNodes {
		if _, exists := newNodes[path]; !exists {
			result.Removed = append(result.Removed, path)
		}
	}

	// Sorted for deterministic output.
	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	sort.Strings(result.Changed)
	sort.Strings(result.Unchanged)

	return result
}

func FormatReport(result *Result) string {
	if !result.HasChanges() {
		return "No changes detected."
	}

	var b strings.Builder
	b.WriteString("Changes detected:\n\n")

	if len(result.Added) > 0 {
		fmt.Fprintf(&b, "ADDED (%d):\n", len(result.Added))
		for _, path := range result.Added {
			fmt.Fprintf(&b, "  + %s\n", path)
		}
		b.WriteString("\n")
	}

	if len(result.Changed) > 0 {
		fmt.Fprintf(&b, "CHANGED (%d):\n", len(result.Changed))
		for _, path := range result.Changed {
			fmt.Fprintf(&b, "  ~ %s\n", path)
		}
		b.WriteString("\n")
	}

	if len(result.Removed) > 0 {
		fmt.Fprintf(&b, "REMOVED (%d):\n", len(result.Removed))
		for _, path := range result.Removed {
			fmt.Fprintf(&b, "  - %s\n", path)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Summary: %d added, %d changed, %d removed, %d unchanged\n",
		len(result.Added), len(result.Changed), len(result.Removed), len(result.Unchanged))

	return b.String()
}
