package diff

import (
	"reflect"
	"strings"
	"testing"

	"snaptree/internal/snapshot"
)

func file(hash string) snapshot.Node {
	return snapshot.Node{Type: snapshot.File, Hash: hash}
}

func TestDiff_Idempotence(t *testing.T) {
	nodes := map[string]snapshot.Node{
		".":     {Type: snapshot.Dir, Hash: "roothash0000"},
		"a.txt": file("aaaa00000000"),
		"b.txt": file("bbbb00000000"),
	}

	result := Diff(nodes, nodes)

	if result.HasChanges() {
		t.Error("diff(S, S) must report no changes")
	}
	if len(result.Added)+len(result.Removed)+len(result.Changed) != 0 {
		t.Errorf("diff(S, S) must have empty change lists: %+v", result)
	}
	if len(result.Unchanged) != len(nodes) {
		t.Errorf("Expected %d unchanged paths, got %d", len(nodes), len(result.Unchanged))
	}
}

func TestDiff_Classification(t *testing.T) {
	oldNodes := map[string]snapshot.Node{
		"stays.txt":   file("same00000000"),
		"edited.txt":  file("before000000"),
		"deleted.txt": file("gone00000000"),
	}
	newNodes := map[string]snapshot.Node{
		"stays.txt":  file("same00000000"),
		"edited.txt": file("after0000000"),
		"new.txt":    file("fresh0000000"),
	}

	result := Diff(oldNodes, newNodes)

	if !result.HasChanges() {
		t.Error("Expected changes")
	}
	if !reflect.DeepEqual(result.Added, []string{"new.txt"}) {
		t.Errorf("Added: expected [new.txt], got %v", result.Added)
	}
	if !reflect.DeepEqual(result.Removed, []string{"deleted.txt"}) {
		t.Errorf("Removed: expected [deleted.txt], got %v", result.Removed)
	}
	if !reflect.DeepEqual(result.Changed, []string{"edited.txt"}) {
		t.Errorf("Changed: expected [edited.txt], got %v", result.Changed)
	}
	if !reflect.DeepEqual(result.Unchanged, []string{"stays.txt"}) {
		t.Errorf("Unchanged: expected [stays.txt], got %v", result.Unchanged)
	}
}

func TestDiff_Completeness(t *testing.T) {
	oldNodes := map[string]snapshot.Node{
		"a": file("1"), "b": file("2"), "c": file("3"),
	}
	newNodes := map[string]snapshot.Node{
		"b": file("2"), "c": file("9"), "d": file("4"),
	}

	result := Diff(oldNodes, newNodes)

	// Every path in either map lands in exactly one bucket.
	seen := map[string]int{}
	for _, bucket := range [][]string{result.Added, result.Removed, result.Changed, result.Unchanged} {
		for _, p := range bucket {
			seen[p]++
		}
	}

	union := map[string]bool{}
	for p := range oldNodes {
		union[p] = true
	}
	for p := range newNodes {
		union[p] = true
	}

	if len(seen) != len(union) {
		t.Errorf("Expected %d classified paths, got %d", len(union), len(seen))
	}
	for p, n := range seen {
		if n != 1 {
			t.Errorf("Path %s classified %d times", p, n)
		}
	}
}

func TestDiff_RenameIsRemovePlusAdd(t *testing.T) {
	oldNodes := map[string]snapshot.Node{"a.txt": file("content00000")}
	newNodes := map[string]snapshot.Node{"c.txt": file("content00000")}

	result := Diff(oldNodes, newNodes)

	if !reflect.DeepEqual(result.Removed, []string{"a.txt"}) || !reflect.DeepEqual(result.Added, []string{"c.txt"}) {
		t.Errorf("Rename should appear as removed+added, got %+v", result)
	}
	if len(result.Changed) != 0 {
		t.Errorf("Rename must not be reported as changed: %v", result.Changed)
	}
}

func TestDiff_SortedOutput(t *testing.T) {
	oldNodes := map[string]snapshot.Node{}
	newNodes := map[string]snapshot.Node{
		"z.txt": file("1"), "a.txt": file("2"), "m.txt": file("3"),
	}

	result := Diff(oldNodes, newNodes)

	want := []string{"a.txt", "m.txt", "z.txt"}
	if !reflect.DeepEqual(result.Added, want) {
		t.Errorf("Added should be sorted: expected %v, got %v", want, result.Added)
	}
}

func TestDiff_EmptyMaps(t *testing.T) {
	result := Diff(map[string]snapshot.Node{}, map[string]snapshot.Node{})
	if result.HasChanges() {
		t.Error("Empty maps should produce no changes")
	}
}

func TestFormatReport(t *testing.T) {
	result := &Result{
		Added:   []string{"new.txt"},
		Changed: []string{"edited.txt"},
		Removed: []string{"old.txt"},
	}

	report := FormatReport(result)
	for _, want := range []string{"+ new.txt", "~ edited.txt", "- old.txt", "1 added, 1 changed, 1 removed"} {
		if !strings.Contains(report, want) {
			t.Errorf("Report should contain %q:\n%s", want, report)
		}
	}

	if got := FormatReport(&Result{}); got != "No changes detected." {
		t.Errorf("Empty result report: got %q", got)
	}
}
