package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest is the persisted form of a Snapshot. Its layout is the stable
// boundary for cross-run diffing: a manifest written by one version must
// load in the next, and Tree keys/hashes must mean the same thing.
type Manifest struct {
	Generator   string          `json:"generator"`
	Created     time.Time       `json:"created"`
	Root        string          `json:"root"`
	RootHash    string          `json:"root_hash"`
	TotalFiles  int             `json:"total_files"`
	TotalBytes  int64           `json:"total_bytes"`
	TotalTokens int             `json:"total_tokens"`
	Directories []string        `json:"directories,omitempty"`
	Tree        map[string]Node `json:"tree"`
	Skipped     []SkipRecord    `json:"skipped,omitempty"`
}

// Manifest converts the snapshot to its persisted form.
func (s *Snapshot) Manifest() *Manifest {
	return &Manifest{
		Generator:   "snaptree",
		Created:     time.Now().UTC(),
		Root:        s.Root,
		RootHash:    s.RootHash,
		TotalFiles:  s.TotalFiles,
		TotalBytes:  s.TotalBytes,
		TotalTokens: s.TotalTokens,
		Directories: s.Directories,
		Tree:        s.Nodes,
		Skipped:     s.Skipped,
	}
}

// FromManifest rebuilds the in-memory snapshot from a loaded manifest. The
// manifest is trusted as-is; provenance is the caller's problem.
func FromManifest(m *Manifest) *Snapshot {
	nodes := m.Tree
	if nodes == nil {
		nodes = make(map[string]Node)
	}
	return &Snapshot{
		Root:        m.Root,
		RootHash:    m.RootHash,
		Nodes:       nodes,
		Directories: m.Directories,
		TotalFiles:  m.TotalFiles,
		TotalBytes:  m.TotalBytes,
		TotalTokens: m.TotalTokens,
		Skipped:     m.Skipped,
	}
}

func Save(s *Snapshot, path string) error {
	data, err := json.MarshalIndent(s.Manifest(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return FromManifest(&m), nil
}
