// Package snapshot holds the result of one tree walk: the root hash, the
// per-path nodes, totals, and the records of everything that was skipped.
// A Snapshot is built once by the walker and never mutated afterwards, so
// it is safe to share between diff operations.
package snapshot

type NodeType string

const (
	File NodeType = "file"
	Dir  NodeType = "dir"
)

// Node is one entry of the path→node map. Directories carry the child
// paths that contributed a hash (for traceability; the hash itself depends
// only on the child hash values). Files carry size and token metadata.
type Node struct {
	Type      NodeType `json:"type"`
	Hash      string   `json:"hash"`
	SizeBytes int64    `json:"size_bytes,omitempty"`
	Tokens    int      `json:"tokens,omitempty"`
	Children  []string `json:"children,omitempty"`
}

type SkipReason string

const (
	ReasonIgnored          SkipReason = "ignored"
	ReasonPermissionDenied SkipReason = "permission_denied"
	ReasonTooLarge         SkipReason = "too_large"
	ReasonBinary           SkipReason = "binary"
	ReasonTooManyTokens    SkipReason = "too_many_tokens"
	ReasonReadError        SkipReason = "read_error"
)

// SkipRecord explains why a visited entry is absent from the tree. Skip and
// inclusion are mutually exclusive: a path never has both a record here and
// a node in the map.
type SkipRecord struct {
	Path   string     `json:"path"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// Snapshot is the complete result of one walk. The scan root is addressed
// by the path "."; RootHash is empty when nothing under the root qualified.
type Snapshot struct {
	Root        string
	RootHash    string
	Nodes       map[string]Node
	Directories []string
	TotalFiles  int
	TotalBytes  int64
	TotalTokens int
	Skipped     []SkipRecord
}
