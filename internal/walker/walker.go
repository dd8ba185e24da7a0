// Package walker builds a snapshot of a directory tree in one recursive
// post-order pass: every qualifying file is hashed, every directory's hash
// is aggregated from its children, and everything that does not qualify is
// accounted for in the skip list.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"snaptree/internal/hash"
	"snaptree/internal/ignore"
	"snaptree/internal/snapshot"
	"snaptree/internal/textfile"
	"snaptree/internal/token"
)

type Options struct {
	// Filter decides tree membership. Defaults to the built-in set only.
	Filter *ignore.Filter
	// Digest is the fingerprint scheme for files and directories.
	Digest hash.Digest
	// MaxFileBytes excludes larger files without reading them. <=0 disables.
	MaxFileBytes int64
	// MaxTokens excludes files whose estimated token count is higher. The
	// check runs after the file is read and hashed. <=0 disables.
	MaxTokens int
	// RecordIgnored emits a SkipRecord for filtered entries instead of
	// dropping them silently.
	RecordIgnored bool
	// Workers bounds concurrent hashing of a directory's files. Snapshots
	// are identical for any value; <=1 keeps the walk fully serial.
	Workers int
	// OnFile is called after each file is included, for progress reporting.
	OnFile func(relPath string)
}

type walker struct {
	opts Options
}

type fileJob struct {
	abs string
	rel string
}

type fileOutcome struct {
	node snapshot.Node
	skip *snapshot.SkipRecord
}

// Walk scans the tree rooted at root and returns its snapshot. The caller
// is responsible for root existing and being a directory; a root that
// cannot be listed yields an empty snapshot with one skip record, not an
// error. Localized failures never abort the walk.
func Walk(root string, opts Options) (*snapshot.Snapshot, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}
	if opts.Filter == nil {
		opts.Filter = ignore.New(nil)
	}
	if opts.Digest == (hash.Digest{}) {
		opts.Digest = hash.Default()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	w := &walker{opts: opts}
	snap := &snapshot.Snapshot{
		Root:  absRoot,
		Nodes: make(map[string]snapshot.Node),
	}

	if h, ok := w.walkDir(absRoot, ".", snap); ok {
		snap.RootHash = h
	}
	return snap, nil
}

// walkDir processes one directory post-order and returns its aggregate
// hash, or ok=false when nothing under it qualified. Results accumulate
// into snap, which is threaded through the recursion explicitly.
func (w *walker) walkDir(abs, rel string, snap *snapshot.Snapshot) (string, bool) {
	entries, err := os.ReadDir(abs)
	if err != nil {
		reason := snapshot.ReasonReadError
		detail := err.Error()
		if errors.Is(err, fs.ErrPermission) {
			reason = snapshot.ReasonPermissionDenied
			detail = ""
		}
		snap.Skipped = append(snap.Skipped, snapshot.SkipRecord{Path: rel, Reason: reason, Detail: detail})
		return "", false
	}

	// Traversal order: directories first, then case-insensitive names.
	// This fixes reporting order only; hashes do not depend on it.
	sort.SliceStable(entries, func(i, j int) bool {
		if di, dj := entries[i].IsDir(), entries[j].IsDir(); di != dj {
			return di
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	var childHashes []string
	var childPaths []string
	var files []fileJob

	for _, e := range entries {
		name := e.Name()
		childRel := joinRel(rel, name)
		isDir := e.IsDir()

		if !isDir && !e.Type().IsRegular() {
			// Symlinks, sockets, devices: not part of the tree.
			continue
		}

		if w.opts.Filter.Excluded(childRel, name, isDir) {
			if w.opts.RecordIgnored {
				snap.Skipped = append(snap.Skipped, snapshot.SkipRecord{Path: childRel, Reason: snapshot.ReasonIgnored})
			}
			continue
		}

		if isDir {
			snap.Directories = append(snap.Directories, childRel)
			if h, ok := w.walkDir(filepath.Join(abs, name), childRel, snap); ok {
				childHashes = append(childHashes, h)
				childPaths = append(childPaths, childRel)
			}
		} else {
			files = append(files, fileJob{abs: filepath.Join(abs, name), rel: childRel})
		}
	}

	// Files are hashed independently of each other and of the snapshot, so
	// siblings may run concurrently; outcomes merge in visit order below,
	// keeping the snapshot identical for any worker count.
	outcomes := make([]fileOutcome, len(files))
	if w.opts.Workers > 1 && len(files) > 1 {
		var g errgroup.Group
		g.SetLimit(w.opts.Workers)
		for i, job := range files {
			i, job := i, job
			g.Go(func() error {
				outcomes[i] = w.processFile(job)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, job := range files {
			outcomes[i] = w.processFile(job)
		}
	}

	for i, out := range outcomes {
		if out.skip != nil {
			snap.Skipped = append(snap.Skipped, *out.skip)
			continue
		}
		fileRel := files[i].rel
		snap.Nodes[fileRel] = out.node
		snap.TotalFiles++
		snap.TotalBytes += out.node.SizeBytes
		snap.TotalTokens += out.node.Tokens
		childHashes = append(childHashes, out.node.Hash)
		childPaths = append(childPaths, fileRel)
		if w.opts.OnFile != nil {
			w.opts.OnFile(fileRel)
		}
	}

	if len(childHashes) == 0 {
		// Nothing qualified: the directory has no node of its own and
		// contributes nothing to its parent.
		return "", false
	}

	dirHash := w.opts.Digest.Aggregate(childHashes)
	snap.Nodes[rel] = snapshot.Node{Type: snapshot.Dir, Hash: dirHash, Children: childPaths}
	return dirHash, true
}

// processFile applies the inclusion gates in order and produces either a
// file node or the skip record explaining its absence. It touches nothing
// but the file itself, so it is safe to run concurrently.
func (w *walker) processFile(job fileJob) fileOutcome {
	skip := func(reason snapshot.SkipReason, detail string) fileOutcome {
		return fileOutcome{skip: &snapshot.SkipRecord{Path: job.rel, Reason: reason, Detail: detail}}
	}

	info, err := os.Stat(job.abs)
	if err != nil {
		return skip(snapshot.ReasonReadError, err.Error())
	}
	size := info.Size()

	if w.opts.MaxFileBytes > 0 && size > w.opts.MaxFileBytes {
		return skip(snapshot.ReasonTooLarge, fmt.Sprintf("%d bytes", size))
	}

	if !textfile.IsText(job.abs) {
		return skip(snapshot.ReasonBinary, "")
	}

	data, err := os.ReadFile(job.abs)
	if err != nil {
		return skip(snapshot.ReasonReadError, err.Error())
	}

	sum := w.opts.Digest.Sum(data)
	tokens := token.Count(string(data))

	// The token ceiling runs last: a file rejected here has already been
	// read and hashed. Known inefficiency, kept for gate-order stability.
	if w.opts.MaxTokens > 0 && tokens > w.opts.MaxTokens {
		return skip(snapshot.ReasonTooManyTokens, fmt.Sprintf("%d tokens", tokens))
	}

	return fileOutcome{node: snapshot.Node{
		Type:      snapshot.File,
		Hash:      sum,
		SizeBytes: size,
		Tokens:    tokens,
	}}
}

func joinRel(rel, name string) string {
	if rel == "." {
		return name
	}
	return rel + "/" + name
}
