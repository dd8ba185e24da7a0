package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"snaptree/internal/config"
	"snaptree/internal/diff"
	"snaptree/internal/ignore"
	"snaptree/internal/progress"
	"snaptree/internal/render"
	"snaptree/internal/snapshot"
	"snaptree/internal/walker"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snaptree",
		Short: "Content-addressed directory snapshots and diffs",
		Long: `snaptree walks a directory tree, fingerprints every included file, and
aggregates the fingerprints into one hash per directory. Comparing two
snapshots tells in O(1) whether anything changed, and if so exactly which
paths. Hashes depend on content only, never on filenames or listing order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "snaptree.yaml", "config file path")
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newDiffCmd())
	return cmd
}

func newScanCmd() *cobra.Command {
	var (
		format      string
		output      string
		maxTokens   int
		workers     int
		showHash    bool
		showIgnored bool
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Snapshot a directory tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("max-tokens") {
				cfg.MaxTokens = maxTokens
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}

			snap, err := scanTree(root, cfg, showIgnored)
			if err != nil {
				return err
			}

			if output == "" {
				output = cfg.Output
			}
			if output != "" {
				if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
				if err := snapshot.Save(snap, output); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Saved manifest to %s (root: %s)\n", output, snap.RootHash)
			}

			switch format {
			case "json":
				if err := printJSON(snap.Manifest()); err != nil {
					return err
				}
			case "tree":
				fmt.Print(render.Tree(snap, render.TreeOptions{ShowTokens: true, ShowHash: showHash}))
			case "compact":
				fmt.Print(render.Compact(snap))
			case "merkle":
				out := struct {
					RootHash string                   `json:"root_hash"`
					Tree     map[string]snapshot.Node `json:"tree"`
				}{snap.RootHash, snap.Nodes}
				if err := printJSON(out); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want json, tree, compact, or merkle)", format)
			}

			if n := errorSkips(snap); n > 0 {
				fmt.Fprintf(os.Stderr, "Skipped %d entries due to errors\n", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, tree, compact, or merkle")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the manifest to this file as well")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "override the token ceiling per file")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "override the number of hashing workers")
	cmd.Flags().BoolVar(&showHash, "show-hash", false, "show hashes in tree output")
	cmd.Flags().BoolVar(&showIgnored, "show-ignored", false, "record ignored entries in the skip list")
	return cmd
}

func newDiffCmd() *cobra.Command {
	var (
		format  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "diff <manifest> [path]",
		Short: "Compare a saved manifest against the current tree",
		Long: `Rescans the tree and classifies every path as added, removed, changed, or
unchanged relative to the saved manifest.

Exit codes: 0 no changes, 1 changes detected, 2 scan errors.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifestPath := args[0]
			root := "."
			if len(args) == 2 {
				root = args[1]
			}

			old, err := snapshot.Load(manifestPath)
			if err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}

			cur, err := scanTree(root, cfg, false)
			if err != nil {
				return err
			}

			result := diff.Diff(old.Nodes, cur.Nodes)

			switch format {
			case "text":
				fmt.Print(diff.FormatReport(result))
				fmt.Printf("\nPrevious root: %s\nCurrent root:  %s\n", old.RootHash, cur.RootHash)
			case "json":
				out := struct {
					*diff.Result
					HasChanges       bool   `json:"has_changes"`
					PreviousRootHash string `json:"previous_root_hash"`
					CurrentRootHash  string `json:"current_root_hash"`
					TotalFiles       int    `json:"total_files"`
					TotalTokens      int    `json:"total_tokens"`
				}{result, result.HasChanges(), old.RootHash, cur.RootHash, cur.TotalFiles, cur.TotalTokens}
				if err := printJSON(out); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}

			if n := errorSkips(cur); n > 0 {
				fmt.Fprintf(os.Stderr, "Skipped %d entries due to errors\n", n)
				os.Exit(2)
			}
			if result.HasChanges() {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "override the number of hashing workers")
	return cmd
}

// scanTree validates the root and runs the walk. Root validation lives
// here, not in the walker.
func scanTree(root string, cfg *config.Config, showIgnored bool) (*snapshot.Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	filter, err := ignore.Load(absRoot, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	digest, err := cfg.Digest()
	if err != nil {
		return nil, err
	}

	counter := progress.New()
	snap, err := walker.Walk(absRoot, walker.Options{
		Filter:        filter,
		Digest:        digest,
		MaxFileBytes:  cfg.MaxFileBytes,
		MaxTokens:     cfg.MaxTokens,
		RecordIgnored: showIgnored,
		Workers:       cfg.Workers,
		OnFile:        counter.Increment,
	})
	counter.Finish()
	return snap, err
}

// errorSkips counts skips caused by failures rather than policy.
func errorSkips(s *snapshot.Snapshot) int {
	n := 0
	for _, rec := range s.Skipped {
		if rec.Reason == snapshot.ReasonReadError || rec.Reason == snapshot.ReasonPermissionDenied {
			n++
		}
	}
	return n
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
