package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ZanzyTHEbar/fstrie/fstrie/filesystem"
	"github.com/ZanzyTHEbar/fstrie/fstrie/trees"

	"github.com/fatih/color"
)

type palette struct {
	dir    *color.Color
	prefix *color.Color
}

// decorate colors directory names
func (p *palette) decorate(node *trees.TrieNode[string]) string {
	if node.IsEnd {
		return node.Value
	}
	return p.dir.Sprint(node.Value)
}

// writeTrees prints the containing directory, the tree and a tree(1)-style
// summary for every successful result
func writeTrees(w io.Writer, results []filesystem.TraversalResult, p *palette) error {
	first := true
	for _, res := range results {
		if res.Result == nil {
			continue
		}
		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false

		if !res.Result.Prefix.IsEmpty() {
			if _, err := p.prefix.Fprintln(w, filepath.Join(res.Result.Prefix.Values()...)); err != nil {
				return err
			}
		}
		if err := res.Result.Root.RenderWith(w, p.decorate); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", res.Result.Metrics().Summary()); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON prints one snapshot per successful result as a JSON array
func writeJSON(w io.Writer, results []filesystem.TraversalResult) error {
	snapshots := make([]*trees.Snapshot, 0, len(results))
	for _, res := range results {
		if res.Result != nil {
			snapshots = append(snapshots, res.Result.Snapshot())
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshots); err != nil {
		return fmt.Errorf("failed to encode snapshots: %w", err)
	}
	return nil
}
