package trees

import (
	"strconv"
	"time"
)

// TreeMetrics holds statistical information about a built trie
type TreeMetrics struct {
	TotalNodes     int64         `json:"total_nodes"`
	Directories    int64         `json:"directories"`
	Files          int64         `json:"files"`
	MaxDepth       int           `json:"max_depth"`
	ProcessingTime time.Duration `json:"processing_time"`
	LastUpdated    time.Time     `json:"last_updated"`
}

// ComputeMetrics counts the nodes of the trie rooted at root. The root sits at
// depth 0 and is counted like any other node.
func ComputeMetrics[V any](root *TrieNode[V]) TreeMetrics {
	metrics := TreeMetrics{LastUpdated: time.Now()}
	computeTreeMetrics(root, 0, &metrics)
	return metrics
}

// computeTreeMetrics recursively computes metrics starting from the given node.
func computeTreeMetrics[V any](node *TrieNode[V], depth int, metrics *TreeMetrics) {
	if node == nil {
		return
	}

	metrics.TotalNodes++
	if node.IsEnd {
		metrics.Files++
	} else {
		metrics.Directories++
	}
	if depth > metrics.MaxDepth {
		metrics.MaxDepth = depth
	}

	for _, child := range node.Children {
		computeTreeMetrics(child, depth+1, metrics)
	}
}

// Summary renders the closing line printed by tree(1), e.g. "2 directories, 3 files"
func (m TreeMetrics) Summary() string {
	return plural(m.Directories, "directory", "directories") + ", " + plural(m.Files, "file", "files")
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.FormatInt(n, 10) + " " + many
}
