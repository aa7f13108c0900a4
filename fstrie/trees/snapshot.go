package trees

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/fstrie/fstrie/sequence"

	"github.com/google/uuid"
)

// Snapshot is an identified, timestamped build result that can be stored and
// reloaded as JSON
type Snapshot struct {
	ID      uuid.UUID         `json:"id"`
	TakenAt time.Time         `json:"taken_at"`
	Prefix  []string          `json:"prefix"`
	Root    *TrieNode[string] `json:"root"`
	Metrics TreeMetrics       `json:"metrics"`
}

// NewSnapshot captures prefix and root under a fresh ID
func NewSnapshot(prefix sequence.Sequence[string], root *TrieNode[string]) *Snapshot {
	return &Snapshot{
		ID:      uuid.New(),
		TakenAt: time.Now().UTC(),
		Prefix:  prefix.Values(),
		Root:    root,
		Metrics: ComputeMetrics(root),
	}
}

// PrefixSequence returns the containing-directory components as a sequence
func (s *Snapshot) PrefixSequence() sequence.Sequence[string] {
	return sequence.FromSlice(s.Prefix)
}

// LoadSnapshot decodes a snapshot and checks the trie invariants
func LoadSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.ID == uuid.Nil {
		return nil, fmt.Errorf("failed to decode snapshot: missing id")
	}
	if err := Validate(snap.Root); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	return &snap, nil
}
