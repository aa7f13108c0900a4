package watcher

import (
	"time"
)

// EventType represents the type of file system event
type EventType int

const (
	// EventCreate represents file/directory creation
	EventCreate EventType = iota
	// EventWrite represents file modification
	EventWrite
	// EventRemove represents file/directory removal
	EventRemove
	// EventRename represents file/directory rename
	EventRename
	// EventChmod represents permission changes
	EventChmod
)

func (t EventType) String() string {
	switch t {
	case EventCreate:
		return "create"
	case EventWrite:
		return "write"
	case EventRemove:
		return "remove"
	case EventRename:
		return "rename"
	case EventChmod:
		return "chmod"
	default:
		return "unknown"
	}
}

// Event represents a file system event below a watched root
type Event struct {
	Type      EventType
	Path      string
	Root      string // Watched root the path belongs to
	Timestamp time.Time
}

// Change is a debounced batch of events for one watched root
type Change struct {
	Root   string
	Events []Event
}

// WatcherConfig holds configuration for the watcher
type WatcherConfig struct {
	// DebounceDelay is the quiet period after the last event before a change is emitted
	DebounceDelay time.Duration

	// MaxDebounceDelay bounds how long a continuous stream of events can hold back a change
	MaxDebounceDelay time.Duration

	// QueueCapacity is the capacity of the change channel
	QueueCapacity int

	// IncludeChmod reports permission-only changes, which never alter a trie
	IncludeChmod bool
}

// Debouncer coalesces events into per-root changes
type Debouncer interface {
	// Add adds an event to be debounced
	Add(event Event)

	// Changes returns debounced batches
	Changes() <-chan Change

	// Close stops the debouncer
	Close()
}
