package watcher

import (
	"sync"
	"time"
)

// eventBatch collects events for the same root
type eventBatch struct {
	root    string
	events  []Event
	started time.Time
	timer   *time.Timer
}

// DebouncerImpl implements the Debouncer interface. Events are grouped by
// their watched root; a batch is emitted once its root has been quiet for the
// debounce delay, or once it has been pending for the max delay.
type DebouncerImpl struct {
	delay         time.Duration
	maxDelay      time.Duration
	changes       chan Change
	done          chan struct{}
	wg            sync.WaitGroup
	mu            sync.Mutex
	closed        bool
	pendingEvents map[string]*eventBatch
}

// NewDebouncer creates a new debouncer
func NewDebouncer(delay, maxDelay time.Duration, queueCapacity int) *DebouncerImpl {
	if maxDelay < delay {
		maxDelay = delay
	}
	return &DebouncerImpl{
		delay:         delay,
		maxDelay:      maxDelay,
		changes:       make(chan Change, queueCapacity),
		done:          make(chan struct{}),
		pendingEvents: make(map[string]*eventBatch),
	}
}

// Add adds an event to be debounced
func (d *DebouncerImpl) Add(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	batch, exists := d.pendingEvents[event.Root]
	if !exists {
		batch = &eventBatch{
			root:    event.Root,
			events:  make([]Event, 0, 5),
			started: time.Now(),
		}
		d.pendingEvents[event.Root] = batch
	}
	batch.events = append(batch.events, event)

	if batch.timer != nil {
		batch.timer.Stop()
	}

	wait := d.delay
	if remaining := d.maxDelay - time.Since(batch.started); remaining < wait {
		wait = max(remaining, 0)
	}
	batch.timer = time.AfterFunc(wait, func() {
		d.flush(batch)
	})
}

// Changes returns the debounced change channel
func (d *DebouncerImpl) Changes() <-chan Change {
	return d.changes
}

// flush emits batch unless a newer batch replaced it or the debouncer closed
func (d *DebouncerImpl) flush(batch *eventBatch) {
	d.mu.Lock()
	if d.closed || d.pendingEvents[batch.root] != batch {
		d.mu.Unlock()
		return
	}
	delete(d.pendingEvents, batch.root)
	d.wg.Add(1)
	d.mu.Unlock()
	defer d.wg.Done()

	select {
	case d.changes <- Change{Root: batch.root, Events: batch.events}:
	case <-d.done:
	}
}

// Close stops the debouncer, dropping pending batches
func (d *DebouncerImpl) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.done)

	for _, batch := range d.pendingEvents {
		if batch.timer != nil {
			batch.timer.Stop()
		}
	}
	d.pendingEvents = map[string]*eventBatch{}
	d.mu.Unlock()

	// Wait for any in-flight sends
	d.wg.Wait()

	close(d.changes)
}
