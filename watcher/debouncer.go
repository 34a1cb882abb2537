package watcher

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects changed paths and emits them as one sorted batch once
// no new change has arrived for the configured interval.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	pending  map[string]struct{}
	timer    *time.Timer
	stopped  bool
	output   chan []string
}

// NewDebouncer creates a debouncer with the specified quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]struct{}),
		output:   make(chan []string, 16),
	}
}

// Output returns the channel that receives batches.
func (d *Debouncer) Output() <-chan []string {
	return d.output
}

// Add records a changed path and restarts the quiet period.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// Stop cancels a pending flush and closes the output channel.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || len(d.pending) == 0 {
		return
	}

	batch := make([]string, 0, len(d.pending))
	for path := range d.pending {
		batch = append(batch, path)
	}
	sort.Strings(batch)
	d.pending = make(map[string]struct{})

	select {
	case d.output <- batch:
	default:
		// Consumer is behind; keep the paths for the next flush.
		for _, path := range batch {
			d.pending[path] = struct{}{}
		}
		d.timer = time.AfterFunc(d.interval, d.flush)
	}
}
