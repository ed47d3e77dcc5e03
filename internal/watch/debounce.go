package watch

import (
	"sort"
	"sync"
	"time"
)

// debouncer coalesces changes until no new change has arrived for delay,
// then hands them to fire as one Batch.
type debouncer struct {
	delay time.Duration
	fire  func(Batch)

	mu      sync.Mutex
	pending map[string]Op
	timer   *time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration, fire func(Batch)) *debouncer {
	return &debouncer{
		delay:   delay,
		fire:    fire,
		pending: make(map[string]Op),
	}
}

// add records a change and restarts the quiet period.
func (d *debouncer) add(path string, op Op) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending[path] |= op
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.flush)
		return
	}
	d.timer.Reset(d.delay)
}

// flush delivers the pending changes immediately.
func (d *debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	b := Batch{Ops: d.pending}
	for p := range d.pending {
		b.Paths = append(b.Paths, p)
	}
	sort.Strings(b.Paths)
	d.pending = make(map[string]Op)
	d.wg.Add(1)
	d.mu.Unlock()

	defer d.wg.Done()
	d.fire(b)
}

// pendingCount returns the number of paths waiting for the quiet period.
func (d *debouncer) pendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// stop drops pending changes and waits for a delivery in progress.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[string]Op)
	d.mu.Unlock()
	d.wg.Wait()
}
