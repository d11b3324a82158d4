package view

import (
	"sync"
	"time"
)

// Debouncer coalesces a rapidly-changing value: the sink is called with
// the latest value only once it has been stable for the quiet period.
// Used to keep burst refresh requests from hammering the upstream.
type Debouncer[T any] struct {
	quiet time.Duration
	sink  func(T)

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

func NewDebouncer[T any](quiet time.Duration, sink func(T)) *Debouncer[T] {
	if quiet <= 0 {
		quiet = 300 * time.Millisecond
	}
	return &Debouncer[T]{quiet: quiet, sink: sink}
}

// Set records a new value and restarts the quiet period. Each Set advances
// the generation; a timer that already fired when Stop returned false
// carries a stale generation and never reaches the sink.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() {
		d.emit(gen, v)
	})
}

// emit delivers v unless a later Set or Stop superseded the timer that
// scheduled it. The sink runs outside the lock so it may call Set.
func (d *Debouncer[T]) emit(gen uint64, v T) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.sink(v)
}

// Stop cancels any pending emission. Required on teardown; a stopped
// debouncer never emits until the next Set.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
