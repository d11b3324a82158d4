package live

import (
	"sync"
	"time"
)

// Pulse is a debounced "new data arrived" indicator. Every Fire lights it
// and re-arms the expiry timer, so bursts of events keep it lit
// continuously instead of flickering. It carries no payload.
type Pulse struct {
	ttl time.Duration

	mu    sync.Mutex
	on    bool
	gen   uint64
	timer *time.Timer
}

func NewPulse(ttl time.Duration) *Pulse {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Pulse{ttl: ttl}
}

// Fire lights the pulse and restarts the expiry timer, cancelling any
// pending one first. Each Fire advances the generation; a timer that
// already fired when Stop returned false cannot extinguish a newer pulse.
func (p *Pulse) Fire() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.on = true
	p.gen++
	gen := p.gen
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.ttl, func() { p.expire(gen) })
}

// expire clears the pulse only when it still belongs to the generation
// that armed it. Stale callbacks from superseded timers are no-ops.
func (p *Pulse) expire(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	p.on = false
	p.timer = nil
}

// Active reports whether the pulse is currently lit.
func (p *Pulse) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// Stop cancels any pending timer. Required on teardown; a forgotten timer
// leaks across restarts of the owning component.
func (p *Pulse) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.on = false
}
