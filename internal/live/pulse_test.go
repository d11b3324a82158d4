package live

import (
	"testing"
	"time"
)

func TestPulse_FireAndExpire(t *testing.T) {
	p := NewPulse(30 * time.Millisecond)
	defer p.Stop()

	if p.Active() {
		t.Fatalf("new pulse must be off")
	}
	p.Fire()
	if !p.Active() {
		t.Fatalf("pulse must be lit after fire")
	}

	deadline := time.Now().Add(time.Second)
	for p.Active() {
		if time.Now().After(deadline) {
			t.Fatalf("pulse never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPulse_BurstKeepsLit(t *testing.T) {
	p := NewPulse(60 * time.Millisecond)
	defer p.Stop()

	// Fire faster than the TTL: the pulse must stay lit throughout.
	for i := 0; i < 5; i++ {
		p.Fire()
		time.Sleep(20 * time.Millisecond)
		if !p.Active() {
			t.Fatalf("pulse flickered during burst (iteration %d)", i)
		}
	}
}

func TestPulse_StaleTimerCannotExtinguishNewerFire(t *testing.T) {
	p := NewPulse(time.Minute)
	defer p.Stop()

	// A timer can fire in the window where Fire beat its Stop call. Replay
	// that callback with its old generation: the newer pulse must survive.
	p.Fire()
	stale := p.gen
	p.Fire()
	p.expire(stale)
	if !p.Active() {
		t.Fatalf("stale timer callback extinguished a newer pulse")
	}

	p.expire(p.gen)
	if p.Active() {
		t.Fatalf("current-generation expiry must clear the pulse")
	}
}

func TestPulse_StaleTimerAfterStopIsNoop(t *testing.T) {
	p := NewPulse(time.Minute)

	p.Fire()
	stale := p.gen
	p.Stop()
	p.Fire()
	p.expire(stale)
	if !p.Active() {
		t.Fatalf("timer from before Stop extinguished a later pulse")
	}
	p.Stop()
}

func TestPulse_StopCancelsTimer(t *testing.T) {
	p := NewPulse(time.Minute)
	p.Fire()
	p.Stop()
	if p.Active() {
		t.Fatalf("stop must extinguish the pulse")
	}
}
