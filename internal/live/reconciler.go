package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"turret-console/internal/stream"
)

// messageLogCap bounds the rolling frame log.
const messageLogCap = 100

// Message is one entry in the rolling frame log: every decoded frame is
// recorded here, including decode failures.
type Message struct {
	ID         string       `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	TurretName string       `json:"turretName"`
	Event      stream.Event `json:"payload"`
}

// TurretInfo is a turret known to the reconciler, either seeded from the
// inventory snapshot or discovered from the stream.
type TurretInfo struct {
	TurretName string `json:"turretName"`
	IP         string `json:"ip,omitempty"`
	Seeded     bool   `json:"seeded"`
}

// Seed is the slice of an inventory record the reconciler cares about.
type Seed struct {
	TurretName string
	IP         string
}

// Mirror persists the canonical channel state somewhere warm restarts can
// read it back from. Implementations must be safe for concurrent use.
type Mirror interface {
	StoreChannel(ctx context.Context, ch Channel) error
	LoadChannels(ctx context.Context) ([]Channel, error)
}

// Options configures a Reconciler. Zero values get sensible defaults.
type Options struct {
	PulseTTL time.Duration
	Mirror   Mirror
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Reconciler merges the inventory snapshot and the event stream into one
// canonical channel collection. It is the sole writer of that collection;
// views read copies. A mutex serializes the stream goroutine's writes
// against HTTP readers.
type Reconciler struct {
	pulse  *Pulse
	mirror Mirror
	logger *slog.Logger
	clock  func() time.Time

	mu       sync.Mutex
	order    []string
	byKey    map[string]Channel
	turrets  []string
	byTurret map[string]TurretInfo
	log      []Message
}

func NewReconciler(opts Options) *Reconciler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Reconciler{
		pulse:    NewPulse(opts.PulseTTL),
		mirror:   opts.Mirror,
		logger:   opts.Logger,
		clock:    opts.Clock,
		byKey:    make(map[string]Channel),
		byTurret: make(map[string]TurretInfo),
	}
}

// Ingest processes one raw frame body: decode, log, merge. It is the
// FrameHandler handed to the transport and runs on its single consumer
// goroutine. Failures never escape; a bad frame costs one log entry.
func (r *Reconciler) Ingest(body []byte) {
	ev := stream.Decode(body)
	r.recordMessage(ev)
	if ev.Malformed() {
		r.logger.Warn("undecodable frame", "raw", ev.Raw, "err", ev.Err)
		return
	}
	r.Apply(ev)
}

// Apply merges one decoded event into the canonical collection and lights
// the notification pulse. The returned bool is false when the event
// carries no stable identity (no turret or no line); such events still
// count as activity but cannot update channel state.
func (r *Reconciler) Apply(ev stream.Event) (Channel, bool) {
	defer r.pulse.Fire()

	turret := ev.TurretName
	line := ev.Line()
	if turret == "" || line == "" {
		return Channel{}, false
	}

	r.mu.Lock()
	ch := r.mergeLocked(turret, line, ev)
	r.mu.Unlock()

	r.storeMirror(ch)
	return ch, true
}

func (r *Reconciler) mergeLocked(turret, line string, ev stream.Event) Channel {
	key := ChannelKey(turret, line)
	now := r.clock().UTC()

	ch, known := r.byKey[key]
	if !known {
		ch = Channel{
			TurretName: turret,
			LineNo:     line,
			State:      "Idle",
		}
	}

	// Partial update: an omitted field never clears the previous value.
	if v := ev.Party(); v != "" {
		ch.PartyNo = v
	}
	if v := ev.Device(); v != "" {
		ch.DeviceName = v
	}
	if ev.CallID != "" {
		ch.CallID = ev.CallID
	}
	if ev.State != "" {
		ch.State = ev.State
	}
	if ev.IP != "" {
		ch.IP = ev.IP
	}
	ch.IsActive = IsActiveState(ch.State)
	ch.LastUpdated = now

	r.byKey[key] = ch
	if !known {
		r.order = append(r.order, key)
	}
	r.registerTurretLocked(turret, ev.IP, false)
	return ch
}

// SeedSnapshot registers turrets from an inventory snapshot. It only adds
// turrets not already present; a snapshot resolving after stream events
// have arrived must never overwrite live fields.
func (r *Reconciler) SeedSnapshot(seeds []Seed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range seeds {
		if s.TurretName == "" {
			continue
		}
		if _, ok := r.byTurret[s.TurretName]; ok {
			continue
		}
		r.registerTurretLocked(s.TurretName, s.IP, true)
	}
}

func (r *Reconciler) registerTurretLocked(name, ip string, seeded bool) {
	info, ok := r.byTurret[name]
	if !ok {
		r.turrets = append(r.turrets, name)
		info = TurretInfo{TurretName: name, Seeded: seeded}
	}
	if info.IP == "" && ip != "" {
		info.IP = ip
	}
	r.byTurret[name] = info
}

// Restore replays channels persisted by the mirror. Intended for boot,
// before the stream starts; existing keys are left alone so a live update
// always beats a stale mirror entry.
func (r *Reconciler) Restore(channels []Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range channels {
		if ch.TurretName == "" || ch.LineNo == "" {
			continue
		}
		key := ch.Key()
		if _, ok := r.byKey[key]; ok {
			continue
		}
		ch.IsActive = IsActiveState(ch.State)
		r.byKey[key] = ch
		r.order = append(r.order, key)
		r.registerTurretLocked(ch.TurretName, ch.IP, false)
	}
}

// Channels returns an insertion-ordered copy of the canonical collection.
func (r *Reconciler) Channels() []Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Channel, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// Turrets returns every known turret in first-seen order.
func (r *Reconciler) Turrets() []TurretInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TurretInfo, 0, len(r.turrets))
	for _, name := range r.turrets {
		out = append(out, r.byTurret[name])
	}
	return out
}

// Messages returns the rolling frame log, oldest first.
func (r *Reconciler) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.log))
	copy(out, r.log)
	return out
}

// ClearMessages empties the frame log. Channel state is untouched.
func (r *Reconciler) ClearMessages() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = nil
}

// PulseActive reports whether the "new data" indicator is lit.
func (r *Reconciler) PulseActive() bool {
	return r.pulse.Active()
}

// Close cancels the pulse timer. Call on shutdown.
func (r *Reconciler) Close() {
	r.pulse.Stop()
}

func (r *Reconciler) recordMessage(ev stream.Event) {
	name := ev.TurretName
	if name == "" {
		name = "Unknown"
	}
	m := Message{
		ID:         uuid.NewString(),
		Timestamp:  r.clock().UTC(),
		TurretName: name,
		Event:      ev,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.log) >= messageLogCap {
		r.log = r.log[len(r.log)-messageLogCap+1:]
	}
	r.log = append(r.log, m)
}

func (r *Reconciler) storeMirror(ch Channel) {
	if r.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.mirror.StoreChannel(ctx, ch); err != nil {
		r.logger.Warn("mirror store failed", "channel", ch.Key(), "err", err)
	}
}
