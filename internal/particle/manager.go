package particle

import (
	"math/rand"
	"sort"
	"time"

	"github.com/san-kum/reveal/internal/sched"
)

const (
	DefaultMinBatch = 6
	DefaultMaxBatch = 8
	DefaultJitter   = 10.0
	DefaultLifetime = 800 * time.Millisecond
)

type Point struct {
	X, Y float64
}

type Particle struct {
	ID        uint64
	X, Y      float64
	CreatedAt time.Duration
}

type Config struct {
	MinBatch int
	MaxBatch int
	Jitter   float64
	Lifetime time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinBatch: DefaultMinBatch,
		MaxBatch: DefaultMaxBatch,
		Jitter:   DefaultJitter,
		Lifetime: DefaultLifetime,
	}
}

// Manager owns the live particle set. Every batch removes itself Lifetime
// after creation; callers never remove particles.
type Manager struct {
	loop *sched.Loop
	cfg  Config
	rng  *rand.Rand

	nextID  uint64
	live    map[uint64]Particle
	batches map[*sched.Timer]struct{}
	spawned uint64
	closed  bool
}

func New(loop *sched.Loop, cfg Config, rng *rand.Rand) *Manager {
	if cfg.MinBatch <= 0 {
		cfg.MinBatch = DefaultMinBatch
	}
	if cfg.MaxBatch < cfg.MinBatch {
		cfg.MaxBatch = cfg.MinBatch
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = DefaultLifetime
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Manager{
		loop:    loop,
		cfg:     cfg,
		rng:     rng,
		live:    make(map[uint64]Particle),
		batches: make(map[*sched.Timer]struct{}),
	}
}

// Spawn creates one batch per point and returns every new particle.
func (m *Manager) Spawn(points ...Point) []Particle {
	if m.closed {
		return nil
	}
	var created []Particle
	for _, p := range points {
		created = append(created, m.spawnBatch(p)...)
	}
	return created
}

func (m *Manager) spawnBatch(p Point) []Particle {
	n := m.cfg.MinBatch + m.rng.Intn(m.cfg.MaxBatch-m.cfg.MinBatch+1)
	now := m.loop.Now()
	batch := make([]Particle, n)
	ids := make([]uint64, n)
	for i := range batch {
		batch[i] = Particle{
			ID:        m.nextID,
			X:         p.X + m.jitter(),
			Y:         p.Y + m.jitter(),
			CreatedAt: now,
		}
		ids[i] = m.nextID
		m.live[m.nextID] = batch[i]
		m.nextID++
	}
	m.spawned += uint64(n)

	var timer *sched.Timer
	timer = m.loop.After(m.cfg.Lifetime, func() {
		delete(m.batches, timer)
		for _, id := range ids {
			delete(m.live, id)
		}
	})
	m.batches[timer] = struct{}{}
	return batch
}

func (m *Manager) jitter() float64 {
	return (m.rng.Float64()*2 - 1) * m.cfg.Jitter
}

// Live returns a copy of the live particles ordered by id.
func (m *Manager) Live() []Particle {
	out := make([]Particle, 0, len(m.live))
	for _, p := range m.live {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Manager) Len() int { return len(m.live) }

// Spawned is the total number of particles ever created.
func (m *Manager) Spawned() uint64 { return m.spawned }

// Close cancels every pending removal and drops the live set.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for t := range m.batches {
		t.Stop()
	}
	m.batches = nil
	m.live = make(map[uint64]Particle)
}
