package sim

import "sync"

// Session owns a World and serializes every change to it. Each method reads
// the latest world, computes the next one and publishes it under the lock, so
// Snapshot never sees a half-applied update.
type Session struct {
	mu    sync.Mutex
	cfg   Config
	rng   Rand
	world World
}

func NewSession(cfg Config, rng Rand, tokens []Token, width, height float64) *Session {
	return &Session{
		cfg:   cfg,
		rng:   rng,
		world: NewWorld(cfg, rng, tokens, width, height),
	}
}

func (s *Session) Config() Config { return s.cfg }

// Snapshot returns a deep copy of the current world.
func (s *Session) Snapshot() World {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Clone()
}

func (s *Session) Tick() {
	s.mu.Lock()
	s.world = Tick(s.cfg, s.rng, s.world)
	s.mu.Unlock()
}

// Resolve runs collision detection on the latest world and applies what it
// finds. It returns the events that took effect.
func (s *Session) Resolve() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.world.Running {
		return nil
	}
	var applied []Event
	s.world, applied = ApplyEvents(s.cfg, s.rng, s.world, Detect(s.cfg, s.world))
	return applied
}

// Step is one frame: Tick then Resolve.
func (s *Session) Step() []Event {
	s.Tick()
	return s.Resolve()
}

func (s *Session) ChangeDirection(d Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.world, ok = SteerSelected(s.world, d)
	return ok
}

func (s *Session) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.world, ok = Select(s.world, id)
	return ok
}

func (s *Session) ApplyPrices(prices map[string]float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	s.world, n = UpdatePrices(s.cfg, s.world, prices)
	return n
}

func (s *Session) Stop() {
	s.mu.Lock()
	s.world = Stop(s.world)
	s.mu.Unlock()
}

func (s *Session) Start() {
	s.mu.Lock()
	s.world = Start(s.world)
	s.mu.Unlock()
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Running
}

func (s *Session) Score() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Score
}

// Mints lists the mint of every live snake, for price refreshes.
func (s *Session) Mints() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.world.Snakes))
	for _, sn := range s.world.Snakes {
		out = append(out, sn.ID)
	}
	return out
}
