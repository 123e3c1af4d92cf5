package schedule

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Token identifies a scheduled callback.
type Token struct {
	ID    uint64
	Epoch uint64
	Name  string
}

type entry struct {
	name  string
	epoch uint64
	timer *clock.Timer
}

// Scheduler runs delayed callbacks tied to a game epoch. Advancing the epoch
// stops every pending timer, and a callback that still fires after its epoch
// has passed is dropped.
type Scheduler struct {
	mu     sync.Mutex
	clock  clock.Clock
	logger *zap.Logger
	epoch  uint64
	nextID uint64
	timers map[uint64]*entry
}

// New creates a scheduler on clk. A nil clk uses the wall clock.
func New(clk clock.Clock, logger *zap.Logger) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		clock:  clk,
		logger: logger,
		timers: make(map[uint64]*entry),
	}
}

// Clock returns the clock timers run on.
func (s *Scheduler) Clock() clock.Clock {
	return s.clock
}

// Epoch returns the current epoch.
func (s *Scheduler) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Pending returns the number of timers that have neither fired nor been cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Schedule runs fn after d unless the timer is cancelled or the epoch
// advances first. fn receives the epoch captured at scheduling time.
func (s *Scheduler) Schedule(name string, d time.Duration, fn func(epoch uint64)) Token {
	s.mu.Lock()
	s.nextID++
	tok := Token{ID: s.nextID, Epoch: s.epoch, Name: name}
	e := &entry{name: name, epoch: s.epoch}
	s.timers[tok.ID] = e
	s.mu.Unlock()

	timer := s.clock.AfterFunc(d, func() { s.fire(tok, fn) })

	s.mu.Lock()
	if _, ok := s.timers[tok.ID]; ok {
		e.timer = timer
	}
	s.mu.Unlock()

	s.logger.Debug("timer scheduled",
		zap.String("timer", name),
		zap.Duration("delay", d),
		zap.Uint64("epoch", tok.Epoch),
	)
	return tok
}

func (s *Scheduler) fire(tok Token, fn func(epoch uint64)) {
	s.mu.Lock()
	e, ok := s.timers[tok.ID]
	if ok {
		delete(s.timers, tok.ID)
	}
	current := s.epoch
	s.mu.Unlock()

	if !ok || e.epoch != current {
		s.logger.Debug("stale timer dropped",
			zap.String("timer", tok.Name),
			zap.Uint64("timer_epoch", tok.Epoch),
			zap.Uint64("epoch", current),
		)
		return
	}
	fn(tok.Epoch)
}

// Cancel stops the timer behind tok. It returns false if it already fired or was cancelled.
func (s *Scheduler) Cancel(tok Token) bool {
	s.mu.Lock()
	e, ok := s.timers[tok.ID]
	if ok {
		delete(s.timers, tok.ID)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	s.logger.Debug("timer cancelled", zap.String("timer", tok.Name))
	return true
}

// Advance moves to a new epoch and stops all pending timers. It returns the new epoch.
func (s *Scheduler) Advance() uint64 {
	s.mu.Lock()
	s.epoch++
	stale := s.timers
	s.timers = make(map[uint64]*entry)
	epoch := s.epoch
	s.mu.Unlock()

	for _, e := range stale {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	if len(stale) > 0 {
		s.logger.Debug("pending timers stopped",
			zap.Int("count", len(stale)),
			zap.Uint64("epoch", epoch),
		)
	}
	return epoch
}
