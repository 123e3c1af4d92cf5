package mana

import (
	"sync"
)

// DefaultMax is the cap on a player's mana.
const DefaultMax = 30

// State is a point-in-time view of a pool.
type State struct {
	Current     int `json:"current"`
	Max         int `json:"max"`
	MoveCounter int `json:"moveCounter"`
}

// Pool holds one player's mana. Current always stays within [0, Max].
type Pool struct {
	mu sync.RWMutex

	current     int
	max         int
	moveCounter int
}

// NewPool creates an empty pool capped at max. A non-positive max uses DefaultMax.
func NewPool(max int) *Pool {
	if max <= 0 {
		max = DefaultMax
	}
	return &Pool{max: max}
}

// Add credits amount, capped at the pool maximum. Non-positive amounts are ignored.
func (p *Pool) Add(amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current += amount
	if p.current > p.max {
		p.current = p.max
	}
}

// Spend debits amount if the pool holds at least that much.
// Returns false and leaves the pool untouched otherwise.
func (p *Pool) Spend(amount int) bool {
	if amount < 0 {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < amount {
		return false
	}
	p.current -= amount
	return true
}

// CanSpend reports whether amount could be debited right now.
func (p *Pool) CanSpend(amount int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return amount >= 0 && p.current >= amount
}

// CountMove increments the owner's move counter and returns the new value.
func (p *Pool) CountMove() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moveCounter++
	return p.moveCounter
}

// Reset empties the pool and its move counter.
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = 0
	p.moveCounter = 0
}

// State returns a copy of the pool's values.
func (p *Pool) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return State{
		Current:     p.current,
		Max:         p.max,
		MoveCounter: p.moveCounter,
	}
}
