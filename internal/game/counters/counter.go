package counters

import (
	"sort"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
)

// Counter is a turn counter of one type held by one player.
type Counter struct {
	Type  Type       `json:"type"`
	Owner board.Cell `json:"owner"`
	Count int        `json:"count"`
}

// Remove removes the specified amount from the counter.
// Will not allow count to go below 0.
func (c *Counter) Remove(amount int) {
	if amount > 0 {
		if c.Count >= amount {
			c.Count -= amount
		} else {
			c.Count = 0
		}
	}
}

type key struct {
	t     Type
	owner board.Cell
}

// Counters manages the live turn counters of a game. Counters that reach
// zero are dropped.
type Counters struct {
	counters map[key]*Counter
}

// NewCounters creates an empty collection.
func NewCounters() *Counters {
	return &Counters{
		counters: make(map[key]*Counter),
	}
}

// Set replaces the count for (t, owner). A non-positive count removes it.
func (cs *Counters) Set(t Type, owner board.Cell, count int) {
	k := key{t, owner}
	if count <= 0 {
		delete(cs.counters, k)
		return
	}
	cs.counters[k] = &Counter{Type: t, Owner: owner, Count: count}
}

// Get returns the count for (t, owner), or 0.
func (cs *Counters) Get(t Type, owner board.Cell) int {
	if counter, ok := cs.counters[key{t, owner}]; ok {
		return counter.Count
	}
	return 0
}

// Has reports whether owner holds a positive counter of type t.
func (cs *Counters) Has(t Type, owner board.Cell) bool {
	return cs.Get(t, owner) > 0
}

// Tick removes one from (t, owner). It returns false when there was nothing to remove.
func (cs *Counters) Tick(t Type, owner board.Cell) bool {
	k := key{t, owner}
	counter, ok := cs.counters[k]
	if !ok {
		return false
	}
	counter.Remove(1)
	if counter.Count == 0 {
		delete(cs.counters, k)
	}
	return true
}

// Owner returns the player holding a counter of type t.
func (cs *Counters) Owner(t Type) (board.Cell, bool) {
	for _, owner := range []board.Cell{board.Black, board.White} {
		if cs.Has(t, owner) {
			return owner, true
		}
	}
	return board.Empty, false
}

// Clear removes every counter of type t.
func (cs *Counters) Clear(t Type) {
	for k := range cs.counters {
		if k.t == t {
			delete(cs.counters, k)
		}
	}
}

// Reset removes all counters.
func (cs *Counters) Reset() {
	cs.counters = make(map[key]*Counter)
}

// All returns copies of every counter sorted by type then owner.
func (cs *Counters) All() []Counter {
	result := make([]Counter, 0, len(cs.counters))
	for _, counter := range cs.counters {
		result = append(result, *counter)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Type != result[j].Type {
			return result[i].Type < result[j].Type
		}
		return result[i].Owner < result[j].Owner
	})
	return result
}
