package watchers

import (
	"sort"
	"sync"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
	"github.com/gobangfree/gobang-server-go/internal/game/events"
	"github.com/gobangfree/gobang-server-go/internal/game/skills"
)

// Watcher accumulates per-game statistics from engine events.
type Watcher interface {
	Key() string
	Watch(evt events.Event)
	Reset()
	// ConditionMet reports whether the watcher has seen a relevant event
	// since the last reset.
	ConditionMet() bool
}

// base carries the bookkeeping shared by every watcher.
type base struct {
	mu        sync.Mutex
	key       string
	condition bool
}

func (b *base) Key() string { return b.key }

func (b *base) ConditionMet() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.condition
}

// SkillsCastWatcher tracks skills cast by each player, in order.
type SkillsCastWatcher struct {
	base
	cast map[board.Cell][]skills.ID
}

// NewSkillsCastWatcher creates a new skills cast watcher.
func NewSkillsCastWatcher() *SkillsCastWatcher {
	return &SkillsCastWatcher{
		base: base{key: "SkillsCastWatcher"},
		cast: make(map[board.Cell][]skills.ID),
	}
}

// Watch implements the Watcher interface.
func (w *SkillsCastWatcher) Watch(evt events.Event) {
	if evt.Type != events.EventSkillCast || !evt.Player.IsPlayer() || evt.Data == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cast[evt.Player] = append(w.cast[evt.Player], skills.ID(evt.Data))
	w.condition = true
}

// Reset clears the watcher's state.
func (w *SkillsCastWatcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cast = make(map[board.Cell][]skills.ID)
	w.condition = false
}

// Skills returns the skills cast by player.
func (w *SkillsCastWatcher) Skills(player board.Cell) []skills.ID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]skills.ID(nil), w.cast[player]...)
}

// Count returns the number of skills cast by player.
func (w *SkillsCastWatcher) Count(player board.Cell) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.cast[player])
}

// ManaWatcher totals mana gained and spent per player.
type ManaWatcher struct {
	base
	gained map[board.Cell]int
	spent  map[board.Cell]int
}

// NewManaWatcher creates a new mana watcher.
func NewManaWatcher() *ManaWatcher {
	return &ManaWatcher{
		base:   base{key: "ManaWatcher"},
		gained: make(map[board.Cell]int),
		spent:  make(map[board.Cell]int),
	}
}

// Watch implements the Watcher interface.
func (w *ManaWatcher) Watch(evt events.Event) {
	var totals map[board.Cell]int
	switch evt.Type {
	case events.EventManaGained:
		totals = w.gained
	case events.EventManaSpent:
		totals = w.spent
	default:
		return
	}
	if !evt.Player.IsPlayer() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	totals[evt.Player] += evt.Amount
	w.condition = true
}

// Reset clears the watcher's state.
func (w *ManaWatcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.gained)
	clear(w.spent)
	w.condition = false
}

// Gained returns the mana credited to player.
func (w *ManaWatcher) Gained(player board.Cell) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gained[player]
}

// Spent returns the mana debited from player.
func (w *ManaWatcher) Spent(player board.Cell) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spent[player]
}

// StonesPlacedWatcher counts stones committed per colour, including stones
// returned by Honesty and fifth-move choices.
type StonesPlacedWatcher struct {
	base
	placed map[board.Cell]int
	undone map[board.Cell]int
}

// NewStonesPlacedWatcher creates a new stones placed watcher.
func NewStonesPlacedWatcher() *StonesPlacedWatcher {
	return &StonesPlacedWatcher{
		base:   base{key: "StonesPlacedWatcher"},
		placed: make(map[board.Cell]int),
		undone: make(map[board.Cell]int),
	}
}

// Watch implements the Watcher interface.
func (w *StonesPlacedWatcher) Watch(evt events.Event) {
	if !evt.Player.IsPlayer() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	switch evt.Type {
	case events.EventStonePlaced:
		w.placed[evt.Player]++
	case events.EventMoveUndone:
		w.undone[evt.Player]++
	default:
		return
	}
	w.condition = true
}

// Reset clears the watcher's state.
func (w *StonesPlacedWatcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.placed)
	clear(w.undone)
	w.condition = false
}

// Placed returns the stones of color committed, net of undos.
func (w *StonesPlacedWatcher) Placed(color board.Cell) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.placed[color] - w.undone[color]
}

// Source publishes engine events.
type Source interface {
	Subscribe(listener events.Listener) int
	Unsubscribe(handle int)
}

// Set feeds a group of watchers from one source and resets them whenever a
// new game starts.
type Set struct {
	mu       sync.Mutex
	watchers map[string]Watcher
	source   Source
	handle   int
	attached bool
}

// NewSet creates a set holding ws.
func NewSet(ws ...Watcher) *Set {
	s := &Set{watchers: make(map[string]Watcher, len(ws))}
	for _, w := range ws {
		s.watchers[w.Key()] = w
	}
	return s
}

// Attach subscribes the set to source. A set listens to one source at a time.
func (s *Set) Attach(source Source) {
	s.Detach()
	handle := source.Subscribe(s.dispatch)
	s.mu.Lock()
	s.source, s.handle, s.attached = source, handle, true
	s.mu.Unlock()
}

// Detach stops listening.
func (s *Set) Detach() {
	s.mu.Lock()
	source, handle, attached := s.source, s.handle, s.attached
	s.source, s.attached = nil, false
	s.mu.Unlock()
	if attached {
		source.Unsubscribe(handle)
	}
}

func (s *Set) dispatch(evt events.Event) {
	s.mu.Lock()
	ws := make([]Watcher, 0, len(s.watchers))
	for _, w := range s.watchers {
		ws = append(ws, w)
	}
	s.mu.Unlock()

	for _, w := range ws {
		if evt.Type == events.EventGameStarted {
			w.Reset()
			continue
		}
		w.Watch(evt)
	}
}

// Get returns the watcher registered under key.
func (s *Set) Get(key string) (Watcher, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.watchers[key]
	return w, ok
}

// Keys returns the registered keys in sorted order.
func (s *Set) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.watchers))
	for k := range s.watchers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
