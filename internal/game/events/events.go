package events

import (
	"sort"
	"sync"
	"time"

	"github.com/gobangfree/gobang-server-go/internal/game/board"
)

// EventType indicates the category of an engine event.
type EventType string

const (
	// Game lifecycle
	EventGameStarted EventType = "GAME_STARTED"
	EventModeChanged EventType = "MODE_CHANGED"
	EventGameOver    EventType = "GAME_OVER"

	// Board events
	EventStonePlaced   EventType = "STONE_PLACED"
	EventMoveUndone    EventType = "MOVE_UNDONE"
	EventForbiddenMove EventType = "FORBIDDEN_MOVE"

	// Opening events
	EventPhaseChanged  EventType = "PHASE_CHANGED"
	EventColorsSwapped EventType = "COLORS_SWAPPED"
	EventSwapDeclined  EventType = "SWAP_DECLINED"
	EventFiveOffered   EventType = "FIVE_OFFERED"
	EventFiveChosen    EventType = "FIVE_CHOSEN"

	// Turn events
	EventTurnChanged     EventType = "TURN_CHANGED"
	EventExtraTurnOpened EventType = "EXTRA_TURN_OPENED"

	// Mana events
	EventManaGained EventType = "MANA_GAINED"
	EventManaSpent  EventType = "MANA_SPENT"

	// Skill events
	EventSkillCast            EventType = "SKILL_CAST"
	EventSkillSelectionArmed  EventType = "SKILL_SELECTION_ARMED"
	EventSkillSelectionCancel EventType = "SKILL_SELECTION_CANCELLED"
	EventCounterWindowOpened  EventType = "COUNTER_WINDOW_OPENED"
	EventCounterWindowClosed  EventType = "COUNTER_WINDOW_CLOSED"
	EventReverseUnlocked      EventType = "REVERSE_UNLOCKED"
)

// Event is a change notification emitted by the engine after an operation commits.
type Event struct {
	Type      EventType
	GameID    string          // Session the event belongs to
	Epoch     uint64          // Game epoch at emission
	Player    board.Cell      // Acting or affected player, Empty when none
	Position  *board.Position // Cell involved, if any
	Amount    int             // Numeric value (mana, offer index, etc.)
	Data      string          // Additional string data (skill id, phase name, ...)
	Timestamp time.Time       // Stamped by the engine clock on emission
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type typedListener struct {
	handle    int
	eventType EventType
	callback  Listener
}

// Bus provides a synchronous publish/subscribe implementation with type filtering.
// Listeners are invoked without the bus lock held, so they may subscribe or
// unsubscribe from inside a callback.
type Bus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]typedListener
	nextHandle     int
}

// NewBus constructs a fresh event bus instance.
func NewBus() *Bus {
	return &Bus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]typedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *Bus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *Bus) SubscribeTyped(eventType EventType, callback Listener) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], typedListener{
		handle:    handle,
		eventType: eventType,
		callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *Bus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously,
// catch-all listeners first in subscription order.
func (bus *Bus) Publish(event Event) {
	bus.mu.RLock()
	handles := make([]int, 0, len(bus.listeners))
	for handle := range bus.listeners {
		handles = append(handles, handle)
	}
	sort.Ints(handles)
	callbacks := make([]Listener, 0, len(handles)+len(bus.typedListeners[event.Type]))
	for _, handle := range handles {
		callbacks = append(callbacks, bus.listeners[handle])
	}
	for _, listener := range bus.typedListeners[event.Type] {
		callbacks = append(callbacks, listener.callback)
	}
	bus.mu.RUnlock()

	for _, callback := range callbacks {
		callback(event)
	}
}

// PublishBatch publishes multiple events in order.
func (bus *Bus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}

// NewEvent creates a new event with common fields populated. The
// timestamp is left for the emitter.
func NewEvent(eventType EventType, player board.Cell) Event {
	return Event{
		Type:   eventType,
		Player: player,
	}
}

// NewEventAt creates a new event tied to a board position.
func NewEventAt(eventType EventType, player board.Cell, pos board.Position) Event {
	evt := NewEvent(eventType, player)
	evt.Position = &pos
	return evt
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, player board.Cell, amount int) Event {
	evt := NewEvent(eventType, player)
	evt.Amount = amount
	return evt
}

// Queue buffers events raised while the engine holds its lock so they can
// be published once the lock is released.
type Queue struct {
	events []Event
}

// Push appends an event.
func (q *Queue) Push(event Event) {
	q.events = append(q.events, event)
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Drain returns the buffered events in order and empties the queue.
func (q *Queue) Drain() []Event {
	drained := q.events
	q.events = nil
	return drained
}
