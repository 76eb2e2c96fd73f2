package fsm

import (
	"fmt"
	"sync"

	"github.com/turtacn/FlightStatus/pkg/errors"
)

type State string
type Event string

// Guard decides whether a transition may proceed. A false result rejects
// the event without running the handler or changing state.
type Guard func(event Event, args ...interface{}) bool

// Handler is executed when a transition occurs, before the new state is committed.
type Handler func(event Event, args ...interface{}) error

type transition struct {
	to      State
	guard   Guard
	handler Handler
}

// StateMachine is a table-driven state machine. Fire calls are serialized;
// Current never blocks on a running handler and keeps reporting the old
// state until the handler has returned successfully.
type StateMachine struct {
	fire sync.Mutex

	mu          sync.RWMutex
	current     State
	transitions map[State]map[Event]transition
}

func New(initial State) *StateMachine {
	return &StateMachine{
		current:     initial,
		transitions: make(map[State]map[Event]transition),
	}
}

func (sm *StateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// AddTransition registers from --event--> to. guard and handler may be nil.
// Self-transitions (from == to) are allowed and still run the handler.
func (sm *StateMachine) AddTransition(from, to State, event Event, guard Guard, handler Handler) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, ok := sm.transitions[from]; !ok {
		sm.transitions[from] = make(map[Event]transition)
	}
	sm.transitions[from][event] = transition{to: to, guard: guard, handler: handler}
}

// Can reports whether event has a registered transition from the current state.
// Guards are not evaluated.
func (sm *StateMachine) Can(event Event) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	_, ok := sm.transitions[sm.current][event]
	return ok
}

// Fire triggers a state transition and returns the resulting state.
// Handlers must not call Fire on the same machine.
func (sm *StateMachine) Fire(event Event, args ...interface{}) (State, error) {
	sm.fire.Lock()
	defer sm.fire.Unlock()

	sm.mu.RLock()
	from := sm.current
	t, ok := sm.transitions[from][event]
	sm.mu.RUnlock()

	if !ok {
		return from, fmt.Errorf("invalid transition from %s via %s", from, event)
	}

	if t.guard != nil && !t.guard(event, args...) {
		return from, errors.New(errors.ErrCodeTransitionRejected, "Fire",
			fmt.Sprintf("guard rejected %s from %s", event, from), nil)
	}

	if t.handler != nil {
		if err := t.handler(event, args...); err != nil {
			return from, err
		}
	}

	sm.mu.Lock()
	sm.current = t.to
	sm.mu.Unlock()
	return t.to, nil
}

// Personal.AI order the ending
