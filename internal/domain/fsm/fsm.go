// Package fsm evaluates declarative transition tables. Every state machine in
// the kernel is a named Table over its own state and event enumerations; a
// (state, event) pair absent from the table is illegal. There is no wildcard
// or default transition.
package fsm

import (
	"fmt"
	"sort"

	"github.com/jsamuelsen11/teamspace/internal/domain"
)

// Table maps state -> event -> next state.
type Table[S, E comparable] map[S]map[E]S

// CanTransition reports whether event is legal in state.
func CanTransition[S, E comparable](table Table[S, E], state S, event E) bool {
	_, ok := table[state][event]
	return ok
}

// Transition returns the state reached by applying event in state. Illegal
// pairs fail with a domain error coded INVALID_TRANSITION carrying the
// currentState and eventType details.
func Transition[S, E comparable](table Table[S, E], state S, event E) (S, error) {
	next, ok := table[state][event]
	if !ok {
		var zero S
		return zero, domain.InvalidTransition(fmt.Sprint(state), fmt.Sprint(event))
	}
	return next, nil
}

// Machine is a named transition table.
type Machine[S, E comparable] struct {
	name  string
	table Table[S, E]
}

// NewMachine copies table so later edits to the literal cannot change the machine.
func NewMachine[S, E comparable](name string, table Table[S, E]) Machine[S, E] {
	cp := make(Table[S, E], len(table))
	for state, events := range table {
		row := make(map[E]S, len(events))
		for e, next := range events {
			row[e] = next
		}
		cp[state] = row
	}
	return Machine[S, E]{name: name, table: cp}
}

func (m Machine[S, E]) Name() string { return m.name }

func (m Machine[S, E]) Can(state S, event E) bool {
	return CanTransition(m.table, state, event)
}

// Next applies event in state. The returned error names the machine.
func (m Machine[S, E]) Next(state S, event E) (S, error) {
	next, err := Transition(m.table, state, event)
	if err != nil {
		return next, fmt.Errorf("%s: %w", m.name, err)
	}
	return next, nil
}

// Events returns the events legal in state, sorted by their string form.
func (m Machine[S, E]) Events(state S) []E {
	events := make([]E, 0, len(m.table[state]))
	for e := range m.table[state] {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return fmt.Sprint(events[i]) < fmt.Sprint(events[j]) })
	return events
}

// IsTerminal reports whether no event is legal in state.
func (m Machine[S, E]) IsTerminal(state S) bool {
	return len(m.table[state]) == 0
}
