// Package matchiter drives any automaton.Automaton over an input byte
// slice and yields successive non-overlapping matches.
//
// It is written entirely against the automaton.Automaton[S] contract, so
// the same iterator logic drives an NFA, a powerset DNFA, a dense DFA, or
// a pointer-resolved DDFA identically — this is what makes the
// lowering-equivalence property testable: swap the automaton, keep the
// iterator.
package matchiter

import (
	"iter"

	"github.com/coregx/acmatch/automaton"
)

// Iterator is the non-generic interface Matcher exposes, hiding the
// concrete automaton state type S behind the package boundary.
type Iterator interface {
	// Next returns the next non-overlapping match, or (zero, false) once
	// the input is exhausted without a further match.
	Next() (automaton.Match, bool)

	// All adapts Next into a Go 1.23 range-over-func sequence, for
	// callers that prefer `for m := range it.All()`.
	All() iter.Seq[automaton.Match]
}

// iterator is the generic implementation of Iterator over a specific
// automaton state type S.
type iterator[S any] struct {
	auto   automaton.Automaton[S]
	input  []byte
	offset int
	state  S
}

// New returns a match iterator driving auto over input, per COMPONENT
// DESIGN 4.5: state begins at auto.StartState(), and each yielded match
// resets traversal back to StartState so the next Next() call begins
// fresh. This enforces non-overlap at the state level — one call to
// Next() returns at most the first match ending at the current offset.
func New[S any](auto automaton.Automaton[S], input []byte) Iterator {
	return &iterator[S]{
		auto:  auto,
		input: input,
		state: auto.StartState(),
	}
}

// Next implements Iterator.
func (it *iterator[S]) Next() (automaton.Match, bool) {
	for it.offset < len(it.input) {
		b := it.input[it.offset]
		it.state = it.auto.NextState(it.state, b)
		it.offset++

		if it.auto.HasMatch(it.state, 0) {
			// Tie-break per COMPONENT DESIGN 4.5: patterns ending at the
			// same offset are ordered ascending by pattern number in the
			// state's pattern-ends list, so index 0 is the earliest.
			m := it.auto.GetMatch(it.state, 0, it.offset)
			it.state = it.auto.StartState()
			return m, true
		}
	}
	var zero automaton.Match
	return zero, false
}

// All implements Iterator.
func (it *iterator[S]) All() iter.Seq[automaton.Match] {
	return func(yield func(automaton.Match) bool) {
		for {
			m, ok := it.Next()
			if !ok {
				return
			}
			if !yield(m) {
				return
			}
		}
	}
}
