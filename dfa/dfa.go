// Package dfa lowers the deterministic automaton produced by powerset
// construction into a dense, table-driven representation: every state
// carries a full 256-entry transition array instead of a sparse map, so
// the search loop never branches on "was this byte observed".
package dfa

import (
	"errors"

	"github.com/coregx/acmatch/automaton"
	"github.com/coregx/acmatch/nfa"
	"github.com/coregx/acmatch/powerset"
)

// ErrNonDeterministic is returned by FromDeterministic if a source state's
// transition set on some byte has more than one target. The powerset
// package's DNFA type represents transitions as a single StateID per byte
// by construction, so in this module the condition this guards against is
// unreachable; the error is retained because other producers of a
// deterministic automaton (e.g. one expressed directly in NFA shape) may
// not offer that static guarantee.
var ErrNonDeterministic = errors.New("dfa: source state has more than one transition on a single byte")

// State is one DFA state: a dense 256-entry transition array plus the
// pattern numbers accepted here, ascending by pattern number.
type State struct {
	transitions [256]nfa.StateID
	ends        []int
}

// DFA is the dense, table-driven automaton lowered from a powerset.DNFA.
type DFA struct {
	states      []State
	finals      []bool
	patternLens []int
}

// FromDeterministic lowers d into a dense DFA. For each deterministic
// state, every byte in the alphabet gets its recorded target and every
// other byte gets STUCK.
func FromDeterministic(d *powerset.DNFA) (*DFA, error) {
	out := &DFA{
		states:      make([]State, d.NumStates()),
		finals:      make([]bool, d.NumStates()),
		patternLens: d.PatternLens(),
	}

	for id := 0; id < d.NumStates(); id++ {
		src := d.State(nfa.StateID(id))

		var dense [256]nfa.StateID
		for b := 0; b < 256; b++ {
			dense[b] = nfa.STUCK
		}
		for b, target := range src.Transitions() {
			dense[b] = target
		}

		out.states[id] = State{transitions: dense, ends: src.Ends()}
		out.finals[id] = len(src.Ends()) > 0
	}

	return out, nil
}

// NumStates returns the number of states in the DFA.
func (d *DFA) NumStates() int {
	return len(d.states)
}

// IsFinal reports whether state id is accepting.
func (d *DFA) IsFinal(id nfa.StateID) bool {
	return d.finals[id]
}

// Transition returns the dense transition target for state id on byte b.
func (d *DFA) Transition(id nfa.StateID, b byte) nfa.StateID {
	return d.states[id].transitions[b]
}

// Ends returns the pattern-ends list for state id.
func (d *DFA) Ends(id nfa.StateID) []int {
	return d.states[id].ends
}

// PatternLens returns the pattern-length table carried forward from the
// source automaton.
func (d *DFA) PatternLens() []int {
	return d.patternLens
}

// StartState implements automaton.Automaton[nfa.StateID].
func (d *DFA) StartState() nfa.StateID {
	return nfa.START
}

// StuckState implements automaton.Automaton[nfa.StateID].
func (d *DFA) StuckState() nfa.StateID {
	return nfa.STUCK
}

// NextState implements automaton.Automaton[nfa.StateID].
func (d *DFA) NextState(s nfa.StateID, b byte) nfa.StateID {
	return d.states[s].transitions[b]
}

// HasMatch implements automaton.Automaton[nfa.StateID].
func (d *DFA) HasMatch(s nfa.StateID, k int) bool {
	return k < len(d.states[s].ends)
}

// GetMatch implements automaton.Automaton[nfa.StateID].
func (d *DFA) GetMatch(s nfa.StateID, k int, textEndOffset int) automaton.Match {
	patternNo := d.states[s].ends[k]
	return automaton.Match{
		PatternNo: patternNo,
		Start:     textEndOffset - d.patternLens[patternNo],
		End:       textEndOffset,
	}
}
