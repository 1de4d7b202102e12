// Package ddfa lowers a dense dfa.DFA into a "direct" representation whose
// transitions are pre-resolved references to target states rather than
// indices, trading mutability and serializability for a branchless inner
// search loop: state = state.transitions[b] with no bounds check and no
// arithmetic to recover a state's address from an index.
package ddfa

import (
	"errors"

	"github.com/coregx/acmatch/automaton"
	"github.com/coregx/acmatch/dfa"
	"github.com/coregx/acmatch/nfa"
)

// ErrOffsetOutOfRange is returned by FromDFA if a DFA transition targets an
// index that is not a valid state in the source DFA, which would indicate
// a corrupted DFA rather than anything reachable through this module's own
// lowering pipeline.
var ErrOffsetOutOfRange = errors.New("ddfa: DFA transition targets an out-of-range state index")

// State is one DDFA state: a dense array of direct references to target
// states, a pre-computed is_final bit, and the pattern-ends list.
//
// The transitions array points into this DDFA's own states slice; that
// slice must never be resized or relocated after FromDFA returns; doing so
// would invalidate every pointer stored here. Search-time reads are safe
// to share across goroutines since nothing mutates after construction.
type State struct {
	transitions [256]*State
	isFinal     bool
	ends        []int
}

// IsFinal reports whether this state accepts at least one pattern.
func (s *State) IsFinal() bool {
	return s.isFinal
}

// Ends returns the pattern-ends list for this state, ascending by pattern
// number.
func (s *State) Ends() []int {
	return s.ends
}

// DDFA is the pointer-resolved automaton lowered from a dfa.DFA.
//
// states is allocated once by FromDFA and never appended to afterward, so
// every *State stored in a transitions array remains valid for the
// lifetime of the DDFA.
type DDFA struct {
	states      []*State
	start       *State
	stuck       *State
	patternLens []int
}

// FromDFA lowers d into a DDFA. The state array is allocated up front so
// every element has a stable address before any transitions array is
// populated, then every DFA transition index is resolved into a direct
// reference.
func FromDFA(d *dfa.DFA) (*DDFA, error) {
	n := d.NumStates()
	states := make([]*State, n)
	for i := range states {
		states[i] = &State{}
	}

	for i := 0; i < n; i++ {
		ends := d.Ends(nfa.StateID(i))
		states[i].isFinal = d.IsFinal(nfa.StateID(i))
		states[i].ends = ends

		for b := 0; b < 256; b++ {
			target := d.Transition(nfa.StateID(i), byte(b))
			if int(target) < 0 || int(target) >= n {
				return nil, ErrOffsetOutOfRange
			}
			states[i].transitions[b] = states[target]
		}
	}

	return &DDFA{
		states:      states,
		start:       states[nfa.START],
		stuck:       states[nfa.STUCK],
		patternLens: d.PatternLens(),
	}, nil
}

// NumStates returns the number of states in the DDFA.
func (d *DDFA) NumStates() int {
	return len(d.states)
}

// StartState implements automaton.Automaton[*State].
func (d *DDFA) StartState() *State {
	return d.start
}

// StuckState implements automaton.Automaton[*State].
func (d *DDFA) StuckState() *State {
	return d.stuck
}

// NextState implements automaton.Automaton[*State] with a single
// dereference and no bounds check.
func (d *DDFA) NextState(s *State, b byte) *State {
	return s.transitions[b]
}

// HasMatch implements automaton.Automaton[*State].
func (d *DDFA) HasMatch(s *State, k int) bool {
	return k < len(s.ends)
}

// GetMatch implements automaton.Automaton[*State].
func (d *DDFA) GetMatch(s *State, k int, textEndOffset int) automaton.Match {
	patternNo := s.ends[k]
	return automaton.Match{
		PatternNo: patternNo,
		Start:     textEndOffset - d.patternLens[patternNo],
		End:       textEndOffset,
	}
}
