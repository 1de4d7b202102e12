package nfa

import (
	"sort"

	"github.com/coregx/acmatch/automaton"
	"github.com/coregx/acmatch/internal/conv"
	"github.com/coregx/acmatch/internal/sparse"
)

// StateSet is the NFA's traversal state for the automaton.Automaton
// contract: the deduplicated set of NFA states active after consuming
// some prefix of the input, in the order step discovered them (not sorted). Driving the NFA directly through
// the match iterator (rather than through a pre-built deterministic
// automaton) computes this subset on the fly, one step at a time,
// matching Apply's semantics exactly.
type StateSet struct {
	ids []StateID
}

// Live implements automaton.Automaton[StateSet] over *NFA, letting the
// match iterator (and the lowering-equivalence property it is used to
// test) drive an NFA exactly like any deterministic automaton.
type Live struct {
	n *NFA
}

// AsAutomaton adapts n to the automaton.Automaton[StateSet] contract.
func (n *NFA) AsAutomaton() Live {
	return Live{n: n}
}

// StartState implements automaton.Automaton.
func (l Live) StartState() StateSet {
	return StateSet{ids: []StateID{START}}
}

// StuckState implements automaton.Automaton.
func (l Live) StuckState() StateSet {
	return StateSet{}
}

// NextState implements automaton.Automaton, computing the union of
// transitions on b over every state in s.
func (l Live) NextState(s StateSet, b byte) StateSet {
	if len(s.ids) == 0 {
		return s
	}
	return StateSet{ids: l.n.step(s.ids, b)}
}

// HasMatch implements automaton.Automaton.
func (l Live) HasMatch(s StateSet, k int) bool {
	return k < len(l.collectEnds(s))
}

// GetMatch implements automaton.Automaton.
func (l Live) GetMatch(s StateSet, k int, textEndOffset int) automaton.Match {
	patternNo := l.collectEnds(s)[k]
	return automaton.Match{
		PatternNo: patternNo,
		Start:     textEndOffset - l.n.PatternLen(patternNo),
		End:       textEndOffset,
	}
}

func (l Live) collectEnds(s StateSet) []int {
	seen := sparse.NewSparseSet(conv.IntToUint32(len(l.n.patternLens)))
	var ends []int
	for _, id := range s.ids {
		for _, p := range l.n.Ends(id) {
			pu := conv.IntToUint32(p)
			if !seen.Contains(pu) {
				seen.Insert(pu)
				ends = append(ends, p)
			}
		}
	}
	sort.Ints(ends)
	return ends
}
