package powerset

import (
	"github.com/coregx/acmatch/automaton"
	"github.com/coregx/acmatch/nfa"
)

// StartState implements automaton.Automaton[nfa.StateID].
func (d *DNFA) StartState() nfa.StateID {
	return nfa.START
}

// StuckState implements automaton.Automaton[nfa.StateID].
func (d *DNFA) StuckState() nfa.StateID {
	return nfa.STUCK
}

// NextState implements automaton.Automaton[nfa.StateID]. Bytes with no
// recorded transition implicitly target STUCK.
func (d *DNFA) NextState(s nfa.StateID, b byte) nfa.StateID {
	if target, ok := d.states[s].transitions[b]; ok {
		return target
	}
	return nfa.STUCK
}

// HasMatch implements automaton.Automaton[nfa.StateID].
func (d *DNFA) HasMatch(s nfa.StateID, k int) bool {
	return k < len(d.states[s].ends)
}

// GetMatch implements automaton.Automaton[nfa.StateID].
func (d *DNFA) GetMatch(s nfa.StateID, k int, textEndOffset int) automaton.Match {
	patternNo := d.states[s].ends[k]
	return automaton.Match{
		PatternNo: patternNo,
		Start:     textEndOffset - d.patternLens[patternNo],
		End:       textEndOffset,
	}
}
