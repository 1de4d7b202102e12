// Package nfa builds a nondeterministic trie automaton from a pattern
// dictionary and implements the pre/post-fix self-loop transformations that
// turn a pure-match trie into a streaming-search automaton.
//
// This is the source of truth for the whole lattice of automata in this
// module: powerset construction (package powerset) and every further
// lowering (package dfa, package dfa/ddfa) start from an *NFA built here.
package nfa

import (
	"sort"

	"github.com/coregx/acmatch/dictionary"
	"github.com/coregx/acmatch/internal/conv"
	"github.com/coregx/acmatch/internal/sparse"
)

// StateID uniquely identifies an NFA state.
type StateID uint32

// Reserved state identifiers, stable across every lowering derived from
// this NFA.
const (
	START StateID = 0
	STUCK StateID = 1
)

// state holds one NFA state: a sparse, nondeterministic mapping from byte
// to the set of next-state identifiers, plus the pattern numbers that end
// here in ascending order.
type state struct {
	transitions map[byte][]StateID
	ends        []int
}

func newState() *state {
	return &state{transitions: make(map[byte][]StateID)}
}

func (s *state) addTransition(b byte, target StateID) {
	for _, t := range s.transitions[b] {
		if t == target {
			return
		}
	}
	s.transitions[b] = append(s.transitions[b], target)
}

// NFA is a nondeterministic byte automaton built as a trie over a pattern
// dictionary, optionally widened by IgnorePrefixes/IgnorePostfixes.
type NFA struct {
	states      []*state
	alphabet    map[byte]bool
	patternLens []int
}

// FromDictionary builds the trie NFA for d: states 0 (START) and 1 (STUCK)
// are always allocated first with no transitions, then every pattern is
// walked byte by byte from START, reusing existing trie edges and
// allocating new states only where the walk diverges from previously
// inserted patterns.
//
// Construction is infallible: d is guaranteed non-empty by
// dictionary.New, and an empty-string pattern simply marks START as
// accepting.
func FromDictionary(d *dictionary.Dictionary) *NFA {
	n := &NFA{
		states:      []*state{newState(), newState()}, // START, STUCK
		alphabet:    make(map[byte]bool),
		patternLens: make([]int, d.Len()),
	}

	for i := 0; i < d.Len(); i++ {
		pattern := d.Pattern(i)
		n.patternLens[i] = len(pattern)

		cur := START
		for _, b := range pattern {
			n.alphabet[b] = true

			targets := n.states[cur].transitions[b]
			if len(targets) == 1 {
				cur = targets[0]
				continue
			}

			next := n.allocState()
			n.states[cur].addTransition(b, next)
			cur = next
		}

		n.states[cur].ends = append(n.states[cur].ends, i)
	}

	return n
}

func (n *NFA) allocState() StateID {
	id := StateID(conv.IntToUint32(len(n.states)))
	n.states = append(n.states, newState())
	return id
}

// NumStates returns the number of allocated states, including START and
// STUCK.
func (n *NFA) NumStates() int {
	return len(n.states)
}

// Alphabet returns the sorted, deduplicated set of bytes with at least one
// transition anywhere in the automaton.
func (n *NFA) Alphabet() []byte {
	out := make([]byte, 0, len(n.alphabet))
	for b := range n.alphabet {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PatternLen returns the byte length of the given pattern number, retained
// from the dictionary used in FromDictionary so later stages can recover a
// match's start offset without holding a reference to the dictionary
// itself.
func (n *NFA) PatternLen(patternNo int) int {
	return n.patternLens[patternNo]
}

// PatternLens returns the full table of pattern lengths indexed by pattern
// number, for lowerings that need to carry it forward unmodified.
func (n *NFA) PatternLens() []int {
	return n.patternLens
}

// IgnorePrefixes adds a self-loop on START over every byte 0..255,
// widening the alphabet to the full byte range. Applying this turns a
// pure dictionary-match automaton into one that matches patterns occurring
// anywhere in the input (the Σ* prefix of a pattern-matching regex).
//
// Safe to call before or after IgnorePostfixes; the two compose
// commutatively.
func (n *NFA) IgnorePrefixes() {
	n.expandAlphabet()
	for b := 0; b < 256; b++ {
		n.states[START].addTransition(byte(b), START)
	}
}

// IgnorePostfixes adds a self-loop on every accepting state over every
// byte 0..255: once a pattern is recognized, the automaton remains
// accepting forever.
//
// Safe to call before or after IgnorePrefixes; the two compose
// commutatively.
func (n *NFA) IgnorePostfixes() {
	n.expandAlphabet()
	for id, s := range n.states {
		if len(s.ends) == 0 {
			continue
		}
		for b := 0; b < 256; b++ {
			s.addTransition(byte(b), StateID(id))
		}
	}
}

func (n *NFA) expandAlphabet() {
	for b := 0; b < 256; b++ {
		n.alphabet[byte(b)] = true
	}
}

// Apply evaluates the NFA against input starting from {START}, tracking
// the set of active states, and returns the pattern numbers ending in the
// final active set in ascending order.
//
// If the active set becomes empty before input is exhausted, the walk
// stops early: an empty active set can never become non-empty again, so
// continuing would be wasted work.
func (n *NFA) Apply(input []byte) []int {
	active := []StateID{START}

	for _, b := range input {
		if len(active) == 0 {
			break
		}
		active = n.step(active, b)
	}

	return n.collectEnds(active)
}

// step computes the union of transitions on byte b over every state in
// active, deduplicated via a sparse set keyed on state id. The result keeps
// discovery order; it is not sorted.
func (n *NFA) step(active []StateID, b byte) []StateID {
	seen := sparse.NewSparseSet(conv.IntToUint32(len(n.states)))
	next := make([]StateID, 0, len(active))
	for _, id := range active {
		for _, t := range n.states[id].transitions[b] {
			tu := uint32(t)
			if !seen.Contains(tu) {
				seen.Insert(tu)
				next = append(next, t)
			}
		}
	}
	return next
}

// collectEnds gathers the union of pattern-ends lists across active,
// sorted ascending by pattern number.
func (n *NFA) collectEnds(active []StateID) []int {
	seen := sparse.NewSparseSet(conv.IntToUint32(len(n.patternLens)))
	var ends []int
	for _, id := range active {
		for _, p := range n.states[id].ends {
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

// Transitions returns the nondeterministic transition set for state s on
// byte b, used by the powerset construction to build deterministic
// subsets.
func (n *NFA) Transitions(s StateID, b byte) []StateID {
	return n.states[s].transitions[b]
}

// Ends returns the pattern-ends list for state s, already in ascending
// order because patterns are inserted in ascending pattern-number order
// during FromDictionary.
func (n *NFA) Ends(s StateID) []int {
	return n.states[s].ends
}
