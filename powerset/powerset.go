// Package powerset lifts a nondeterministic automaton (package nfa) into a
// deterministic one via the classical subset construction, preserving
// per-state pattern-ends metadata.
//
// The result is deterministic "in content" but still expressed in NFA-like
// shape (sparse per-byte transitions rather than a dense table); package
// dfa lowers it further into a dense representation.
package powerset

import (
	"hash/fnv"
	"sort"

	"github.com/coregx/acmatch/internal/conv"
	"github.com/coregx/acmatch/nfa"
)

// State is one state of the deterministic automaton produced by
// Construct: a sparse mapping from byte to a single target state, plus the
// pattern numbers ending here in ascending order.
type State struct {
	transitions map[byte]nfa.StateID
	ends        []int
}

// Transitions returns the deterministic transition map for this state. A
// byte absent from the map implicitly targets STUCK.
func (s *State) Transitions() map[byte]nfa.StateID {
	return s.transitions
}

// Ends returns the pattern-ends list for this state, ascending by pattern
// number.
func (s *State) Ends() []int {
	return s.ends
}

// DNFA is the deterministic automaton produced by subset construction: a
// state array indexed by nfa.StateID, reusing the same reserved
// START/STUCK identifiers as the source NFA.
type DNFA struct {
	states      []*State
	alphabet    []byte
	patternLens []int
}

// NumStates returns the number of allocated deterministic states.
func (d *DNFA) NumStates() int {
	return len(d.states)
}

// State returns the deterministic state at index id.
func (d *DNFA) State(id nfa.StateID) *State {
	return d.states[id]
}

// Alphabet returns the byte alphabet the construction iterated over, taken
// from the source NFA at construction time.
func (d *DNFA) Alphabet() []byte {
	return d.alphabet
}

// PatternLens returns the pattern-length table carried forward from the
// source NFA, indexed by pattern number.
func (d *DNFA) PatternLens() []int {
	return d.patternLens
}

// subsetKey canonically identifies a sorted, deduplicated set of NFA state
// IDs for the subset -> deterministic-state lookup table. Collisions
// across distinct subsets are resolved by comparing the sorted ID slices
// directly; the FNV-1a hash only narrows the candidate set.
type subsetKey struct {
	hash uint64
	ids  string // sorted StateIDs packed 4 bytes each, used for exact comparison
}

func canonicalKey(sorted []nfa.StateID) subsetKey {
	h := fnv.New64a()
	buf := make([]byte, 0, len(sorted)*4)
	for _, id := range sorted {
		buf = append(buf, byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
	}
	_, _ = h.Write(buf)
	return subsetKey{hash: h.Sum64(), ids: string(buf)}
}

// Construct performs the classical subset construction over n, described
// in COMPONENT DESIGN 4.2: a worklist-driven (not recursive) traversal
// that builds one deterministic state per distinct reachable subset of n's
// states.
//
// The subset-to-index table is pre-seeded so the empty subset, {STUCK},
// and {START} collapse onto the two reserved deterministic states.
func Construct(n *nfa.NFA) *DNFA {
	d := &DNFA{
		states:      make([]*State, 2, n.NumStates()),
		alphabet:    n.Alphabet(),
		patternLens: n.PatternLens(),
	}
	d.states[nfa.START] = &State{transitions: make(map[byte]nfa.StateID), ends: append([]int(nil), n.Ends(nfa.START)...)}
	d.states[nfa.STUCK] = &State{transitions: make(map[byte]nfa.StateID)}

	subsetToState := make(map[subsetKey]nfa.StateID)
	subsetToState[canonicalKey(nil)] = nfa.STUCK
	subsetToState[canonicalKey([]nfa.StateID{nfa.STUCK})] = nfa.STUCK
	subsetToState[canonicalKey([]nfa.StateID{nfa.START})] = nfa.START

	type work struct {
		subset   []nfa.StateID
		detState nfa.StateID
	}
	stack := []work{{subset: []nfa.StateID{nfa.START}, detState: nfa.START}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, b := range d.alphabet {
			next := unionTransitions(n, top.subset, b)
			sorted := canonicalize(next)
			key := canonicalKey(sorted)

			detNext, ok := subsetToState[key]
			if !ok {
				ends := unionEnds(n, sorted)
				detNext = nfa.StateID(conv.IntToUint32(len(d.states)))
				d.states = append(d.states, &State{
					transitions: make(map[byte]nfa.StateID),
					ends:        ends,
				})
				subsetToState[key] = detNext
				stack = append(stack, work{subset: sorted, detState: detNext})
			}

			if detNext != nfa.STUCK {
				d.states[top.detState].transitions[b] = detNext
			}
		}
	}

	return d
}

// unionTransitions computes ⋃ { n.Transitions(s, b) : s ∈ subset }.
func unionTransitions(n *nfa.NFA, subset []nfa.StateID, b byte) []nfa.StateID {
	var next []nfa.StateID
	for _, s := range subset {
		next = append(next, n.Transitions(s, b)...)
	}
	return next
}

// unionEnds computes ⋃ { n.Ends(s) : s ∈ subset }, ascending by pattern
// number.
func unionEnds(n *nfa.NFA, subset []nfa.StateID) []int {
	seen := make(map[int]bool)
	var ends []int
	for _, s := range subset {
		for _, p := range n.Ends(s) {
			if !seen[p] {
				seen[p] = true
				ends = append(ends, p)
			}
		}
	}
	sort.Ints(ends)
	return ends
}

// canonicalize sorts and deduplicates ids, producing the canonical
// ordering required for subset lookup-key equality.
func canonicalize(ids []nfa.StateID) []nfa.StateID {
	if len(ids) == 0 {
		return nil
	}
	sorted := append([]nfa.StateID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := sorted[:1]
	for _, id := range sorted[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
