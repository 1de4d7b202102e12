// Package acmatch implements multi-pattern exact string search over a
// finite-automaton pipeline: a dictionary of literal patterns is compiled
// into a trie NFA, determinized by powerset construction, and lowered into
// a dense DFA (optionally a pointer-resolved DDFA) for search.
//
// A Matcher is built once from a fixed pattern dictionary and then reused
// to scan any number of inputs concurrently; nothing about a built Matcher
// mutates after Build returns.
package acmatch

import (
	"github.com/coregx/acmatch/automaton"
	"github.com/coregx/acmatch/dfa"
	"github.com/coregx/acmatch/dfa/ddfa"
	"github.com/coregx/acmatch/dictionary"
	"github.com/coregx/acmatch/matchiter"
	"github.com/coregx/acmatch/nfa"
	"github.com/coregx/acmatch/powerset"
	"github.com/coregx/acmatch/prefilter"
)

// Matcher searches input byte slices for occurrences of any pattern in a
// fixed dictionary, reporting each match's pattern number and byte range.
type Matcher struct {
	dict *dictionary.Dictionary
	pf   prefilter.Prefilter

	// Exactly one of these is non-nil, selected by config.level at Build
	// time; Find dispatches on whichever is set.
	liveNFA nfa.Live
	dfa     *dfa.DFA
	ddfa    *ddfa.DDFA

	level Level
}

// Build compiles patterns into a Matcher. Pattern numbers are the 0-based
// order patterns appear in, and that numbering is stable across every
// operation the Matcher exposes.
//
// Returns dictionary.ErrEmpty if patterns is empty. Construction errors
// from the lowering pipeline (dfa.ErrNonDeterministic, ddfa.ErrOffsetOutOfRange)
// are not expected to occur for any NFA produced by this package's own
// construction, but are surfaced rather than ignored.
func Build(patterns [][]byte, opts ...BuildOption) (*Matcher, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	d, err := dictionary.New(patterns)
	if err != nil {
		return nil, err
	}

	n := nfa.FromDictionary(d)
	if cfg.ignorePrefixes {
		n.IgnorePrefixes()
	}
	if cfg.ignorePostfixes {
		n.IgnorePostfixes()
	}

	m := &Matcher{
		dict:  d,
		level: cfg.level,
	}

	// A prefilter searches for a pattern occurring anywhere in the
	// haystack — the same semantics as ignore_prefixes. With
	// ignore_prefixes disabled, Find only reports patterns starting at
	// offset 0 or right where the previous match ended, so a prefilter
	// hit would disagree with Find on inputs
	// like "abc" against pattern "bc"; only wire the fast path when the
	// automaton itself searches unanchored.
	if cfg.ignorePrefixes {
		m.pf = prefilter.NewBuilder(d.Patterns()).Build()
	}

	if cfg.level == LevelNFA {
		m.liveNFA = n.AsAutomaton()
		return m, nil
	}

	denseDFA, err := dfa.FromDeterministic(powerset.Construct(n))
	if err != nil {
		return nil, err
	}
	if cfg.level == LevelDFA {
		m.dfa = denseDFA
		return m, nil
	}

	direct, err := ddfa.FromDFA(denseDFA)
	if err != nil {
		return nil, err
	}
	m.ddfa = direct
	return m, nil
}

// Find returns an iterator over every non-overlapping match in input, in
// left-to-right order. The iterator is driven by whichever automaton
// representation Build settled on; callers never need to know which.
func (m *Matcher) Find(input []byte) matchiter.Iterator {
	switch m.level {
	case LevelNFA:
		return matchiter.New[nfa.StateSet](m.liveNFA, input)
	case LevelDFA:
		return matchiter.New[nfa.StateID](m.dfa, input)
	default:
		return matchiter.New[*ddfa.State](m.ddfa, input)
	}
}

// ContainsAny reports whether input contains an occurrence of any pattern
// in the dictionary, agreeing with whether Find(input) yields at least
// one match.
//
// When a prefilter is available it is used directly: every prefilter this
// package builds is constructed from the dictionary's exact, complete
// patterns, so a prefilter hit (IsComplete() == true) already is a
// verified match and the automaton need never run. Build only installs a
// prefilter when ignore_prefixes is enabled, since a prefilter searches
// unanchored; with ignore_prefixes disabled this always falls back to
// driving the automaton to its first match, without allocating a full
// match iterator's bookkeeping.
func (m *Matcher) ContainsAny(input []byte) bool {
	if m.pf != nil {
		return m.pf.Find(input, 0) != -1
	}
	return m.scanForMatch(input)
}

// scanForMatch drives the Matcher's automaton over input and reports
// whether any accepting state is reached, stopping at the first one.
func (m *Matcher) scanForMatch(input []byte) bool {
	switch m.level {
	case LevelNFA:
		return hasMatch[nfa.StateSet](m.liveNFA, input)
	case LevelDFA:
		return hasMatch[nfa.StateID](m.dfa, input)
	default:
		return hasMatch[*ddfa.State](m.ddfa, input)
	}
}

// hasMatch walks auto over input looking for the first accepting state,
// independent of which concrete automaton representation backs it.
func hasMatch[S any](auto automaton.Automaton[S], input []byte) bool {
	s := auto.StartState()
	for _, b := range input {
		s = auto.NextState(s, b)
		if auto.HasMatch(s, 0) {
			return true
		}
	}
	return false
}

// Dictionary returns the pattern dictionary this Matcher was built from.
func (m *Matcher) Dictionary() *dictionary.Dictionary {
	return m.dict
}

// NumPatterns returns the number of patterns in the Matcher's dictionary.
func (m *Matcher) NumPatterns() int {
	return m.dict.Len()
}
