// Package dictionary owns the ordered set of byte-string patterns that a
// matcher is built from.
//
// A Dictionary never changes after construction: pattern numbers are the
// 0-based insertion order of each pattern, and that numbering is relied on
// by every automaton lowering (NFA, powerset, DFA, DDFA) to recover a
// match's start offset from its end offset and pattern number.
package dictionary

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned by New when given no patterns at all.
var ErrEmpty = errors.New("dictionary: at least one pattern is required")

// Dictionary is an ordered, immutable list of byte-string patterns.
//
// Duplicate patterns are permitted: they simply receive distinct pattern
// numbers that end in the same automaton state.
type Dictionary struct {
	patterns [][]byte
}

// New creates a Dictionary from the given patterns, preserving order.
//
// Each pattern is copied so the caller's backing arrays may be reused or
// mutated afterward. Returns ErrEmpty if patterns is empty; a dictionary of
// only empty-string patterns is valid (it matches at START with zero
// length).
func New(patterns [][]byte) (*Dictionary, error) {
	if len(patterns) == 0 {
		return nil, ErrEmpty
	}

	owned := make([][]byte, len(patterns))
	for i, p := range patterns {
		owned[i] = append([]byte(nil), p...)
	}

	return &Dictionary{patterns: owned}, nil
}

// Len returns the number of patterns in the dictionary.
func (d *Dictionary) Len() int {
	return len(d.patterns)
}

// Pattern returns the byte string for the given pattern number.
//
// Panics if patternNo is out of range; pattern numbers are always produced
// by this package's own construction, so an out-of-range value indicates a
// programming error upstream, not bad input.
func (d *Dictionary) Pattern(patternNo int) []byte {
	if patternNo < 0 || patternNo >= len(d.patterns) {
		panic(fmt.Sprintf("dictionary: pattern number %d out of range [0,%d)", patternNo, len(d.patterns)))
	}
	return d.patterns[patternNo]
}

// PatternLen returns the byte length of the given pattern number, used to
// recover a match's start offset as end-PatternLen(patternNo).
func (d *Dictionary) PatternLen(patternNo int) int {
	return len(d.Pattern(patternNo))
}

// Patterns returns all patterns in insertion order. The returned slice and
// its elements must not be mutated by the caller.
func (d *Dictionary) Patterns() [][]byte {
	return d.patterns
}
