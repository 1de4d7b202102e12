// Package prefilter provides fast candidate filtering for multi-pattern
// literal search.
//
// A prefilter is used to quickly reject positions in the haystack that cannot
// possibly start a match against any pattern in a dictionary. This provides
// dramatic speedup (10-100x) over scanning the full automaton, since we can
// use SIMD-accelerated search primitives on the raw pattern bytes instead.
//
// The package automatically selects the optimal prefilter strategy based on
// the dictionary:
//   - Single pattern, single byte → memchrPrefilter (SIMD byte search)
//   - Single pattern, len > 1 → memmemPrefilter (SIMD substring search)
//   - 2-32 patterns (len >= 3) → Teddy (SIMD multi-pattern, SSSE3-shaped)
//   - 33-64 patterns (len >= 3) → FatTeddy (SIMD multi-pattern, AVX2-shaped)
//   - Otherwise → nil (caller falls back to automaton scan)
//
// Every prefilter built by this package is constructed from exact, complete
// dictionary entries — there is no partial-literal extraction step as there
// would be for an engine that also supports wildcards or alternation.
// Consequently every prefilter returned by NewBuilder reports
// IsComplete() == true: a prefilter hit is already a verified match, and
// callers may skip automaton verification entirely.
//
// Example usage:
//
//	builder := prefilter.NewBuilder(patterns)
//	pf := builder.Build()
//	if pf != nil {
//	    pos := pf.Find(haystack, 0)
//	}
package prefilter

import (
	"github.com/coregx/acmatch/simd"
)

// fingerprintLenFor picks the Teddy/FatTeddy fingerprint width for the
// detected host CPU. A wider fingerprint rejects more false candidates per
// bucket probe at the cost of extra mask bytes to build and compare; that
// trade only pays for itself when the host can actually run the wider
// SIMD-shaped bucket layout the fingerprint was sized for.
func fingerprintLenFor(features simd.Features) int {
	switch {
	case features.HasAVX2:
		return 3
	case features.HasSSSE3:
		return 2
	default:
		return 1
	}
}

// Prefilter is used to quickly find candidate match positions before running
// the full automaton.
//
// Key methods:
//   - Find: returns the next candidate position
//   - IsComplete: indicates if prefilter match is sufficient (no verification needed)
//   - HeapBytes: returns memory usage for profiling
type Prefilter interface {
	// Find returns the index of the first candidate match starting at or after
	// 'start', or -1 if no candidate is found.
	//
	// Parameters:
	//   haystack - the byte buffer to search
	//   start - the starting position (must be >= 0 and <= len(haystack))
	//
	// Returns:
	//   index >= start if a candidate is found
	//   -1 if no candidate exists at or after start
	Find(haystack []byte, start int) int

	// IsComplete returns true if a prefilter match guarantees a full
	// dictionary match, requiring no further verification.
	//
	// Every prefilter built by this package reports true: all patterns it
	// is constructed from are exact, complete byte strings.
	IsComplete() bool

	// LiteralLen returns the length of the matched literal when IsComplete()
	// is true and all patterns share a uniform length.
	//
	// Returns:
	//   > 0 if all underlying patterns have the same length
	//   0 if the prefilter matches variable-length patterns
	LiteralLen() int

	// HeapBytes returns the number of bytes of heap memory used by this prefilter.
	HeapBytes() int
}

// MatchFinder is an optional interface for prefilters that can return
// the matched range directly, avoiding the need for further verification.
//
// This is particularly useful for multi-pattern prefilters like Teddy
// where the matched pattern length varies.
type MatchFinder interface {
	// FindMatch returns the start and end positions of the first match.
	// Returns (start, end) if found, (-1, -1) if not found.
	// The matched bytes are haystack[start:end].
	FindMatch(haystack []byte, start int) (start2, end int)
}

// Builder constructs the optimal prefilter for a set of dictionary patterns.
//
// Selection strategy (in order of preference):
//  1. Single pattern, len==1 → memchrPrefilter (fastest)
//  2. Single pattern, len>1 → memmemPrefilter (very fast)
//  3. 2-32 patterns, len>=3 → Teddy (SIMD multi-pattern)
//  4. 33-64 patterns, len>=3 → FatTeddy (wider SIMD multi-pattern)
//  5. Otherwise → nil (no prefilter, fall back to automaton scan)
type Builder struct {
	patterns [][]byte
}

// NewBuilder creates a new prefilter builder over the given patterns.
//
// patterns must be the exact, complete byte strings of the dictionary being
// matched — not prefix/suffix fragments extracted from a richer pattern
// language. A nil or empty slice is valid and causes Build to return nil.
func NewBuilder(patterns [][]byte) *Builder {
	return &Builder{patterns: patterns}
}

// Build constructs the best prefilter for the given patterns.
//
// Returns nil if no effective prefilter can be built (e.g., no patterns,
// or too many/too short patterns for the available strategies). A nil
// result means the caller should fall back to scanning the automaton
// directly.
func (b *Builder) Build() Prefilter {
	return selectPrefilter(b.patterns)
}

// selectPrefilter chooses the best prefilter strategy for a pattern set.
func selectPrefilter(patterns [][]byte) Prefilter {
	if len(patterns) == 0 {
		return nil
	}

	if len(patterns) == 1 {
		p := patterns[0]
		if len(p) == 0 {
			return nil
		}
		if len(p) == 1 {
			return newMemchrPrefilter(p[0], true)
		}
		return newMemmemPrefilter(p, true)
	}

	if minPatternLen(patterns) >= MinTeddyPatternLen {
		fpLen := fingerprintLenFor(simd.DetectFeatures())
		switch {
		case len(patterns) >= MinTeddyPatterns && len(patterns) <= MaxTeddyPatterns:
			cfg := DefaultTeddyConfig()
			cfg.FingerprintLen = fpLen
			if t := NewTeddy(patterns, cfg); t != nil {
				return t
			}
		case len(patterns) > MaxTeddyPatterns && len(patterns) <= MaxFatTeddyPatterns:
			cfg := DefaultFatTeddyConfig()
			cfg.FingerprintLen = fpLen
			if t := NewFatTeddy(patterns, cfg); t != nil {
				return t
			}
		}
	}

	return nil
}

// minPatternLen returns the minimum pattern length in the set.
// Returns max int if the set is empty.
func minPatternLen(patterns [][]byte) int {
	if len(patterns) == 0 {
		return int(^uint(0) >> 1)
	}

	minLength := len(patterns[0])
	for _, p := range patterns[1:] {
		if len(p) < minLength {
			minLength = len(p)
		}
	}
	return minLength
}

// memchrPrefilter wraps simd.Memchr as a Prefilter.
//
// This is the fastest prefilter, used when the dictionary contains exactly
// one pattern that is a single byte.
type memchrPrefilter struct {
	needle   byte
	complete bool
}

// newMemchrPrefilter creates a new Memchr-based prefilter.
func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{
		needle:   needle,
		complete: complete,
	}
}

// Find implements Prefilter.Find using simd.Memchr.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}

	idx := simd.Memchr(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}

	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchrPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchrPrefilter) HeapBytes() int {
	return 0
}

// memmemPrefilter wraps simd.Memmem as a Prefilter.
//
// Used when the dictionary contains exactly one pattern longer than a
// single byte.
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

// newMemmemPrefilter creates a new Memmem-based prefilter.
//
// The needle slice is copied to prevent aliasing issues.
func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	needleCopy := make([]byte, len(needle))
	copy(needleCopy, needle)

	return &memmemPrefilter{
		needle:   needleCopy,
		complete: complete,
	}
}

// Find implements Prefilter.Find using simd.Memmem.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}

	idx := simd.Memmem(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}

	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memmemPrefilter) HeapBytes() int {
	return len(p.needle)
}
