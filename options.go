package acmatch

// Level selects which automaton representation Build lowers the
// dictionary down to. Later levels trade construction cost and
// (for LevelDDFA) relocatability for faster per-byte search, per
// COMPONENT DESIGN 4.1-4.4.
type Level int

const (
	// LevelNFA drives the nondeterministic trie automaton directly,
	// computing the active subset on the fly at every byte. Slowest, but
	// skips powerset construction entirely — useful for small one-shot
	// searches or for cross-checking the other levels.
	LevelNFA Level = iota

	// LevelDFA lowers through powerset construction into a dense,
	// table-driven automaton. Good default when the matcher must be
	// serialized or the dictionary changes often enough that DDFA's
	// pinned-array requirement is inconvenient.
	LevelDFA

	// LevelDDFA additionally lowers the DFA into a pointer-resolved
	// automaton for a branchless inner loop. Fastest at search time; per
	// DESIGN NOTES, the returned Matcher pins the underlying state array
	// for its own lifetime to keep those pointers valid.
	LevelDDFA
)

// config holds the resolved settings for Build, assembled from
// DefaultConfig plus any BuildOption overrides.
type config struct {
	ignorePrefixes  bool
	ignorePostfixes bool
	level           Level
}

// DefaultConfig returns the configuration Build uses when given no
// options: both self-loop transformations enabled (patterns are found
// anywhere in the input, and once found the match persists), lowered all
// the way to LevelDDFA for the fastest search path.
func DefaultConfig() *config {
	return &config{
		ignorePrefixes:  true,
		ignorePostfixes: true,
		level:           LevelDDFA,
	}
}

// BuildOption configures Build. See WithIgnorePrefixes, WithIgnorePostfixes,
// and WithLevel.
type BuildOption func(*config)

// WithIgnorePrefixes controls whether the NFA's ignore_prefixes
// transformation (COMPONENT DESIGN 4.1) is applied before lowering. When
// disabled, a match must begin at offset 0 or exactly where the previous
// match ended; once the input leaves every pattern's path, no further
// match is reported. Defaults to enabled.
func WithIgnorePrefixes(enabled bool) BuildOption {
	return func(c *config) {
		c.ignorePrefixes = enabled
	}
}

// WithIgnorePostfixes controls whether the NFA's ignore_postfixes
// transformation is applied before lowering. When disabled, a match is
// only reported if the pattern ends exactly where the automaton last
// consumed a byte, rather than remaining accepting on any further input.
// Defaults to enabled.
func WithIgnorePostfixes(enabled bool) BuildOption {
	return func(c *config) {
		c.ignorePostfixes = enabled
	}
}

// WithLevel selects which automaton representation the Matcher searches
// with. Defaults to LevelDDFA.
func WithLevel(level Level) BuildOption {
	return func(c *config) {
		c.level = level
	}
}
