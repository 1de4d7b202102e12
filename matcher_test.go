package acmatch

import (
	"testing"

	"github.com/coregx/acmatch/dictionary"
)

func collectMatches(t *testing.T, m *Matcher, input []byte) []match {
	t.Helper()
	var out []match
	for mm := range m.Find(input).All() {
		out = append(out, match{mm.PatternNo, mm.Start, mm.End})
	}
	return out
}

type match struct {
	PatternNo, Start, End int
}

func equalMatchSlices(a, b []match) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuild_EmptyDictionary(t *testing.T) {
	_, err := Build(nil)
	if err != dictionary.ErrEmpty {
		t.Fatalf("Build(nil) error = %v, want ErrEmpty", err)
	}
}

func TestFind_EmptyInput(t *testing.T) {
	m, err := Build([][]byte{[]byte("abc")})
	if err != nil {
		t.Fatal(err)
	}
	if got := collectMatches(t, m, nil); len(got) != 0 {
		t.Errorf("Find(nil) = %v, want empty", got)
	}
}

func TestFind_SingleBytePattern(t *testing.T) {
	m, err := Build([][]byte{[]byte("a")})
	if err != nil {
		t.Fatal(err)
	}
	got := collectMatches(t, m, []byte("a"))
	want := []match{{0, 0, 1}}
	if !equalMatchSlices(got, want) {
		t.Errorf("Find(\"a\") = %v, want %v", got, want)
	}
}

func TestFind_ProperPrefixPair(t *testing.T) {
	m, err := Build([][]byte{[]byte("a"), []byte("ab")})
	if err != nil {
		t.Fatal(err)
	}
	got := collectMatches(t, m, []byte("ab"))
	if len(got) != 1 || got[0].PatternNo != 0 || got[0].End != 1 {
		t.Errorf("Find(\"ab\") = %v, want a single match of pattern 0 ending at 1", got)
	}
}

func TestFind_ZeroLengthPattern(t *testing.T) {
	m, err := Build([][]byte{[]byte("")})
	if err != nil {
		t.Fatal(err)
	}
	got := collectMatches(t, m, []byte("x"))
	if len(got) == 0 {
		t.Fatal("expected the empty pattern to match at START")
	}
	// The iterator checks for a match only after consuming a byte, so the
	// first match of the empty pattern ends at offset 1.
	if got[0].PatternNo != 0 || got[0].Start != 1 || got[0].End != 1 {
		t.Errorf("first match = %+v, want {0 1 1}", got[0])
	}
}

func TestFind_BasicDictionary(t *testing.T) {
	patterns := [][]byte{
		[]byte("a"), []byte("ab"), []byte("bab"), []byte("bc"),
		[]byte("bca"), []byte("c"), []byte("caa"),
	}

	for _, level := range []Level{LevelNFA, LevelDFA, LevelDDFA} {
		m, err := Build(patterns, WithLevel(level))
		if err != nil {
			t.Fatalf("level %v: Build() error = %v", level, err)
		}

		// The first byte to trigger a match is the lone "c" at offset 3
		// (0-indexed), reporting pattern 5 ending at offset 4; the reset-
		// to-start semantics mean the longer "caa" starting at the same
		// position is never observed.
		got := collectMatches(t, m, []byte("xyzcaaxyz"))
		if len(got) == 0 {
			t.Fatalf("level %v: Find(\"xyzcaaxyz\") = empty, want at least one match", level)
		}
		if first := got[0]; first.PatternNo != 5 || first.Start != 3 || first.End != 4 {
			t.Errorf("level %v: first match = %+v, want {5 3 4} (\"c\")", level, first)
		}
	}
}

func TestFind_LevelsAgree(t *testing.T) {
	patterns := [][]byte{[]byte("he"), []byte("she"), []byte("his"), []byte("hers")}
	texts := []string{"ushers", "sherlock", "hishers", ""}

	for _, text := range texts {
		var results [3][]match
		for i, level := range []Level{LevelNFA, LevelDFA, LevelDDFA} {
			m, err := Build(patterns, WithLevel(level))
			if err != nil {
				t.Fatal(err)
			}
			results[i] = collectMatches(t, m, []byte(text))
		}
		if !equalMatchSlices(results[0], results[1]) || !equalMatchSlices(results[1], results[2]) {
			t.Errorf("text %q: NFA=%v DFA=%v DDFA=%v", text, results[0], results[1], results[2])
		}
	}
}

// TestFind_SyntheticCorpusThroughputShape adapts the original specification's
// Sherlock-corpus exact-match-count property to a synthetic corpus (the
// referenced English-text fixture is not part of this module): the
// property under test is that every automaton level agrees on the
// non-overlapping match count over a repeated-word, multi-kilobyte text,
// not any particular magic number.
func TestFind_SyntheticCorpusThroughputShape(t *testing.T) {
	words := []string{"sherlock", "holmes", "watson", "street", "the", "a", "baker"}
	var corpus []byte
	for i := 0; i < 2000; i++ {
		corpus = append(corpus, words[i%len(words)]...)
		corpus = append(corpus, ' ')
	}

	for _, patterns := range [][][]byte{
		{[]byte("sherlock"), []byte("street")},
		{[]byte("sherlock"), []byte("holmes")},
		{[]byte("sherlock"), []byte("holmes"), []byte("watson")},
	} {
		var counts [3]int
		for i, level := range []Level{LevelNFA, LevelDFA, LevelDDFA} {
			m, err := Build(patterns, WithLevel(level))
			if err != nil {
				t.Fatal(err)
			}
			counts[i] = len(collectMatches(t, m, corpus))
		}
		if counts[0] != counts[1] || counts[1] != counts[2] {
			t.Errorf("patterns %q: match counts disagree across levels: %v", patterns, counts)
		}
		if counts[0] == 0 {
			t.Errorf("patterns %q: expected at least one match in the synthetic corpus", patterns)
		}
	}
}

func TestWithIgnorePrefixes_Disabled(t *testing.T) {
	m, err := Build([][]byte{[]byte("bc")}, WithIgnorePrefixes(false), WithIgnorePostfixes(false))
	if err != nil {
		t.Fatal(err)
	}

	// Without ignore_prefixes, the leading 'a' leaves every pattern's path,
	// so "bc" inside "abc" is never found.
	if got := collectMatches(t, m, []byte("abc")); len(got) != 0 {
		t.Errorf("Find(\"abc\") with prefixes disabled = %v, want empty", got)
	}
	if got := collectMatches(t, m, []byte("bc")); len(got) != 1 {
		t.Errorf("Find(\"bc\") with prefixes disabled = %v, want one match", got)
	}
}

func TestContainsAny_AgreesWithFind_IgnorePrefixesDisabled(t *testing.T) {
	// "bc" alone would select the memmem prefilter, which searches
	// unanchored; with ignore_prefixes disabled, Find only matches from
	// offset 0 (or right after a previous match), so ContainsAny must not
	// take the prefilter shortcut here.
	m, err := Build([][]byte{[]byte("bc")}, WithIgnorePrefixes(false), WithIgnorePostfixes(false))
	if err != nil {
		t.Fatal(err)
	}

	if got := m.ContainsAny([]byte("abc")); got {
		t.Error("ContainsAny(\"abc\") with prefixes disabled = true, want false (not anchored at 0)")
	}
	if got := m.ContainsAny([]byte("bc")); !got {
		t.Error("ContainsAny(\"bc\") with prefixes disabled = false, want true")
	}
}

func TestContainsAny_PrefilterPath(t *testing.T) {
	// A single multi-byte pattern selects the memmem prefilter.
	m, err := Build([][]byte{[]byte("needle")})
	if err != nil {
		t.Fatal(err)
	}
	if !m.ContainsAny([]byte("haystack needle haystack")) {
		t.Error("ContainsAny() = false, want true")
	}
	if m.ContainsAny([]byte("no match here")) {
		t.Error("ContainsAny() = true, want false")
	}
}

func TestContainsAny_NoPrefilterFallsBackToAutomaton(t *testing.T) {
	// Many short patterns fall outside every prefilter's pattern-length
	// floor, so Build must fall back to a plain automaton scan.
	patterns := [][]byte{[]byte("a"), []byte("b")}
	m, err := Build(patterns)
	if err != nil {
		t.Fatal(err)
	}
	if !m.ContainsAny([]byte("xyzbxyz")) {
		t.Error("ContainsAny() = false, want true")
	}
	if m.ContainsAny([]byte("xyzxyz")) {
		t.Error("ContainsAny() = true, want false")
	}
}

func TestContainsAny_AgreesWithFind(t *testing.T) {
	patterns := [][]byte{[]byte("he"), []byte("she"), []byte("his"), []byte("hers")}
	m, err := Build(patterns)
	if err != nil {
		t.Fatal(err)
	}

	for _, text := range []string{"ushers", "xyz", "", "h"} {
		hasFind := len(collectMatches(t, m, []byte(text))) > 0
		hasAny := m.ContainsAny([]byte(text))
		if hasFind != hasAny {
			t.Errorf("text %q: Find-derived=%v ContainsAny=%v", text, hasFind, hasAny)
		}
	}
}

func TestNumPatterns(t *testing.T) {
	m, err := Build([][]byte{[]byte("a"), []byte("b"), []byte("c")})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.NumPatterns(); got != 3 {
		t.Errorf("NumPatterns() = %d, want 3", got)
	}
}
