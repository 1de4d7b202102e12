package matchiter

import (
	"testing"

	"github.com/coregx/acmatch/dfa"
	"github.com/coregx/acmatch/dfa/ddfa"
	"github.com/coregx/acmatch/dictionary"
	"github.com/coregx/acmatch/nfa"
	"github.com/coregx/acmatch/powerset"
)

func basicDictionary(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	d, err := dictionary.New([][]byte{
		[]byte("a"), []byte("ab"), []byte("bab"), []byte("bc"),
		[]byte("bca"), []byte("c"), []byte("caa"),
	})
	if err != nil {
		t.Fatalf("dictionary.New() error = %v", err)
	}
	return d
}

func buildAll(t *testing.T, text []byte) (nfaLive nfa.Live, plainDFA *dfa.DFA, direct *ddfa.DDFA) {
	t.Helper()
	n := nfa.FromDictionary(basicDictionary(t))
	n.IgnorePrefixes()
	n.IgnorePostfixes()

	denseDFA, err := dfa.FromDeterministic(powerset.Construct(n))
	if err != nil {
		t.Fatalf("FromDeterministic() error = %v", err)
	}
	dd, err := ddfa.FromDFA(denseDFA)
	if err != nil {
		t.Fatalf("FromDFA() error = %v", err)
	}

	return n.AsAutomaton(), denseDFA, dd
}

func collect(it Iterator) []automatonMatch {
	var out []automatonMatch
	for m := range it.All() {
		out = append(out, automatonMatch{m.PatternNo, m.Start, m.End})
	}
	return out
}

type automatonMatch struct {
	PatternNo, Start, End int
}

func TestFind_EmptyInput(t *testing.T) {
	nfaLive, plainDFA, direct := buildAll(t, nil)

	if got := collect(New[nfa.StateSet](nfaLive, nil)); len(got) != 0 {
		t.Errorf("NFA: Find(\"\") = %v, want empty", got)
	}
	if got := collect(New[nfa.StateID](plainDFA, nil)); len(got) != 0 {
		t.Errorf("DFA: Find(\"\") = %v, want empty", got)
	}
	if got := collect(New[*ddfa.State](direct, nil)); len(got) != 0 {
		t.Errorf("DDFA: Find(\"\") = %v, want empty", got)
	}
}

func TestFind_SingleBytePatternAtStart(t *testing.T) {
	d, err := dictionary.New([][]byte{[]byte("a")})
	if err != nil {
		t.Fatal(err)
	}
	n := nfa.FromDictionary(d)
	n.IgnorePrefixes()

	it := New[nfa.StateSet](n.AsAutomaton(), []byte("a"))
	m, ok := it.Next()
	if !ok {
		t.Fatal("expected a match")
	}
	if m.PatternNo != 0 || m.Start != 0 || m.End != 1 {
		t.Errorf("Next() = %+v, want {0 0 1}", m)
	}
}

func TestFind_LoweringEquivalence(t *testing.T) {
	texts := [][]byte{
		[]byte(""),
		[]byte("bbc xyz caa ab abb bab bca"),
		[]byte("the quick brown caa fox"),
	}

	for _, text := range texts {
		nfaLive, plainDFA, direct := buildAll(t, text)

		nfaResult := collect(New[nfa.StateSet](nfaLive, text))
		dfaResult := collect(New[nfa.StateID](plainDFA, text))
		ddfaResult := collect(New[*ddfa.State](direct, text))

		if !equalMatches(nfaResult, dfaResult) {
			t.Errorf("text %q: NFA=%v DFA=%v", text, nfaResult, dfaResult)
		}
		if !equalMatches(dfaResult, ddfaResult) {
			t.Errorf("text %q: DFA=%v DDFA=%v", text, dfaResult, ddfaResult)
		}
	}
}

func TestFind_NonOverlapping(t *testing.T) {
	d, err := dictionary.New([][]byte{[]byte("aa")})
	if err != nil {
		t.Fatal(err)
	}
	n := nfa.FromDictionary(d)
	n.IgnorePrefixes()

	// "aaaa" contains overlapping occurrences of "aa" at 0,1,2 -- only
	// non-overlapping ones should be yielded: [0,2) and [2,4).
	it := New[nfa.StateSet](n.AsAutomaton(), []byte("aaaa"))
	got := collect(it)

	want := []automatonMatch{{0, 0, 2}, {0, 2, 4}}
	if !equalMatches(got, want) {
		t.Errorf("Find(\"aaaa\") = %v, want %v", got, want)
	}
}

func TestFind_ProperPrefixPattern(t *testing.T) {
	d, err := dictionary.New([][]byte{[]byte("a"), []byte("ab")})
	if err != nil {
		t.Fatal(err)
	}
	n := nfa.FromDictionary(d)
	n.IgnorePrefixes()

	it := New[nfa.StateSet](n.AsAutomaton(), []byte("ab"))
	m, ok := it.Next()
	if !ok {
		t.Fatal("expected a match")
	}
	// "a" ends first at offset 1; reset-to-start means "ab" is never
	// observed as a whole by this iterator run, matching the spec's
	// reset-to-start-on-match non-overlap semantics.
	if m.PatternNo != 0 || m.End != 1 {
		t.Errorf("first match = %+v, want pattern 0 ending at 1", m)
	}
}

func equalMatches(a, b []automatonMatch) bool {
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
