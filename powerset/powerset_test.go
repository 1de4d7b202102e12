package powerset

import (
	"testing"

	"github.com/coregx/acmatch/dictionary"
	"github.com/coregx/acmatch/nfa"
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

// applyViaDNFA drives the deterministic automaton directly, independent of
// the shared match iterator, to check lowering-equivalence against
// NFA.Apply.
func applyViaDNFA(d *DNFA, input []byte) []int {
	s := d.StartState()
	for _, b := range input {
		s = d.NextState(s, b)
		if s == d.StuckState() {
			break
		}
	}

	var ends []int
	for k := 0; d.HasMatch(s, k); k++ {
		ends = append(ends, d.GetMatch(s, k, len(input)).PatternNo)
	}
	return ends
}

func TestConstruct_Determinism(t *testing.T) {
	n := nfa.FromDictionary(basicDictionary(t))
	n.IgnorePrefixes()
	n.IgnorePostfixes()
	d := Construct(n)

	for id := nfa.StateID(0); id < nfa.StateID(d.NumStates()); id++ {
		seen := make(map[byte]bool)
		for b := range d.State(id).Transitions() {
			if seen[b] {
				t.Fatalf("state %d has duplicate transition entries for byte %q", id, b)
			}
			seen[b] = true
		}
	}
}

func TestConstruct_StuckIsAbsorbing(t *testing.T) {
	n := nfa.FromDictionary(basicDictionary(t))
	d := Construct(n)

	for _, b := range []byte{0, 1, 255, 'z'} {
		next := d.NextState(d.StuckState(), b)
		if next != d.StuckState() {
			t.Errorf("STUCK --%d--> %d, want STUCK", b, next)
		}
	}
}

func TestLoweringEquivalence_BaselinePatterns(t *testing.T) {
	raw := basicDictionary(t)
	n := nfa.FromDictionary(raw)
	d := Construct(n)

	for i := 0; i < raw.Len(); i++ {
		pattern := raw.Pattern(i)
		nfaResult := n.Apply(pattern)
		dnfaResult := applyViaDNFA(d, pattern)

		if !equalInts(nfaResult, dnfaResult) {
			t.Errorf("pattern %q: NFA.Apply = %v, DNFA = %v", pattern, nfaResult, dnfaResult)
		}
	}
}

func TestLoweringEquivalence_IgnorePrefixesPostfixes(t *testing.T) {
	raw := basicDictionary(t)
	n := nfa.FromDictionary(raw)
	n.IgnorePrefixes()
	n.IgnorePostfixes()
	d := Construct(n)

	texts := [][]byte{[]byte("bbc"), []byte("abb"), []byte("xyzcaaxyz"), []byte("nomatch")}
	for _, text := range texts {
		nfaResult := n.Apply(text)
		dnfaResult := applyViaDNFA(d, text)
		if !equalInts(nfaResult, dnfaResult) {
			t.Errorf("text %q: NFA.Apply = %v, DNFA = %v", text, nfaResult, dnfaResult)
		}
	}
}

func TestConstruct_PatternEndsOrderedAscending(t *testing.T) {
	// With ignore_prefixes, input "ax" leaves both the NFA state ending
	// "x" (pattern 0) and the one ending "ax" (pattern 1) active, so the
	// DNFA state reached holds both pattern ends and they must be ascending.
	d, err := dictionary.New([][]byte{[]byte("x"), []byte("ax"), []byte("bx")})
	if err != nil {
		t.Fatal(err)
	}
	n := nfa.FromDictionary(d)
	n.IgnorePrefixes()
	dnfa := Construct(n)

	s := dnfa.StartState()
	s = dnfa.NextState(s, 'a')
	s = dnfa.NextState(s, 'x')
	var ends []int
	for k := 0; dnfa.HasMatch(s, k); k++ {
		ends = append(ends, dnfa.GetMatch(s, k, 2).PatternNo)
	}
	if len(ends) != 2 {
		t.Fatalf("pattern-ends after \"ax\" = %v, want two entries", ends)
	}
	for i := 1; i < len(ends); i++ {
		if ends[i-1] > ends[i] {
			t.Errorf("pattern-ends not ascending: %v", ends)
		}
	}
}

func equalInts(a, b []int) bool {
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
