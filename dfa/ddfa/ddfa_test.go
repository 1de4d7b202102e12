package ddfa

import (
	"testing"

	"github.com/coregx/acmatch/dfa"
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

func buildDDFA(t *testing.T, ignorePrefixes, ignorePostfixes bool) (*nfa.NFA, *DDFA) {
	t.Helper()
	n := nfa.FromDictionary(basicDictionary(t))
	if ignorePrefixes {
		n.IgnorePrefixes()
	}
	if ignorePostfixes {
		n.IgnorePostfixes()
	}
	denseDFA, err := dfa.FromDeterministic(powerset.Construct(n))
	if err != nil {
		t.Fatalf("FromDeterministic() error = %v", err)
	}
	d, err := FromDFA(denseDFA)
	if err != nil {
		t.Fatalf("FromDFA() error = %v", err)
	}
	return n, d
}

func TestFromDFA_StuckSelfLoops(t *testing.T) {
	_, d := buildDDFA(t, false, false)

	for b := 0; b < 256; b++ {
		if got := d.NextState(d.StuckState(), byte(b)); got != d.StuckState() {
			t.Fatalf("STUCK --%d--> non-STUCK state", b)
		}
	}
	if d.StuckState().IsFinal() {
		t.Error("STUCK must not be final")
	}
}

func TestFromDFA_TransitionsResolveWithinOwnArray(t *testing.T) {
	_, d := buildDDFA(t, true, true)

	known := make(map[*State]bool, len(d.states))
	for _, s := range d.states {
		known[s] = true
	}

	for _, s := range d.states {
		for b := 0; b < 256; b++ {
			if !known[s.transitions[b]] {
				t.Fatal("transition points outside this DDFA's own state array")
			}
		}
	}
}

func TestLoweringEquivalence_DDFAMatchesNFA(t *testing.T) {
	n, d := buildDDFA(t, true, true)

	texts := [][]byte{[]byte("bbc"), []byte("abb"), []byte("xyzcaaxyz"), []byte("caa")}
	for _, text := range texts {
		nfaResult := n.Apply(text)

		s := d.StartState()
		for _, b := range text {
			s = d.NextState(s, b)
		}
		var ddfaResult []int
		for k := 0; d.HasMatch(s, k); k++ {
			ddfaResult = append(ddfaResult, d.GetMatch(s, k, len(text)).PatternNo)
		}

		if len(nfaResult) != len(ddfaResult) {
			t.Errorf("text %q: NFA=%v DDFA=%v", text, nfaResult, ddfaResult)
			continue
		}
		for i := range nfaResult {
			if nfaResult[i] != ddfaResult[i] {
				t.Errorf("text %q: NFA=%v DDFA=%v", text, nfaResult, ddfaResult)
				break
			}
		}
	}
}
