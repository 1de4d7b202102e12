package dfa

import (
	"testing"

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

func buildDFA(t *testing.T, ignorePrefixes, ignorePostfixes bool) *DFA {
	t.Helper()
	n := nfa.FromDictionary(basicDictionary(t))
	if ignorePrefixes {
		n.IgnorePrefixes()
	}
	if ignorePostfixes {
		n.IgnorePostfixes()
	}
	d, err := FromDeterministic(powerset.Construct(n))
	if err != nil {
		t.Fatalf("FromDeterministic() error = %v", err)
	}
	return d
}

func TestFromDeterministic_StuckIsTotal(t *testing.T) {
	d := buildDFA(t, false, false)

	for b := 0; b < 256; b++ {
		if got := d.Transition(nfa.STUCK, byte(b)); got != nfa.STUCK {
			t.Fatalf("STUCK --%d--> %d, want STUCK", b, got)
		}
	}
	if d.IsFinal(nfa.STUCK) {
		t.Error("STUCK must not be final for any pattern")
	}
}

func TestFromDeterministic_DenseTableTotal(t *testing.T) {
	d := buildDFA(t, true, true)

	for id := 0; id < d.NumStates(); id++ {
		for b := 0; b < 256; b++ {
			target := d.Transition(nfa.StateID(id), byte(b))
			if int(target) < 0 || int(target) >= d.NumStates() {
				t.Fatalf("state %d byte %d targets out-of-range state %d", id, b, target)
			}
		}
	}
}

func TestLoweringEquivalence_DFAMatchesNFA(t *testing.T) {
	raw := basicDictionary(t)
	n := nfa.FromDictionary(raw)
	n.IgnorePrefixes()
	n.IgnorePostfixes()
	dfaAuto, err := FromDeterministic(powerset.Construct(n))
	if err != nil {
		t.Fatal(err)
	}

	texts := [][]byte{[]byte("bbc"), []byte("abb"), []byte("xyzcaaxyz")}
	for _, text := range texts {
		nfaResult := n.Apply(text)

		s := dfaAuto.StartState()
		for _, b := range text {
			s = dfaAuto.NextState(s, b)
		}
		var dfaResult []int
		for k := 0; dfaAuto.HasMatch(s, k); k++ {
			dfaResult = append(dfaResult, dfaAuto.GetMatch(s, k, len(text)).PatternNo)
		}

		if len(nfaResult) != len(dfaResult) {
			t.Errorf("text %q: NFA=%v DFA=%v", text, nfaResult, dfaResult)
			continue
		}
		for i := range nfaResult {
			if nfaResult[i] != dfaResult[i] {
				t.Errorf("text %q: NFA=%v DFA=%v", text, nfaResult, dfaResult)
				break
			}
		}
	}
}

func TestIsFinal_MatchesNonEmptyEnds(t *testing.T) {
	d := buildDFA(t, false, false)

	for id := 0; id < d.NumStates(); id++ {
		want := len(d.Ends(nfa.StateID(id))) > 0
		if got := d.IsFinal(nfa.StateID(id)); got != want {
			t.Errorf("state %d: IsFinal()=%v, want %v (ends=%v)", id, got, want, d.Ends(nfa.StateID(id)))
		}
	}
}
