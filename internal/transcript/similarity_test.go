package transcript

import (
	"math"
	"testing"
)

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"flaw", "lawn", 2},
		{"a", "b", 1},
	}
	for _, c := range cases {
		if got := EditDistance(c.a, c.b); got != c.want {
			t.Errorf("EditDistance(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	m := Matcher{Fuzzy: true}

	if got := m.Similarity("hello world", "hello world"); got != 1.0 {
		t.Errorf("identical strings: expected 1.0, got %v", got)
	}
	if got := m.Similarity("", ""); got != 1.0 {
		t.Errorf("both empty: expected 1.0, got %v", got)
	}
	if got := m.Similarity("a", ""); got != 0.0 {
		t.Errorf("one empty: expected 0.0, got %v", got)
	}
	if got := m.Similarity("", "a"); got != 0.0 {
		t.Errorf("one empty: expected 0.0, got %v", got)
	}
}

func TestSimilarity_CaseInsensitive(t *testing.T) {
	m := Matcher{}
	if got := m.Similarity("Hello World", "hello world"); got != 0.95 {
		t.Errorf("case mismatch: expected 0.95, got %v", got)
	}
}

func TestSimilarity_Fuzzy(t *testing.T) {
	m := Matcher{Fuzzy: true}

	// lev("kitten","sitting") = 3, max len 7 -> 1 - 3/7
	want := 1.0 - 3.0/7.0
	if got := m.Similarity("kitten", "sitting"); math.Abs(got-want) > 1e-9 {
		t.Errorf("fuzzy score: expected %v, got %v", want, got)
	}
}

func TestSimilarity_FuzzyDisabled(t *testing.T) {
	m := Matcher{Fuzzy: false}
	if got := m.Similarity("kitten", "sitting"); got != 0.0 {
		t.Errorf("fuzzy disabled: expected 0.0, got %v", got)
	}
}

func TestTokenizeWords(t *testing.T) {
	got := TokenizeWords("  the quick, brown  fox. ")
	want := []string{"the", "quick,", "brown", "fox."}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if n := len(TokenizeWords("")); n != 0 {
		t.Errorf("empty input: expected 0 tokens, got %d", n)
	}
}
