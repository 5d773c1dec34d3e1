package transcript

import "testing"

func applyText(r *Repairer, text string) (Segment, []RepairRule) {
	return r.Apply(Segment{Text: text, Start: 0, End: 1, Confidence: 0.9})
}

func TestRepairer_PeriodBecomesComma(t *testing.T) {
	r := NewRepairer()

	applyText(r, "We discussed gradient descent.")
	got, rules := applyText(r, "which converges slowly")

	if got.Text != "which converges slowly" {
		t.Errorf("current text must be unchanged, got %q", got.Text)
	}
	h := r.History()
	if h[0] != "We discussed gradient descent," {
		t.Errorf("expected previous text patched to comma, got %q", h[0])
	}
	if len(rules) != 1 || rules[0] != RepairPeriodToComma {
		t.Errorf("expected [period_to_comma], got %v", rules)
	}
}

func TestRepairer_InsertsPeriodBeforeNewSentence(t *testing.T) {
	r := NewRepairer()

	applyText(r, "that concludes the proof")
	_, rules := applyText(r, "Next we look at examples")

	h := r.History()
	if h[0] != "that concludes the proof." {
		t.Errorf("expected period appended to previous text, got %q", h[0])
	}
	if len(rules) != 1 || rules[0] != RepairInsertedPeriod {
		t.Errorf("expected [inserted_period], got %v", rules)
	}
}

func TestRepairer_TerminalPunctuationLeftAlone(t *testing.T) {
	r := NewRepairer()

	applyText(r, "is that clear?")
	_, rules := applyText(r, "Moving on to chapter two")

	h := r.History()
	if h[0] != "is that clear?" {
		t.Errorf("previous text must be unchanged, got %q", h[0])
	}
	if len(rules) != 0 {
		t.Errorf("expected no rules, got %v", rules)
	}
}

func TestRepairer_StripsDuplicatedTail(t *testing.T) {
	r := NewRepairer()

	applyText(r, "the midterm covers chapters one to five")
	// Last 10 characters of the previous text ("ne to five") appear verbatim
	// at the start of the next segment.
	got, rules := applyText(r, "ne to five and the final covers everything")

	if got.Text != "and the final covers everything" {
		t.Errorf("expected duplicated prefix stripped, got %q", got.Text)
	}
	found := false
	for _, rule := range rules {
		if rule == RepairStrippedPrefix {
			found = true
		}
	}
	if !found {
		t.Errorf("expected stripped_prefix rule, got %v", rules)
	}
}

func TestRepairer_FirstSegmentUntouched(t *testing.T) {
	r := NewRepairer()

	got, rules := applyText(r, "hello world")

	if got.Text != "hello world" || len(rules) != 0 {
		t.Errorf("first segment must pass through, got %q rules %v", got.Text, rules)
	}
}

func TestRepairer_EmptySegmentPassesThrough(t *testing.T) {
	r := NewRepairer()
	applyText(r, "context")

	got, rules := applyText(r, "")

	if !got.Empty() || rules != nil {
		t.Errorf("empty segment must pass through, got %q rules %v", got.Text, rules)
	}
	if len(r.History()) != 1 {
		t.Errorf("empty segment must not join history, got %d entries", len(r.History()))
	}
}

func TestRepairer_HistoryBound(t *testing.T) {
	r := NewRepairer()

	texts := []string{"One.", "Two.", "Three.", "Four.", "Five."}
	for _, s := range texts {
		applyText(r, s)
	}

	h := r.History()
	if len(h) != repairHistorySize {
		t.Fatalf("expected history capped at %d, got %d", repairHistorySize, len(h))
	}
	if h[0] != "Three." || h[2] != "Five." {
		t.Errorf("expected most recent entries retained, got %v", h)
	}
}

func TestRepairer_Reset(t *testing.T) {
	r := NewRepairer()
	applyText(r, "something.")

	r.Reset()

	if len(r.History()) != 0 {
		t.Error("expected empty history after reset")
	}
	// No boundary to repair against after reset.
	_, rules := applyText(r, "lowercase start")
	if len(rules) != 0 {
		t.Errorf("expected no rules after reset, got %v", rules)
	}
}
