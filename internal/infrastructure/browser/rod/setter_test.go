package rod

import "testing"

func TestMatchSuggestion_ExactBeatsEarlierContains(t *testing.T) {
	labels := []string{"ARAKKONAM DEPOT", "ARAKKONAM"}
	if got := matchSuggestion(labels, "ARAKKONAM", true); got != 1 {
		t.Fatalf("want exact match at 1, got %d", got)
	}
}

func TestMatchSuggestion_ContainsOnlyWhenAllowed(t *testing.T) {
	labels := []string{"ARAKKONAM DEPOT"}
	if got := matchSuggestion(labels, "ARAKKONAM", false); got != -1 {
		t.Fatalf("contains match must be off by default, got %d", got)
	}
	if got := matchSuggestion(labels, "ARAKKONAM", true); got != 0 {
		t.Fatalf("want contains match at 0, got %d", got)
	}
}

func TestMatchSuggestion_RejectsSubstringOptions(t *testing.T) {
	// An option that only covers part of the target is never a match.
	labels := []string{"ARAK", "KONAM"}
	if got := matchSuggestion(labels, "ARAKKONAM", true); got != -1 {
		t.Fatalf("partial options must not match, got %d", got)
	}
}

func TestMatchSuggestion_FirstExactWins(t *testing.T) {
	labels := []string{"CHENNAI", "SALEM", "SALEM"}
	if got := matchSuggestion(labels, "SALEM", true); got != 1 {
		t.Fatalf("want first exact match at 1, got %d", got)
	}
}

func TestMatchSuggestion_EmptyList(t *testing.T) {
	if got := matchSuggestion(nil, "SALEM", true); got != -1 {
		t.Fatalf("empty list must miss, got %d", got)
	}
}
