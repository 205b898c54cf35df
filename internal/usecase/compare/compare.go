// Package compare decides whether a value observed on the page is equivalent
// to the value the document expected. All functions are total: any pair of
// strings, including empty ones, yields a verdict without panicking.
package compare

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
)

type Config struct {
	// NumericAbsTol absorbs rounding differences between the document and the
	// ERP's display ("100.00" vs "100.05").
	NumericAbsTol float64
	// NumericRelTol covers values large enough that absolute tolerance is
	// meaningless.
	NumericRelTol float64
	// FuzzyThreshold is the minimum normalized edit-distance similarity
	// accepted as a fuzzy match. Tunable; successive rollouts used values
	// between 0.70 and 0.80.
	FuzzyThreshold float64
}

func DefaultConfig() Config {
	return Config{
		NumericAbsTol:  0.1,
		NumericRelTol:  0.005,
		FuzzyThreshold: 0.75,
	}
}

// Verdict is the full comparison result the orchestrator records per attempt.
type Verdict struct {
	Passed     bool
	Similarity float64
	Reason     entity.AuditReason
}

// Evaluate compares expected against observed under the given mode. An empty
// expected value never matches anything; an empty observed value (with a
// non-empty expectation) is reported as the field being empty on the page.
func Evaluate(expected, observed string, mode entity.CompareMode, cfg Config) Verdict {
	exp := strings.TrimSpace(expected)
	obs := strings.TrimSpace(observed)

	if exp == "" {
		return Verdict{Reason: entity.AuditMissingValue}
	}
	if obs == "" {
		return Verdict{Reason: entity.AuditUIEmpty}
	}

	sim := Similarity(exp, obs)

	// Case-insensitive equality is a strictly stronger signal than any mode.
	if strings.EqualFold(exp, obs) {
		return Verdict{Passed: true, Similarity: sim}
	}

	switch mode {
	case entity.CompareContains:
		if containsFold(obs, exp) {
			return Verdict{Passed: true, Similarity: sim}
		}
		return Verdict{Similarity: sim, Reason: entity.AuditMismatch}

	case entity.CompareNumeric:
		ev, eok := parseNumber(exp)
		ov, ook := parseNumber(obs)
		if eok && ook && numericClose(ev, ov, cfg) {
			return Verdict{Passed: true, Similarity: sim}
		}
		return Verdict{Similarity: sim, Reason: entity.AuditNumeric}

	case entity.CompareDate:
		if dateEqual(exp, obs) {
			return Verdict{Passed: true, Similarity: sim}
		}
		return Verdict{Similarity: sim, Reason: entity.AuditDateFormat}

	case entity.CompareFuzzy:
		if containsFold(obs, exp) || containsFold(exp, obs) {
			return Verdict{Passed: true, Similarity: sim}
		}
		if sim >= cfg.FuzzyThreshold {
			return Verdict{Passed: true, Similarity: sim}
		}
		return Verdict{Similarity: sim, Reason: entity.AuditLowSimilarity}

	default: // exact
		if normalizeLoose(exp) == normalizeLoose(obs) {
			return Verdict{Passed: true, Similarity: sim}
		}
		return Verdict{Similarity: sim, Reason: entity.AuditMismatch}
	}
}

// Matches is the boolean projection of Evaluate.
func Matches(expected, observed string, mode entity.CompareMode, cfg Config) bool {
	return Evaluate(expected, observed, mode, cfg).Passed
}

// Similarity returns a normalized [0,1] edit-distance closeness score,
// case-insensitive and whitespace-trimmed.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(strings.TrimSpace(a)))
	rb := []rune(strings.ToLower(strings.TrimSpace(b)))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	dist := levenshtein(ra, rb)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	return 1 - float64(dist)/float64(longer)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func containsFold(hay, needle string) bool {
	return strings.Contains(strings.ToLower(hay), strings.ToLower(needle))
}

var nonDigit = regexp.MustCompile(`\D`)

// normalizeLoose strips punctuation and case so "M/S. Sharma & Co" matches
// "MS Sharma Co" the way the page tends to render it.
func normalizeLoose(s string) string {
	return entity.NormalizeKey(s)
}

func parseNumber(s string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	return v, err == nil
}

func numericClose(a, b float64, cfg Config) bool {
	diff := abs(a - b)
	if diff <= cfg.NumericAbsTol {
		return true
	}
	larger := abs(a)
	if abs(b) > larger {
		larger = abs(b)
	}
	return larger > 0 && diff/larger <= cfg.NumericRelTol
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

var numberGroups = regexp.MustCompile(`\d+`)

// dateParts decomposes any of dd/mm/yy, dd-mm-yyyy, dd.mm.yyyy into a
// canonical (day, month, year) triple. Two-digit years are assumed 2000s.
func dateParts(s string) (string, string, string, bool) {
	groups := numberGroups.FindAllString(s, 3)
	if len(groups) < 3 {
		return "", "", "", false
	}
	d, m, y := groups[0], groups[1], groups[2]
	if len(y) == 2 {
		y = "20" + y
	}
	return pad(d, 2), pad(m, 2), pad(y, 4), true
}

func dateEqual(a, b string) bool {
	ad, am, ay, aok := dateParts(a)
	bd, bm, by, bok := dateParts(b)
	if aok && bok {
		return ad == bd && am == bm && ay == by
	}
	// Fall back to digit-only equality when either side is not date shaped.
	return nonDigit.ReplaceAllString(a, "") == nonDigit.ReplaceAllString(b, "")
}

func pad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
