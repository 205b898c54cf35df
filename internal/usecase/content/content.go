// Package content builds the composite "content name" entered into the item
// modal from two raw document attributes: the content/grade string and the
// goods type. The computation is pure and total — any pair of inputs yields
// either a normalized composite or nothing, never an error.
package content

import (
	"regexp"
	"strings"
)

var (
	alphaRun   = regexp.MustCompile(`[A-Z]+`)
	tokenSplit = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// Tokens splits on any non-alphanumeric run and upper-cases, so
// "bag (paper)" -> [BAG PAPER].
func Tokens(s string) []string {
	var out []string
	for _, t := range tokenSplit.Split(strings.ToUpper(s), -1) {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HasTokens reports whether value carries every required token, used to
// verify composite values that the page re-renders in a different order.
func HasTokens(value string, required []string) bool {
	have := make(map[string]bool)
	for _, t := range Tokens(value) {
		have[t] = true
	}
	for _, r := range required {
		if r == "" {
			continue
		}
		if !have[strings.ToUpper(r)] {
			return false
		}
	}
	return true
}

// baseGrade extracts the cement grade from free-form input: "OPC53" -> "OPC",
// "OPC 53 GRADE" -> "OPC", "PPC-42" -> "PPC". When neither known grade is
// present, the first alphabetic run wins.
func baseGrade(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if strings.Contains(s, "OPC") {
		return "OPC"
	}
	if strings.Contains(s, "PPC") {
		return "PPC"
	}
	return alphaRun.FindString(s)
}

// goodsLabel normalizes the goods type into BAG, BULK or PAPER, accepting
// synonyms like "bags", "paper bag", "bulk load".
func goodsLabel(raw string) string {
	gt := strings.ToUpper(strings.TrimSpace(raw))
	if gt == "" {
		return ""
	}
	switch gt {
	case "BAG", "BULK", "PAPER":
		return gt
	case "BULKS", "BULK LOAD", "BULKLOAD":
		return "BULK"
	case "BAGS", "BAG(S)":
		return "BAG"
	}
	toks := make(map[string]bool)
	for _, t := range Tokens(gt) {
		toks[t] = true
	}
	switch {
	case toks["PAPER"]:
		return "PAPER"
	case toks["BULK"]:
		return "BULK"
	case toks["BAG"]:
		return "BAG"
	}
	return gt
}

// Compute combines the normalized grade and goods label: ("PPC", "BAG") ->
// "PPC BAG", ("OPC53", "paper bag") -> "OPC BAG" (OPC is never sold in paper;
// the target system accepts it only as BAG). Both parts are required.
func Compute(contentRaw, goodsRaw string) (string, bool) {
	base := baseGrade(contentRaw)
	label := goodsLabel(goodsRaw)
	if base == "" || label == "" {
		return "", false
	}
	if base == "OPC" && label == "PAPER" {
		label = "BAG"
	}
	return base + " " + label, true
}

// Partial builds a best-effort value when only one side of the pair is
// usable, for the degraded path where the document is incomplete.
func Partial(contentRaw, goodsRaw string) string {
	parts := make([]string, 0, 2)
	if b := baseGrade(contentRaw); b != "" {
		parts = append(parts, b)
	}
	if l := goodsLabel(goodsRaw); l != "" {
		parts = append(parts, l)
	}
	return strings.Join(parts, " ")
}

// Synonyms lists the alternate textual renderings the target system is known
// to accept for a composite value. The first element is always the value
// itself; the setter cycles through the rest only after the primary form
// refuses to stick.
func Synonyms(composite string) []string {
	out := []string{composite}
	if strings.EqualFold(strings.TrimSpace(composite), "PPC PAPER") {
		out = append(out,
			"PPC BAG (PAPER)",
			"PPC PAPER BAG",
			"PPC BAG PAPER",
			"PPC (PAPER) BAG",
		)
	}
	return out
}
