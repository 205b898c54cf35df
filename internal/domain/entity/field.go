package entity

type ValueKind string

const (
	KindText         ValueKind = "text"
	KindSelect       ValueKind = "select"
	KindAutocomplete ValueKind = "autocomplete"
	KindComputed     ValueKind = "computed"
)

type CompareMode string

const (
	CompareExact    CompareMode = "exact"
	CompareContains CompareMode = "contains"
	CompareNumeric  CompareMode = "numeric"
	CompareDate     CompareMode = "date"
	CompareFuzzy    CompareMode = "fuzzy"
)

// Strategy is one way of resolving a field to a live element. XPath selectors
// start with "/" or "(" and are dispatched accordingly by the browser adapter.
type Strategy struct {
	Selector string
	XPath    bool
}

func CSS(sel string) Strategy   { return Strategy{Selector: sel} }
func XPath(sel string) Strategy { return Strategy{Selector: sel, XPath: true} }

// FieldSpec describes one logical form field: how to find it, what kind of
// widget it is, how to verify the value stuck, and which document keys feed it.
// Immutable during a fill pass.
type FieldSpec struct {
	Name       string
	Strategies []Strategy
	Kind       ValueKind
	Compare    CompareMode
	Required   bool
	Commit     bool
	JSONKeys   []string
	Checkpoint string
}
