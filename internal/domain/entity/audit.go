package entity

// AuditReason is the internal diagnostic code attached to a failing entry.
// The aggregator projects these to the external reason vocabulary; callers
// outside the fill pass never see these names.
type AuditReason string

const (
	AuditOK            AuditReason = ""
	AuditMissingValue  AuditReason = "missing-value"
	AuditUIEmpty       AuditReason = "ui-empty"
	AuditNotPersisted  AuditReason = "not-persisted"
	AuditMismatch      AuditReason = "mismatch"
	AuditLowSimilarity AuditReason = "low-similarity"
	AuditDateFormat    AuditReason = "date-format"
	AuditNumeric       AuditReason = "numeric-mismatch"
)

// AuditEntry records one field's final outcome within a fill pass: what the
// document expected, what the page actually rendered, and the verdict.
type AuditEntry struct {
	Field      string
	Expected   string
	Observed   string
	Passed     bool
	Similarity float64
	Mode       CompareMode
	Reason     AuditReason
	Note       string
}
