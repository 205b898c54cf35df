package fill

import "github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"

// externalReason projects the internal diagnostic codes onto the stable
// vocabulary the review UI shows users. Internal comparison-mode names never
// leak past this table.
var externalReason = map[entity.AuditReason]string{
	entity.AuditMissingValue:  "Missing value in JSON",
	entity.AuditUIEmpty:       "Missing value in ERP",
	entity.AuditMismatch:      "Does not match invoice",
	entity.AuditLowSimilarity: "Low similarity",
	entity.AuditDateFormat:    "Wrong date format",
	entity.AuditNumeric:       "Numeric mismatch",
	entity.AuditNotPersisted:  "Value did not persist",
}

// Aggregate reduces the fill pass's audit entries into the terminal outcome.
// All-pass iff no entry failed; failures keep field order.
func Aggregate(entries []entity.AuditEntry) entity.FillOutcome {
	outcome := entity.FillOutcome{AllPassed: true}
	for _, e := range entries {
		if e.Passed {
			continue
		}
		outcome.AllPassed = false
		reason, ok := externalReason[e.Reason]
		if !ok {
			reason = "Does not match invoice"
		}
		outcome.FailedFields = append(outcome.FailedFields, entity.FieldFailure{
			Field:    e.Field,
			Expected: e.Expected,
			Observed: e.Observed,
			Reason:   reason,
		})
	}
	return outcome
}
