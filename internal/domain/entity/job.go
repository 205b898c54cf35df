package entity

type EntryStatus string

const (
	StatusNotStarted EntryStatus = "Not Started"
	StatusFixed      EntryStatus = "Fixed"
	StatusInProgress EntryStatus = "In Progress"
	StatusCompleted  EntryStatus = "Completed"
	StatusFailed     EntryStatus = "Failed"
	StatusDuplicate  EntryStatus = "Duplicate"
)

// DocumentJob is one claimed row from the processing queue.
type DocumentJob struct {
	DocID      int64
	FileName   string
	PrevStatus EntryStatus
	Extracted  []byte
	Corrected  []byte
}

// Payload picks corrected_json over extracted_json when the row came back
// from manual review with status Fixed.
func (j *DocumentJob) Payload() []byte {
	if j.PrevStatus == StatusFixed && len(j.Corrected) > 0 {
		s := string(j.Corrected)
		if s != "" && s != "{}" && s != "null" {
			return j.Corrected
		}
	}
	return j.Extracted
}
