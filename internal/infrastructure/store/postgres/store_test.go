package postgres

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewWithDB(mock, zap.NewNop()), mock
}

func TestClaimNext_ReturnsClaimedRow(t *testing.T) {
	store, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{"doc_id", "doc_file_name", "prev_status", "extracted_json", "corrected_json"}).
		AddRow(int64(42), ptr("invoice_42.pdf"), "Not Started", []byte(`{"Branch":"ARAKKONAM"}`), []byte(nil))
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WillReturnRows(rows)

	job, err := store.ClaimNext(context.Background())
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, int64(42), job.DocID)
	assert.Equal(t, "invoice_42.pdf", job.FileName)
	assert.Equal(t, entity.StatusNotStarted, job.PrevStatus)
	assert.JSONEq(t, `{"Branch":"ARAKKONAM"}`, string(job.Extracted))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimNext_EmptyQueue(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").
		WillReturnRows(pgxmock.NewRows([]string{"doc_id", "doc_file_name", "prev_status", "extracted_json", "corrected_json"}))

	job, err := store.ClaimNext(context.Background())
	require.NoError(t, err)
	assert.Nil(t, job, "empty queue must be (nil, nil)")
}

func TestClaimNext_FallbackFileName(t *testing.T) {
	store, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{"doc_id", "doc_file_name", "prev_status", "extracted_json", "corrected_json"}).
		AddRow(int64(7), (*string)(nil), "Fixed", []byte(`{}`), []byte(`{"Branch":"X"}`))
	mock.ExpectQuery("FOR UPDATE SKIP LOCKED").WillReturnRows(rows)

	job, err := store.ClaimNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "doc_7", job.FileName)
	assert.Equal(t, entity.StatusFixed, job.PrevStatus)
}

func TestSaveValidation_AttachesReportToDocument(t *testing.T) {
	store, mock := newMockStore(t)

	doc := entity.NewDocument(map[string]any{"Branch": "ARAKKONAM", "ConsignmentNo": "CN-1"})
	status := entity.ValidationStatus{
		IsPassed: false,
		FailedFields: []entity.FieldFailure{
			{Field: "Vehicle", Expected: "TN23AB1234", Observed: "", Reason: "Missing value in ERP"},
		},
	}

	mock.ExpectExec("UPDATE doc_processing_log").
		WithArgs(pgxmock.AnyArg(), int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, store.SaveValidation(context.Background(), 9, doc, status))
	require.NoError(t, mock.ExpectationsWereMet())

	// The marshalled payload must carry both the document and the report.
	payload := doc.Raw()
	payload["ValidationStatus"] = status
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isPassed":false`)
	assert.Contains(t, string(data), `"ConsignmentNo":"CN-1"`)
	assert.Contains(t, string(data), `"Reason":"Missing value in ERP"`)
}

func TestSetStatus_AppendsTimestampedNote(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("erp_note = COALESCE").
		WithArgs("Completed", pgxmock.AnyArg(), int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := store.SetStatus(context.Background(), 3, entity.StatusCompleted, "ERP entry completed by automation")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatus_EmptyNoteUsesStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("erp_note = COALESCE").
		WithArgs("Failed", pgxmock.AnyArg(), int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, store.SetStatus(context.Background(), 4, entity.StatusFailed, ""))
}

func ptr(s string) *string { return &s }
