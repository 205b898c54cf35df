package process

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
)

type fakeStore struct {
	jobs     []*entity.DocumentJob
	claimErr error

	saved      []entity.ValidationStatus
	savedDocs  []int64
	statuses   map[int64]entity.EntryStatus
	notes      map[int64]string
	statusErr  error
	saveErr    error
	claimCalls int
}

func newFakeStore(jobs ...*entity.DocumentJob) *fakeStore {
	return &fakeStore{
		jobs:     jobs,
		statuses: make(map[int64]entity.EntryStatus),
		notes:    make(map[int64]string),
	}
}

func (s *fakeStore) ClaimNext(context.Context) (*entity.DocumentJob, error) {
	s.claimCalls++
	if s.claimErr != nil {
		return nil, s.claimErr
	}
	if len(s.jobs) == 0 {
		return nil, nil
	}
	job := s.jobs[0]
	s.jobs = s.jobs[1:]
	return job, nil
}

func (s *fakeStore) SaveValidation(_ context.Context, docID int64, _ *entity.Document, status entity.ValidationStatus) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, status)
	s.savedDocs = append(s.savedDocs, docID)
	return nil
}

func (s *fakeStore) SetStatus(_ context.Context, docID int64, status entity.EntryStatus, note string) error {
	if s.statusErr != nil {
		return s.statusErr
	}
	s.statuses[docID] = status
	s.notes[docID] = note
	return nil
}

func (s *fakeStore) Close() {}

type fakeRunner struct {
	outcome entity.FillOutcome
	err     error
	calls   int
	lastDoc *entity.Document
}

func (r *fakeRunner) Run(_ context.Context, _ *entity.DocumentJob, doc *entity.Document) (entity.FillOutcome, error) {
	r.calls++
	r.lastDoc = doc
	return r.outcome, r.err
}

func job(id int64, payload string) *entity.DocumentJob {
	return &entity.DocumentJob{
		DocID:      id,
		FileName:   "invoice.pdf",
		PrevStatus: entity.StatusNotStarted,
		Extracted:  []byte(payload),
	}
}

const goodPayload = `{"Branch":"ARAKKONAM","ConsignmentNo":"CN-1","Consignee":"KRISHNA MOTORS"}`

func TestProcessNext_EmptyQueue(t *testing.T) {
	store := newFakeStore()
	p := New(store, &fakeRunner{}, zap.NewNop())

	claimed, err := p.ProcessNext(context.Background())
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestProcessNext_CleanPassCompletes(t *testing.T) {
	store := newFakeStore(job(7, goodPayload))
	runner := &fakeRunner{outcome: entity.FillOutcome{
		AllPassed:       true,
		SubmitAttempted: true,
		SubmitSucceeded: true,
	}}
	p := New(store, runner, zap.NewNop())

	claimed, err := p.ProcessNext(context.Background())
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, entity.StatusCompleted, store.statuses[7])

	require.Len(t, store.saved, 1)
	assert.True(t, store.saved[0].IsPassed)
	assert.Empty(t, store.saved[0].FailedFields)
}

func TestProcessNext_FailedFieldsMarkFailed(t *testing.T) {
	store := newFakeStore(job(8, goodPayload))
	runner := &fakeRunner{outcome: entity.FillOutcome{
		FailedFields: []entity.FieldFailure{
			{Field: "Vehicle", Expected: "TN23AB1234", Observed: "KA01ZZ9999", Reason: "Does not match invoice"},
		},
	}}
	p := New(store, runner, zap.NewNop())

	claimed, err := p.ProcessNext(context.Background())
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, entity.StatusFailed, store.statuses[8])

	// The report still lands even though the row failed.
	require.Len(t, store.saved, 1)
	assert.False(t, store.saved[0].IsPassed)
	assert.Len(t, store.saved[0].FailedFields, 1)
}

func TestProcessNext_DuplicateStatus(t *testing.T) {
	store := newFakeStore(job(9, goodPayload))
	runner := &fakeRunner{outcome: entity.FillOutcome{
		DuplicateFound: true,
		DuplicateNote:  "consignment number already exists: CN-1",
	}}
	p := New(store, runner, zap.NewNop())

	_, err := p.ProcessNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDuplicate, store.statuses[9])
	assert.Contains(t, store.notes[9], "already exists")
}

func TestProcessNext_SubmitFailureAfterCleanFill(t *testing.T) {
	store := newFakeStore(job(10, goodPayload))
	runner := &fakeRunner{outcome: entity.FillOutcome{
		AllPassed:       true,
		SubmitAttempted: true,
		SubmitSucceeded: false,
		SubmitError:     "no success message after submit",
	}}
	p := New(store, runner, zap.NewNop())

	_, err := p.ProcessNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, store.statuses[10])
	assert.Contains(t, store.notes[10], "no success message")
}

func TestProcessNext_UnreadableJSON(t *testing.T) {
	store := newFakeStore(job(11, `{{not json`))
	runner := &fakeRunner{}
	p := New(store, runner, zap.NewNop())

	claimed, err := p.ProcessNext(context.Background())
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, entity.StatusFailed, store.statuses[11])
	assert.Zero(t, runner.calls, "no browser pass for unreadable rows")
}

func TestProcessNext_MissingBranch(t *testing.T) {
	store := newFakeStore(job(12, `{"ConsignmentNo":"CN-1"}`))
	runner := &fakeRunner{}
	p := New(store, runner, zap.NewNop())

	_, err := p.ProcessNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, store.statuses[12])
	assert.Contains(t, store.notes[12], "Branch")
	assert.Zero(t, runner.calls)
}

func TestProcessNext_RunnerErrorMarksFailed(t *testing.T) {
	store := newFakeStore(job(13, goodPayload))
	runner := &fakeRunner{err: errors.New("browser crashed")}
	p := New(store, runner, zap.NewNop())

	claimed, err := p.ProcessNext(context.Background())
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, entity.StatusFailed, store.statuses[13])
	assert.Contains(t, store.notes[13], "browser crashed")
	assert.Empty(t, store.saved, "no report without a completed pass")
}

func TestProcessNext_ClaimErrorSurfaces(t *testing.T) {
	store := newFakeStore()
	store.claimErr = errors.New("connection refused")
	p := New(store, &fakeRunner{}, zap.NewNop())

	_, err := p.ProcessNext(context.Background())
	require.Error(t, err)
}

func TestProcessNext_CorrectedPayloadPreferredWhenFixed(t *testing.T) {
	j := job(14, `{"Branch":"ARAKKONAM","Consignee":"WRONG"}`)
	j.PrevStatus = entity.StatusFixed
	j.Corrected = []byte(`{"Branch":"ARAKKONAM","Consignee":"KRISHNA MOTORS"}`)

	store := newFakeStore(j)
	runner := &fakeRunner{outcome: entity.FillOutcome{AllPassed: true}}
	p := New(store, runner, zap.NewNop())

	_, err := p.ProcessNext(context.Background())
	require.NoError(t, err)
	require.NotNil(t, runner.lastDoc)
	assert.Equal(t, "KRISHNA MOTORS", runner.lastDoc.Get("Consignee"))
}

func TestRunLoop_DrainsQueue(t *testing.T) {
	store := newFakeStore(job(1, goodPayload), job(2, goodPayload))
	runner := &fakeRunner{outcome: entity.FillOutcome{AllPassed: true}}
	p := New(store, runner, zap.NewNop())

	require.NoError(t, p.RunLoop(context.Background(), 0))
	assert.Equal(t, 2, runner.calls)
	assert.Equal(t, 3, store.claimCalls, "two claims plus the empty probe")
}

func TestRunLoop_HonorsIterationCap(t *testing.T) {
	store := newFakeStore(job(1, goodPayload), job(2, goodPayload), job(3, goodPayload))
	runner := &fakeRunner{outcome: entity.FillOutcome{AllPassed: true}}
	p := New(store, runner, zap.NewNop())

	require.NoError(t, p.RunLoop(context.Background(), 1))
	assert.Equal(t, 1, runner.calls)
}
