// Package postgres persists the document queue in the doc_processing_log
// table shared with the extraction pipeline: rows are claimed with SKIP
// LOCKED so parallel workers never double-enter a consignment.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
)

// DB is the slice of pgxpool.Pool the store uses; pgxmock implements it too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

var _ output.QueueStore = (*Store)(nil)

type Store struct {
	db  DB
	log *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("connected to postgres")
	return &Store{db: pool, log: log}, nil
}

// NewWithDB wires an explicit DB, used by tests.
func NewWithDB(db DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

const claimSQL = `
WITH cte AS (
    SELECT doc_id, erp_entry_status AS prev_status
    FROM doc_processing_log
    WHERE UPPER(data_extraction_status) = 'COMPLETED'
      AND UPPER(erp_entry_status) IN ('NOT STARTED', 'FIXED')
    ORDER BY uploaded_on ASC
    LIMIT 1
    FOR UPDATE SKIP LOCKED
)
UPDATE doc_processing_log
SET erp_entry_status = 'In Progress',
    erp_updated_at = now()
FROM cte
WHERE doc_processing_log.doc_id = cte.doc_id
RETURNING doc_processing_log.doc_id,
          doc_processing_log.doc_file_name,
          cte.prev_status,
          doc_processing_log.extracted_json,
          doc_processing_log.corrected_json`

// ClaimNext atomically claims the oldest eligible row and flips it to
// In Progress. (nil, nil) means the queue is empty.
func (s *Store) ClaimNext(ctx context.Context) (*entity.DocumentJob, error) {
	var (
		job        entity.DocumentJob
		fileName   *string
		prevStatus string
		extracted  []byte
		corrected  []byte
	)
	err := s.db.QueryRow(ctx, claimSQL).Scan(&job.DocID, &fileName, &prevStatus, &extracted, &corrected)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim row: %w", err)
	}

	if fileName != nil {
		job.FileName = *fileName
	}
	if job.FileName == "" {
		job.FileName = fmt.Sprintf("doc_%d", job.DocID)
	}
	job.PrevStatus = entity.EntryStatus(prevStatus)
	job.Extracted = extracted
	job.Corrected = corrected

	s.log.Debug("claimed row", zap.Int64("doc_id", job.DocID), zap.String("prev_status", prevStatus))
	return &job, nil
}

const saveValidationSQL = `
UPDATE doc_processing_log
SET extracted_json = $1
WHERE doc_id = $2`

// SaveValidation writes the document back into its JSON column with the
// ValidationStatus report attached, so the review UI reads one object.
func (s *Store) SaveValidation(ctx context.Context, docID int64, doc *entity.Document, status entity.ValidationStatus) error {
	payload := doc.Raw()
	payload["ValidationStatus"] = status

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal validation payload: %w", err)
	}
	if _, err := s.db.Exec(ctx, saveValidationSQL, data, docID); err != nil {
		return fmt.Errorf("save validation for doc %d: %w", docID, err)
	}
	return nil
}

const setStatusSQL = `
UPDATE doc_processing_log
SET erp_entry_status = $1,
    erp_updated_at = now(),
    erp_note = COALESCE(erp_note, '') || $2
WHERE doc_id = $3`

// SetStatus settles the row and appends a timestamped line to its note trail.
func (s *Store) SetStatus(ctx context.Context, docID int64, status entity.EntryStatus, note string) error {
	if note == "" {
		note = string(status)
	}
	line := fmt.Sprintf("\n[%s] %s", time.Now().UTC().Format(time.RFC3339), note)

	if _, err := s.db.Exec(ctx, setStatusSQL, string(status), line, docID); err != nil {
		return fmt.Errorf("set status %s for doc %d: %w", status, docID, err)
	}
	return nil
}

func (s *Store) Close() {
	s.db.Close()
}
