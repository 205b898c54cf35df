// Package process drives the queue loop: claim one document, run a browser
// pass for it, persist the validation report, and settle the row's status.
package process

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/input"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
)

// EntryRunner performs one full browser pass for a parsed document: fresh
// session, navigation to the form, fill, and optional submit.
type EntryRunner interface {
	Run(ctx context.Context, job *entity.DocumentJob, doc *entity.Document) (entity.FillOutcome, error)
}

type Processor struct {
	store  output.QueueStore
	runner EntryRunner
	log    *zap.Logger
}

var _ input.DocumentProcessor = (*Processor)(nil)

func New(store output.QueueStore, runner EntryRunner, log *zap.Logger) *Processor {
	return &Processor{store: store, runner: runner, log: log}
}

// ProcessNext claims and settles one document. Claimed rows are always
// settled to a terminal status, even when the pass itself blew up; only
// store-level failures surface as err.
func (p *Processor) ProcessNext(ctx context.Context) (bool, error) {
	job, err := p.store.ClaimNext(ctx)
	if err != nil {
		return false, fmt.Errorf("claim next document: %w", err)
	}
	if job == nil {
		return false, nil
	}

	log := p.log.With(zap.Int64("doc_id", job.DocID), zap.String("file", job.FileName))
	log.Info("claimed document", zap.String("prev_status", string(job.PrevStatus)))

	doc, err := entity.ParseDocument(job.Payload())
	if err != nil {
		log.Error("document json unreadable", zap.Error(err))
		return true, p.store.SetStatus(ctx, job.DocID, entity.StatusFailed, "unreadable document JSON: "+err.Error())
	}
	if strings.TrimSpace(doc.Get("Branch", "branch")) == "" {
		log.Error("document has no branch")
		return true, p.store.SetStatus(ctx, job.DocID, entity.StatusFailed, "no 'Branch' found in parsed data")
	}

	outcome, err := p.runner.Run(ctx, job, doc)
	if err != nil {
		log.Error("browser pass failed", zap.Error(err))
		return true, p.store.SetStatus(ctx, job.DocID, entity.StatusFailed, "browser session error: "+err.Error())
	}

	// The report goes back into the JSON column regardless of outcome, so
	// manual review always sees what the pass observed.
	if err := p.store.SaveValidation(ctx, job.DocID, doc, outcome.Validation()); err != nil {
		log.Warn("validation report not saved", zap.Error(err))
	}

	status, note := settle(outcome)
	log.Info("document settled",
		zap.String("status", string(status)),
		zap.Int("failed_fields", len(outcome.FailedFields)))
	return true, p.store.SetStatus(ctx, job.DocID, status, note)
}

// settle maps a fill outcome to the row's terminal status and note.
func settle(outcome entity.FillOutcome) (entity.EntryStatus, string) {
	switch {
	case outcome.DuplicateFound:
		return entity.StatusDuplicate, outcome.DuplicateNote
	case !outcome.AllPassed:
		return entity.StatusFailed, "form fill failed - missing or invalid field(s)"
	case outcome.SubmitAttempted && !outcome.SubmitSucceeded:
		note := "submit failed after clean fill"
		if outcome.SubmitError != "" {
			note += ": " + outcome.SubmitError
		}
		return entity.StatusFailed, note
	default:
		return entity.StatusCompleted, "ERP entry completed by automation"
	}
}

// RunLoop drains the queue until it is empty, the iteration cap is hit, or
// the context ends. maxIterations <= 0 means unbounded.
func (p *Processor) RunLoop(ctx context.Context, maxIterations int) error {
	for n := 0; maxIterations <= 0 || n < maxIterations; n++ {
		claimed, err := p.ProcessNext(ctx)
		if err != nil {
			return err
		}
		if !claimed {
			p.log.Info("no pending documents")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}
