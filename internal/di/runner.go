package di

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
	rodinfra "github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/infrastructure/browser/rod"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/usecase/compare"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/usecase/fill"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/usecase/nav"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/usecase/process"
)

var _ process.EntryRunner = (*erpRunner)(nil)

// erpRunner owns one document's browser lifecycle: a fresh Chrome per pass,
// so a wedged page never bleeds into the next claim.
type erpRunner struct {
	cfg Config
	log *zap.Logger
}

func (r *erpRunner) Run(ctx context.Context, job *entity.DocumentJob, doc *entity.Document) (entity.FillOutcome, error) {
	browserCfg := rodinfra.DefaultConfig()
	browserCfg.Headless = r.cfg.BrowserHeadless

	adapter, err := rodinfra.New(ctx, browserCfg, r.log)
	if err != nil {
		return entity.FillOutcome{}, fmt.Errorf("start browser: %w", err)
	}
	defer adapter.Close()

	shots := rodinfra.NewShots(adapter, r.cfg.ScreenshotDir, r.log)
	shots.SetPrefix(passPrefix(job))

	navigator := nav.New(adapter, shots, r.log, nav.Config{
		BaseURL:  r.cfg.ERPBaseURL,
		MenuURL:  r.cfg.ERPMenuURL,
		Username: r.cfg.ERPUsername,
		Password: r.cfg.ERPPassword,
		Branch:   r.cfg.DefaultBranch,
	})
	if err := navigator.ToConsignmentForm(ctx, doc.Get("Branch", "branch")); err != nil {
		shots.Checkpoint(ctx, "nav_failed")
		return entity.FillOutcome{}, fmt.Errorf("reach consignment form: %w", err)
	}

	var submitter output.Submitter
	if r.cfg.SubmitEnabled {
		submitter = nav.NewFormSubmitter(adapter, shots, r.log)
	}

	fillCfg := fill.DefaultConfig()
	cmpCfg := compare.DefaultConfig()
	if r.cfg.FuzzyThreshold > 0 {
		cmpCfg.FuzzyThreshold = r.cfg.FuzzyThreshold
	}

	orchestrator := fill.New(adapter, shots, submitter, r.log, fillCfg, cmpCfg, fill.ConsignmentForm())
	outcome, err := orchestrator.Run(ctx, doc)
	if err != nil {
		shots.Checkpoint(ctx, "pass_aborted")
		return outcome, err
	}
	if !outcome.AllPassed && !outcome.DuplicateFound {
		shots.Checkpoint(ctx, "30_fill_failed")
	}
	return outcome, nil
}

// passPrefix names the pass's screenshots after the document plus a short
// random tag, so reruns of the same file never overwrite each other.
func passPrefix(job *entity.DocumentJob) string {
	base := strings.TrimSuffix(job.FileName, filepath.Ext(job.FileName))
	if base == "" {
		base = fmt.Sprintf("doc_%d", job.DocID)
	}
	return fmt.Sprintf("%s_%s", base, uuid.NewString()[:8])
}
