package nav

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
)

var (
	submitBtn = []entity.Strategy{entity.XPath("//*[@id='btnSubmit']")}

	successMessage = []entity.Strategy{
		entity.XPath("//*[contains(text(),'Successfully') or contains(text(),'successfully') or contains(text(),'Saved')]"),
	}
)

// FormSubmitter clicks the consignment form's final submit and decides
// whether the save actually happened, from the success banner or an error
// popup. It only runs after every field passed verification.
type FormSubmitter struct {
	browser     output.BrowserPort
	checkpoints output.CheckpointSink
	log         *zap.Logger

	// SuccessTimeout bounds the wait for the success banner.
	SuccessTimeout time.Duration
}

func NewFormSubmitter(browser output.BrowserPort, checkpoints output.CheckpointSink, log *zap.Logger) *FormSubmitter {
	if checkpoints == nil {
		checkpoints = output.NopCheckpoint{}
	}
	return &FormSubmitter{
		browser:        browser,
		checkpoints:    checkpoints,
		log:            log,
		SuccessTimeout: 8 * time.Second,
	}
}

var _ output.Submitter = (*FormSubmitter)(nil)

func (s *FormSubmitter) Submit(ctx context.Context) (bool, error) {
	if err := s.browser.Click(ctx, submitBtn); err != nil {
		s.checkpoints.Checkpoint(ctx, "28_submit_failed")
		return false, fmt.Errorf("click submit: %w", err)
	}
	s.browser.WaitIdle(ctx, output.IdleThorough)

	deadline := time.Now().Add(s.SuccessTimeout)
	for {
		if s.browser.IsVisible(ctx, successMessage) {
			s.log.Info("submission successful")
			return true, nil
		}
		if kind, text := s.browser.DismissPopup(ctx, 500*time.Millisecond); kind != output.PopupNone {
			s.checkpoints.Checkpoint(ctx, "29_submit_error_detected")
			return false, fmt.Errorf("error popup after submit: %s", text)
		}
		if time.Now().After(deadline) {
			s.checkpoints.Checkpoint(ctx, "29_submit_no_success")
			return false, fmt.Errorf("no success message after submit")
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(300 * time.Millisecond):
		}
	}
}
