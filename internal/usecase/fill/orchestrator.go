// Package fill implements the field-fill-verify-repair engine: it pushes one
// document's values into the consignment form, verifies every value actually
// stuck, repairs what it can within bounded retries, and reduces the per-field
// audit trail into a single outcome that gates the final submit.
package fill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/usecase/compare"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/usecase/content"
)

type Config struct {
	// FieldAttempts bounds setter-ladder runs per field in the primary path.
	FieldAttempts int
	// PopupTimeout bounds every speculative dialog probe.
	PopupTimeout time.Duration
	// DuplicateTimeout bounds the single duplicate-affordance probe.
	DuplicateTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		FieldAttempts:    2,
		PopupTimeout:     2 * time.Second,
		DuplicateTimeout: 3 * time.Second,
	}
}

type Orchestrator struct {
	browser     output.BrowserPort
	checkpoints output.CheckpointSink
	submitter   output.Submitter
	log         *zap.Logger
	cfg         Config
	cmp         compare.Config
	form        FormDef
}

func New(browser output.BrowserPort, checkpoints output.CheckpointSink, submitter output.Submitter, log *zap.Logger, cfg Config, cmp compare.Config, form FormDef) *Orchestrator {
	if cfg.FieldAttempts < 1 {
		cfg.FieldAttempts = 1
	}
	if checkpoints == nil {
		checkpoints = output.NopCheckpoint{}
	}
	return &Orchestrator{
		browser:     browser,
		checkpoints: checkpoints,
		submitter:   submitter,
		log:         log,
		cfg:         cfg,
		cmp:         cmp,
		form:        form,
	}
}

// passState carries the per-pass flags that used to live as globals in older
// iterations of this flow. A fresh one is created per document so repeated
// passes cannot leak state into each other.
type passState struct {
	gstToggled bool
	order      []string
	entries    map[string]*entity.AuditEntry
	mainRefs   map[string]output.ElementRef
}

func newPassState() *passState {
	return &passState{
		entries:  make(map[string]*entity.AuditEntry),
		mainRefs: make(map[string]output.ElementRef),
	}
}

func (st *passState) record(e entity.AuditEntry) {
	if _, seen := st.entries[e.Field]; !seen {
		st.order = append(st.order, e.Field)
	}
	st.entries[e.Field] = &e
}

func (st *passState) final() []entity.AuditEntry {
	out := make([]entity.AuditEntry, 0, len(st.order))
	for _, name := range st.order {
		out = append(out, *st.entries[name])
	}
	return out
}

// Run executes one full fill pass for the document. Expected failure modes
// (mismatches, empty fields, duplicates) come back inside the FillOutcome;
// only session-level browser errors are returned as err, and after one of
// those the document must be treated as retryable by the caller.
func (o *Orchestrator) Run(ctx context.Context, doc *entity.Document) (entity.FillOutcome, error) {
	st := newPassState()

	o.browser.WaitIdle(ctx, output.IdleFast)

	for _, spec := range o.form.Main {
		if spec.Name == o.form.Consignee {
			o.fillConsignee(ctx, st, doc, spec)
		} else {
			o.fillAndRecord(ctx, st, spec, o.expectedFor(doc, spec))
		}

		if spec.Name == o.form.Identifier {
			if dup, note := o.checkDuplicate(ctx, st); dup {
				o.checkpoints.Checkpoint(ctx, "duplicate_detected")
				return entity.FillOutcome{DuplicateFound: true, DuplicateNote: note}, nil
			}
		}

		if ctx.Err() != nil {
			return entity.FillOutcome{}, fmt.Errorf("fill pass interrupted: %w", ctx.Err())
		}
	}

	o.fillItemModal(ctx, st, doc)
	o.fillAndRecord(ctx, st, o.form.Rate, o.expectedFor(doc, o.form.Rate))

	o.sweepPopups(ctx)
	o.recheckPersistence(ctx, st, doc)

	outcome := Aggregate(st.final())

	if outcome.AllPassed && o.submitter != nil {
		outcome.SubmitAttempted = true
		submitted, err := o.submitter.Submit(ctx)
		outcome.SubmitSucceeded = submitted
		if err != nil {
			outcome.SubmitError = err.Error()
		}
		o.checkpoints.Checkpoint(ctx, "28_submit_clicked")
	}

	return outcome, nil
}

// FillField drives one field to its final audit entry: bounded setter
// attempts with an immediate verify after each.
func (o *Orchestrator) FillField(ctx context.Context, spec entity.FieldSpec, expected string) entity.AuditEntry {
	entry := entity.AuditEntry{
		Field:    spec.Name,
		Expected: expected,
		Mode:     spec.Compare,
	}

	if strings.TrimSpace(expected) == "" {
		if spec.Required {
			entry.Reason = entity.AuditMissingValue
			entry.Note = "required value absent from document; no interaction attempted"
			return entry
		}
		entry.Passed = true
		entry.Note = "no value in document; field skipped"
		return entry
	}

	ref, found := o.browser.Locate(ctx, spec.Strategies)
	if !found {
		entry.Reason = entity.AuditUIEmpty
		entry.Note = "field not found on page"
		o.log.Warn("field not found", zap.String("field", spec.Name))
		return entry
	}
	defer o.browser.ResetFrame()

	best := setResult{verdict: compare.Verdict{Reason: entity.AuditUIEmpty}}
	for attempt := 1; attempt <= o.cfg.FieldAttempts; attempt++ {
		res := o.setValue(ctx, ref, spec, expected)
		if res.verdict.Passed {
			entry.Passed = true
			entry.Observed = res.observed
			entry.Similarity = res.verdict.Similarity
			entry.Note = res.note
			if spec.Checkpoint != "" {
				o.checkpoints.Checkpoint(ctx, spec.Checkpoint)
			}
			return entry
		}
		o.log.Debug("attempt failed",
			zap.String("field", spec.Name),
			zap.Int("attempt", attempt),
			zap.String("observed", res.observed),
			zap.Float64("similarity", res.verdict.Similarity))
		if res.verdict.Similarity >= best.verdict.Similarity {
			best = res
		}
	}

	entry.Observed = best.observed
	entry.Similarity = best.verdict.Similarity
	entry.Reason = best.verdict.Reason
	entry.Note = joinNote(best.note, fmt.Sprintf("failed after %d attempts", o.cfg.FieldAttempts))
	if spec.Checkpoint != "" {
		o.checkpoints.Checkpoint(ctx, spec.Checkpoint+"_failed")
	}
	if snap := o.browser.FormSnapshot(ctx); snap != "" {
		o.log.Debug("form snapshot at failure", zap.String("field", spec.Name), zap.String("snapshot", snap))
	}
	return entry
}

func (o *Orchestrator) fillAndRecord(ctx context.Context, st *passState, spec entity.FieldSpec, expected string) entity.AuditEntry {
	entry := o.FillField(ctx, spec, expected)
	st.record(entry)
	if entry.Passed && strings.TrimSpace(expected) != "" {
		if ref, ok := o.browser.Locate(ctx, spec.Strategies); ok {
			st.mainRefs[spec.Name] = ref
			o.browser.ResetFrame()
		}
	}
	return entry
}

// fillConsignee applies the dependent-selector recovery policy: the consignee
// autocomplete only populates for one GST registration state, and the
// document's stated state is sometimes wrong. If the field stays empty after
// its bounded attempts, flip the GST selector to its other value exactly once
// per pass and retry.
func (o *Orchestrator) fillConsignee(ctx context.Context, st *passState, doc *entity.Document, spec entity.FieldSpec) {
	expected := o.expectedFor(doc, spec)
	entry := o.fillAndRecord(ctx, st, spec, expected)
	if entry.Passed || strings.TrimSpace(expected) == "" {
		return
	}
	if strings.TrimSpace(entry.Observed) != "" || st.gstToggled {
		return
	}

	newGST, ok := o.toggleGST(ctx, doc)
	st.gstToggled = true
	if !ok {
		o.log.Warn("gst toggle did not stick; consignee left failing")
		return
	}
	o.log.Info("gst toggled for consignee retry", zap.String("gst", newGST))
	o.checkpoints.Checkpoint(ctx, "gst_toggled")

	retry := o.FillField(ctx, spec, expected)
	retry.Note = joinNote(retry.Note, "after GST toggle to "+newGST)
	st.record(retry)
}

// toggleGST flips the registration selector to its other value, verifies the
// flip took, and writes the corrected value back into the in-memory document
// so the persisted report shows what was actually entered.
func (o *Orchestrator) toggleGST(ctx context.Context, doc *entity.Document) (string, bool) {
	current := doc.Get("GSTType", "GST Type", "gst_type")
	next := "Unregistered"
	if strings.Contains(strings.ToLower(current), "unregister") {
		next = "Registered"
	}

	ref, found := o.browser.Locate(ctx, o.form.GSTToggle.Strategies)
	if !found {
		return "", false
	}
	defer o.browser.ResetFrame()

	if err := o.browser.SelectOption(ctx, ref, next); err != nil {
		return "", false
	}
	o.browser.WaitIdle(ctx, output.IdleFast)

	observed := o.browser.ReadValue(ctx, ref)
	if observed == "" {
		observed = o.browser.SelectedText(ctx, ref)
	}
	if !strings.EqualFold(strings.TrimSpace(observed), next) {
		return "", false
	}

	doc.Set("GSTType", next)
	return next, true
}

// checkDuplicate probes once, right after the identifier committed, for the
// affordance that only renders when the consignment number already exists.
// Never repeated, never retried.
func (o *Orchestrator) checkDuplicate(ctx context.Context, st *passState) (bool, string) {
	id := st.entries[o.form.Identifier]
	if id == nil || !id.Passed {
		return false, ""
	}
	probeCtx, cancel := context.WithTimeout(ctx, o.cfg.DuplicateTimeout)
	defer cancel()
	if o.browser.IsVisible(probeCtx, o.form.Duplicate) {
		return true, "consignment number already exists: " + id.Expected
	}
	return false, ""
}

// fillItemModal opens the Insert Item dialog and enters the invoice lines,
// including the composite content name computed from the document.
func (o *Orchestrator) fillItemModal(ctx context.Context, st *passState, doc *entity.Document) {
	if err := o.browser.Click(ctx, o.form.AddItem); err != nil {
		o.log.Warn("add item click failed", zap.Error(err))
	}
	o.browser.WaitIdle(ctx, output.IdleFast)
	o.checkpoints.Checkpoint(ctx, "21_additem_clicked")
	o.sweepPopups(ctx)

	for _, spec := range o.form.Item {
		expected := o.expectedFor(doc, spec)
		o.fillAndRecord(ctx, st, spec, expected)
	}
	o.checkpoints.Checkpoint(ctx, "22_insertitem_filled")

	if err := o.browser.Click(ctx, o.form.AddInvoice); err != nil {
		o.log.Warn("add invoice click failed", zap.Error(err))
	} else {
		o.checkpoints.Checkpoint(ctx, "24_addinvoice_clicked")
	}
	o.sweepPopups(ctx)

	if err := o.browser.Click(ctx, o.form.CloseItem); err != nil {
		o.log.Warn("close item modal failed", zap.Error(err))
	}
	o.browser.WaitIdle(ctx, output.IdleFast)
	o.checkpoints.Checkpoint(ctx, "25_insertitem_closed")
}

// recheckPersistence re-reads fields that passed earlier, once, to catch
// values a later re-render silently cleared. A persistence failure overrides
// the earlier pass.
func (o *Orchestrator) recheckPersistence(ctx context.Context, st *passState, doc *entity.Document) {
	for _, spec := range o.form.Main {
		entry := st.entries[spec.Name]
		if entry == nil || !entry.Passed {
			continue
		}
		// GST may have been corrected mid-pass; re-derive from the document.
		expected := o.expectedFor(doc, spec)
		if strings.TrimSpace(expected) == "" {
			continue
		}

		ref, ok := st.mainRefs[spec.Name]
		if !ok {
			if ref, ok = o.browser.Locate(ctx, spec.Strategies); !ok {
				continue
			}
		}
		observed := o.browser.ReadValue(ctx, ref)
		if spec.Kind == entity.KindSelect && observed == "" {
			observed = o.browser.SelectedText(ctx, ref)
		}
		o.browser.ResetFrame()

		verdict := o.verify(spec, expected, observed)
		if verdict.Passed {
			continue
		}

		o.log.Warn("value did not persist",
			zap.String("field", spec.Name),
			zap.String("expected", expected),
			zap.String("observed", observed))
		st.record(entity.AuditEntry{
			Field:      spec.Name,
			Expected:   expected,
			Observed:   observed,
			Mode:       spec.Compare,
			Similarity: verdict.Similarity,
			Reason:     entity.AuditNotPersisted,
			Note:       "accepted earlier but cleared by a later page re-render",
		})
	}
}

// expectedFor derives the value to type from the document, including the
// composite content computation for computed fields.
func (o *Orchestrator) expectedFor(doc *entity.Document, spec entity.FieldSpec) string {
	if spec.Kind == entity.KindComputed {
		cn := doc.Get("ContentName", "Content Name", "contentname", "content_name", "content", "itemname")
		gt := doc.Get("GoodsType", "Goods Type", "goods_type", "goodstype", "goods", "type")
		if composite, ok := content.Compute(cn, gt); ok {
			return composite
		}
		return content.Partial(cn, gt)
	}
	return doc.Get(spec.JSONKeys...)
}
