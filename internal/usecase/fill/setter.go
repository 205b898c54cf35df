package fill

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/usecase/compare"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/usecase/content"
)

// setResult is the outcome of one run through the setter ladder.
type setResult struct {
	verdict  compare.Verdict
	observed string
	note     string
}

// setValue runs the escalation ladder for one located field:
//
//  1. direct interaction (focus, clear, keystrokes, optional commit)
//  2. autocomplete suggestion pick, for autocomplete/computed kinds
//  3. forced native property injection with a synthetic event cascade
//  4. alternate renderings of the same composite value, computed kinds only
//
// Every rung is followed by a fast idle wait and a re-read; the ladder stops
// at the first rung whose re-read satisfies the field's comparison mode. The
// whole ladder is idempotent: each rung clears before writing, so repeated
// invocations cannot accumulate text.
func (o *Orchestrator) setValue(ctx context.Context, ref output.ElementRef, spec entity.FieldSpec, expected string) setResult {
	candidates := []string{expected}
	if spec.Kind == entity.KindComputed {
		candidates = content.Synonyms(expected)
	}

	best := setResult{verdict: compare.Verdict{Reason: entity.AuditUIEmpty}}

	for i, candidate := range candidates {
		res := o.setOnce(ctx, ref, spec, candidate, expected)
		if res.verdict.Passed {
			if i > 0 {
				res.note = joinNote(res.note, "accepted alternate rendering "+candidate)
			}
			return res
		}
		if res.verdict.Similarity >= best.verdict.Similarity {
			best = res
		}
	}
	return best
}

// setOnce applies rungs 1-3 for a single candidate text. verification always
// runs against the canonical expected value, not the candidate rendering.
func (o *Orchestrator) setOnce(ctx context.Context, ref output.ElementRef, spec entity.FieldSpec, candidate, expected string) setResult {
	// A stray modal here would swallow the first click.
	o.sweepPopups(ctx)

	var note string
	alertSeen := false

	switch spec.Kind {
	case entity.KindSelect:
		if err := o.browser.SelectOption(ctx, ref, candidate); err != nil {
			o.log.Debug("select option failed", zap.String("field", spec.Name), zap.Error(err))
		}

	case entity.KindAutocomplete, entity.KindComputed:
		if err := o.browser.TypeValue(ctx, ref, candidate, false); err != nil {
			o.log.Debug("typing failed, forcing value", zap.String("field", spec.Name), zap.Error(err))
			_ = o.browser.ForceValue(ctx, ref, candidate)
		}
		allowContains := spec.Compare == entity.CompareContains || spec.Kind == entity.KindComputed
		picked := o.browser.PickSuggestion(ctx, candidate, allowContains)
		if picked {
			note = joinNote(note, "picked from suggestions")
		}
		// Some ERP builds validate on selection with a native alert; its
		// appearance means the selection registered even if the input is
		// momentarily redrawn empty.
		if kind, text := o.browser.DismissPopup(ctx, o.cfg.PopupTimeout); kind == output.PopupAlert {
			alertSeen = true
			note = joinNote(note, "alert during selection commit: "+text)
		}
		o.browser.Blur(ctx, ref)

	default:
		if err := o.browser.TypeValue(ctx, ref, candidate, spec.Commit); err != nil {
			o.log.Debug("typing failed, forcing value", zap.String("field", spec.Name), zap.Error(err))
			_ = o.browser.ForceValue(ctx, ref, candidate)
		}
	}

	o.browser.WaitIdle(ctx, output.IdleFast)
	observed := o.browser.ReadValue(ctx, ref)
	if spec.Kind == entity.KindSelect && observed == "" {
		observed = o.browser.SelectedText(ctx, ref)
	}
	verdict := o.verify(spec, expected, observed)
	if verdict.Passed {
		return setResult{verdict: verdict, observed: observed, note: note}
	}

	// Escalate: native property assignment plus synthetic events, for pages
	// whose framework handlers intercept or rate-limit simulated keystrokes.
	if spec.Kind != entity.KindSelect {
		if err := o.browser.ForceValue(ctx, ref, candidate); err == nil {
			o.browser.WaitIdle(ctx, output.IdleFast)
			observed = o.browser.ReadValue(ctx, ref)
			verdict = o.verify(spec, expected, observed)
			if verdict.Passed {
				return setResult{verdict: verdict, observed: observed, note: joinNote(note, "forced native value")}
			}
		}
	}

	if alertSeen && strings.TrimSpace(observed) == "" {
		// Alert-as-positive heuristic: accept, but at reduced confidence and
		// clearly marked, so downstream review can spot it.
		return setResult{
			verdict:  compare.Verdict{Passed: true, Similarity: 0.5},
			observed: observed,
			note:     joinNote(note, "accepted on alert signal despite empty read-back"),
		}
	}

	return setResult{verdict: verdict, observed: observed, note: note}
}

// verify applies the field's comparison mode, with a token-subset fallback
// for computed composites that the page re-renders in a different order.
func (o *Orchestrator) verify(spec entity.FieldSpec, expected, observed string) compare.Verdict {
	verdict := compare.Evaluate(expected, observed, spec.Compare, o.cmp)
	if verdict.Passed || spec.Kind != entity.KindComputed {
		return verdict
	}
	if strings.TrimSpace(observed) != "" && content.HasTokens(observed, content.Tokens(expected)) {
		return compare.Verdict{Passed: true, Similarity: verdict.Similarity}
	}
	return verdict
}

// sweepPopups clears any stacked dialogs; at most two, to stay bounded.
func (o *Orchestrator) sweepPopups(ctx context.Context) {
	for i := 0; i < 2; i++ {
		if kind, _ := o.browser.DismissPopup(ctx, o.cfg.PopupTimeout); kind == output.PopupNone {
			return
		}
	}
}

func joinNote(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "; " + b
}
