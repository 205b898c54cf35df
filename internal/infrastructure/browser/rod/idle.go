package rod

import (
	"context"
	"time"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
)

// busyCountJS sums the page's pending-work signals: document readiness,
// in-flight jQuery requests, and visible loading overlays.
const busyCountJS = `() => {
	let busy = document.readyState === 'complete' ? 0 : 1;
	if (window.jQuery && window.jQuery.active) {
		busy += window.jQuery.active;
	}
	const spinners = document.querySelectorAll(
		'.loading, .spinner, .blockUI, .k-loading-mask, .blockOverlay, [id*="loader"]'
	);
	for (const s of spinners) {
		const style = window.getComputedStyle(s);
		if (style.display !== 'none' && style.visibility !== 'hidden') {
			busy++;
		}
	}
	return busy;
}`

// WaitIdle polls the busy count until it stays at zero for a continuous
// quiet window. A single zero sample between two AJAX bursts is not idle;
// the window restarts on every non-zero sample. Returns false when the
// overall budget ran out, which callers treat as "proceed anyway".
func (a *Adapter) WaitIdle(ctx context.Context, mode output.IdleMode) bool {
	quiet, budget := 300*time.Millisecond, 3*time.Second
	if mode == output.IdleThorough {
		quiet, budget = 800*time.Millisecond, 12*time.Second
	}
	return waitQuiet(ctx, func() int { return a.busyCount(ctx) }, quiet, budget, 100*time.Millisecond)
}

func waitQuiet(ctx context.Context, busy func() int, quiet, budget, interval time.Duration) bool {
	deadline := time.Now().Add(budget)
	var quietSince time.Time

	for {
		if busy() == 0 {
			if quietSince.IsZero() {
				quietSince = time.Now()
			} else if time.Since(quietSince) >= quiet {
				return true
			}
		} else {
			quietSince = time.Time{}
		}

		if time.Now().After(deadline) || ctx.Err() != nil {
			return false
		}
		time.Sleep(interval)
	}
}

func (a *Adapter) busyCount(ctx context.Context) int {
	page := a.frameFor(a.currentFrame())
	if page == nil {
		page = a.page
	}
	res, err := page.Context(ctx).Timeout(time.Second).Eval(busyCountJS)
	if err != nil {
		// An unevaluable document (mid-navigation) counts as busy.
		return 1
	}
	return res.Value.Int()
}
