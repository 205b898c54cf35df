package output

import (
	"context"
	"time"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
)

// MainFrame marks an ElementRef resolved in the top document rather than an iframe.
const MainFrame = -1

// ElementRef is a stable handle to a located field: the strategy that matched
// plus the frame it matched in. Callers re-resolve on every read/write, which
// keeps the handle safe across page re-renders.
type ElementRef struct {
	Strategy entity.Strategy
	Frame    int
}

type IdleMode int

const (
	IdleFast IdleMode = iota
	IdleThorough
)

type PopupKind int

const (
	PopupNone PopupKind = iota
	PopupAlert
	PopupModal
)

// BrowserPort is the only surface the fill engine sees of the live page.
// Per-operation timeouts degrade to "not found"/"not idle" results, never
// errors; only session-level failures (crashed page, dead transport) come
// back as errors and those abort the whole document.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL() string

	// Locate tries the strategies against the main document first, then one
	// level into visible iframes. Second return is false when nothing matched.
	Locate(ctx context.Context, strategies []entity.Strategy) (ElementRef, bool)

	ReadValue(ctx context.Context, ref ElementRef) string
	TypeValue(ctx context.Context, ref ElementRef, text string, commit bool) error
	ForceValue(ctx context.Context, ref ElementRef, text string) error
	Blur(ctx context.Context, ref ElementRef)

	SelectOption(ctx context.Context, ref ElementRef, value string) error
	SelectedText(ctx context.Context, ref ElementRef) string

	// PickSuggestion scans the open autocomplete list for an exact
	// case-insensitive match, then (if allowed) a contains match, and clicks it.
	PickSuggestion(ctx context.Context, text string, allowContains bool) bool

	Click(ctx context.Context, strategies []entity.Strategy) error
	IsVisible(ctx context.Context, strategies []entity.Strategy) bool

	WaitIdle(ctx context.Context, mode IdleMode) bool
	DismissPopup(ctx context.Context, timeout time.Duration) (PopupKind, string)

	// FormSnapshot returns a cleaned, text-oriented rendering of the current
	// form for failure diagnostics. Best effort; empty on error.
	FormSnapshot(ctx context.Context) string

	ResetFrame()
	Close()
}
