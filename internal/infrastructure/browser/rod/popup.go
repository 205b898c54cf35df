package rod

import (
	"context"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
)

// armDialogHandler auto-accepts native JS dialogs for the page's lifetime and
// parks the message for the next DismissPopup probe. Without a handler armed
// up front, an alert freezes the CDP session.
func (a *Adapter) armDialogHandler() {
	go a.page.EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		a.alertMu.Lock()
		a.alertSeen = true
		a.alertText = e.Message
		a.alertMu.Unlock()
		a.log.Debug("native dialog auto-accepted", zap.String("message", e.Message))
		_ = proto.PageHandleJavaScriptDialog{Accept: true}.Call(a.page)
	})()
}

// consumeAlert reports and clears a native alert accepted since the last call.
func (a *Adapter) consumeAlert() (string, bool) {
	a.alertMu.Lock()
	defer a.alertMu.Unlock()
	if !a.alertSeen {
		return "", false
	}
	a.alertSeen = false
	text := a.alertText
	a.alertText = ""
	return text, true
}

var modalConfirmSelectors = []string{
	"#btn-ok",
	"button.swal2-confirm.swal2-styled",
	"button.swal2-confirm",
	".modal.show .btn-primary",
	".modal.in .btn-primary",
	".bootbox .btn-primary",
}

const modalConfirmXPath = "//button[normalize-space()='OK' or normalize-space()='Ok']"

// DismissPopup reports and clears at most one popup: a native alert accepted
// by the armed handler wins over a framework modal, whose confirm button gets
// clicked. PopupNone after the timeout means the page is clear.
func (a *Adapter) DismissPopup(ctx context.Context, timeout time.Duration) (output.PopupKind, string) {
	deadline := time.Now().Add(timeout)
	for {
		if text, ok := a.consumeAlert(); ok {
			return output.PopupAlert, text
		}
		if text, ok := a.closeModal(ctx); ok {
			return output.PopupModal, text
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			return output.PopupNone, ""
		}
		time.Sleep(150 * time.Millisecond)
	}
}

func (a *Adapter) closeModal(ctx context.Context) (string, bool) {
	for _, page := range a.popupScopes() {
		p := page.Context(ctx).Timeout(500 * time.Millisecond)

		var btn *rod.Element
		for _, sel := range modalConfirmSelectors {
			if el, err := p.Element(sel); err == nil {
				if visible, err := el.Visible(); err == nil && visible {
					btn = el
					break
				}
			}
		}
		if btn == nil {
			if el, err := p.ElementX(modalConfirmXPath); err == nil {
				if visible, err := el.Visible(); err == nil && visible {
					btn = el
				}
			}
		}
		if btn == nil {
			continue
		}

		text := a.modalText(page)
		if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
			if _, err := btn.Eval(`() => this.click()`); err != nil {
				a.log.Debug("modal confirm click failed", zap.Error(err))
				continue
			}
		}
		// Give the dismiss animation a beat so the next probe sees it gone.
		time.Sleep(300 * time.Millisecond)
		return text, true
	}
	return "", false
}

func (a *Adapter) modalText(page *rod.Page) string {
	for _, sel := range []string{".swal2-title", ".swal2-html-container", ".modal.show .modal-body", ".modal.in .modal-body"} {
		el, err := page.Timeout(300 * time.Millisecond).Element(sel)
		if err != nil {
			continue
		}
		if text, err := el.Text(); err == nil {
			if t := strings.TrimSpace(text); t != "" {
				return t
			}
		}
	}
	return ""
}

// popupScopes is the main document plus the active frame; modals render in
// either, depending on which script raised them.
func (a *Adapter) popupScopes() []*rod.Page {
	scopes := []*rod.Page{a.page}
	if frame := a.frameFor(a.currentFrame()); frame != nil && frame != a.page {
		scopes = append(scopes, frame)
	}
	return scopes
}
