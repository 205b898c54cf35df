package rod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
)

// forceValueJS assigns through the prototype's native value setter and fires
// the event cascade framework listeners expect. Plain element.value writes
// are invisible to React/Knockout-style bindings.
const forceValueJS = `(val) => {
	const proto = this.tagName === 'TEXTAREA'
		? window.HTMLTextAreaElement.prototype
		: window.HTMLInputElement.prototype;
	const desc = Object.getOwnPropertyDescriptor(proto, 'value');
	if (desc && desc.set) {
		desc.set.call(this, val);
	} else {
		this.value = val;
	}
	for (const type of ['input', 'change', 'keyup', 'blur']) {
		this.dispatchEvent(new Event(type, { bubbles: true }));
	}
}`

func (a *Adapter) ReadValue(ctx context.Context, ref output.ElementRef) string {
	el, err := a.resolve(ctx, ref)
	if err != nil {
		return ""
	}
	res, err := el.Eval(`() => this.value !== undefined ? String(this.value) : (this.textContent || '')`)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(res.Value.Str())
}

// TypeValue clears the field and types the text with emulated keystrokes.
// commit appends Enter, for fields whose change handlers only run on it.
func (a *Adapter) TypeValue(ctx context.Context, ref output.ElementRef, text string, commit bool) error {
	el, err := a.resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err == nil {
		_ = el.Focus()
	}
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	} else if _, err := el.Eval(`() => { this.value = '' }`); err != nil {
		a.log.Debug("field clear failed", zap.String("selector", ref.Strategy.Selector), zap.Error(err))
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("type into %s: %w", ref.Strategy.Selector, err)
	}
	if commit {
		if err := el.Input("\r"); err != nil {
			return fmt.Errorf("commit %s: %w", ref.Strategy.Selector, err)
		}
	}
	return nil
}

func (a *Adapter) ForceValue(ctx context.Context, ref output.ElementRef, text string) error {
	el, err := a.resolve(ctx, ref)
	if err != nil {
		return err
	}
	if _, err := el.Eval(forceValueJS, text); err != nil {
		return fmt.Errorf("force value into %s: %w", ref.Strategy.Selector, err)
	}
	return nil
}

func (a *Adapter) Blur(ctx context.Context, ref output.ElementRef) {
	el, err := a.resolve(ctx, ref)
	if err != nil {
		return
	}
	_, _ = el.Eval(`() => this.blur()`)
}

func (a *Adapter) SelectOption(ctx context.Context, ref output.ElementRef, value string) error {
	el, err := a.resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := el.Select([]string{value}, true, rod.SelectorTypeText); err == nil {
		return nil
	}
	// Text match failed; fall back to a case-insensitive scan of option text
	// and value, then fire change by hand.
	res, err := el.Eval(`(val) => {
		const want = val.trim().toLowerCase();
		for (const opt of this.options) {
			if (opt.text.trim().toLowerCase() === want || opt.value.trim().toLowerCase() === want) {
				this.value = opt.value;
				this.dispatchEvent(new Event('change', { bubbles: true }));
				return true;
			}
		}
		return false;
	}`, value)
	if err != nil {
		return fmt.Errorf("select option %q in %s: %w", value, ref.Strategy.Selector, err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("no option %q in %s", value, ref.Strategy.Selector)
	}
	return nil
}

func (a *Adapter) SelectedText(ctx context.Context, ref output.ElementRef) string {
	el, err := a.resolve(ctx, ref)
	if err != nil {
		return ""
	}
	res, err := el.Eval(`() => {
		const opt = this.options && this.options[this.selectedIndex];
		return opt ? opt.text : '';
	}`)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(res.Value.Str())
}

// PickSuggestion scans the open jQuery UI autocomplete list for an entry
// matching the typed text and clicks it. allowContains widens the match to
// substring containment, for composites the list renders in its own order.
func (a *Adapter) PickSuggestion(ctx context.Context, text string, allowContains bool) bool {
	frame := a.frameFor(a.currentFrame())
	if frame == nil {
		frame = a.page
	}

	deadline := time.Now().Add(3 * time.Second)
	want := strings.ToUpper(strings.TrimSpace(text))
	for {
		items, err := frame.Context(ctx).Timeout(time.Second).
			Elements("ul.ui-autocomplete li, .ui-menu-item, .autocomplete-suggestion")
		if err == nil {
			type candidate struct {
				el    *rod.Element
				label string
			}
			var visible []candidate
			for _, item := range items {
				if ok, err := item.Visible(); err != nil || !ok {
					continue
				}
				label, err := item.Text()
				if err != nil {
					continue
				}
				got := strings.ToUpper(strings.TrimSpace(label))
				if got == "" {
					continue
				}
				visible = append(visible, candidate{el: item, label: got})
			}
			labels := make([]string, len(visible))
			for i, c := range visible {
				labels[i] = c.label
			}
			if idx := matchSuggestion(labels, want, allowContains); idx >= 0 {
				if clickSuggestion(visible[idx].el) {
					return true
				}
			}
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			return false
		}
		time.Sleep(150 * time.Millisecond)
	}
}

// matchSuggestion picks the suggestion to click from the visible list,
// already uppercased and trimmed. An exact match anywhere in the list beats
// a contains match on an earlier item, so the list is scanned twice; the
// contains pass only accepts options that include the full target text.
func matchSuggestion(labels []string, want string, allowContains bool) int {
	for i, l := range labels {
		if l == want {
			return i
		}
	}
	if allowContains {
		for i, l := range labels {
			if strings.Contains(l, want) {
				return i
			}
		}
	}
	return -1
}

func clickSuggestion(el *rod.Element) bool {
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		if _, err := el.Eval(`() => this.click()`); err != nil {
			return false
		}
	}
	return true
}
