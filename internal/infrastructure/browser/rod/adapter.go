// Package rod implements the browser port on go-rod. One adapter owns one
// Chrome process and one page; the consignment form lives inside an iframe,
// so element location descends one frame level when the main document misses.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
)

var _ output.BrowserPort = (*Adapter)(nil)

type Config struct {
	Headless   bool
	SlowMotion time.Duration
	// Timeout bounds a single element lookup.
	Timeout   time.Duration
	NoSandbox bool
	DevTools  bool
}

func DefaultConfig() Config {
	return Config{
		Headless:   true,
		SlowMotion: 100 * time.Millisecond,
		Timeout:    10 * time.Second,
		NoSandbox:  true,
	}
}

type Adapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	current int         // frame index of the last successful Locate
	frames  []*rod.Page // lazily refreshed iframe pages

	alertMu   sync.Mutex
	alertText string
	alertSeen bool
}

func New(ctx context.Context, cfg Config, log *zap.Logger) (*Adapter, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-web-security").
		Set("allow-running-insecure-content").
		Set("disable-setuid-sandbox")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("open page: %w", err)
	}

	a := &Adapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		log:      log,
		current:  output.MainFrame,
	}
	a.armDialogHandler()
	return a, nil
}

func (a *Adapter) Navigate(ctx context.Context, url string) error {
	if err := a.page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := a.page.Context(ctx).WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	a.invalidateFrames()
	return nil
}

func (a *Adapter) CurrentURL() string {
	info, err := a.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Locate tries every strategy against the main document first, then one
// level into each visible iframe. The winning frame index is cached so the
// follow-up read/type operations and the next Locate start there.
func (a *Adapter) Locate(ctx context.Context, strategies []entity.Strategy) (output.ElementRef, bool) {
	for _, s := range strategies {
		if el := a.find(ctx, a.page, s, 2*time.Second); el != nil {
			a.setCurrent(output.MainFrame)
			return output.ElementRef{Strategy: s, Frame: output.MainFrame}, true
		}
	}

	frames := a.refreshFrames(ctx)
	for i, frame := range frames {
		for _, s := range strategies {
			if el := a.find(ctx, frame, s, 2*time.Second); el != nil {
				a.setCurrent(i)
				return output.ElementRef{Strategy: s, Frame: i}, true
			}
		}
	}
	return output.ElementRef{}, false
}

func (a *Adapter) IsVisible(ctx context.Context, strategies []entity.Strategy) bool {
	for _, s := range strategies {
		el := a.find(ctx, a.frameFor(a.currentFrame()), s, time.Second)
		if el == nil {
			el = a.find(ctx, a.page, s, 500*time.Millisecond)
		}
		if el == nil {
			continue
		}
		if visible, err := el.Visible(); err == nil && visible {
			return true
		}
	}
	return false
}

func (a *Adapter) Click(ctx context.Context, strategies []entity.Strategy) error {
	ref, ok := a.Locate(ctx, strategies)
	if !ok {
		return fmt.Errorf("clickable element not found: %s", strategies[0].Selector)
	}
	el, err := a.resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err == nil {
		if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
			return nil
		}
	}
	// Overlapped or animating targets reject the emulated click; the JS click
	// still lands.
	if _, err := el.Eval(`() => this.click()`); err != nil {
		return fmt.Errorf("click %s: %w", ref.Strategy.Selector, err)
	}
	return nil
}

func (a *Adapter) ResetFrame() {
	a.setCurrent(output.MainFrame)
}

func (a *Adapter) Close() {
	if a.browser != nil {
		_ = a.browser.Close()
	}
	if a.launcher != nil {
		a.launcher.Kill()
		a.launcher.Cleanup()
	}
}

// find resolves one strategy in one document, tolerating lookup errors.
func (a *Adapter) find(ctx context.Context, page *rod.Page, s entity.Strategy, timeout time.Duration) *rod.Element {
	if page == nil {
		return nil
	}
	p := page.Context(ctx).Timeout(timeout)
	var el *rod.Element
	var err error
	if s.XPath {
		el, err = p.ElementX(s.Selector)
	} else {
		el, err = p.Element(s.Selector)
	}
	if err != nil {
		return nil
	}
	return el
}

// resolve re-finds the element behind a ref. Elements go stale across page
// re-renders, so refs carry strategy + frame, never a node handle.
func (a *Adapter) resolve(ctx context.Context, ref output.ElementRef) (*rod.Element, error) {
	el := a.find(ctx, a.frameFor(ref.Frame), ref.Strategy, a.timeout)
	if el == nil {
		return nil, fmt.Errorf("element vanished: %s", ref.Strategy.Selector)
	}
	return el, nil
}

func (a *Adapter) frameFor(idx int) *rod.Page {
	if idx == output.MainFrame {
		return a.page
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if idx < 0 || idx >= len(a.frames) {
		return nil
	}
	return a.frames[idx]
}

// refreshFrames re-enumerates the page's visible iframes. The ERP swaps the
// form iframe on menu navigation, so the list is rebuilt on every miss.
func (a *Adapter) refreshFrames(ctx context.Context) []*rod.Page {
	elements, err := a.page.Context(ctx).Timeout(2 * time.Second).Elements("iframe")
	if err != nil {
		return nil
	}

	var frames []*rod.Page
	for _, el := range elements {
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		frame, err := el.Frame()
		if err != nil {
			continue
		}
		frames = append(frames, frame)
	}

	a.mu.Lock()
	a.frames = frames
	a.mu.Unlock()
	return frames
}

func (a *Adapter) invalidateFrames() {
	a.mu.Lock()
	a.frames = nil
	a.current = output.MainFrame
	a.mu.Unlock()
}

func (a *Adapter) setCurrent(idx int) {
	a.mu.Lock()
	a.current = idx
	a.mu.Unlock()
}

func (a *Adapter) currentFrame() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}
