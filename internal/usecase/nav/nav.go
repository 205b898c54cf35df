// Package nav walks the ERP shell from the login page down to the Consignment
// entry form: sign-in, branch selection, the Operations tile, and the
// side-menu path into the form's iframe.
package nav

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/application/port/output"
	"github.com/mageshwaroffic-ship-it/Boostentry-Erp-UI-Entry/internal/domain/entity"
)

type Config struct {
	BaseURL  string
	MenuURL  string
	Username string
	Password string
	Branch   string

	// StepTimeout bounds each individual navigation step.
	StepTimeout time.Duration
	// PopupTimeout bounds speculative dialog probes.
	PopupTimeout time.Duration
}

func (c *Config) defaults() {
	if c.StepTimeout <= 0 {
		c.StepTimeout = 20 * time.Second
	}
	if c.PopupTimeout <= 0 {
		c.PopupTimeout = 2 * time.Second
	}
}

type Navigator struct {
	browser     output.BrowserPort
	checkpoints output.CheckpointSink
	log         *zap.Logger
	cfg         Config
}

func New(browser output.BrowserPort, checkpoints output.CheckpointSink, log *zap.Logger, cfg Config) *Navigator {
	cfg.defaults()
	if checkpoints == nil {
		checkpoints = output.NopCheckpoint{}
	}
	return &Navigator{browser: browser, checkpoints: checkpoints, log: log, cfg: cfg}
}

var (
	userField   = []entity.Strategy{entity.CSS("#UserName")}
	passField   = []entity.Strategy{entity.CSS("#Password")}
	signInBtn   = []entity.Strategy{entity.CSS("#btnSubmit")}
	branchField = []entity.Strategy{entity.CSS("#Branch")}
	branchBtn   = []entity.Strategy{entity.XPath("//button[normalize-space()='Submit']")}

	operationsTile = []entity.Strategy{entity.XPath("//img[@alt='Operations']")}

	bookingMenu = []entity.Strategy{
		entity.XPath("//*[@id='side-menu']/li[2]/a"),
		entity.XPath("//span[contains(text(),'Booking Operation')]/ancestor::a"),
	}
	consignmentMenu = []entity.Strategy{
		entity.XPath("//*[@id='side-menu']/li[2]/ul/li/a"),
		entity.XPath("//span[normalize-space()='Consignment']/ancestor::a"),
	}
	apiMenu = []entity.Strategy{
		entity.XPath("//*[@id='side-menu']/li[2]/ul/li/ul/li/a"),
		entity.XPath("//span[normalize-space()='API']/ancestor::a"),
	}

	formReadyField = []entity.Strategy{entity.CSS("#CNM_VNOSEQ")}
	dateReadyField = []entity.Strategy{entity.CSS("#CNM_AGAINSTDATE")}
)

// Login signs into the ERP. A "User Already Login" popup after the first
// attempt forces the session over, so the credentials are retyped and
// submitted once more.
func (n *Navigator) Login(ctx context.Context) error {
	if err := n.browser.Navigate(ctx, n.cfg.BaseURL); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	n.browser.WaitIdle(ctx, output.IdleThorough)
	n.checkpoints.Checkpoint(ctx, "00_login_page")

	if err := n.typeCredentials(ctx); err != nil {
		return err
	}
	n.checkpoints.Checkpoint(ctx, "01_credentials_typed")

	if err := n.browser.Click(ctx, signInBtn); err != nil {
		return fmt.Errorf("click sign in: %w", err)
	}
	n.browser.WaitIdle(ctx, output.IdleFast)

	if kind, text := n.browser.DismissPopup(ctx, 4*time.Second); kind != output.PopupNone {
		n.log.Warn("session takeover popup dismissed", zap.String("text", text))
		if err := n.typeCredentials(ctx); err != nil {
			return err
		}
		if err := n.browser.Click(ctx, signInBtn); err != nil {
			return fmt.Errorf("retry sign in after popup: %w", err)
		}
		n.browser.WaitIdle(ctx, output.IdleFast)
	}

	n.log.Info("signed in", zap.String("url", n.browser.CurrentURL()))
	return nil
}

func (n *Navigator) typeCredentials(ctx context.Context) error {
	user, ok := n.browser.Locate(ctx, userField)
	if !ok {
		return fmt.Errorf("username field not found")
	}
	if err := n.browser.TypeValue(ctx, user, n.cfg.Username, false); err != nil {
		return fmt.Errorf("type username: %w", err)
	}
	pass, ok := n.browser.Locate(ctx, passField)
	if !ok {
		return fmt.Errorf("password field not found")
	}
	if err := n.browser.TypeValue(ctx, pass, n.cfg.Password, false); err != nil {
		return fmt.Errorf("type password: %w", err)
	}
	return nil
}

// SelectBranch picks the working branch and submits. The branch usually comes
// from the document being processed; an empty name falls back to the
// configured default. The submit button sits under the same popup hazard as
// the login, so the click is retried with a popup sweep in between, at most
// three times.
func (n *Navigator) SelectBranch(ctx context.Context, branch string) error {
	if strings.TrimSpace(branch) == "" {
		branch = n.cfg.Branch
	}
	if strings.TrimSpace(branch) == "" {
		return fmt.Errorf("no branch to select")
	}
	ref, ok := n.browser.Locate(ctx, branchField)
	if !ok {
		return fmt.Errorf("branch selector not found")
	}
	if err := n.browser.SelectOption(ctx, ref, branch); err != nil {
		return fmt.Errorf("select branch %q: %w", branch, err)
	}
	n.checkpoints.Checkpoint(ctx, "02_branch_selected")

	submitted := false
	for attempt := 1; attempt <= 3; attempt++ {
		n.browser.DismissPopup(ctx, n.cfg.PopupTimeout)
		if err := n.browser.Click(ctx, branchBtn); err != nil {
			n.log.Debug("branch submit click failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		n.browser.WaitIdle(ctx, output.IdleFast)
		if kind, _ := n.browser.DismissPopup(ctx, n.cfg.PopupTimeout); kind != output.PopupNone {
			continue
		}
		submitted = true
		break
	}
	if !submitted {
		return fmt.Errorf("branch submit kept getting interrupted")
	}

	if err := n.waitURLContains(ctx, "/Settings/LoadModule"); err != nil {
		return fmt.Errorf("branch submit did not land on module page: %w", err)
	}
	n.checkpoints.Checkpoint(ctx, "03_after_branch_submit")
	n.log.Info("branch selected", zap.String("branch", branch))
	return nil
}

// OpenOperations clicks the Operations tile, falling back to a direct menu
// URL navigation when the tile never appears.
func (n *Navigator) OpenOperations(ctx context.Context) error {
	if err := n.browser.Click(ctx, operationsTile); err != nil {
		n.log.Warn("operations tile not clickable, navigating directly", zap.Error(err))
		if err := n.browser.Navigate(ctx, n.cfg.MenuURL); err != nil {
			return fmt.Errorf("open menu page: %w", err)
		}
	}
	n.checkpoints.Checkpoint(ctx, "04_operations_tile_clicked")

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if lastErr = n.waitURLContains(ctx, "/Settings/Menu"); lastErr == nil {
			n.log.Info("on menu page")
			return nil
		}
		n.log.Debug("not on menu page yet, reloading", zap.Int("attempt", attempt))
		if err := n.browser.Navigate(ctx, n.cfg.MenuURL); err != nil {
			return fmt.Errorf("reload menu page: %w", err)
		}
	}
	return fmt.Errorf("menu page never loaded: %w", lastErr)
}

// OpenConsignment descends the side menu (Booking Operation > Consignment >
// API) and waits for the entry form inside its iframe to come up. Locate does
// the frame descent itself, so readiness is just "the seq field is findable".
func (n *Navigator) OpenConsignment(ctx context.Context) error {
	for _, step := range []struct {
		name string
		link []entity.Strategy
	}{
		{"booking operation", bookingMenu},
		{"consignment", consignmentMenu},
		{"api", apiMenu},
	} {
		if err := n.browser.Click(ctx, step.link); err != nil {
			return fmt.Errorf("open %s menu: %w", step.name, err)
		}
		n.browser.WaitIdle(ctx, output.IdleFast)
	}
	n.checkpoints.Checkpoint(ctx, "06_consignment_clicked")

	if err := n.waitLocatable(ctx, formReadyField); err != nil {
		return fmt.Errorf("consignment form never became ready: %w", err)
	}
	n.checkpoints.Checkpoint(ctx, "07_consignment_form_ready")

	if err := n.waitLocatable(ctx, dateReadyField); err != nil {
		return fmt.Errorf("consignment date field never became ready: %w", err)
	}
	n.browser.WaitIdle(ctx, output.IdleThorough)
	n.log.Info("consignment form ready")
	return nil
}

// ToConsignmentForm runs the full descent from a fresh browser to a ready
// entry form.
func (n *Navigator) ToConsignmentForm(ctx context.Context, branch string) error {
	if err := n.Login(ctx); err != nil {
		return err
	}
	if err := n.SelectBranch(ctx, branch); err != nil {
		return err
	}
	if err := n.OpenOperations(ctx); err != nil {
		return err
	}
	return n.OpenConsignment(ctx)
}

func (n *Navigator) waitURLContains(ctx context.Context, fragment string) error {
	deadline := time.Now().Add(n.cfg.StepTimeout)
	for {
		if strings.Contains(n.browser.CurrentURL(), fragment) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("url %q does not contain %q after %s", n.browser.CurrentURL(), fragment, n.cfg.StepTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}

func (n *Navigator) waitLocatable(ctx context.Context, strategies []entity.Strategy) error {
	deadline := time.Now().Add(n.cfg.StepTimeout)
	for {
		if _, ok := n.browser.Locate(ctx, strategies); ok {
			n.browser.ResetFrame()
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("element not found after %s", n.cfg.StepTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}
