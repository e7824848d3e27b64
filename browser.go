package casebook

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Compile-time interface check
var _ sessionDriver = (*rodSession)(nil)

// twoFactorSettle is how long to wait after submitting credentials before
// checking whether the EDC redirected to a 2FA challenge.
const twoFactorSettle = 5 * time.Second

// rodSession drives a single authenticated browser session via go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodSession struct {
	cfg       serviceConfig
	browser   *rod.Browser
	page      *rod.Page
	promptOut io.Writer
	loggedIn  bool
}

// newRodSession creates a session driver; the browser launches lazily on the
// first Login.
func newRodSession(cfg serviceConfig) *rodSession {
	return &rodSession{cfg: cfg, promptOut: os.Stderr}
}

// ensureBrowser lazily launches and connects to the browser and opens the
// single page used for the whole run.
func (r *rodSession) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	// Configure launcher
	l := launcher.New().
		Set("hide-scrollbars").
		Set("force-device-scale-factor", "1").
		Set("window-size", fmt.Sprintf("%d,%d", r.cfg.settings.ViewportWidth, r.cfg.settings.ViewportHeight))

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             r.cfg.settings.ViewportWidth,
		Height:            r.cfg.settings.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = browser.Close()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.page = page
	return nil
}

// Login authenticates the session against the EDC. It fills the credential
// form, submits, handles an optional 2FA challenge, and waits for the
// landing-page indicator. Fatal on failure; a run without a session is
// meaningless.
func (r *rodSession) Login(ctx context.Context, creds Credentials) error {
	if r.loggedIn {
		return nil
	}
	if err := r.ensureBrowser(); err != nil {
		return err
	}

	settings := r.cfg.settings
	page := r.page.Context(ctx)

	if err := page.Timeout(r.cfg.timeout).Navigate(settings.LoginURL); err != nil {
		return fmt.Errorf("%w: navigating to login page: %v", ErrAuth, err)
	}

	if err := r.fillField(page, settings.UsernameSelector, creds.Username); err != nil {
		return fmt.Errorf("%w: username field: %v", ErrAuth, err)
	}
	if err := r.fillField(page, settings.PasswordSelector, creds.Password); err != nil {
		return fmt.Errorf("%w: password field: %v", ErrAuth, err)
	}

	signIn, err := page.Timeout(r.cfg.timeout).Element(settings.SignInSelector)
	if err != nil {
		return fmt.Errorf("%w: sign-in button: %v", ErrAuth, err)
	}
	if err := signIn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("%w: sign-in button: %v", ErrAuth, err)
	}

	// Give the EDC a moment to redirect before probing for a 2FA challenge.
	time.Sleep(twoFactorSettle)

	pending, err := r.twoFactorPending(page)
	if err == nil && pending {
		if !r.cfg.interactive {
			return ErrTwoFactor
		}
		if err := r.awaitManualAuth(); err != nil {
			return err
		}
	}

	if _, err := page.Timeout(r.cfg.loginWait).Element(settings.LandingSelector); err != nil {
		return fmt.Errorf("%w: landing page indicator %q not found: %v", ErrAuth, settings.LandingSelector, err)
	}

	r.loggedIn = true
	return nil
}

// fillField locates an input and types the value into it.
func (r *rodSession) fillField(page *rod.Page, selector, value string) error {
	el, err := page.Timeout(r.cfg.timeout).Element(selector)
	if err != nil {
		return err
	}
	return el.Input(value)
}

// twoFactorPending reports whether the current page is a 2FA challenge.
func (r *rodSession) twoFactorPending(page *rod.Page) (bool, error) {
	html, err := page.HTML()
	if err != nil {
		return false, err
	}
	info, err := page.Info()
	if err != nil {
		return false, err
	}
	return twoFactorDetected(html, info.URL), nil
}

// twoFactorDetected matches the EDC's 2FA challenge markers in the page body
// or URL.
func twoFactorDetected(html, url string) bool {
	return strings.Contains(html, "2FA") || strings.Contains(strings.ToLower(url), "two-factor")
}

// awaitManualAuth pauses until the operator confirms that the 2FA challenge
// was completed in the browser window.
func (r *rodSession) awaitManualAuth() error {
	fmt.Fprintln(r.promptOut, "2FA challenge detected. Complete authentication in the browser, then press Enter to continue.")
	scanner := bufio.NewScanner(r.cfg.prompt)
	if !scanner.Scan() && scanner.Err() != nil {
		return fmt.Errorf("%w: reading confirmation: %v", ErrTwoFactor, scanner.Err())
	}
	return nil
}

// Close releases browser resources.
func (r *rodSession) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		r.page = nil
		r.loggedIn = false
		return err
	}
	return nil
}
