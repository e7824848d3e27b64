package casebook

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Default session parameters. These match the Medidata Rave login flow but
// every value can be overridden through SessionSettings.
const (
	DefaultLoginURL         = "https://login.imedidata.com/login"
	DefaultUsernameSelector = `input[name="session[username]"]`
	DefaultPasswordSelector = `input[name="session[password]"]`
	DefaultSignInSelector   = `button[data-testid="sign_in_button"]`
	DefaultLandingSelector  = "#root"
)

// Viewport defaults. Scrollbars are hidden during capture, so the width is
// the effective page width in the casebook.
const (
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
)

// Timing defaults.
const (
	defaultTimeout     = 30 * time.Second
	defaultLoginWait   = 60 * time.Second
	defaultSettleDelay = 3 * time.Second
)

// DefaultCasebookName is the file name of the merged PDF inside the run
// directory.
const DefaultCasebookName = "CRF Casebook.pdf"

// defaultStripSelectors are page elements removed before capture: the EDC
// navigation sidebar, in-app guide badges, and the sticky action bar. They
// overlap form content on a full-page screenshot.
var defaultStripSelectors = []string{
	".mcc-sidebar-left",
	"._pendo-image",
	"._pendo-badge",
	".sticky-bottom",
}

// Entry is one CRF page to capture: a human-readable label and the page URL.
// Entries come from one manifest row and are immutable once loaded.
type Entry struct {
	Label string
	URL   string
}

// Validate checks that the entry has both a label and an http(s) URL.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Label) == "" {
		return fmt.Errorf("%w: entry label is empty", ErrNoEntries)
	}
	if !strings.HasPrefix(e.URL, "http://") && !strings.HasPrefix(e.URL, "https://") {
		return fmt.Errorf("%w: entry %q has invalid URL %q", ErrNoEntries, e.Label, e.URL)
	}
	return nil
}

// Credentials holds the EDC login pair. Held in memory only for the
// session's duration and never logged.
type Credentials struct {
	Username string
	Password string
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	if c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// SessionSettings configures the login flow and page preparation.
// The zero value is completed with the Default* constants.
type SessionSettings struct {
	LoginURL         string
	UsernameSelector string
	PasswordSelector string
	SignInSelector   string
	// LandingSelector is the element whose presence confirms a successful
	// login.
	LandingSelector string
	// StripSelectors are removed from each page before capture.
	StripSelectors []string
	// SkipSelectAnnotation disables rendering each dropdown's options as
	// visible text next to the control. Annotation is on by default so the
	// selected value survives a static screenshot.
	SkipSelectAnnotation bool
	ViewportWidth   int
	ViewportHeight  int
}

// withDefaults returns a copy with zero fields replaced by defaults.
func (s SessionSettings) withDefaults() SessionSettings {
	if s.LoginURL == "" {
		s.LoginURL = DefaultLoginURL
	}
	if s.UsernameSelector == "" {
		s.UsernameSelector = DefaultUsernameSelector
	}
	if s.PasswordSelector == "" {
		s.PasswordSelector = DefaultPasswordSelector
	}
	if s.SignInSelector == "" {
		s.SignInSelector = DefaultSignInSelector
	}
	if s.LandingSelector == "" {
		s.LandingSelector = DefaultLandingSelector
	}
	if s.StripSelectors == nil {
		s.StripSelectors = defaultStripSelectors
	}
	if s.ViewportWidth <= 0 {
		s.ViewportWidth = DefaultViewportWidth
	}
	if s.ViewportHeight <= 0 {
		s.ViewportHeight = DefaultViewportHeight
	}
	return s
}

// Input contains everything a run needs.
type Input struct {
	Credentials Credentials
	Entries     []Entry
	// OutputDir is the run directory; created if missing. It receives the
	// per-page PDFs and the final casebook.
	OutputDir string
	// CasebookName overrides DefaultCasebookName when set.
	CasebookName string
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout      time.Duration
	loginWait    time.Duration
	settleDelay  time.Duration
	settings     SessionSettings
	keepImages   bool
	keepPagePDFs bool
	interactive  bool
	prompt       io.Reader
	progress     func(EntryResult)
}

// WithTimeout sets the per-navigation timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("casebook: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithLoginWait bounds the wait for the landing page element after the
// sign-in click, covering redirects and a manual 2FA round trip.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithLoginWait(d time.Duration) Option {
	if d <= 0 {
		panic("casebook: WithLoginWait duration must be positive")
	}
	return func(s *Service) {
		s.cfg.loginWait = d
	}
}

// WithSettleDelay sets how long to wait after page load before capturing,
// to let late scripts finish rendering form content.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Service) {
		s.cfg.settleDelay = d
	}
}

// WithSessionSettings overrides login and page-preparation parameters.
func WithSessionSettings(settings SessionSettings) Option {
	return func(s *Service) {
		s.cfg.settings = settings
	}
}

// WithKeepImages retains the intermediate PNG screenshots in the run
// directory after conversion.
func WithKeepImages() Option {
	return func(s *Service) {
		s.cfg.keepImages = true
	}
}

// WithKeepPagePDFs retains the per-page PDFs after the casebook is merged.
func WithKeepPagePDFs() Option {
	return func(s *Service) {
		s.cfg.keepPagePDFs = true
	}
}

// WithInteractivePrompt enables the manual two-factor flow: when the login
// lands on a 2FA challenge, the run pauses until a line is read from r
// (normally os.Stdin). Without this option a 2FA challenge fails the run
// with ErrTwoFactor.
func WithInteractivePrompt(r io.Reader) Option {
	return func(s *Service) {
		s.cfg.interactive = true
		s.cfg.prompt = r
	}
}

// WithProgress registers a callback invoked once per entry as results are
// produced, in manifest order.
func WithProgress(fn func(EntryResult)) Option {
	return func(s *Service) {
		s.cfg.progress = fn
	}
}
