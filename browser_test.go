package casebook

import (
	"strings"
	"testing"
)

func TestTwoFactorDetected(t *testing.T) {
	tests := []struct {
		name string
		html string
		url  string
		want bool
	}{
		{
			name: "marker in page body",
			html: "<html><body>Enter your 2FA code</body></html>",
			url:  "https://login.edc.example.com/session",
			want: true,
		},
		{
			name: "marker in URL",
			html: "<html><body>Verify</body></html>",
			url:  "https://login.edc.example.com/two-factor/new",
			want: true,
		},
		{
			name: "URL marker is case-insensitive",
			html: "<html></html>",
			url:  "https://login.edc.example.com/Two-Factor",
			want: true,
		},
		{
			name: "regular landing page",
			html: "<html><body><div id=\"root\"></div></body></html>",
			url:  "https://edc.example.com/studies",
			want: false,
		},
		{
			name: "empty page",
			html: "",
			url:  "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := twoFactorDetected(tt.html, tt.url); got != tt.want {
				t.Errorf("twoFactorDetected(%q, %q) = %v, want %v", tt.html, tt.url, got, tt.want)
			}
		})
	}
}

func TestAwaitManualAuth_ReadsConfirmation(t *testing.T) {
	var promptOut strings.Builder
	r := &rodSession{
		cfg:       serviceConfig{interactive: true, prompt: strings.NewReader("\n")},
		promptOut: &promptOut,
	}

	if err := r.awaitManualAuth(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(promptOut.String(), "2FA") {
		t.Errorf("expected a 2FA prompt, got %q", promptOut.String())
	}
}

func TestAwaitManualAuth_AcceptsEOF(t *testing.T) {
	// A closed stdin (EOF without a line) must not hang or error; the
	// operator may have piped input.
	r := &rodSession{
		cfg:       serviceConfig{interactive: true, prompt: strings.NewReader("")},
		promptOut: &strings.Builder{},
	}
	if err := r.awaitManualAuth(); err != nil {
		t.Fatalf("unexpected error on EOF: %v", err)
	}
}

func TestSessionSettings_Defaults(t *testing.T) {
	s := SessionSettings{}.withDefaults()

	if s.LoginURL != DefaultLoginURL {
		t.Errorf("LoginURL = %q, want %q", s.LoginURL, DefaultLoginURL)
	}
	if s.UsernameSelector != DefaultUsernameSelector {
		t.Errorf("UsernameSelector = %q", s.UsernameSelector)
	}
	if s.LandingSelector != DefaultLandingSelector {
		t.Errorf("LandingSelector = %q", s.LandingSelector)
	}
	if len(s.StripSelectors) == 0 {
		t.Error("expected default strip selectors")
	}
	if s.ViewportWidth != DefaultViewportWidth || s.ViewportHeight != DefaultViewportHeight {
		t.Errorf("viewport = %dx%d", s.ViewportWidth, s.ViewportHeight)
	}
	if s.SkipSelectAnnotation {
		t.Error("select annotation must be on for the zero value")
	}
}

func TestSessionSettings_OverridesKept(t *testing.T) {
	s := SessionSettings{
		LoginURL:             "https://login.other-edc.example.com",
		StripSelectors:       []string{},
		SkipSelectAnnotation: true,
		ViewportWidth:        1280,
	}.withDefaults()

	if s.LoginURL != "https://login.other-edc.example.com" {
		t.Errorf("LoginURL overridden: %q", s.LoginURL)
	}
	// An explicit empty list disables stripping; nil means defaults.
	if len(s.StripSelectors) != 0 {
		t.Errorf("expected stripping disabled, got %v", s.StripSelectors)
	}
	if s.ViewportWidth != 1280 {
		t.Errorf("ViewportWidth = %d, want 1280", s.ViewportWidth)
	}
	if s.ViewportHeight != DefaultViewportHeight {
		t.Errorf("ViewportHeight = %d, want default", s.ViewportHeight)
	}
	if !s.SkipSelectAnnotation {
		t.Error("explicit SkipSelectAnnotation must be kept")
	}
}
