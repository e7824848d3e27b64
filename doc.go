// Package casebook captures Case Report Form (CRF) pages from a web-based
// EDC system and assembles them into a single casebook PDF.
//
// The pipeline logs into the EDC with a single browser session, then for each
// manifest entry navigates to the page, prepares it for capture (strips
// navigation chrome, annotates dropdowns with their option texts), takes a
// full-page screenshot, and converts it to a single-page PDF. All per-page
// PDFs are merged, in manifest order, into one casebook with a bookmark per
// CRF.
//
// Basic usage:
//
//	svc := casebook.New(casebook.WithTimeout(60 * time.Second))
//	defer svc.Close()
//
//	report, err := svc.Run(ctx, casebook.Input{
//		Credentials: creds,
//		Entries:     entries,
//		OutputDir:   "output_29Aug2026",
//	})
//
// A failing entry is skipped and recorded in the report; the run continues
// with the remaining entries. Login failures abort the run.
//
// The browser session is driven by go-rod and is created lazily on the first
// Run. Rod downloads a compatible Chromium on first use unless
// ROD_BROWSER_BIN points at an installed browser.
package casebook
