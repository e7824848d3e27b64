package casebook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edcworks/go-casebook/internal/fileutil"
)

// sessionDriver abstracts the authenticated browser session to allow a fake
// in tests.
type sessionDriver interface {
	Login(ctx context.Context, creds Credentials) error
	Capture(ctx context.Context, entry Entry) ([]byte, error)
	Close() error
}

// pdfConverter turns one screenshot into a single-page PDF file.
type pdfConverter interface {
	ToPDF(ctx context.Context, pngPath, pdfPath string) error
}

// pageRef is one produced per-page PDF, carrying the entry label for the
// casebook bookmark.
type pageRef struct {
	Label string
	Path  string
}

// assembler merges ordered per-page PDFs into the casebook.
type assembler interface {
	Merge(ctx context.Context, pages []pageRef, outPath string) error
}

// Service orchestrates the capture-and-assemble pipeline. One Service owns
// one browser session; runs are strictly sequential.
type Service struct {
	cfg       serviceConfig
	session   sessionDriver
	converter pdfConverter
	assembler assembler
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout:     defaultTimeout,
			loginWait:   defaultLoginWait,
			settleDelay: defaultSettleDelay,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.cfg.settings = s.cfg.settings.withDefaults()

	// Create production stages if not injected (e.g., by tests)
	if s.session == nil {
		s.session = newRodSession(s.cfg)
	}
	if s.converter == nil {
		s.converter = newPDFCPUConverter()
	}
	if s.assembler == nil {
		s.assembler = newPDFCPUAssembler()
	}

	return s
}

// Run executes the full pipeline: login once, then capture, convert, and
// collect each entry, and finally merge the casebook. Per-entry failures are
// recorded in the report and skipped; login and assembly failures are
// returned as errors. The returned report is non-nil whenever iteration
// started, even if assembly failed.
func (s *Service) Run(ctx context.Context, input Input) (*RunReport, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(input.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	if err := s.session.Login(ctx, input.Credentials); err != nil {
		return nil, err
	}

	report := &RunReport{}
	var pages []pageRef

	for _, entry := range input.Entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := s.processEntry(ctx, entry, input.OutputDir)
		report.Results = append(report.Results, result)
		if s.cfg.progress != nil {
			s.cfg.progress(result)
		}

		if result.Status != StatusSkipped {
			pages = append(pages, pageRef{Label: entry.Label, Path: result.PDFPath})
		}
	}

	if len(pages) == 0 {
		return report, ErrEmptyCasebook
	}

	name := input.CasebookName
	if name == "" {
		name = DefaultCasebookName
	}
	casebookPath := filepath.Join(input.OutputDir, name)

	if err := s.assembler.Merge(ctx, pages, casebookPath); err != nil {
		return report, err
	}
	report.CasebookPath = casebookPath

	if !s.cfg.keepPagePDFs {
		for _, p := range pages {
			_ = os.Remove(p.Path)
		}
	}

	return report, nil
}

// processEntry captures and converts a single entry. All failures are folded
// into a skipped result; they never stop the run.
func (s *Service) processEntry(ctx context.Context, entry Entry, outputDir string) EntryResult {
	base := fileutil.SanitizeName(entry.Label)
	pngPath := filepath.Join(outputDir, base+".png")
	pdfPath := filepath.Join(outputDir, base+".pdf")

	// Resume: a per-page PDF left by an earlier run counts as done.
	if fileutil.FileExists(pdfPath) {
		return EntryResult{Entry: entry, Status: StatusReused, PDFPath: pdfPath}
	}

	png, err := s.session.Capture(ctx, entry)
	if err != nil {
		return EntryResult{Entry: entry, Status: StatusSkipped, Err: err}
	}

	if err := os.WriteFile(pngPath, png, 0o600); err != nil {
		return EntryResult{Entry: entry, Status: StatusSkipped, Err: fmt.Errorf("%w: writing screenshot: %v", ErrPDFConvert, err)}
	}

	if err := s.converter.ToPDF(ctx, pngPath, pdfPath); err != nil {
		if !s.cfg.keepImages {
			_ = os.Remove(pngPath)
		}
		return EntryResult{Entry: entry, Status: StatusSkipped, Err: err}
	}

	if !s.cfg.keepImages {
		_ = os.Remove(pngPath)
	}

	return EntryResult{Entry: entry, Status: StatusCaptured, PDFPath: pdfPath}
}

// Close releases the browser session.
func (s *Service) Close() error {
	if s.session != nil {
		return s.session.Close()
	}
	return nil
}

// validateInput checks that required fields are present and valid.
func (s *Service) validateInput(input Input) error {
	if err := input.Credentials.Validate(); err != nil {
		return err
	}
	if len(input.Entries) == 0 {
		return ErrNoEntries
	}
	for _, e := range input.Entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	if input.OutputDir == "" {
		return ErrEmptyOutputDir
	}
	return nil
}
