package casebook

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pngSession implements sessionDriver with real PNG bytes, so the pdfcpu
// converter and assembler run for real.
type pngSession struct{}

func (pngSession) Login(ctx context.Context, creds Credentials) error { return nil }

func (pngSession) Capture(ctx context.Context, entry Entry) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 150))
	for y := 0; y < 150; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pngSession) Close() error { return nil }

// TestPipeline_EndToEnd runs capture-to-casebook with the production
// converter and assembler; only the browser is faked.
func TestPipeline_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	svc := New()
	svc.session = pngSession{}

	entries := []Entry{
		{Label: "Demographics", URL: "https://edc.example.com/demo"},
		{Label: "AdverseEvents", URL: "https://edc.example.com/ae"},
		{Label: "ConMeds", URL: "https://edc.example.com/cm"},
	}

	report, err := svc.Run(context.Background(), Input{
		Credentials: Credentials{Username: "u", Password: "p"},
		Entries:     entries,
		OutputDir:   dir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Captured() != 3 {
		t.Fatalf("expected 3 captured, got %d", report.Captured())
	}

	data, err := os.ReadFile(report.CasebookPath)
	if err != nil {
		t.Fatalf("reading casebook: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("casebook is not a PDF")
	}

	n, err := api.PageCountFile(report.CasebookPath)
	if err != nil {
		t.Fatalf("page count: %v", err)
	}
	if n != 3 {
		t.Errorf("casebook has %d pages, want 3", n)
	}

	// Intermediates are cleaned up by default.
	if _, err := os.Stat(filepath.Join(dir, "Demographics.pdf")); !os.IsNotExist(err) {
		t.Error("per-page PDFs must be removed after merge")
	}
}
