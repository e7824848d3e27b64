package casebook

import (
	"context"
	"fmt"
	"image/png"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Compile-time interface check
var _ pdfConverter = (*pdfcpuConverter)(nil)

// pngPixelsPerInch is the screenshot resolution: Chrome renders at 96 CSS
// pixels per inch with a device scale factor of 1.
const pngPixelsPerInch = 96.0

// pixelsToPoints converts screenshot pixels to PDF points (72 per inch).
func pixelsToPoints(px int) float64 {
	return float64(px) * 72.0 / pngPixelsPerInch
}

// importConfigFor returns an import configuration that sizes the PDF page
// exactly to the image, full bleed. A deterministic function of the image
// dimensions.
func importConfigFor(widthPx, heightPx int) *pdfcpu.Import {
	imp := pdfcpu.DefaultImportConfig()
	imp.PageDim = &types.Dim{
		Width:  pixelsToPoints(widthPx),
		Height: pixelsToPoints(heightPx),
	}
	imp.PageSize = ""
	imp.UserDim = true
	imp.Pos = types.Full
	imp.Scale = 1.0
	imp.ScaleAbs = true
	imp.InpUnit = types.POINTS
	return imp
}

// pdfcpuConverter converts one PNG screenshot into a single-page PDF sized
// to the image.
type pdfcpuConverter struct{}

func newPDFCPUConverter() *pdfcpuConverter {
	// The converter needs no pdfcpu config dir; skip creating one under
	// the user's home.
	api.DisableConfigDir()
	return &pdfcpuConverter{}
}

// ToPDF reads the PNG's dimensions and imports it onto a page of the same
// size. Pure transformation apart from file I/O; identical input bytes yield
// the same page geometry.
func (c *pdfcpuConverter) ToPDF(ctx context.Context, pngPath, pdfPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(pngPath) // #nosec G304 -- path is derived from the run directory
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFConvert, err)
	}
	cfg, err := png.DecodeConfig(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrPDFConvert, pngPath, err)
	}

	imp := importConfigFor(cfg.Width, cfg.Height)
	if err := api.ImportImagesFile([]string{pngPath}, pdfPath, imp, nil); err != nil {
		return fmt.Errorf("%w: importing %s: %v", ErrPDFConvert, pngPath, err)
	}
	return nil
}
