package casebook

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Compile-time interface check
var _ assembler = (*pdfcpuAssembler)(nil)

// pdfcpuAssembler merges per-page PDFs into the casebook and adds one
// bookmark per CRF. The pdfcpu entry points are injectable for tests.
type pdfcpuAssembler struct {
	merge        func(inFiles []string, outFile string, dividerPage bool, conf *model.Configuration) error
	pageCount    func(inFile string) (int, error)
	addBookmarks func(inFile, outFile string, bms []pdfcpu.Bookmark, replace bool, conf *model.Configuration) error
}

func newPDFCPUAssembler() *pdfcpuAssembler {
	return &pdfcpuAssembler{
		merge:        api.MergeCreateFile,
		pageCount:    api.PageCountFile,
		addBookmarks: api.AddBookmarksFile,
	}
}

// Merge concatenates the pages, preserving input order, and bookmarks each
// CRF at its first page. The caller guarantees pages is non-empty.
func (a *pdfcpuAssembler) Merge(ctx context.Context, pages []pageRef, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// One page per entry in the normal case, but an overly tall capture can
	// import as several pages; bookmark offsets follow the real counts.
	counts := make([]int, len(pages))
	inFiles := make([]string, len(pages))
	for i, p := range pages {
		n, err := a.pageCount(p.Path)
		if err != nil {
			return fmt.Errorf("%w: page count of %s: %v", ErrMerge, p.Path, err)
		}
		counts[i] = n
		inFiles[i] = p.Path
	}

	if err := a.merge(inFiles, outPath, false, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrMerge, err)
	}

	bms := bookmarksFor(pages, counts)
	if err := a.addBookmarks(outPath, "", bms, true, nil); err != nil {
		return fmt.Errorf("%w: adding bookmarks: %v", ErrMerge, err)
	}
	return nil
}

// bookmarksFor builds one top-level bookmark per page ref, spanning its page
// range within the merged document.
func bookmarksFor(pages []pageRef, counts []int) []pdfcpu.Bookmark {
	bms := make([]pdfcpu.Bookmark, 0, len(pages))
	from := 1
	for i, p := range pages {
		bms = append(bms, pdfcpu.Bookmark{
			Title:    p.Label,
			PageFrom: from,
			PageThru: from + counts[i] - 1,
		})
		from += counts[i]
	}
	return bms
}
