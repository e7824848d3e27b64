package casebook

import (
	"context"
	"errors"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// fakePDFOps records calls to the pdfcpu entry points.
type fakePDFOps struct {
	counts       map[string]int
	countErr     error
	mergeErr     error
	bookmarkErr  error
	mergedFiles  []string
	mergedOut    string
	bookmarks    []pdfcpu.Bookmark
	bookmarkFile string
}

func (f *fakePDFOps) assembler() *pdfcpuAssembler {
	return &pdfcpuAssembler{
		merge: func(inFiles []string, outFile string, dividerPage bool, conf *model.Configuration) error {
			f.mergedFiles = inFiles
			f.mergedOut = outFile
			return f.mergeErr
		},
		pageCount: func(inFile string) (int, error) {
			if f.countErr != nil {
				return 0, f.countErr
			}
			if n, ok := f.counts[inFile]; ok {
				return n, nil
			}
			return 1, nil
		},
		addBookmarks: func(inFile, outFile string, bms []pdfcpu.Bookmark, replace bool, conf *model.Configuration) error {
			f.bookmarkFile = inFile
			f.bookmarks = bms
			return f.bookmarkErr
		},
	}
}

func TestPDFCPUAssembler_Merge(t *testing.T) {
	ops := &fakePDFOps{}
	asm := ops.assembler()

	pages := []pageRef{
		{Label: "Demographics", Path: "/run/Demographics.pdf"},
		{Label: "AdverseEvents", Path: "/run/AdverseEvents.pdf"},
	}

	if err := asm.Merge(context.Background(), pages, "/run/Casebook.pdf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ops.mergedFiles) != 2 ||
		ops.mergedFiles[0] != "/run/Demographics.pdf" ||
		ops.mergedFiles[1] != "/run/AdverseEvents.pdf" {
		t.Errorf("merge order wrong: %v", ops.mergedFiles)
	}
	if ops.mergedOut != "/run/Casebook.pdf" {
		t.Errorf("merge output = %q", ops.mergedOut)
	}

	if len(ops.bookmarks) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(ops.bookmarks))
	}
	if ops.bookmarks[0].Title != "Demographics" || ops.bookmarks[0].PageFrom != 1 {
		t.Errorf("bookmark 0 = %+v", ops.bookmarks[0])
	}
	if ops.bookmarks[1].Title != "AdverseEvents" || ops.bookmarks[1].PageFrom != 2 {
		t.Errorf("bookmark 1 = %+v", ops.bookmarks[1])
	}
	if ops.bookmarkFile != "/run/Casebook.pdf" {
		t.Errorf("bookmarks added to %q", ops.bookmarkFile)
	}
}

func TestPDFCPUAssembler_Merge_MultiPageCapture(t *testing.T) {
	// A very tall screenshot can import as several pages; following
	// bookmarks shift accordingly.
	ops := &fakePDFOps{counts: map[string]int{"/run/A.pdf": 3}}
	asm := ops.assembler()

	pages := []pageRef{
		{Label: "A", Path: "/run/A.pdf"},
		{Label: "B", Path: "/run/B.pdf"},
	}
	if err := asm.Merge(context.Background(), pages, "/run/out.pdf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ops.bookmarks[0].PageThru != 3 {
		t.Errorf("bookmark A PageThru = %d, want 3", ops.bookmarks[0].PageThru)
	}
	if ops.bookmarks[1].PageFrom != 4 {
		t.Errorf("bookmark B PageFrom = %d, want 4", ops.bookmarks[1].PageFrom)
	}
}

func TestPDFCPUAssembler_Merge_Errors(t *testing.T) {
	tests := []struct {
		name string
		ops  *fakePDFOps
	}{
		{name: "page count fails", ops: &fakePDFOps{countErr: errors.New("corrupt file")}},
		{name: "merge fails", ops: &fakePDFOps{mergeErr: errors.New("disk full")}},
		{name: "bookmarks fail", ops: &fakePDFOps{bookmarkErr: errors.New("write error")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm := tt.ops.assembler()
			err := asm.Merge(context.Background(), []pageRef{{Label: "A", Path: "/run/A.pdf"}}, "/run/out.pdf")
			if !errors.Is(err, ErrMerge) {
				t.Fatalf("expected ErrMerge, got %v", err)
			}
		})
	}
}

func TestPDFCPUAssembler_Merge_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	asm := (&fakePDFOps{}).assembler()
	err := asm.Merge(ctx, []pageRef{{Label: "A", Path: "/run/A.pdf"}}, "/run/out.pdf")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBookmarksFor(t *testing.T) {
	pages := []pageRef{
		{Label: "A", Path: "a.pdf"},
		{Label: "B", Path: "b.pdf"},
		{Label: "C", Path: "c.pdf"},
	}
	bms := bookmarksFor(pages, []int{1, 2, 1})

	want := []struct {
		title    string
		from, to int
	}{
		{"A", 1, 1},
		{"B", 2, 3},
		{"C", 4, 4},
	}
	for i, w := range want {
		if bms[i].Title != w.title || bms[i].PageFrom != w.from || bms[i].PageThru != w.to {
			t.Errorf("bookmark %d = %+v, want %+v", i, bms[i], w)
		}
	}
}
