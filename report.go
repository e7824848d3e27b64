package casebook

// EntryStatus describes what happened to a single manifest entry.
type EntryStatus string

// Entry outcomes.
const (
	// StatusCaptured means the page was captured and converted in this run.
	StatusCaptured EntryStatus = "captured"
	// StatusReused means a per-page PDF from an earlier run was found in the
	// output directory and reused without navigation.
	StatusReused EntryStatus = "reused"
	// StatusSkipped means capture or conversion failed; Err holds the cause.
	StatusSkipped EntryStatus = "skipped"
)

// EntryResult is the outcome for one entry.
type EntryResult struct {
	Entry  Entry
	Status EntryStatus
	// PDFPath is set for captured and reused entries.
	PDFPath string
	// Err is set for skipped entries.
	Err error
}

// RunReport summarizes a completed run.
type RunReport struct {
	// Results holds one result per manifest entry, in manifest order.
	Results []EntryResult
	// CasebookPath is the merged PDF, set when assembly succeeded.
	CasebookPath string
}

// Captured returns how many entries produced a page in this run.
func (r *RunReport) Captured() int { return r.count(StatusCaptured) }

// Reused returns how many entries reused a PDF from a previous run.
func (r *RunReport) Reused() int { return r.count(StatusReused) }

// Skipped returns how many entries failed and were skipped.
func (r *RunReport) Skipped() int { return r.count(StatusSkipped) }

// Partial reports whether at least one entry was skipped.
func (r *RunReport) Partial() bool { return r.Skipped() > 0 }

func (r *RunReport) count(status EntryStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
