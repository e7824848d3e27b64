package casebook

import "testing"

func TestRunReport_Counts(t *testing.T) {
	report := &RunReport{
		Results: []EntryResult{
			{Entry: Entry{Label: "A"}, Status: StatusCaptured},
			{Entry: Entry{Label: "B"}, Status: StatusReused},
			{Entry: Entry{Label: "C"}, Status: StatusSkipped, Err: ErrCapture},
			{Entry: Entry{Label: "D"}, Status: StatusCaptured},
		},
	}

	if got := report.Captured(); got != 2 {
		t.Errorf("Captured() = %d, want 2", got)
	}
	if got := report.Reused(); got != 1 {
		t.Errorf("Reused() = %d, want 1", got)
	}
	if got := report.Skipped(); got != 1 {
		t.Errorf("Skipped() = %d, want 1", got)
	}
	if !report.Partial() {
		t.Error("Partial() = false, want true")
	}
}

func TestRunReport_NotPartialWithoutSkips(t *testing.T) {
	report := &RunReport{
		Results: []EntryResult{
			{Entry: Entry{Label: "A"}, Status: StatusCaptured},
			{Entry: Entry{Label: "B"}, Status: StatusReused},
		},
	}
	if report.Partial() {
		t.Error("Partial() = true, want false")
	}
}

func TestRunReport_Empty(t *testing.T) {
	report := &RunReport{}
	if report.Captured() != 0 || report.Reused() != 0 || report.Skipped() != 0 {
		t.Error("empty report must count zero everywhere")
	}
	if report.Partial() {
		t.Error("empty report is not partial")
	}
}
