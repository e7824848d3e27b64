// Package dateutil provides run-date naming for output directories.
package dateutil

import "time"

// runStampLayout renders dates like 29Aug2026, the stamp used in run
// directory names.
const runStampLayout = "02Jan2006"

// outputDirPrefix prefixes every run directory.
const outputDirPrefix = "output_"

// RunStamp formats t for use in a run directory name.
func RunStamp(t time.Time) string {
	return t.Format(runStampLayout)
}

// OutputDirName returns the run directory name for t, e.g. "output_29Aug2026".
// One run per day reuses the same directory, which is what enables resuming
// an interrupted run.
func OutputDirName(t time.Time) string {
	return outputDirPrefix + RunStamp(t)
}
