package dateutil

import (
	"testing"
	"time"
)

func TestRunStamp(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want string
	}{
		{"regular date", time.Date(2026, time.August, 29, 10, 30, 0, 0, time.UTC), "29Aug2026"},
		{"single-digit day is padded", time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), "05Jan2025"},
		{"year boundary", time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC), "31Dec2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RunStamp(tt.time); got != tt.want {
				t.Errorf("RunStamp() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputDirName(t *testing.T) {
	d := time.Date(2026, time.August, 29, 14, 0, 0, 0, time.UTC)
	if got := OutputDirName(d); got != "output_29Aug2026" {
		t.Errorf("OutputDirName() = %q, want %q", got, "output_29Aug2026")
	}
}

func TestOutputDirName_SameDaySameName(t *testing.T) {
	morning := time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, time.March, 3, 20, 0, 0, 0, time.UTC)
	if OutputDirName(morning) != OutputDirName(evening) {
		t.Error("runs on the same day must share a directory")
	}
}
