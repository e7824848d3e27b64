// Package fileutil provides file and path utility functions.
package fileutil

import (
	"os"
	"regexp"
	"strings"
)

// invalidNameChars matches characters that are unsafe in file names across
// platforms.
var invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeName makes a CRF label safe for use as a file name: invalid
// characters become underscores and surrounding whitespace is trimmed.
// Returns "untitled" when nothing printable remains.
func SanitizeName(name string) string {
	s := strings.TrimSpace(invalidNameChars.ReplaceAllString(name, "_"))
	if s == "" {
		return "untitled"
	}
	return s
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a
// name. A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
