package ociconfig

import (
	"fmt"

	"github.com/giantswarm/adbenv/internal/sentinel"
)

// ErrMalformedConfig is matched by every structural parse failure.
const ErrMalformedConfig = sentinel.Error("malformed credentials file")

// ErrProfileNotFound is returned when the requested profile has no section.
const ErrProfileNotFound = sentinel.Error("profile not found")

// ErrKeyFileNotFound is returned when the profile exists but has no key_file entry.
const ErrKeyFileNotFound = sentinel.Error("key_file not found in profile")

// SyntaxError describes a line that could not be parsed. It matches
// ErrMalformedConfig via errors.Is.
type SyntaxError struct {
	Line   int    // 1-based line number
	Text   string // raw line as read
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: line %d: %s: %q", ErrMalformedConfig, e.Line, e.Reason, e.Text)
}

func (e *SyntaxError) Unwrap() error {
	return ErrMalformedConfig
}
