package errors

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// documentNameRegex matches names accepted for stored graph documents.
var documentNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentName validates the name a graph is stored under.
// Names become file names, Redis keys and Mongo ids, so they are restricted
// to a conservative character set:
//   - No empty names
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_' and '-' only, starting with a letter or digit
//   - No ".." sequences
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "document name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "document name too long (max 128 characters)")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "document name cannot contain %q", "..")
	}

	if !documentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid document name: %q", name)
	}

	return nil
}

// ValidatePath validates a file path supplied on the command line or read
// from configuration.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ParseCoordinate parses a single board coordinate given as text. name
// identifies the argument in the error. The value must fit a float32 and be
// finite.
func ParseCoordinate(name, raw string) (float32, error) {
	if raw == "" {
		return 0, New(ErrCodeInvalidInput, "missing %s", name)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, New(ErrCodeInvalidInput, "%s must be a finite number, got %q", name, raw)
	}
	return float32(f), nil
}
