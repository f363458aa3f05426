package errors

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

// ValidateSpreadName validates a spread name before it is used as a file
// name (build output) or a registry key.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 214 characters (the npm limit spreads inherit)
func ValidateSpreadName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "spread name cannot be empty")
	}

	if len(name) > 214 {
		return New(ErrCodeInvalidInput, "spread name too long (max 214 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "spread name contains invalid control characters")
		}
	}

	if !spreadNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid spread name: %q", name)
	}
	return nil
}

var spreadNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateTarget validates a file target path from a spread descriptor.
// Targets are written relative to the project root and must stay inside it.
//
// Validation rules:
//   - Target cannot be empty
//   - No null bytes or control characters
//   - No absolute paths
//   - No segments that climb out of the root (..)
func ValidateTarget(target string) error {
	if target == "" {
		return New(ErrCodeInvalidPath, "target cannot be empty")
	}

	for _, r := range target {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "target %q contains invalid characters", target)
		}
	}

	slashed := strings.ReplaceAll(target, "\\", "/")
	if strings.HasPrefix(slashed, "/") || (len(slashed) > 1 && slashed[1] == ':') {
		return New(ErrCodeInvalidPath, "target %q must be relative to the project root", target)
	}

	clean := path.Clean(slashed)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return New(ErrCodeInvalidPath, "target %q escapes the project root", target)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
