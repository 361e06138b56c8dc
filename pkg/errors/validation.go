package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputPath validates a user-supplied output file path for safety.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - No path traversal sequences (..)
//   - Maximum length of 500 characters
//
// Absolute paths are allowed; the CLI writes wherever the user points it.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "output path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateLayerName validates a layer name for the export layer table.
// Layer names come from drawing titles after sanitization, but user-supplied
// layer configuration can inject arbitrary names, so the same rules apply.
func ValidateLayerName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidModel, "layer name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidModel, "layer name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModel, "layer name contains control characters")
		}
	}

	return nil
}
