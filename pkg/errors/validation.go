package errors

import (
	"strings"
	"unicode"
)

// maxRoomNameLength bounds user-supplied room names. Drawing labels are short;
// anything longer is almost certainly pasted garbage.
const maxRoomNameLength = 128

// ValidateRoomName validates a user-supplied room name before lookup.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 128 characters
//
// Whether the room exists is decided by the graph, not here.
func ValidateRoomName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidRoom, "room name cannot be empty")
	}

	if len(name) > maxRoomNameLength {
		return New(ErrCodeInvalidRoom, "room name too long (max %d characters)", maxRoomNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRoom, "room name contains invalid control characters")
		}
	}

	return nil
}

// ValidateCategory validates a restroom category token. Accepted values are
// "M" and "F" (case-insensitive) and the long forms "male" and "female".
func ValidateCategory(category string) error {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "m", "f", "male", "female":
		return nil
	case "":
		return New(ErrCodeInvalidCategory, "category cannot be empty")
	}
	return New(ErrCodeInvalidCategory, "unknown category %q (want M or F)", category)
}

// ValidateFloor validates a floor number. Floors are positive integers.
func ValidateFloor(floor int) error {
	if floor < 1 {
		return New(ErrCodeInvalidFloor, "floor must be positive, got %d", floor)
	}
	return nil
}

// ValidatePath validates a document directory or file path supplied on the
// command line or in configuration.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
