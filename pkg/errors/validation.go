package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxNameLength bounds creature names accepted from any input surface.
const MaxNameLength = 256

// ValidateName validates a creature name after trimming.
//
// The rules are conservative:
//   - No blank names
//   - No control characters
//   - Maximum length of MaxNameLength bytes
//
// Commas are allowed here; a name containing one simply cannot be typed
// into an eats list.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return New(ErrCodeBlankName, "creature name cannot be blank")
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidInput, "creature name too long (max %d characters)", MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "creature name contains invalid control characters")
		}
	}

	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a fill color. The empty string is accepted and
// means "use the default".
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q (want #rgb or #rrggbb)", color)
	}
	return nil
}

// ValidateFilename validates an output filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "filename cannot contain path separators")
	}

	// The name is sent back inside a quoted Content-Disposition parameter.
	if strings.ContainsRune(filename, '"') {
		return New(ErrCodeInvalidInput, "filename cannot contain quotes")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidInput, "filename cannot be a hidden file")
	}

	for _, r := range filename {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "filename contains invalid characters")
		}
	}

	return nil
}
