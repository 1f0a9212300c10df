package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds stack, layer and drawing-layer names.
const maxNameLength = 256

// ValidateName validates a stack, layer or drawing-layer name.
//
// Names are used as map keys, assembly part labels and, for stacks and
// layers, as output file name components, so the rules are conservative:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "%s name cannot be empty", kind)
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "%s name too long (max %d characters)", kind, maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s name %q contains invalid control characters", kind, name)
		}
	}

	return nil
}

// ValidateFileComponent validates a name that will become part of an output
// file name. It rejects anything that could escape the output directory.
func ValidateFileComponent(name string) error {
	if err := ValidateName("output", name); err != nil {
		return err
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPath, "name %q contains invalid characters: %q", name, pattern)
		}
	}

	return nil
}
