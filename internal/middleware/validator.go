package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

const maxTitleLength = 200

// ValidateAnalysisInput checks the two required analysis fields are
// present. Content is otherwise free-form: any language label the
// caller supplies is accepted and echoed back.
func ValidateAnalysisInput(code, language string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("code is required")
	}
	if strings.TrimSpace(language) == "" {
		return fmt.Errorf("language is required")
	}
	return nil
}

// ValidateBlogInput checks title and content presence and the title
// length cap.
func ValidateBlogInput(title string, content []byte) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("title cannot exceed %d characters", maxTitleLength)
	}
	if len(content) == 0 {
		return fmt.Errorf("content is required")
	}
	return nil
}

// idPattern: UUID-ish record identifiers
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9-]{1,64}$`)

// ValidateID validates record ID format
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid id format")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
