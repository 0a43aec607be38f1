package security

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/damione1/live-poll/internal/config"
)

// Input length constraints
const (
	MinNameLength = 1
)

var (
	// Name validation regex - Unicode letters, digits, spaces, apostrophes, hyphens, underscores, dots
	// \p{L} matches any Unicode letter (includes accented characters)
	// \p{N} matches any Unicode number
	nameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s'\-_.]+$`)
)

// ValidateName validates a name string with length and character constraints
// Returns sanitized name and error if validation fails
func ValidateName(name string, maxLen int) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}

	length := utf8.RuneCountInString(name)
	if length < MinNameLength {
		return "", fmt.Errorf("name too short (min %d characters)", MinNameLength)
	}
	if length > maxLen {
		return "", fmt.Errorf("name too long (max %d characters)", maxLen)
	}

	if !nameRegex.MatchString(name) {
		return "", fmt.Errorf("name contains invalid characters (allowed: letters, numbers, spaces, apostrophes, hyphens, underscores, dots)")
	}

	// Control characters slip through \s (tabs, newlines)
	for _, r := range name {
		if r < 32 || r == 127 {
			return "", fmt.Errorf("name contains control characters")
		}
	}

	return name, nil
}

// ValidateParticipantName validates a participant display name
func ValidateParticipantName(name string) (string, error) {
	return ValidateName(name, config.MaxParticipantNameLength)
}

// ValidateChatText trims a chat line and enforces its length. Chat is free
// text; the clients render it as text, not markup.
func ValidateChatText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("message cannot be empty")
	}
	if utf8.RuneCountInString(text) > config.MaxChatMessageLength {
		return "", fmt.Errorf("message too long (max %d characters)", config.MaxChatMessageLength)
	}
	return text, nil
}
