// Package content screens user-submitted text before it is persisted.
package content

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxReplyLength bounds a reply body, in characters.
	MaxReplyLength = 5000
)

// defaultBlocklist is the built-in profanity list. Matching is
// case-insensitive substring matching; the list is deliberately small and
// deployments extend it through NewValidatorWithBlocklist.
var defaultBlocklist = []string{
	"asshole",
	"bastard",
	"bitch",
	"fuck",
	"shit",
}

// Validator checks reply bodies for length and profanity violations and
// reports the first violation found.
type Validator struct {
	maxLength int
	blocklist []string
}

// NewValidator returns a Validator with the built-in blocklist.
func NewValidator() *Validator {
	return NewValidatorWithBlocklist(defaultBlocklist)
}

// NewValidatorWithBlocklist returns a Validator using the given word list.
func NewValidatorWithBlocklist(blocklist []string) *Validator {
	lowered := make([]string, 0, len(blocklist))
	for _, w := range blocklist {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			lowered = append(lowered, w)
		}
	}
	return &Validator{maxLength: MaxReplyLength, blocklist: lowered}
}

// ValidateReplyContent returns nil when the content passes, or an error
// carrying the first violation message.
func (v *Validator) ValidateReplyContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("reply content must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > v.maxLength {
		return fmt.Errorf("reply content must be at most %d characters", v.maxLength)
	}
	lowered := strings.ToLower(trimmed)
	for _, w := range v.blocklist {
		if strings.Contains(lowered, w) {
			return errors.New("reply content contains disallowed language")
		}
	}
	return nil
}
