package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a cuid-style identifier: "c" followed by 24 lowercase
// hex characters. All rows created by this service use this shape.
func NewID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "c" + raw[:24]
}
