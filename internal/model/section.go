package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidAccentColor = errors.New("model: invalid accent color")

// BucketTitle is the display title given to the synthetic Completed section.
// The bucket is identified by its Bucket flag, never by this string.
const BucketTitle = "Completed"

type Section struct {
	ID          string
	Title       string
	AccentColor string
	Bucket      bool
	CreatedAt   time.Time
}

func (s Section) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("model: section id is required")
	}
	if strings.TrimSpace(s.Title) == "" {
		return errors.New("model: section title is required")
	}
	if !IsHexColor(s.AccentColor) {
		return fmt.Errorf("%w: %q", ErrInvalidAccentColor, s.AccentColor)
	}
	if s.CreatedAt.IsZero() {
		return errors.New("model: section created_at is required")
	}
	return nil
}

// IsHexColor reports whether v is a #RRGGBB hex string.
func IsHexColor(v string) bool {
	if len(v) != 7 || v[0] != '#' {
		return false
	}
	for _, r := range v[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
