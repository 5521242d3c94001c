package model

import (
	"errors"
	"strings"
	"time"
)

var ErrDanglingPreviousSection = errors.New("model: previous_section_id set on incomplete item")

type Item struct {
	ID            string
	SectionID     string
	Title         string
	Notes         string
	DueAt         time.Time
	StartAt       *time.Time
	Completed     bool
	PrevSectionID string
	CreatedAt     time.Time
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("model: item id is required")
	}
	if strings.TrimSpace(i.SectionID) == "" {
		return errors.New("model: item section_id is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return errors.New("model: item title is required")
	}
	if i.DueAt.IsZero() {
		return errors.New("model: item due_at is required")
	}
	if i.CreatedAt.IsZero() {
		return errors.New("model: item created_at is required")
	}
	// PrevSectionID is only meaningful while the item sits in the bucket.
	if !i.Completed && i.PrevSectionID != "" {
		return ErrDanglingPreviousSection
	}
	return nil
}
