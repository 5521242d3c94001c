package storage

import "time"

type Section struct {
	ID          string
	Title       string
	AccentColor string
	Bucket      bool
	CreatedAt   time.Time
}

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

type ItemListFilter struct {
	SectionID string
	Completed *bool
	Limit     int
	Offset    int
}
