package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/VedPanse/Lockin/internal/model"
	"github.com/VedPanse/Lockin/internal/store"
	"github.com/VedPanse/Lockin/internal/views"
)

const (
	timestampLayout = "2006-01-02 15:04"
	dateTimeInput   = "2006-01-02T15:04"
	dateOnlyInput   = "2006-01-02"
)

func formatTimestamp(t time.Time) string {
	return t.Local().Format(timestampLayout)
}

// parseTimestamp accepts either a date-time ("2026-03-05T17:00") or a bare
// date, which resolves to end of that day in the given location.
func parseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(dateTimeInput, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateOnlyInput, raw, loc); err == nil {
		return t.Add(24*time.Hour - time.Minute), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q (want %s or %s)", raw, dateTimeInput, dateOnlyInput)
}

// parseQuickAdd turns a quick-add line ("pay rent due:2026-03-05 start:2026-03-01")
// into a create input. An omitted due date defaults to end of today.
func parseQuickAdd(raw string, now time.Time) (store.CreateItemInput, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return store.CreateItemInput{}, fmt.Errorf("item title is empty")
	}

	in := store.CreateItemInput{}
	titleParts := make([]string, 0, len(fields))
	for _, field := range fields {
		lower := strings.ToLower(field)
		switch {
		case strings.HasPrefix(lower, "due:"):
			due, err := parseTimestamp(field[len("due:"):], now.Location())
			if err != nil {
				return store.CreateItemInput{}, err
			}
			in.DueAt = due
		case strings.HasPrefix(lower, "start:"):
			start, err := parseTimestamp(field[len("start:"):], now.Location())
			if err != nil {
				return store.CreateItemInput{}, err
			}
			in.StartAt = &start
		default:
			titleParts = append(titleParts, field)
		}
	}

	in.Title = strings.Join(titleParts, " ")
	if in.Title == "" {
		return store.CreateItemInput{}, fmt.Errorf("item title is empty")
	}
	if in.DueAt.IsZero() {
		in.DueAt = endOfDay(now)
	}
	return in, nil
}

func endOfDay(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 23, 59, 0, 0, now.Location())
}

func (m Model) itemRows(items []model.Item) []views.ItemRow {
	now := m.Clock.Now()
	rows := make([]views.ItemRow, 0, len(items))
	for _, item := range items {
		start := ""
		if item.StartAt != nil {
			start = formatTimestamp(*item.StartAt)
		}
		rows = append(rows, views.ItemRow{
			ID:        item.ID,
			Title:     item.Title,
			DueAt:     formatTimestamp(item.DueAt),
			StartAt:   start,
			Completed: item.Completed,
			Overdue:   !item.Completed && item.DueAt.Before(now),
		})
	}
	return rows
}
