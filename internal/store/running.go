package store

import (
	"sort"
	"time"

	"github.com/VedPanse/Lockin/internal/model"
)

// RunningItems returns the incomplete items whose start/due window contains
// today's calendar day, sorted ascending by full due timestamp. An absent
// start date defaults to today, so an item due today with no start is always
// running. Day boundaries follow today's location.
//
// The result is recomputed from scratch on every call; callers must not cache
// it across renders.
func RunningItems(items []model.Item, today time.Time) []model.Item {
	loc := today.Location()
	todayDay := dateOnly(today)

	out := make([]model.Item, 0)
	for _, item := range items {
		if item.Completed {
			continue
		}
		startDay := todayDay
		if item.StartAt != nil {
			startDay = dateOnly(item.StartAt.In(loc))
		}
		dueDay := dateOnly(item.DueAt.In(loc))
		if startDay.After(todayDay) || dueDay.Before(todayDay) {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueAt.Before(out[j].DueAt)
	})
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
