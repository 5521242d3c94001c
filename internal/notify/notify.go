// Package notify delivers local reminders. Scheduling is best-effort by
// policy: failures are logged and swallowed, never surfaced to the user.
package notify

import (
	"time"

	"go.uber.org/zap"

	"github.com/VedPanse/Lockin/internal/scheduler"
)

// Reminders is the store's notification collaborator. Reminders are keyed by
// item id, so re-scheduling after an edit is a cancel+schedule pair.
type Reminders interface {
	Schedule(itemID, title, body string, fireAt time.Time)
	Cancel(itemID string)
}

type Service struct {
	engine *scheduler.Engine
	log    *zap.Logger
}

func NewService(engine *scheduler.Engine, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{engine: engine, log: log}
}

func (s *Service) Schedule(itemID, title, body string, fireAt time.Time) {
	if s.engine == nil {
		return
	}
	err := s.engine.Schedule(scheduler.ReminderEvent{
		ItemID: itemID,
		Title:  title,
		Body:   body,
		FireAt: fireAt,
	})
	if err != nil {
		s.log.Warn("reminder schedule failed",
			zap.String("item_id", itemID),
			zap.Time("fire_at", fireAt),
			zap.Error(err))
	}
}

func (s *Service) Cancel(itemID string) {
	if s.engine == nil {
		return
	}
	s.engine.Cancel(itemID)
}

// Noop satisfies Reminders for setups with reminders disabled.
type Noop struct{}

func (Noop) Schedule(string, string, string, time.Time) {}

func (Noop) Cancel(string) {}
