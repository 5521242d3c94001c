package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VedPanse/Lockin/internal/views"
)

const (
	celebrateTickInterval = 120 * time.Millisecond
	celebrateTickCount    = 12
)

func (m Model) startCelebration(title string) (tea.Model, tea.Cmd) {
	m.Celebration = CelebrationState{
		Active:    true,
		Frame:     0,
		Remaining: celebrateTickCount,
		Title:     title,
	}
	return m, tea.Batch(m.celebrateSpinner.Tick, celebrateTickCmd())
}

func (m Model) onCelebrateTick() (tea.Model, tea.Cmd) {
	if !m.Celebration.Active {
		return m, nil
	}
	m.Celebration.Remaining--
	if m.Celebration.Remaining <= 0 {
		m.Celebration = CelebrationState{}
		return m, nil
	}
	m.Celebration.Frame++
	return m, celebrateTickCmd()
}

func (m Model) renderCelebration() string {
	if !m.Celebration.Active {
		return ""
	}
	banner := views.RenderCelebration(m.Celebration.Frame, m.Celebration.Title)
	return m.celebrateSpinner.View() + " " + banner
}

func celebrateTickCmd() tea.Cmd {
	return tea.Tick(celebrateTickInterval, func(time.Time) tea.Msg { return CelebrateTickMsg{} })
}
