package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VedPanse/Lockin/internal/views"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	running := m.Store.Running()
	switch msg.String() {
	case "up", "k":
		if m.ItemCursor > 0 {
			m.ItemCursor--
		}
	case "down", "j":
		if m.ItemCursor < len(running)-1 {
			m.ItemCursor++
		}
	case "enter", " ":
		if m.ItemCursor < 0 || m.ItemCursor >= len(running) {
			return m, nil
		}
		target := running[m.ItemCursor]
		celebrate, err := m.Store.ToggleCompletion(context.Background(), target.ID)
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		if m.ItemCursor >= len(m.Store.Running()) {
			m.ItemCursor = 0
		}
		if celebrate {
			m.Status = StatusBar{Text: fmt.Sprintf("completed: %s", target.Title)}
			return m.startCelebration(target.Title)
		}
		return m, nil
	}
	return m, nil
}

// renderFocusView recomputes the running list on every render; the selection
// rule is never cached across frames.
func (m Model) renderFocusView() string {
	now := m.Clock.Now()
	running := m.Store.Running()
	selected := ""
	if m.ItemCursor >= 0 && m.ItemCursor < len(running) {
		selected = running[m.ItemCursor].ID
	}
	return views.RenderFocusPanel(views.FocusPanelData{
		Today:    now.Format("Mon Jan 2"),
		Items:    m.itemRows(running),
		Selected: selected,
	})
}
