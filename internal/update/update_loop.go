package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/VedPanse/Lockin/internal/scheduler"
	"github.com/VedPanse/Lockin/internal/views"
)

// focusRefreshInterval keeps the focus view tracking wall-clock day
// boundaries; the running list itself is recomputed on every render.
const focusRefreshInterval = 30 * time.Second

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{focusRefreshCmd()}
	if m.Engine != nil {
		cmds = append(cmds, waitForReminderCmd(m.Engine.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.CaptureMode {
			return m.handleQuickAddKey(typed)
		}

		switch typed.String() {
		case m.Keys.Palette:
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			cmd := m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, cmd
		case m.Keys.Sections:
			m.CurrentView = ViewSections
			return m, nil
		case m.Keys.Focus:
			m.CurrentView = ViewFocus
			m.ItemCursor = 0
			return m, nil
		case "tab":
			if m.CurrentView == ViewSections {
				m.CurrentView = ViewFocus
			} else {
				m.CurrentView = ViewSections
			}
			m.ItemCursor = 0
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		if m.CurrentView == ViewSections {
			return m.handleSectionsKey(typed)
		}
		return m.handleFocusKey(typed)

	case SwitchViewMsg:
		if typed.View == ViewSections || typed.View == ViewFocus {
			m.CurrentView = typed.View
			m.ItemCursor = 0
		}
		return m, nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil

	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil

	case ReminderDueMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("reminder: %s", typed.Event.Title)}
		if err := m.Desktop.Send(typed.Event.Title, typed.Event.Body); err != nil {
			m.Log.Warn("desktop notification failed",
				zap.String("item_id", typed.Event.ItemID),
				zap.Error(err))
		}
		if m.Engine != nil {
			return m, waitForReminderCmd(m.Engine.C())
		}
		return m, nil

	case spinner.TickMsg:
		if m.Celebration.Active {
			var cmd tea.Cmd
			m.celebrateSpinner, cmd = m.celebrateSpinner.Update(typed)
			return m, cmd
		}
		return m, nil

	case CelebrateTickMsg:
		return m.onCelebrateTick()

	case FocusRefreshMsg:
		m.syncSelection()
		return m, focusRefreshCmd()
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewSections:
		leftPane = m.renderSectionsView()
	case ViewFocus:
		leftPane = m.renderFocusView()
	}
	rightPane := m.renderDetailPane()
	if palette := views.RenderCommandPalette(m.Palette.Active, m.Palette.Input); palette != "" {
		rightPane += "\n" + palette
	}
	if m.HelpVisible {
		rightPane += "\n" + m.renderHelp()
	}

	return views.RenderApp(views.AppData{
		Header:      fmt.Sprintf("lockin | view: %s | selected: %s", m.CurrentView, m.SelectedItemID),
		LeftPane:    leftPane,
		RightPane:   rightPane,
		StatusLine:  status,
		Celebration: m.renderCelebration(),
		Footer: fmt.Sprintf("keys: %s sections | %s focus | %s cmd | %s help | %s quit",
			m.Keys.Sections, m.Keys.Focus, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}

func waitForReminderCmd(ch <-chan scheduler.ReminderEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

func focusRefreshCmd() tea.Cmd {
	return tea.Tick(focusRefreshInterval, func(time.Time) tea.Msg { return FocusRefreshMsg{} })
}
