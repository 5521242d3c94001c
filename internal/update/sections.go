package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VedPanse/Lockin/internal/views"
)

func (m Model) handleSectionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "K":
		if m.SectionCursor > 0 {
			m.SectionCursor--
			m.ItemCursor = 0
		}
		m.syncSelection()
	case "J":
		if m.SectionCursor < len(m.Store.Sections())-1 {
			m.SectionCursor++
			m.ItemCursor = 0
		}
		m.syncSelection()
	case "up", "k":
		if m.ItemCursor > 0 {
			m.ItemCursor--
		}
		m.syncSelection()
	case "down", "j":
		if m.ItemCursor < len(m.Store.Items(m.SelectedSectionID))-1 {
			m.ItemCursor++
		}
		m.syncSelection()
	case "a":
		if m.SelectedSectionID == "" {
			m.Status = StatusBar{Text: "create a section first (/section)", IsError: true}
			return m, nil
		}
		m.CaptureMode = true
		m.quickAddInput.SetValue("")
		cmd := m.quickAddInput.Focus()
		m.Status = StatusBar{Text: "quick add active"}
		return m, cmd
	case "enter", " ":
		return m.toggleSelectedItem()
	case "d":
		return m.deleteSelectedItem(), nil
	case "D":
		return m.deleteSelectedSection(), nil
	}
	return m, nil
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CaptureMode = false
		m.quickAddInput.Blur()
		m.Status = StatusBar{Text: "quick add canceled"}
		return m, nil
	case "enter":
		raw := m.quickAddInput.Value()
		m.CaptureMode = false
		m.quickAddInput.Blur()
		m.quickAddInput.SetValue("")
		return m.createItemFromInput(raw), nil
	default:
		var cmd tea.Cmd
		m.quickAddInput, cmd = m.quickAddInput.Update(msg)
		return m, cmd
	}
}

func (m Model) createItemFromInput(raw string) Model {
	parsed, err := parseQuickAdd(raw, m.Clock.Now())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	item, err := m.Store.CreateItem(context.Background(), m.SelectedSectionID, parsed)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", item.Title)}
	m.syncSelection()
	return m
}

func (m Model) toggleSelectedItem() (tea.Model, tea.Cmd) {
	if m.SelectedItemID == "" {
		return m, nil
	}
	item, _ := m.Store.Item(m.SelectedItemID)
	celebrate, err := m.Store.ToggleCompletion(context.Background(), m.SelectedItemID)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.syncSelection()
	if celebrate {
		m.Status = StatusBar{Text: fmt.Sprintf("completed: %s", item.Title)}
		return m.startCelebration(item.Title)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", item.Title)}
	return m, nil
}

func (m Model) deleteSelectedItem() Model {
	if m.SelectedItemID == "" {
		return m
	}
	item, _ := m.Store.Item(m.SelectedItemID)
	if err := m.Store.DeleteItem(context.Background(), m.SelectedItemID); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", item.Title)}
	m.syncSelection()
	return m
}

func (m Model) deleteSelectedSection() Model {
	if m.SelectedSectionID == "" {
		return m
	}
	section, _ := m.Store.Section(m.SelectedSectionID)
	if err := m.Store.DeleteSection(context.Background(), m.SelectedSectionID); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("deleted section: %s", section.Title)}
	m.SectionCursor = 0
	m.ItemCursor = 0
	m.syncSelection()
	return m
}

func (m Model) renderSectionsView() string {
	sections := m.Store.Sections()
	rows := make([]views.SectionRow, 0, len(sections))
	for _, section := range sections {
		rows = append(rows, views.SectionRow{
			ID:        section.ID,
			Title:     section.Title,
			Accent:    section.AccentColor,
			Bucket:    section.Bucket,
			ItemCount: len(m.Store.Items(section.ID)),
		})
	}
	return views.RenderSectionsPanel(views.SectionsPanelData{
		Sections:        rows,
		SelectedSection: m.SelectedSectionID,
		Items:           m.itemRows(m.Store.Items(m.SelectedSectionID)),
		SelectedItem:    m.SelectedItemID,
		QuickAddView:    m.quickAddInput.View(),
		CaptureActive:   m.CaptureMode,
	})
}

func (m Model) renderDetailPane() string {
	item, ok := m.Store.Item(m.SelectedItemID)
	if !ok {
		return views.RenderDetailPane(views.DetailPanelData{})
	}
	sectionTitle := ""
	if section, ok := m.Store.Section(item.SectionID); ok {
		sectionTitle = section.Title
	}
	start := ""
	if item.StartAt != nil {
		start = formatTimestamp(*item.StartAt)
	}
	return views.RenderDetailPane(views.DetailPanelData{
		ID:        item.ID,
		Title:     item.Title,
		Section:   sectionTitle,
		DueAt:     formatTimestamp(item.DueAt),
		StartAt:   start,
		Completed: item.Completed,
		NotesView: views.RenderMarkdown(item.Notes),
	})
}
