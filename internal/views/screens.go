package views

import (
	"fmt"
	"strings"
)

type SectionRow struct {
	ID        string
	Title     string
	Accent    string
	Bucket    bool
	ItemCount int
}

type ItemRow struct {
	ID        string
	Title     string
	DueAt     string
	StartAt   string
	Completed bool
	Overdue   bool
}

type SectionsPanelData struct {
	Sections        []SectionRow
	SelectedSection string
	Items           []ItemRow
	SelectedItem    string
	QuickAddView    string
	CaptureActive   bool
}

type FocusPanelData struct {
	Today    string
	Items    []ItemRow
	Selected string
}

type DetailPanelData struct {
	ID        string
	Title     string
	Section   string
	DueAt     string
	StartAt   string
	Completed bool
	NotesView string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
}

func RenderSectionsPanel(data SectionsPanelData) string {
	var b strings.Builder
	b.WriteString("sections:\n")
	b.WriteString("actions: [j/k]item [J/K]section [a]add [enter]done [d]delete [tab]focus\n")
	if len(data.Sections) == 0 {
		b.WriteString("  (no sections yet, try /section)\n")
	}
	for _, section := range data.Sections {
		cursor := " "
		if section.ID == data.SelectedSection {
			cursor = ">"
		}
		marker := AccentSwatch(section.Accent)
		if section.Bucket {
			marker = "✔"
		}
		b.WriteString(fmt.Sprintf("%s %s %s (%d)\n", cursor, marker, section.Title, section.ItemCount))
	}
	b.WriteString("\nitems:\n")
	if data.CaptureActive {
		b.WriteString(data.QuickAddView + "\n")
	}
	if len(data.Items) == 0 {
		b.WriteString("  (empty)\n")
	}
	for _, item := range data.Items {
		b.WriteString(renderItemRow(item, data.SelectedItem))
	}
	return strings.TrimSpace(b.String())
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	b.WriteString(fmt.Sprintf("today: %s\n", data.Today))
	b.WriteString("actions: [j/k]move [enter]done [tab]sections\n")
	if len(data.Items) == 0 {
		b.WriteString("(nothing running today)")
		return b.String()
	}
	for _, item := range data.Items {
		b.WriteString(renderItemRow(item, data.Selected))
	}
	return strings.TrimSpace(b.String())
}

func RenderDetailPane(data DetailPanelData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "detail:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("detail:\n")
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	b.WriteString(fmt.Sprintf("section: %s\n", data.Section))
	if data.StartAt != "" {
		b.WriteString(fmt.Sprintf("start: %s\n", data.StartAt))
	}
	b.WriteString(fmt.Sprintf("due: %s\n", data.DueAt))
	if data.Completed {
		b.WriteString("state: completed\n")
	} else {
		b.WriteString("state: active\n")
	}
	if data.NotesView != "" {
		b.WriteString("\nnotes:\n")
		b.WriteString(data.NotesView)
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
	)
}

// celebrationFrames cycle under a short timer after an item is completed.
var celebrationFrames = []string{
	"✦ ･ﾟ nice! ﾟ･ ✦",
	"✧ *:･ﾟ done! ﾟ･:* ✧",
	"★ ･ﾟ✧ locked in ✧ﾟ･ ★",
}

func RenderCelebration(frame int, title string) string {
	if frame < 0 {
		return ""
	}
	decoration := celebrationFrames[frame%len(celebrationFrames)]
	return fmt.Sprintf("%s  %s", decoration, title)
}

func renderItemRow(item ItemRow, selectedID string) string {
	cursor := " "
	if selectedID != "" && item.ID == selectedID {
		cursor = ">"
	}
	check := "[ ]"
	if item.Completed {
		check = "[x]"
	}
	row := fmt.Sprintf("%s %s %s", cursor, check, item.Title)
	if item.StartAt != "" {
		row += fmt.Sprintf(" from:%s", item.StartAt)
	}
	if item.DueAt != "" {
		row += fmt.Sprintf(" due:%s", item.DueAt)
	}
	if item.Overdue {
		row += " !"
	}
	return row + "\n"
}
