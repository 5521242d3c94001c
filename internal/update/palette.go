package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VedPanse/Lockin/internal/commands"
	"github.com/VedPanse/Lockin/internal/store"
)

// defaultSectionAccent is used when /section is issued without a color.
const defaultSectionAccent = "#3B82F6"

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette = CommandPaletteState{}
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command canceled"}
		return m, nil
	case "enter":
		raw := m.commandInput.Value()
		m.Palette = CommandPaletteState{}
		m.commandInput.Blur()
		m.commandInput.SetValue("")
		return m.executePaletteCommand(raw)
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m Model) executePaletteCommand(raw string) (tea.Model, tea.Cmd) {
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var (
		nextView  View
		celebrate string
	)

	handlers := commands.Handlers{
		Section: func(args commands.SectionArgs) (commands.Result, error) {
			accent := args.Color
			if accent == "" {
				accent = defaultSectionAccent
			}
			section, err := m.Store.CreateSection(context.Background(), args.Title, accent)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("created section: %s", section.Title)}, nil
		},
		Add: func(args commands.AddArgs) (commands.Result, error) {
			if m.SelectedSectionID == "" {
				return commands.Result{}, fmt.Errorf("no section selected")
			}
			now := m.Clock.Now()
			in := store.CreateItemInput{Title: args.Title, Notes: args.Notes}
			if args.Due != "" {
				due, err := parseTimestamp(args.Due, now.Location())
				if err != nil {
					return commands.Result{}, err
				}
				in.DueAt = due
			} else {
				in.DueAt = endOfDay(now)
			}
			if args.Start != "" {
				start, err := parseTimestamp(args.Start, now.Location())
				if err != nil {
					return commands.Result{}, err
				}
				in.StartAt = &start
			}
			item, err := m.Store.CreateItem(context.Background(), m.SelectedSectionID, in)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added: %s", item.Title)}, nil
		},
		Done: func(args commands.DoneArgs) (commands.Result, error) {
			id := m.SelectedItemID
			if args.Target != "selected" {
				id = args.Target
			}
			if id == "" {
				return commands.Result{}, fmt.Errorf("no item selected")
			}
			item, _ := m.Store.Item(id)
			done, err := m.Store.ToggleCompletion(context.Background(), id)
			if err != nil {
				return commands.Result{}, err
			}
			if done {
				celebrate = item.Title
				return commands.Result{Message: fmt.Sprintf("completed: %s", item.Title)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("reopened: %s", item.Title)}, nil
		},
		Delete: func(args commands.DeleteArgs) (commands.Result, error) {
			switch args.Kind {
			case "item":
				id := m.SelectedItemID
				if args.Target != "selected" {
					id = args.Target
				}
				if id == "" {
					return commands.Result{}, fmt.Errorf("no item selected")
				}
				if err := m.Store.DeleteItem(context.Background(), id); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "item deleted"}, nil
			default:
				id := m.SelectedSectionID
				if args.Target != "selected" {
					id = args.Target
				}
				if id == "" {
					return commands.Result{}, fmt.Errorf("no section selected")
				}
				if err := m.Store.DeleteSection(context.Background(), id); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "section deleted"}, nil
			}
		},
		Show: func(args commands.ShowArgs) (commands.Result, error) {
			if args.Subject == "focus" {
				nextView = ViewFocus
			} else {
				nextView = ViewSections
			}
			return commands.Result{Message: fmt.Sprintf("showing %s", args.Subject)}, nil
		},
	}

	result, err := commands.Execute(cmd, handlers)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	m.Status = StatusBar{Text: result.Message}
	if nextView != "" {
		m.CurrentView = nextView
		m.ItemCursor = 0
	}
	m.syncSelection()
	if celebrate != "" {
		return m.startCelebration(celebrate)
	}
	return m, nil
}
