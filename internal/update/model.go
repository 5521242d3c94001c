package update

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/VedPanse/Lockin/internal/notify"
	"github.com/VedPanse/Lockin/internal/scheduler"
	"github.com/VedPanse/Lockin/internal/store"
)

type View string

const (
	ViewSections View = "Sections"
	ViewFocus    View = "Focus"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Sections string
	Focus    string
	Palette  string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// CelebrationState drives the short confetti banner shown after completing
// an item.
type CelebrationState struct {
	Active    bool
	Frame     int
	Remaining int
	Title     string
}

type Model struct {
	CurrentView View
	Store       *store.Store
	Engine      *scheduler.Engine
	Desktop     notify.DesktopSender
	Clock       store.Clock
	Log         *zap.Logger

	SectionCursor     int
	ItemCursor        int
	SelectedSectionID string
	SelectedItemID    string

	CaptureMode bool
	Palette     CommandPaletteState
	HelpVisible bool
	Celebration CelebrationState
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	quickAddInput    textinput.Model
	commandInput     textinput.Model
	celebrateSpinner spinner.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ReminderDueMsg struct {
	Event scheduler.ReminderEvent
}

type CelebrateTickMsg struct{}

type FocusRefreshMsg struct{}

func NewModel(s *store.Store) Model {
	quickAdd := textinput.New()
	quickAdd.Placeholder = "task title [due:2026-03-05T17:00] [start:...]"
	quickAdd.CharLimit = 200

	command := textinput.New()
	command.Placeholder = "section | add | done | delete | show"
	command.CharLimit = 200

	sparkle := spinner.New()
	sparkle.Spinner = spinner.Points

	m := Model{
		CurrentView: ViewSections,
		Store:       s,
		Desktop:     notify.NoopDesktopSender{},
		Clock:       store.SystemClock{},
		Log:         zap.NewNop(),
		Keys: GlobalKeyMap{
			Sections: "1",
			Focus:    "2",
			Palette:  "/",
			Help:     "?",
			Quit:     "q",
		},
		quickAddInput:    quickAdd,
		commandInput:     command,
		celebrateSpinner: sparkle,
	}
	m.syncSelection()
	return m
}

type Runtime struct {
	Engine  *scheduler.Engine
	Desktop notify.DesktopSender
	Clock   store.Clock
	Log     *zap.Logger
}

func NewModelWithRuntime(s *store.Store, rt Runtime) Model {
	m := NewModel(s)
	m.Engine = rt.Engine
	if rt.Desktop != nil {
		m.Desktop = rt.Desktop
	}
	if rt.Clock != nil {
		m.Clock = rt.Clock
	}
	if rt.Log != nil {
		m.Log = rt.Log
	}
	return m
}

// syncSelection clamps the cursors against the store and refreshes the
// selected ids. Sections and items are re-sorted on every call, so cursor
// positions follow the display order.
func (m *Model) syncSelection() {
	sections := m.Store.Sections()
	if len(sections) == 0 {
		m.SectionCursor = 0
		m.ItemCursor = 0
		m.SelectedSectionID = ""
		m.SelectedItemID = ""
		return
	}
	if m.SectionCursor >= len(sections) {
		m.SectionCursor = len(sections) - 1
	}
	if m.SectionCursor < 0 {
		m.SectionCursor = 0
	}
	m.SelectedSectionID = sections[m.SectionCursor].ID

	items := m.Store.Items(m.SelectedSectionID)
	if len(items) == 0 {
		m.ItemCursor = 0
		m.SelectedItemID = ""
		return
	}
	if m.ItemCursor >= len(items) {
		m.ItemCursor = len(items) - 1
	}
	if m.ItemCursor < 0 {
		m.ItemCursor = 0
	}
	m.SelectedItemID = items[m.ItemCursor].ID
}
