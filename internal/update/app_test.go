package update

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VedPanse/Lockin/internal/notify"
	"github.com/VedPanse/Lockin/internal/scheduler"
	"github.com/VedPanse/Lockin/internal/storage"
	"github.com/VedPanse/Lockin/internal/store"
)

type frozenClock struct {
	now time.Time
}

func (c frozenClock) Now() time.Time { return c.now }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "lockin-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	if err := repo.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(repo, notify.Noop{}, frozenClock{now: time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)}, nil)
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(newTestStore(t))
	m.Clock = frozenClock{now: time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.CurrentView != ViewSections {
		t.Fatalf("expected default view %q, got %q", ViewSections, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.SelectedSectionID != "" {
		t.Fatalf("expected no selection on empty store, got %q", m.SelectedSectionID)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	next := updated.(Model)
	if next.CurrentView != ViewFocus {
		t.Fatalf("expected focus view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	next = updated.(Model)
	if next.CurrentView != ViewSections {
		t.Fatalf("expected sections view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyTab})
	next = updated.(Model)
	if next.CurrentView != ViewFocus {
		t.Fatalf("expected tab to toggle to focus, got %q", next.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SwitchViewMsg{View: ViewFocus})
	next := updated.(Model)
	if next.CurrentView != ViewFocus {
		t.Fatalf("expected focus view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(SwitchViewMsg{View: View("Unknown")})
	next = updated.(Model)
	if next.CurrentView != ViewFocus {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errBoom{}})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func TestUpdateQuitKey(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := newTestModel(t)
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	if !strings.Contains(out, "view: Sections") {
		t.Fatalf("expected view text in output: %q", out)
	}
	if !strings.Contains(out, "status: all good") {
		t.Fatalf("expected status in output: %q", out)
	}
}

func TestPaletteSectionAndAddCommands(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	next := updated.(Model)
	if !next.Palette.Active {
		t.Fatal("expected palette active after /")
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("section Work #FF0000")})
	next = updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)

	if next.Palette.Active {
		t.Fatal("expected palette closed after enter")
	}
	sections := next.Store.Sections()
	if len(sections) != 1 || sections[0].Title != "Work" {
		t.Fatalf("expected one Work section, got %#v", sections)
	}
	if sections[0].AccentColor != "#FF0000" {
		t.Fatalf("unexpected accent: %q", sections[0].AccentColor)
	}
	if next.SelectedSectionID != sections[0].ID {
		t.Fatalf("expected new section selected, got %q", next.SelectedSectionID)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	next = updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("add pay rent due:2026-03-06T17:00")})
	next = updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)

	items := next.Store.Items(sections[0].ID)
	if len(items) != 1 || items[0].Title != "pay rent" {
		t.Fatalf("expected one item, got %#v", items)
	}
	if items[0].DueAt.Format("2006-01-02 15:04") != "2026-03-06 17:00" {
		t.Fatalf("unexpected due: %s", items[0].DueAt)
	}
}

func TestPaletteUnknownCommandSetsErrorStatus(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	next := updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("frobnicate")})
	next = updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if !next.Status.IsError {
		t.Fatalf("expected error status, got %+v", next.Status)
	}
}

func TestQuickAddFlowCreatesItem(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.Store.CreateSection(context.Background(), "Inbox", "#00FF00"); err != nil {
		t.Fatalf("create section: %v", err)
	}
	m.syncSelection()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	next := updated.(Model)
	if !next.CaptureMode {
		t.Fatal("expected capture mode after a")
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("water plants")})
	next = updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)

	if next.CaptureMode {
		t.Fatal("expected capture mode off after enter")
	}
	items := next.Store.Items(next.SelectedSectionID)
	if len(items) != 1 || items[0].Title != "water plants" {
		t.Fatalf("expected quick-added item, got %#v", items)
	}
	// Default due is end of the current day.
	if items[0].DueAt.Format("2006-01-02 15:04") != "2026-03-05 23:59" {
		t.Fatalf("unexpected default due: %s", items[0].DueAt)
	}
}

func TestQuickAddPropagatesInputCmds(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.Store.CreateSection(context.Background(), "Inbox", "#00FF00"); err != nil {
		t.Fatalf("create section: %v", err)
	}
	m.syncSelection()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	next := updated.(Model)
	if !next.CaptureMode {
		t.Fatal("expected capture mode after a")
	}
	if cmd == nil {
		t.Fatal("expected cursor cmd when the quick add input takes focus")
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("buy milk")})
	next = updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	items := next.Store.Items(next.SelectedSectionID)
	if len(items) != 1 || items[0].Title != "buy milk" {
		t.Fatalf("expected typed input captured, got %#v", items)
	}
}

func TestToggleSelectedItemStartsCelebration(t *testing.T) {
	m := newTestModel(t)
	section, err := m.Store.CreateSection(context.Background(), "Work", "#FF0000")
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	if _, err := m.Store.CreateItem(context.Background(), section.ID, store.CreateItemInput{
		Title: "ship release",
		DueAt: time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	m.syncSelection()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next := updated.(Model)
	if !next.Celebration.Active {
		t.Fatal("expected celebration active after completing an item")
	}
	if next.Celebration.Title != "ship release" {
		t.Fatalf("unexpected celebration title: %q", next.Celebration.Title)
	}
	if cmd == nil {
		t.Fatal("expected celebration tick cmd")
	}
	if !strings.Contains(next.View(), "ship release") {
		t.Fatalf("expected celebration banner in view output")
	}
}

func TestCelebrateTickExpires(t *testing.T) {
	m := newTestModel(t)
	m.Celebration = CelebrationState{Active: true, Remaining: 2, Title: "done"}

	updated, cmd := m.Update(CelebrateTickMsg{})
	next := updated.(Model)
	if !next.Celebration.Active || cmd == nil {
		t.Fatalf("expected celebration still running, got %+v", next.Celebration)
	}

	updated, _ = next.Update(CelebrateTickMsg{})
	next = updated.(Model)
	if next.Celebration.Active {
		t.Fatalf("expected celebration cleared, got %+v", next.Celebration)
	}
}

func TestFocusViewShowsRunningItems(t *testing.T) {
	m := newTestModel(t)
	section, err := m.Store.CreateSection(context.Background(), "Work", "#FF0000")
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	if _, err := m.Store.CreateItem(context.Background(), section.ID, store.CreateItemInput{
		Title: "running today",
		DueAt: time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := m.Store.CreateItem(context.Background(), section.ID, store.CreateItemInput{
		Title: "far future",
		DueAt: time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
		StartAt: func() *time.Time {
			t := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
			return &t
		}(),
	}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	m.syncSelection()
	m.CurrentView = ViewFocus

	out := m.View()
	if !strings.Contains(out, "running today") {
		t.Fatalf("expected running item in focus view: %q", out)
	}
	if strings.Contains(out, "far future") {
		t.Fatalf("did not expect future-windowed item in focus view: %q", out)
	}
}

func TestFocusKeyTogglesRunningItem(t *testing.T) {
	m := newTestModel(t)
	section, err := m.Store.CreateSection(context.Background(), "Work", "#FF0000")
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	item, err := m.Store.CreateItem(context.Background(), section.ID, store.CreateItemInput{
		Title: "focus task",
		DueAt: time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	m.syncSelection()
	m.CurrentView = ViewFocus
	m.ItemCursor = 0

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next := updated.(Model)
	got, ok := next.Store.Item(item.ID)
	if !ok || !got.Completed {
		t.Fatalf("expected item completed via focus view, got %+v", got)
	}
	if !next.Celebration.Active {
		t.Fatal("expected celebration after completion")
	}
}

func TestInitWithEngineReturnsCmd(t *testing.T) {
	engine := scheduler.NewEngine(1)
	m := NewModelWithRuntime(newTestStore(t), Runtime{Engine: engine})
	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected init cmd when engine is attached")
	}
}

func TestUpdateReminderDueMsgSetsStatusAndRearms(t *testing.T) {
	engine := scheduler.NewEngine(1)
	m := NewModelWithRuntime(newTestStore(t), Runtime{Engine: engine})

	ev := scheduler.ReminderEvent{
		ItemID: "item-1",
		Title:  "stand-up",
		FireAt: time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC),
	}
	updated, cmd := m.Update(ReminderDueMsg{Event: ev})
	next := updated.(Model)
	if !strings.Contains(next.Status.Text, "stand-up") {
		t.Fatalf("expected reminder status, got %q", next.Status.Text)
	}
	if cmd == nil {
		t.Fatal("expected reminder listener rearm cmd")
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	next := updated.(Model)
	if !next.HelpVisible {
		t.Fatal("expected help visible")
	}
	if !strings.Contains(next.View(), "help:") {
		t.Fatal("expected help panel in view output")
	}
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	next = updated.(Model)
	if next.HelpVisible {
		t.Fatal("expected help hidden after second toggle")
	}
}
