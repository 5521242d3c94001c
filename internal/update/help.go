package update

import "github.com/VedPanse/Lockin/internal/views"

func (m Model) renderHelp() string {
	bindings := []string{
		"1/2   switch to sections/focus",
		"tab   toggle view",
		"/     command palette (section, add, done, delete, show)",
		"?     toggle this help",
		"q     quit",
	}
	switch m.CurrentView {
	case ViewSections:
		bindings = append(bindings,
			"J/K   move between sections",
			"j/k   move between items",
			"a     quick add item",
			"enter toggle completion",
			"d/D   delete item/section",
		)
	case ViewFocus:
		bindings = append(bindings,
			"j/k   move between running items",
			"enter toggle completion",
		)
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    bindings,
	})
}
