package cli

import tea "github.com/charmbracelet/bubbletea"

// pushViewMsg pushes a view onto the navigation stack.
type pushViewMsg struct{ view View }

// formCompleteMsg is sent when a pushed form view finishes, whether it
// completed or was cancelled; nextCmd runs after the form is popped.
type formCompleteMsg struct{ nextCmd tea.Cmd }

// pushView returns a tea.Cmd that pushes the given view.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}
