package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// formView wraps a huh.Form as a View on the navigation stack.
// When the form completes, it sends a formCompleteMsg with the done
// callback's result so the action runs after the form is popped.
type formView struct {
	state    *SharedState
	form     *huh.Form
	titleStr string
	done     func() tea.Cmd
}

func newFormView(state *SharedState, title string, form *huh.Form, done func() tea.Cmd) *formView {
	return &formView{
		state:    state,
		form:     form,
		titleStr: title,
		done:     done,
	}
}

func (v *formView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *formView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Escape cancels the form.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, func() tea.Msg { return formCompleteMsg{} }
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		var doneCmd tea.Cmd
		if v.done != nil {
			doneCmd = v.done()
		}
		return v, func() tea.Msg {
			return formCompleteMsg{nextCmd: tea.Batch(cmd, doneCmd)}
		}
	}

	return v, cmd
}

func (v *formView) View() string {
	return v.form.View()
}

func (v *formView) ID() ViewID    { return ViewForm }
func (v *formView) Title() string { return v.titleStr }
func (v *formView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}
