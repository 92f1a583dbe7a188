package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/strive/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// definitionsView lets the user review and edit the extracted goal
// definition before accepting it. Completing the form posts the edited
// payload back; the backend decides what comes next.
type definitionsView struct {
	state *SharedState
	form  *huh.Form
	draft *domain.Definitions
}

func newDefinitionsView(state *SharedState, defs domain.Definitions) *definitionsView {
	draft := defs

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Goal").
			Value(&draft.Title).
			Validate(notEmpty("goal")),
		huh.NewInput().
			Title("Success metric").
			Description("How you will know the goal is achieved.").
			Value(&draft.Metric).
			Validate(notEmpty("metric")),
		huh.NewText().
			Title("Purpose").
			Description("Why this goal matters to you.").
			Value(&draft.Purpose),
		huh.NewInput().
			Title("Deadline").
			Description("YYYY-MM-DD").
			Value(&draft.Deadline).
			Validate(validDate),
	))

	return &definitionsView{
		state: state,
		form:  form,
		draft: &draft,
	}
}

func (v *definitionsView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *definitionsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		payload := *v.draft
		return v, tea.Batch(cmd, func() tea.Msg {
			return confirmStageMsg{payload: payload}
		})
	}

	return v, cmd
}

func (v *definitionsView) View() string {
	return v.form.View()
}

func (v *definitionsView) ID() ViewID    { return ViewDefinitions }
func (v *definitionsView) Title() string { return "Goal Definition" }
func (v *definitionsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next field")),
		key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
	}
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validDate(s string) error {
	if s == "" {
		return fmt.Errorf("a date is required")
	}
	if _, err := time.Parse(domain.DateFormat, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}
