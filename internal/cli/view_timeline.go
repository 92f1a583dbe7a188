package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/strive/internal/cli/formatter"
	"github.com/alexanderramin/strive/internal/domain"
	"github.com/alexanderramin/strive/internal/timeline"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// timelineView lets the user refine the generated phase plan: edit,
// insert, delete, and reorder phases, ask for a regeneration with a
// comment, or accept the plan as-is. Date findings are advisory; confirm
// is never blocked.
type timelineView struct {
	state  *SharedState
	editor *timeline.Editor
	cursor int
}

func newTimelineView(state *SharedState, plan domain.PhasePlan) *timelineView {
	return &timelineView{
		state:  state,
		editor: timeline.NewEditor(plan),
	}
}

func (v *timelineView) Init() tea.Cmd { return nil }

func (v *timelineView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < v.editor.Len()-1 {
			v.cursor++
		}
	case "K", "shift+up":
		if v.cursor > 0 {
			v.editor.Reorder(v.cursor, v.cursor-1)
			v.cursor--
		}
	case "J", "shift+down":
		if v.cursor < v.editor.Len()-1 {
			v.editor.Reorder(v.cursor, v.cursor+1)
			v.cursor++
		}
	case "enter", "e":
		if phase, ok := v.editor.Phase(v.cursor); ok {
			return v, pushView(newPhaseFormView(v.state, phase, v.editor, v.cursor))
		}
	case "i":
		if v.editor.Len() == 0 {
			v.editor.Insert(0, timeline.Before)
			return v, pushView(newPhaseFormView(v.state, domain.Phase{}, v.editor, 0))
		}
		v.editor.Insert(v.cursor, timeline.Before)
		return v, pushView(newPhaseFormView(v.state, domain.Phase{}, v.editor, v.cursor))
	case "a":
		if v.editor.Len() == 0 {
			v.editor.Insert(0, timeline.Before)
			return v, pushView(newPhaseFormView(v.state, domain.Phase{}, v.editor, 0))
		}
		v.editor.Insert(v.cursor, timeline.After)
		return v, pushView(newPhaseFormView(v.state, domain.Phase{}, v.editor, v.cursor+1))
	case "x":
		v.editor.Delete(v.cursor)
		if v.cursor >= v.editor.Len() && v.cursor > 0 {
			v.cursor--
		}
	case "c":
		return v, pushView(newRegenerateFormView(v.state, v.editor.Plan()))
	case "y":
		plan := v.editor.Plan()
		return v, func() tea.Msg { return confirmStageMsg{payload: plan} }
	}
	return v, nil
}

func (v *timelineView) View() string {
	if v.editor.Len() == 0 {
		return "\n  " + formatter.Dim("No phases. Press 'a' to add one or 'c' to ask for a new plan.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i := 0; i < v.editor.Len(); i++ {
		phase, _ := v.editor.Phase(i)
		b.WriteString(v.renderPhase(i, phase, i == v.cursor))
	}
	return b.String()
}

func (v *timelineView) renderPhase(idx int, p domain.Phase, isCursor bool) string {
	cursor := "  "
	if isCursor {
		cursor = formatter.StyleGreen.Render("▸ ")
	}

	title := p.Title
	if title == "" {
		title = formatter.Dim("(untitled phase)")
	} else {
		title = formatter.StyleBold.Render(title)
	}

	span := formatter.Dim(fmt.Sprintf("%s → %s", orDash(p.StartDate), orDash(p.EndDate)))
	if days := p.DurationDays(); days > 0 {
		span += formatter.Dim(fmt.Sprintf("  (%dd)", days))
	}

	line := fmt.Sprintf("%s%d. %s  %s\n", cursor, idx+1, title, span)
	if p.Description != "" {
		line += "     " + formatter.Dim(p.Description) + "\n"
	}
	if msg := v.editor.ErrorAt(idx); msg != "" {
		line += "     " + formatter.StyleYellow.Render("⚠ "+msg) + "\n"
	}
	return line
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func (v *timelineView) ID() ViewID    { return ViewTimeline }
func (v *timelineView) Title() string { return "Phases" }
func (v *timelineView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a/i", "add after/before")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		key.NewBinding(key.WithKeys("K"), key.WithHelp("K/J", "move")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "accept plan")),
	}
}

// newPhaseFormView edits one phase in place. Saving writes back through
// the editor so only the edited index is re-validated.
func newPhaseFormView(state *SharedState, phase domain.Phase, editor *timeline.Editor, idx int) *formView {
	draft := phase

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Value(&draft.Title).
			Validate(notEmpty("title")),
		huh.NewText().
			Title("Description").
			Value(&draft.Description),
		huh.NewInput().
			Title("Start date").
			Description("YYYY-MM-DD").
			Value(&draft.StartDate).
			Validate(validDate),
		huh.NewInput().
			Title("End date").
			Description("YYYY-MM-DD").
			Value(&draft.EndDate).
			Validate(validDate),
	))

	return newFormView(state, "Edit Phase", form, func() tea.Cmd {
		editor.SetPhase(idx, draft)
		return nil
	})
}

// newRegenerateFormView collects a critique and asks the backend for a
// fresh plan built from the user's current edits.
func newRegenerateFormView(state *SharedState, plan domain.PhasePlan) *formView {
	comment := ""
	form := huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title("What should change?").
			Description("Your edits and this comment are sent together; the backend replies with a new plan.").
			Value(&comment).
			Validate(notEmpty("comment")),
	))

	return newFormView(state, "Request Changes", form, func() tea.Cmd {
		return func() tea.Msg { return regenerateMsg{plan: plan, comment: comment} }
	})
}
