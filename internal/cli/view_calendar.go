package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/strive/internal/cli/formatter"
	"github.com/alexanderramin/strive/internal/domain"
	"github.com/alexanderramin/strive/internal/schedule"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// calendarView shows the generated daily tasks as a day-grouped agenda,
// colored by phase. Tasks can be added, edited, deleted, moved, and
// resized before the schedule is accepted. Tasks may freely overlap.
type calendarView struct {
	state  *SharedState
	editor *schedule.Editor
	cursor int // index into the sorted event list
}

func newCalendarView(state *SharedState, plan domain.DailyPlan) *calendarView {
	return &calendarView{
		state:  state,
		editor: schedule.NewEditor(plan),
	}
}

// sortedEvents projects the working tasks into display events ordered by
// start instant. TaskIndex on each event still addresses the editor.
func (v *calendarView) sortedEvents() []schedule.Event {
	colors := schedule.BuildPhaseColors(v.editor.GoalPhaseTitles())
	events := schedule.ToEvents(v.editor.Tasks(), colors)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events
}

func (v *calendarView) Init() tea.Cmd { return nil }

func (v *calendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	events := v.sortedEvents()

	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(events)-1 {
			v.cursor++
		}
	case "a":
		return v, pushView(newTaskFormView(v.state, v.editor, -1, schedule.TaskDraft{
			PhaseTitle: v.editor.CurrentPhase(),
			StartTime:  "09:00",
		}))
	case "enter", "e":
		if v.cursor < len(events) {
			ev := events[v.cursor]
			return v, pushView(newTaskFormView(v.state, v.editor, ev.TaskIndex, draftFromEvent(ev)))
		}
	case "x":
		if v.cursor < len(events) {
			v.editor.Delete(events[v.cursor].TaskIndex)
			if v.cursor >= v.editor.Len() && v.cursor > 0 {
				v.cursor--
			}
		}
	case "m":
		if v.cursor < len(events) {
			ev := events[v.cursor]
			return v, pushView(newMoveFormView(v.state, v.editor, ev))
		}
	case "r":
		if v.cursor < len(events) {
			ev := events[v.cursor]
			return v, pushView(newResizeFormView(v.state, v.editor, ev))
		}
	case "y":
		plan := v.editor.Plan()
		return v, func() tea.Msg { return confirmStageMsg{payload: plan} }
	}
	return v, nil
}

func (v *calendarView) View() string {
	events := v.sortedEvents()
	if len(events) == 0 {
		return "\n  " + formatter.Dim("No tasks scheduled. Press 'a' to add one.")
	}

	var b strings.Builder
	b.WriteString("\n")

	lastDay := ""
	for i, ev := range events {
		day := ev.Date
		if day != lastDay {
			if lastDay != "" {
				b.WriteString("\n")
			}
			b.WriteString("  " + formatter.Bold(v.dayHeading(ev)) + "\n")
			lastDay = day
		}
		b.WriteString(v.renderEvent(ev, i == v.cursor))
	}

	b.WriteString("\n" + v.renderLegend())
	return b.String()
}

func (v *calendarView) dayHeading(ev schedule.Event) string {
	if ev.Start.IsZero() {
		return ev.Date
	}
	return formatter.HumanDay(ev.Start)
}

func (v *calendarView) renderEvent(ev schedule.Event, isCursor bool) string {
	cursor := "  "
	if isCursor {
		cursor = formatter.StyleGreen.Render("▸ ")
	}

	span := "--:-- "
	if !ev.Start.IsZero() {
		span = formatter.TimeRange(ev.Start, ev.End)
	}

	return fmt.Sprintf("  %s%s %s  %s %s\n",
		cursor,
		formatter.Swatch(ev.Color),
		formatter.Dim(span),
		ev.TaskDescription,
		formatter.Dim("("+formatter.FormatMinutes(ev.EstimatedMinutes)+")"),
	)
}

func (v *calendarView) renderLegend() string {
	titles := v.editor.GoalPhaseTitles()
	colors := schedule.BuildPhaseColors(titles)
	parts := make([]string, 0, len(titles))
	for _, title := range titles {
		label := title
		if title == v.editor.CurrentPhase() {
			label += " (current)"
		}
		parts = append(parts, formatter.Swatch(colors[title])+" "+formatter.Dim(label))
	}
	return "  " + strings.Join(parts, "  ")
}

func (v *calendarView) ID() ViewID    { return ViewCalendar }
func (v *calendarView) Title() string { return "Daily Schedule" }
func (v *calendarView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resize")),
		key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "accept schedule")),
	}
}

func draftFromEvent(ev schedule.Event) schedule.TaskDraft {
	return schedule.TaskDraft{
		PhaseTitle:       ev.PhaseTitle,
		TaskDescription:  ev.TaskDescription,
		Date:             ev.Date,
		StartTime:        ev.StartTime,
		EstimatedMinutes: ev.EstimatedMinutes,
	}
}

// newTaskFormView adds (idx < 0) or edits (idx >= 0) one task. The phase
// select is limited to phases already reached; future phases cannot host
// tasks yet.
func newTaskFormView(state *SharedState, editor *schedule.Editor, idx int, draft schedule.TaskDraft) *formView {
	minutes := strconv.Itoa(draft.EstimatedMinutes)
	if draft.EstimatedMinutes == 0 {
		minutes = "30"
	}

	allowed := editor.AllowedPhases()
	options := make([]huh.Option[string], len(allowed))
	for i, title := range allowed {
		options[i] = huh.NewOption(title, title)
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Phase").
			Options(options...).
			Value(&draft.PhaseTitle),
		huh.NewInput().
			Title("Task").
			Value(&draft.TaskDescription).
			Validate(notEmpty("task")),
		huh.NewInput().
			Title("Date").
			Description("YYYY-MM-DD").
			Value(&draft.Date).
			Validate(validDate),
		huh.NewInput().
			Title("Start time").
			Description("HH:MM").
			Value(&draft.StartTime).
			Validate(validClock),
		huh.NewInput().
			Title("Minutes").
			Value(&minutes).
			Validate(validMinutes),
	))

	title := "Add Task"
	if idx >= 0 {
		title = "Edit Task"
	}

	return newFormView(state, title, form, func() tea.Cmd {
		draft.EstimatedMinutes, _ = strconv.Atoi(minutes)
		if idx < 0 {
			editor.Add(draft)
		} else {
			editor.Edit(idx, draft)
		}
		return nil
	})
}

// newMoveFormView reschedules a task to a new date and start time,
// keeping its duration.
func newMoveFormView(state *SharedState, editor *schedule.Editor, ev schedule.Event) *formView {
	date := ev.Date
	start := ev.StartTime

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("New date").
			Description("YYYY-MM-DD").
			Value(&date).
			Validate(validDate),
		huh.NewInput().
			Title("New start time").
			Description("HH:MM").
			Value(&start).
			Validate(validClock),
	))

	return newFormView(state, "Move Task", form, func() tea.Cmd {
		editor.Reschedule(ev.TaskIndex, date, start)
		return nil
	})
}

// newResizeFormView changes a task's duration (and lets the span's start
// shift with it).
func newResizeFormView(state *SharedState, editor *schedule.Editor, ev schedule.Event) *formView {
	minutes := strconv.Itoa(ev.EstimatedMinutes)
	date := ev.Date
	start := ev.StartTime

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Minutes").
			Value(&minutes).
			Validate(validMinutes),
		huh.NewInput().
			Title("Date").
			Description("YYYY-MM-DD").
			Value(&date).
			Validate(validDate),
		huh.NewInput().
			Title("Start time").
			Description("HH:MM").
			Value(&start).
			Validate(validClock),
	))

	return newFormView(state, "Resize Task", form, func() tea.Cmd {
		n, _ := strconv.Atoi(minutes)
		editor.Resize(ev.TaskIndex, n, date, start)
		return nil
	})
}

func validClock(s string) error {
	if _, err := time.Parse(domain.TimeFormat, s); err != nil {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}

func validMinutes(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number of minutes")
	}
	return nil
}
