package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/strive/internal/cli/formatter"
	"github.com/alexanderramin/strive/internal/domain"
	"github.com/alexanderramin/strive/internal/wizard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// stageUpdatedMsg reports the outcome of a controller call. On success the
// root model remounts the stage view from the controller's new snapshot.
type stageUpdatedMsg struct{ err error }

// submitAnswerMsg carries the user's reply to a follow-up question.
type submitAnswerMsg struct{ answer string }

// confirmStageMsg carries an edited stage payload to post back as accepted.
type confirmStageMsg struct{ payload domain.StageResponse }

// regenerateMsg asks the backend for a fresh phase plan based on the
// user's edits and critique.
type regenerateMsg struct {
	plan    domain.PhasePlan
	comment string
}

// abortMsg discards the session and starts over.
type abortMsg struct{}

// wizardModel is the root bubbletea Model for the goal-creation TUI.
// It manages a view stack whose bottom entry always renders the current
// pipeline stage; forms pushed by stage views sit above it.
type wizardModel struct {
	state     *SharedState
	viewStack []View
	spin      spinner.Model
	busy      bool
	errMsg    string
	banner    string
	quitting  bool
}

func newWizardModel(app *App) wizardModel {
	state := &SharedState{App: app}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple

	// busy starts true: Init fires the first Load immediately.
	return wizardModel{
		state: state,
		spin:  sp,
		busy:  true,
	}
}

// activeView returns the top view on the stack, or nil.
func (m *wizardModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *wizardModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// mountStageView swaps the bottom of the stack for a fresh view of the
// controller's current payload, dropping any forms above it.
func (m *wizardModel) mountStageView() tea.Cmd {
	var v View
	switch resp := m.state.App.Wizard.Response().(type) {
	case domain.FollowUp:
		v = newChatView(m.state, resp)
	case domain.Definitions:
		v = newDefinitionsView(m.state, resp)
	case domain.PhasePlan:
		v = newTimelineView(m.state, resp)
	case domain.DailyPlan:
		v = newCalendarView(m.state, resp)
	default:
		return nil
	}
	m.viewStack = []View{v}
	return v.Init()
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m wizardModel) Init() tea.Cmd {
	app := m.state.App
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg { return stageUpdatedMsg{err: app.Wizard.Initialize(context.Background())} },
	)
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		if v := m.activeView(); v != nil {
			updated, cmd := v.Update(msg)
			m.setActiveView(updated.(View))
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case formCompleteMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd

	case submitAnswerMsg:
		return m.runControllerCall(func(ctx context.Context, c *wizard.Controller) error {
			return c.SubmitFreeText(ctx, msg.answer)
		})

	case confirmStageMsg:
		return m.runControllerCall(func(ctx context.Context, c *wizard.Controller) error {
			return c.ConfirmStage(ctx, msg.payload)
		})

	case regenerateMsg:
		return m.runControllerCall(func(ctx context.Context, c *wizard.Controller) error {
			return c.RequestRegeneration(ctx, msg.plan, msg.comment)
		})

	case abortMsg:
		return m.runControllerCall(func(ctx context.Context, c *wizard.Controller) error {
			return c.Abort(ctx)
		})

	case stageUpdatedMsg:
		return m.applyStageUpdate(msg)
	}

	// Forward other messages (cursor blink, form ticks) to the active view.
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

// runControllerCall issues one wizard action in a Cmd. Actions arriving
// while a call is in flight are dropped; the controller's own busy gate
// backstops any race.
func (m wizardModel) runControllerCall(call func(context.Context, *wizard.Controller) error) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	m.errMsg = ""
	m.banner = ""
	c := m.state.App.Wizard
	return m, tea.Batch(
		m.spin.Tick,
		func() tea.Msg { return stageUpdatedMsg{err: call(context.Background(), c)} },
	)
}

func (m wizardModel) applyStageUpdate(msg stageUpdatedMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if created := m.state.App.Notices.Drain(); created > 0 {
		m.banner = formatter.StyleGreen.Render("Goal created!") + formatter.Dim(" Starting a fresh session.")
	}

	if msg.err != nil {
		if errors.Is(msg.err, wizard.ErrBusy) {
			// A stray action raced the in-flight call; current view stays.
			return m, nil
		}
		m.errMsg = msg.err.Error()
		// Failed calls leave the controller state untouched, so keep the
		// mounted view when one exists.
		if m.activeView() != nil {
			return m, nil
		}
	}

	cmd := m.mountStageView()
	return m, cmd
}

func (m wizardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// ctrl+r: discard the session and start over, behind a confirm form.
	if msg.String() == "ctrl+r" && !m.busy {
		if v := m.activeView(); v != nil && v.ID() == ViewForm {
			return m, nil
		}
		return m, pushView(newAbortConfirmView(m.state))
	}

	// While a call is in flight every stage action is held back; only
	// quit keys above get through.
	if m.busy {
		return m, nil
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m wizardModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.banner != "" {
		sections = append(sections, "  "+m.banner)
	}
	if m.errMsg != "" {
		sections = append(sections, "  "+formatter.StyleRed.Render("Error: "+m.errMsg))
	}

	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	} else if m.busy {
		sections = append(sections, "\n  "+m.spin.View()+formatter.Dim(" Contacting the planning backend..."))
	}

	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *wizardModel) renderHeader() string {
	title := formatter.StylePurple.Render("strive")
	if v := m.activeView(); v != nil && v.Title() != "" {
		title += " " + formatter.Dim("›") + " " + formatter.Dim(v.Title())
	}

	labels := make([]string, len(domain.PipelineStages))
	for i, s := range domain.PipelineStages {
		labels[i] = s.Label()
	}
	stepper := formatter.Stepper(labels, m.state.App.Wizard.Stage().Ordinal())

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return title + "\n" + stepper + "\n" + sep
}

func (m *wizardModel) renderStatusBar() string {
	var hints []string

	if m.busy {
		hints = append(hints, m.spin.View()+formatter.Dim(" working..."))
	} else if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
		hints = append(hints, formatter.Dim("ctrl+r: start over"))
	}

	bar := strings.Join(hints, "  ")
	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// newAbortConfirmView wraps a huh confirm in a form view; confirming sends
// abortMsg.
func newAbortConfirmView(state *SharedState) *formView {
	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Discard this goal and start over?").
			Description("All progress in the current session is lost.").
			Value(&confirmed),
	))
	return newFormView(state, "Start Over", form, func() tea.Cmd {
		if !confirmed {
			return nil
		}
		return func() tea.Msg { return abortMsg{} }
	})
}
