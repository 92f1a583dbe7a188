package cli

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/strive/internal/cli/formatter"
	"github.com/alexanderramin/strive/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// transcriptLoadedMsg carries the persisted conversation history.
type transcriptLoadedMsg struct {
	messages []*domain.Message
	err      error
}

// chatView renders the follow-up question for the current stage and a
// free-text input for the user's answer. The conversation history is
// mirrored through the transcript store so it survives restarts and view
// remounts.
type chatView struct {
	state    *SharedState
	input    textinput.Model
	question string
	history  []*domain.Message
}

func newChatView(state *SharedState, fu domain.FollowUp) *chatView {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 500

	return &chatView{
		state:    state,
		input:    ti,
		question: fu.Question,
	}
}

func (v *chatView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, v.loadTranscript(), v.recordQuestion())
}

func (v *chatView) loadTranscript() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		messages, err := app.Transcript.List(context.Background())
		return transcriptLoadedMsg{messages: messages, err: err}
	}
}

// recordQuestion mirrors the backend's question into the transcript,
// unless it is already the latest entry (remounts replay the same
// snapshot).
func (v *chatView) recordQuestion() tea.Cmd {
	app := v.state.App
	question := v.question
	return func() tea.Msg {
		ctx := context.Background()
		messages, err := app.Transcript.List(ctx)
		if err == nil {
			n := len(messages)
			if n > 0 && messages[n-1].Role == domain.RoleAssistant && messages[n-1].Content == question {
				return nil
			}
			_ = app.Transcript.Append(ctx, &domain.Message{
				ID:        uuid.New().String(),
				Role:      domain.RoleAssistant,
				Content:   question,
				CreatedAt: time.Now().UTC(),
			})
		}
		messages, err = app.Transcript.List(ctx)
		return transcriptLoadedMsg{messages: messages, err: err}
	}
}

func (v *chatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case transcriptLoadedMsg:
		if msg.err == nil {
			v.history = msg.messages
		}
		return v, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			answer := strings.TrimSpace(v.input.Value())
			if answer == "" {
				return v, nil
			}
			v.input.Reset()
			return v, v.submit(answer)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit persists the user's turn and hands the answer to the root model.
func (v *chatView) submit(answer string) tea.Cmd {
	app := v.state.App
	record := func() tea.Msg {
		_ = app.Transcript.Append(context.Background(), &domain.Message{
			ID:        uuid.New().String(),
			Role:      domain.RoleUser,
			Content:   answer,
			CreatedAt: time.Now().UTC(),
		})
		return nil
	}
	return tea.Batch(record, func() tea.Msg { return submitAnswerMsg{answer: answer} })
}

func (v *chatView) View() string {
	var b strings.Builder
	b.WriteString("\n")

	// Show only the most recent turns that fit above the input line.
	history := v.history
	if v.state.Height > 0 {
		if keep := v.state.ContentHeight() - 4; keep > 0 && len(history) > keep {
			history = history[len(history)-keep:]
		}
	}

	for _, m := range history {
		switch m.Role {
		case domain.RoleUser:
			b.WriteString("  " + formatter.Dim("You: ") + m.Content + "\n")
		case domain.RoleAssistant:
			b.WriteString("  " + formatter.StyleBlue.Render("Coach: ") + m.Content + "\n")
		}
	}

	// The pending question always renders last even before the transcript
	// mirror catches up.
	if n := len(v.history); n == 0 || v.history[n-1].Content != v.question {
		b.WriteString("  " + formatter.StyleBlue.Render("Coach: ") + v.question + "\n")
	}

	b.WriteString("\n")
	prompt := formatter.StylePurple.Render("you") + formatter.Dim("> ")
	b.WriteString("  " + prompt + v.input.View())

	return b.String()
}

func (v *chatView) ID() ViewID    { return ViewChat }
func (v *chatView) Title() string { return "Conversation" }
func (v *chatView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	}
}
