// Package teatest runs bubbletea models synchronously for tests.
//
// Instead of starting a tea.Program, the Driver feeds messages straight
// into Update() and immediately executes every returned Cmd, so a test
// observes each state transition deterministically and without
// goroutine scheduling. Cmds that block (cursor blink timers) are run
// with a short timeout and dropped when they do not return in time.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDrain caps recursive command draining so a self-feeding Cmd chain
// cannot hang a test.
const maxDrain = 100

// cmdTimeout separates ordinary Cmds (message factories, store calls,
// which finish in microseconds) from blink timers that sleep ~530ms.
const cmdTimeout = 10 * time.Millisecond

// Driver drives one tea.Model through Update calls.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quit flips to true when a tea.QuitMsg surfaces during draining.
	// The real runtime swallows that message before the model sees it,
	// so the driver records it itself.
	Quit bool
}

// New wraps a model. Call DrainInit afterwards to run Init()'s command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Option adjusts the Driver at construction time.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else runs.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		m, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = m
	}
}

// DrainInit runs the model's Init() command chain to completion.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send pushes one message through Update and drains the returned Cmd.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quit {
		return
	}
	m, cmd := d.Model.Update(msg)
	d.Model = m
	d.drain(cmd, 0)
}

// PressKey sends a single character key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// PressEnter sends the Enter key.
func (d *Driver) PressEnter() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

// PressEsc sends the Escape key.
func (d *Driver) PressEsc() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEsc})
}

// PressCtrlC sends Ctrl+C.
func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
}

// PressCtrlR sends Ctrl+R.
func (d *Driver) PressCtrlR() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlR})
}

// PressUp sends the Up arrow.
func (d *Driver) PressUp() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyUp})
}

// PressDown sends the Down arrow.
func (d *Driver) PressDown() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyDown})
}

// Type sends a string one key event per rune.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// View returns the model's current render.
func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDrain {
		d.T.Logf("teatest: drain depth limit (%d) hit", maxDrain)
		return
	}

	msg := runWithTimeout(cmd)
	if msg == nil || isBlink(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			if sub != nil {
				d.drain(sub, depth+1)
			}
		}
		return
	}

	if _, ok := msg.(tea.QuitMsg); ok {
		d.Quit = true
		m, _ := d.Model.Update(msg)
		d.Model = m
		return
	}

	m, next := d.Model.Update(msg)
	d.Model = m
	d.drain(next, depth+1)
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isBlink filters the bubbles/cursor blink messages, whose types are
// unexported and would otherwise chain into half-second timer Cmds.
func isBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
