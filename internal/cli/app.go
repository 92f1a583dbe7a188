package cli

import (
	"sync/atomic"

	"github.com/alexanderramin/strive/internal/repository"
	"github.com/alexanderramin/strive/internal/wizard"
)

// App holds the collaborators the TUI works against.
type App struct {
	Wizard      *wizard.Controller
	Transcript  repository.TranscriptRepo
	Credentials repository.CredentialsRepo
	Notices     *GoalNotices

	// IsInteractive reports whether stdin is attached to a terminal.
	IsInteractive func() bool
}

// GoalNotices implements wizard.Notifier by counting completed goals.
// The TUI drains the counter after each controller call to decide whether
// to show the completion banner.
type GoalNotices struct {
	created atomic.Int64
}

func (n *GoalNotices) GoalCreated() { n.created.Add(1) }

// Drain returns how many goals completed since the last call and resets
// the counter.
func (n *GoalNotices) Drain() int {
	return int(n.created.Swap(0))
}
