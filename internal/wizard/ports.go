// Package wizard holds the goal-creation state machine: which pipeline
// stage the session is in, which backend payload is current, and which
// user actions are admissible while a request is in flight.
package wizard

import (
	"context"
	"errors"

	"github.com/alexanderramin/strive/internal/domain"
)

// Snapshot is the backend's view of the session after any protocol call:
// the stage tag plus the payload the matching editor should render.
type Snapshot struct {
	Stage    domain.Stage
	Response domain.StageResponse
}

// Client is the wizard-protocol port. Every call is all-or-nothing; the
// controller performs no retries.
type Client interface {
	// Load returns the current session snapshot, creating a fresh
	// define-goal session server-side if none exists.
	Load(ctx context.Context) (Snapshot, error)

	// Query advances the conversation by one user turn.
	Query(ctx context.Context, userInput string) (Snapshot, error)

	// Confirm posts a (possibly edited) stage payload back as accepted.
	Confirm(ctx context.Context, payload domain.StageResponse) (Snapshot, error)

	// Reset discards all server-side session state.
	Reset(ctx context.Context) error
}

// Notifier is told about wizard milestones the surrounding application
// cares about. The controller does not know how the notification is
// delivered.
type Notifier interface {
	GoalCreated()
}

// NoopNotifier discards all notifications.
type NoopNotifier struct{}

func (NoopNotifier) GoalCreated() {}

var (
	// ErrBusy is returned when a mutating call arrives while a request is
	// already in flight. The caller retries manually; nothing is queued.
	ErrBusy = errors.New("wizard request already in flight")

	// ErrInvalidState is returned when an operation does not apply to the
	// currently mounted stage payload.
	ErrInvalidState = errors.New("operation not valid in current wizard state")
)
