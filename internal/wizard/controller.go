package wizard

import (
	"context"
	"fmt"

	"github.com/alexanderramin/strive/internal/domain"
)

// Controller drives one goal-creation session. Stages only move forward;
// the sole way back is Abort, which discards the session and loads a fresh
// one. All mutating operations are rejected with ErrBusy while a protocol
// call is in flight, and a failed call leaves the stage and payload exactly
// as they were.
//
// The controller is not safe for concurrent use; it is designed for a
// single logical thread of control (the TUI event loop) that suspends only
// at protocol-call boundaries.
type Controller struct {
	client   Client
	notifier Notifier

	stage    domain.Stage
	response domain.StageResponse
	busy     bool
}

// NewController creates a controller bound to a protocol client. A nil
// notifier is replaced with NoopNotifier.
func NewController(client Client, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Controller{
		client:   client,
		notifier: notifier,
		stage:    domain.StageDefineGoal,
	}
}

// Stage returns the current pipeline stage.
func (c *Controller) Stage() domain.Stage { return c.stage }

// Response returns the current stage payload, or nil before the first
// successful Initialize.
func (c *Controller) Response() domain.StageResponse { return c.response }

// Busy reports whether a protocol call is in flight.
func (c *Controller) Busy() bool { return c.busy }

// acquire claims the single in-flight slot. Callers must pair it with
// release via defer so every exit path clears the flag.
func (c *Controller) acquire() error {
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) release() { c.busy = false }

// Initialize loads the current session snapshot. Safe to call repeatedly:
// each call simply replaces the local stage and payload with the server's.
func (c *Controller) Initialize(ctx context.Context) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	snap, err := c.client.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading wizard session: %w", err)
	}
	c.apply(snap)
	return nil
}

// SubmitFreeText sends the user's answer to the pending follow-up
// question. Valid only while the current payload is a FollowUp.
func (c *Controller) SubmitFreeText(ctx context.Context, answer string) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	if _, ok := c.response.(domain.FollowUp); !ok {
		return fmt.Errorf("%w: no follow-up question pending", ErrInvalidState)
	}

	snap, err := c.client.Query(ctx, answer)
	if err != nil {
		return fmt.Errorf("submitting answer: %w", err)
	}
	c.apply(snap)
	return nil
}

// ConfirmStage posts an editable stage payload back as accepted. The
// payload's variant must match the currently mounted one. When the backend
// answers with the completion sentinel, the session is finalized: external
// collaborators are notified, server state is reset, and the controller is
// left ready for a fresh Initialize.
func (c *Controller) ConfirmStage(ctx context.Context, payload domain.StageResponse) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	if !c.confirmable() {
		return fmt.Errorf("%w: current payload is not confirmable", ErrInvalidState)
	}
	if payload == nil || payload.ResponseStatus() != c.response.ResponseStatus() {
		return fmt.Errorf("%w: payload does not match mounted stage", ErrInvalidState)
	}

	snap, err := c.client.Confirm(ctx, payload)
	if err != nil {
		return fmt.Errorf("confirming stage: %w", err)
	}

	if snap.Stage == domain.StageCompleted {
		return c.finalize(ctx)
	}

	c.apply(snap)
	return nil
}

// RequestRegeneration sends the edited phases plus a free-text critique as
// a synthetic conversation turn, asking the backend to regenerate the
// phase plan from scratch. Valid only while a phase plan is mounted; the
// reply replaces any local edits.
func (c *Controller) RequestRegeneration(ctx context.Context, plan domain.PhasePlan, comment string) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	if _, ok := c.response.(domain.PhasePlan); !ok {
		return fmt.Errorf("%w: no phase plan mounted", ErrInvalidState)
	}

	encoded, err := domain.EncodeStageResponse(plan)
	if err != nil {
		return fmt.Errorf("encoding phases for regeneration: %w", err)
	}
	input := fmt.Sprintf("The user's current phases are %s.\nThey commented that %q. Generate the new phases according to this.",
		encoded, comment)

	snap, err := c.client.Query(ctx, input)
	if err != nil {
		return fmt.Errorf("requesting regeneration: %w", err)
	}
	c.apply(snap)
	return nil
}

// Abort discards the session server-side and loads a fresh one.
func (c *Controller) Abort(ctx context.Context) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	if err := c.client.Reset(ctx); err != nil {
		return fmt.Errorf("resetting wizard session: %w", err)
	}

	c.stage = domain.StageDefineGoal
	c.response = nil

	snap, err := c.client.Load(ctx)
	if err != nil {
		return fmt.Errorf("reloading after abort: %w", err)
	}
	c.apply(snap)
	return nil
}

// finalize runs the completion path: notify, reset server state, and
// reload into a brand-new define-goal session. Even if the reload fails,
// the controller is left in a state where Initialize can start over.
func (c *Controller) finalize(ctx context.Context) error {
	c.notifier.GoalCreated()

	c.stage = domain.StageDefineGoal
	c.response = nil

	if err := c.client.Reset(ctx); err != nil {
		return fmt.Errorf("resetting completed session: %w", err)
	}
	snap, err := c.client.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading fresh session: %w", err)
	}
	c.apply(snap)
	return nil
}

// confirmable reports whether the mounted payload is one of the editable
// stage results.
func (c *Controller) confirmable() bool {
	switch c.response.(type) {
	case domain.Definitions, domain.PhasePlan, domain.DailyPlan:
		return true
	default:
		return false
	}
}

func (c *Controller) apply(snap Snapshot) {
	c.stage = snap.Stage
	c.response = snap.Response
}
