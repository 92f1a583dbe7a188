package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/strive/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient scripts protocol responses and counts calls. The during hook,
// when set, runs in the middle of Query — it simulates user input arriving
// while a request is in flight.
type fakeClient struct {
	loads    []Snapshot
	queries  []Snapshot
	confirms []Snapshot
	err      error

	loadCalls    int
	queryCalls   int
	confirmCalls int
	resetCalls   int

	lastInput   string
	lastConfirm domain.StageResponse
	during      func()
}

func (f *fakeClient) Load(ctx context.Context) (Snapshot, error) {
	f.loadCalls++
	if f.err != nil {
		return Snapshot{}, f.err
	}
	snap := f.loads[0]
	if len(f.loads) > 1 {
		f.loads = f.loads[1:]
	}
	return snap, nil
}

func (f *fakeClient) Query(ctx context.Context, userInput string) (Snapshot, error) {
	f.queryCalls++
	f.lastInput = userInput
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return Snapshot{}, f.err
	}
	snap := f.queries[0]
	if len(f.queries) > 1 {
		f.queries = f.queries[1:]
	}
	return snap, nil
}

func (f *fakeClient) Confirm(ctx context.Context, payload domain.StageResponse) (Snapshot, error) {
	f.confirmCalls++
	f.lastConfirm = payload
	if f.err != nil {
		return Snapshot{}, f.err
	}
	snap := f.confirms[0]
	if len(f.confirms) > 1 {
		f.confirms = f.confirms[1:]
	}
	return snap, nil
}

func (f *fakeClient) Reset(ctx context.Context) error {
	f.resetCalls++
	return nil
}

type recordingNotifier struct{ created int }

func (n *recordingNotifier) GoalCreated() { n.created++ }

func followUpSnap(q string) Snapshot {
	return Snapshot{Stage: domain.StageDefineGoal, Response: domain.FollowUp{Question: q}}
}

func phasesSnap() Snapshot {
	return Snapshot{
		Stage: domain.StageRefinePhases,
		Response: domain.PhasePlan{Phases: []domain.Phase{
			{Title: "Base", StartDate: "2026-01-01", EndDate: "2026-02-01"},
		}},
	}
}

func TestInitialize_LoadsSnapshot(t *testing.T) {
	client := &fakeClient{loads: []Snapshot{followUpSnap("What is your goal?")}}
	c := NewController(client, nil)

	require.NoError(t, c.Initialize(context.Background()))

	assert.Equal(t, domain.StageDefineGoal, c.Stage())
	fu, ok := c.Response().(domain.FollowUp)
	require.True(t, ok)
	assert.Equal(t, "What is your goal?", fu.Question)
	assert.False(t, c.Busy())
}

func TestInitialize_IsIdempotent(t *testing.T) {
	client := &fakeClient{loads: []Snapshot{followUpSnap("q")}}
	c := NewController(client, nil)

	require.NoError(t, c.Initialize(context.Background()))
	require.NoError(t, c.Initialize(context.Background()))

	assert.Equal(t, 2, client.loadCalls)
	assert.Equal(t, domain.StageDefineGoal, c.Stage())
}

func TestSubmitFreeText_AdvancesConversation(t *testing.T) {
	client := &fakeClient{
		loads: []Snapshot{followUpSnap("What is your goal?")},
		queries: []Snapshot{{
			Stage:    domain.StageDefineGoal,
			Response: domain.Definitions{Title: "Run a marathon", Deadline: "2026-10-01"},
		}},
	}
	c := NewController(client, nil)
	require.NoError(t, c.Initialize(context.Background()))

	require.NoError(t, c.SubmitFreeText(context.Background(), "run a marathon"))

	assert.Equal(t, "run a marathon", client.lastInput)
	_, ok := c.Response().(domain.Definitions)
	assert.True(t, ok)
}

func TestSubmitFreeText_InvalidWithoutFollowUp(t *testing.T) {
	client := &fakeClient{loads: []Snapshot{phasesSnap()}}
	c := NewController(client, nil)
	require.NoError(t, c.Initialize(context.Background()))

	err := c.SubmitFreeText(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 0, client.queryCalls)
}

func TestSubmitFreeText_RejectedWhileBusy(t *testing.T) {
	client := &fakeClient{
		loads:   []Snapshot{followUpSnap("q1")},
		queries: []Snapshot{followUpSnap("q2")},
	}
	c := NewController(client, nil)
	require.NoError(t, c.Initialize(context.Background()))

	// A second submit arriving mid-flight must bounce off the busy gate
	// without issuing another network request.
	var reentrantErr error
	client.during = func() {
		reentrantErr = c.SubmitFreeText(context.Background(), "again")
	}

	require.NoError(t, c.SubmitFreeText(context.Background(), "first"))

	assert.ErrorIs(t, reentrantErr, ErrBusy)
	assert.Equal(t, 1, client.queryCalls)
	assert.False(t, c.Busy())
}

func TestConfirmStage_AdvancesPipeline(t *testing.T) {
	client := &fakeClient{
		loads: []Snapshot{{
			Stage:    domain.StageDefineGoal,
			Response: domain.Definitions{Title: "Marathon"},
		}},
		confirms: []Snapshot{{
			Stage:    domain.StageGetPrerequisites,
			Response: domain.FollowUp{Question: "How much time per week?"},
		}},
	}
	c := NewController(client, nil)
	require.NoError(t, c.Initialize(context.Background()))

	edited := domain.Definitions{Title: "Marathon", Metric: "sub 4h"}
	require.NoError(t, c.ConfirmStage(context.Background(), edited))

	assert.Equal(t, edited, client.lastConfirm)
	assert.Equal(t, domain.StageGetPrerequisites, c.Stage())
}

func TestConfirmStage_RejectsMismatchedPayload(t *testing.T) {
	client := &fakeClient{loads: []Snapshot{phasesSnap()}}
	c := NewController(client, nil)
	require.NoError(t, c.Initialize(context.Background()))

	err := c.ConfirmStage(context.Background(), domain.Definitions{Title: "wrong shape"})

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 0, client.confirmCalls)
}

func TestConfirmStage_RejectsFollowUpPayload(t *testing.T) {
	client := &fakeClient{loads: []Snapshot{followUpSnap("q")}}
	c := NewController(client, nil)
	require.NoError(t, c.Initialize(context.Background()))

	err := c.ConfirmStage(context.Background(), domain.FollowUp{Question: "q"})

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConfirmStage_CompletionFinalizesSession(t *testing.T) {
	dailies := domain.DailyPlan{
		Tasks:           []domain.DailyTask{{PhaseTitle: "Base", TaskDescription: "run", Date: "2026-01-02", StartTime: "07:00", EstimatedMinutes: 30}},
		GoalPhaseTitles: []string{"Base"},
		CurrentPhase:    "Base",
	}
	client := &fakeClient{
		loads: []Snapshot{
			{Stage: domain.StageGenerateDailies, Response: dailies},
			followUpSnap("What would you like to achieve today?"),
		},
		confirms: []Snapshot{{Stage: domain.StageCompleted}},
	}
	notifier := &recordingNotifier{}
	c := NewController(client, notifier)
	require.NoError(t, c.Initialize(context.Background()))

	require.NoError(t, c.ConfirmStage(context.Background(), dailies))

	assert.Equal(t, 1, notifier.created)
	assert.Equal(t, 1, client.resetCalls)
	assert.Equal(t, domain.StageDefineGoal, c.Stage())
	_, ok := c.Response().(domain.FollowUp)
	assert.True(t, ok, "controller must be back on a fresh define-goal session")
	assert.False(t, c.Busy())
}

func TestRequestRegeneration_PackagesPhasesAndComment(t *testing.T) {
	client := &fakeClient{
		loads:   []Snapshot{phasesSnap()},
		queries: []Snapshot{phasesSnap()},
	}
	c := NewController(client, nil)
	require.NoError(t, c.Initialize(context.Background()))

	edited := domain.PhasePlan{Phases: []domain.Phase{
		{Title: "Ramp", StartDate: "2026-01-01", EndDate: "2026-02-01"},
	}}
	require.NoError(t, c.RequestRegeneration(context.Background(), edited, "make it shorter"))

	assert.Contains(t, client.lastInput, `"phases_generated"`)
	assert.Contains(t, client.lastInput, "Ramp")
	assert.Contains(t, client.lastInput, "make it shorter")
	assert.Equal(t, domain.StageRefinePhases, c.Stage())
}

func TestRequestRegeneration_InvalidOutsidePhases(t *testing.T) {
	client := &fakeClient{loads: []Snapshot{followUpSnap("q")}}
	c := NewController(client, nil)
	require.NoError(t, c.Initialize(context.Background()))

	err := c.RequestRegeneration(context.Background(), domain.PhasePlan{}, "comment")

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 0, client.queryCalls)
}

func TestFailedRequest_LeavesStateUnchangedAndClearsBusy(t *testing.T) {
	client := &fakeClient{loads: []Snapshot{followUpSnap("q")}}
	c := NewController(client, nil)
	require.NoError(t, c.Initialize(context.Background()))

	client.err = errors.New("backend down")
	err := c.SubmitFreeText(context.Background(), "answer")

	require.Error(t, err)
	assert.Equal(t, domain.StageDefineGoal, c.Stage())
	fu, ok := c.Response().(domain.FollowUp)
	require.True(t, ok)
	assert.Equal(t, "q", fu.Question)
	assert.False(t, c.Busy(), "busy must clear on the failure path")
}

func TestAbort_ResetsAndReloads(t *testing.T) {
	client := &fakeClient{
		loads: []Snapshot{
			phasesSnap(),
			followUpSnap("What would you like to achieve today?"),
		},
	}
	c := NewController(client, nil)
	require.NoError(t, c.Initialize(context.Background()))
	require.Equal(t, domain.StageRefinePhases, c.Stage())

	require.NoError(t, c.Abort(context.Background()))

	assert.Equal(t, 1, client.resetCalls)
	assert.Equal(t, domain.StageDefineGoal, c.Stage())
	_, ok := c.Response().(domain.FollowUp)
	assert.True(t, ok)
}

func TestInitialize_SafeAfterAbort(t *testing.T) {
	client := &fakeClient{loads: []Snapshot{followUpSnap("q")}}
	c := NewController(client, nil)

	require.NoError(t, c.Initialize(context.Background()))
	require.NoError(t, c.Abort(context.Background()))
	require.NoError(t, c.Initialize(context.Background()))

	assert.Equal(t, domain.StageDefineGoal, c.Stage())
}
