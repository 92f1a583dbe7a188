package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/strive/internal/domain"
	"github.com/alexanderramin/strive/internal/repository"
	"github.com/alexanderramin/strive/internal/teatest"
	"github.com/alexanderramin/strive/internal/testutil"
	"github.com/alexanderramin/strive/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient replays queued snapshots per operation. When a queue is
// exhausted its last element keeps being served.
type scriptedClient struct {
	loads    []wizard.Snapshot
	queries  []wizard.Snapshot
	confirms []wizard.Snapshot

	loadErr    error
	queryErr   error
	confirmErr error
	resetErr   error

	lastQuery   string
	lastConfirm domain.StageResponse
	resets      int
}

func pop(queue *[]wizard.Snapshot) wizard.Snapshot {
	q := *queue
	if len(q) == 0 {
		return wizard.Snapshot{}
	}
	snap := q[0]
	if len(q) > 1 {
		*queue = q[1:]
	}
	return snap
}

func (c *scriptedClient) Load(context.Context) (wizard.Snapshot, error) {
	if c.loadErr != nil {
		return wizard.Snapshot{}, c.loadErr
	}
	return pop(&c.loads), nil
}

func (c *scriptedClient) Query(_ context.Context, userInput string) (wizard.Snapshot, error) {
	c.lastQuery = userInput
	if c.queryErr != nil {
		return wizard.Snapshot{}, c.queryErr
	}
	return pop(&c.queries), nil
}

func (c *scriptedClient) Confirm(_ context.Context, payload domain.StageResponse) (wizard.Snapshot, error) {
	c.lastConfirm = payload
	if c.confirmErr != nil {
		return wizard.Snapshot{}, c.confirmErr
	}
	return pop(&c.confirms), nil
}

func (c *scriptedClient) Reset(context.Context) error {
	c.resets++
	return c.resetErr
}

func followUpSnap(question string) wizard.Snapshot {
	return wizard.Snapshot{
		Stage:    domain.StageDefineGoal,
		Response: domain.FollowUp{Question: question},
	}
}

// testApp wires an App against a scripted protocol client and an
// in-memory store.
func testApp(t *testing.T, client *scriptedClient) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	notices := &GoalNotices{}
	return &App{
		Wizard:      wizard.NewController(client, notices),
		Transcript:  repository.NewSQLiteTranscriptRepo(database),
		Credentials: repository.NewSQLiteCredentialsRepo(database),
		Notices:     notices,
	}
}

func newTestDriver(t *testing.T, client *scriptedClient) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newWizardModel(testApp(t, client)), teatest.WithSize(100, 30))
	d.DrainInit()
	return d
}

func rootModel(d *teatest.Driver) wizardModel {
	return d.Model.(wizardModel)
}

func activeViewID(d *teatest.Driver) ViewID {
	m := rootModel(d)
	return m.activeView().ID()
}

func TestWizardModel_InitMountsChatView(t *testing.T) {
	client := &scriptedClient{loads: []wizard.Snapshot{followUpSnap("What do you want to achieve?")}}
	d := newTestDriver(t, client)

	assert.Equal(t, ViewChat, activeViewID(d))
	assert.Contains(t, d.View(), "What do you want to achieve?")
}

func TestWizardModel_MountsViewPerPayload(t *testing.T) {
	tests := []struct {
		name string
		snap wizard.Snapshot
		want ViewID
	}{
		{
			name: "follow-up mounts chat",
			snap: followUpSnap("Why this goal?"),
			want: ViewChat,
		},
		{
			name: "definitions mount review form",
			snap: wizard.Snapshot{Stage: domain.StageGetPrerequisites, Response: testutil.NewTestDefinitions()},
			want: ViewDefinitions,
		},
		{
			name: "phase plan mounts timeline",
			snap: wizard.Snapshot{Stage: domain.StageRefinePhases, Response: testutil.NewTestPhasePlan(3)},
			want: ViewTimeline,
		},
		{
			name: "daily plan mounts calendar",
			snap: wizard.Snapshot{Stage: domain.StageGenerateDailies, Response: testutil.NewTestDailyPlan([]string{"Base"}, 2)},
			want: ViewCalendar,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDriver(t, &scriptedClient{loads: []wizard.Snapshot{tt.snap}})
			assert.Equal(t, tt.want, activeViewID(d))
		})
	}
}

func TestWizardModel_SubmitAnswerAdvancesToDefinitions(t *testing.T) {
	client := &scriptedClient{
		loads: []wizard.Snapshot{followUpSnap("What do you want to achieve?")},
		queries: []wizard.Snapshot{
			{Stage: domain.StageGetPrerequisites, Response: testutil.NewTestDefinitions()},
		},
	}
	app := testApp(t, client)
	d := teatest.New(t, newWizardModel(app), teatest.WithSize(100, 30))
	d.DrainInit()

	d.Type("run a marathon")
	d.PressEnter()

	assert.Equal(t, "run a marathon", client.lastQuery)
	assert.Equal(t, ViewDefinitions, activeViewID(d))

	messages, err := app.Transcript.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, messages)
	last := messages[len(messages)-1]
	assert.Equal(t, domain.RoleUser, last.Role)
	assert.Equal(t, "run a marathon", last.Content)
}

func TestWizardModel_ConfirmAdvancesTimelineToCalendar(t *testing.T) {
	client := &scriptedClient{
		loads: []wizard.Snapshot{
			{Stage: domain.StageRefinePhases, Response: testutil.NewTestPhasePlan(2)},
		},
		confirms: []wizard.Snapshot{
			{Stage: domain.StageGenerateDailies, Response: testutil.NewTestDailyPlan([]string{"Phase 1", "Phase 2"}, 3)},
		},
	}
	d := newTestDriver(t, client)
	require.Equal(t, ViewTimeline, activeViewID(d))

	d.PressKey('y')

	assert.Equal(t, ViewCalendar, activeViewID(d))
	plan, ok := client.lastConfirm.(domain.PhasePlan)
	require.True(t, ok)
	assert.Len(t, plan.Phases, 2)
}

func TestWizardModel_CompletionShowsBannerAndRestarts(t *testing.T) {
	client := &scriptedClient{
		loads: []wizard.Snapshot{
			{Stage: domain.StageGenerateDailies, Response: testutil.NewTestDailyPlan([]string{"Base"}, 1)},
			followUpSnap("What is your next goal?"),
		},
		confirms: []wizard.Snapshot{{Stage: domain.StageCompleted}},
	}
	d := newTestDriver(t, client)
	require.Equal(t, ViewCalendar, activeViewID(d))

	d.PressKey('y')

	assert.Equal(t, 1, client.resets)
	assert.Equal(t, ViewChat, activeViewID(d))
	assert.Contains(t, d.View(), "Goal created!")
	assert.Contains(t, d.View(), "What is your next goal?")
}

func TestWizardModel_FailedConfirmKeepsViewAndShowsError(t *testing.T) {
	client := &scriptedClient{
		loads: []wizard.Snapshot{
			{Stage: domain.StageRefinePhases, Response: testutil.NewTestPhasePlan(2)},
		},
		confirmErr: assert.AnError,
	}
	d := newTestDriver(t, client)

	d.PressKey('y')

	assert.Equal(t, ViewTimeline, activeViewID(d))
	assert.Contains(t, strings.ToLower(d.View()), "error")
}

func TestWizardModel_CtrlRPushesAbortConfirm(t *testing.T) {
	client := &scriptedClient{loads: []wizard.Snapshot{followUpSnap("Q?")}}
	d := newTestDriver(t, client)

	d.PressCtrlR()
	assert.Equal(t, ViewForm, activeViewID(d))

	// Esc cancels: back on the stage view, no reset issued.
	d.PressEsc()
	assert.Equal(t, ViewChat, activeViewID(d))
	assert.Zero(t, client.resets)
}

func TestWizardModel_CtrlCQuits(t *testing.T) {
	client := &scriptedClient{loads: []wizard.Snapshot{followUpSnap("Q?")}}
	d := newTestDriver(t, client)

	d.PressCtrlC()
	assert.True(t, d.Quit)
}

func TestWizardModel_HeaderShowsStageProgress(t *testing.T) {
	client := &scriptedClient{
		loads: []wizard.Snapshot{
			{Stage: domain.StageRefinePhases, Response: testutil.NewTestPhasePlan(1)},
		},
	}
	d := newTestDriver(t, client)

	view := d.View()
	for _, s := range domain.PipelineStages {
		assert.Contains(t, view, s.Label())
	}
}
