package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageOrdering(t *testing.T) {
	assert.True(t, StageDefineGoal.Before(StageGetPrerequisites))
	assert.True(t, StageGetPrerequisites.Before(StageRefinePhases))
	assert.True(t, StageRefinePhases.Before(StageGenerateDailies))
	assert.True(t, StageGenerateDailies.Before(StageCompleted))

	assert.False(t, StageCompleted.Before(StageDefineGoal))
	assert.False(t, StageDefineGoal.Before(StageDefineGoal))
}

func TestParseStage(t *testing.T) {
	st, err := ParseStage("refine_phases")
	require.NoError(t, err)
	assert.Equal(t, StageRefinePhases, st)

	_, err = ParseStage("refine_everything")
	assert.Error(t, err)
}

func TestStageOrdinal_Unknown(t *testing.T) {
	assert.Equal(t, -1, Stage("bogus").Ordinal())
	assert.False(t, Stage("bogus").Valid())
}

func TestPhaseDurationDays(t *testing.T) {
	p := Phase{StartDate: "2024-01-01", EndDate: "2024-01-10"}
	assert.Equal(t, 9, p.DurationDays())

	assert.Equal(t, 0, Phase{StartDate: "", EndDate: "2024-01-10"}.DurationDays())
	assert.Equal(t, 0, Phase{StartDate: "not-a-date", EndDate: "2024-01-10"}.DurationDays())
}

func TestDailyTaskInstants(t *testing.T) {
	task := DailyTask{Date: "2026-01-02", StartTime: "07:30", EstimatedMinutes: 45}

	start, err := task.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02T07:30:00Z", start.Format("2006-01-02T15:04:05Z07:00"))

	end, err := task.EndsAt()
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02T08:15:00Z", end.Format("2006-01-02T15:04:05Z07:00"))
}

func TestDailyTaskInstants_Malformed(t *testing.T) {
	_, err := DailyTask{Date: "02/01/2026", StartTime: "07:30"}.StartsAt()
	assert.Error(t, err)
}
