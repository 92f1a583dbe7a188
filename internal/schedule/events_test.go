package schedule

import (
	"testing"
	"time"

	"github.com/alexanderramin/strive/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTasks() []domain.DailyTask {
	return []domain.DailyTask{
		{PhaseTitle: "Base", TaskDescription: "5k easy", Date: "2026-01-02", StartTime: "07:00", EstimatedMinutes: 40},
		{PhaseTitle: "Base", TaskDescription: "stretch", Date: "2026-01-02", StartTime: "20:00", EstimatedMinutes: 15},
		{PhaseTitle: "Build", TaskDescription: "tempo", Date: "2026-01-03", StartTime: "07:00", EstimatedMinutes: 60},
	}
}

func TestToEvents_PreservesCardinalityAndIndices(t *testing.T) {
	tasks := testTasks()
	colors := BuildPhaseColors([]string{"Base", "Build"})

	events := ToEvents(tasks, colors)
	require.Len(t, events, len(tasks))

	seen := make(map[int]bool)
	for _, ev := range events {
		seen[ev.TaskIndex] = true
	}
	for i := range tasks {
		assert.True(t, seen[i], "index %d missing from back-references", i)
	}
	assert.Len(t, seen, len(tasks))
}

func TestToEvents_IsInvertible(t *testing.T) {
	tasks := testTasks()
	events := ToEvents(tasks, BuildPhaseColors([]string{"Base", "Build"}))

	for i, ev := range events {
		assert.Equal(t, tasks[i], ev.Task(), "event %d must reconstruct its task", i)
	}
}

func TestToEvents_ComputesSpan(t *testing.T) {
	events := ToEvents(testTasks(), nil)

	assert.Equal(t, time.Date(2026, 1, 2, 7, 0, 0, 0, time.UTC), events[0].Start)
	assert.Equal(t, time.Date(2026, 1, 2, 7, 40, 0, 0, time.UTC), events[0].End)
	assert.Equal(t, "Base: 5k easy", events[0].Title)
}

func TestToEvents_TotalOnMalformedDates(t *testing.T) {
	tasks := []domain.DailyTask{
		{PhaseTitle: "Base", TaskDescription: "bad", Date: "soon", StartTime: "late", EstimatedMinutes: 30},
	}

	events := ToEvents(tasks, nil)
	require.Len(t, events, 1)
	assert.True(t, events[0].Start.IsZero())
	assert.Equal(t, 0, events[0].TaskIndex)
	assert.Equal(t, tasks[0], events[0].Task())
}

func TestBuildPhaseColors_PureAndPositional(t *testing.T) {
	titles := []string{"Base", "Build", "Peak"}

	first := BuildPhaseColors(titles)
	second := BuildPhaseColors(titles)
	assert.Equal(t, first, second, "same payload must yield identical colors")

	// Distinct positions get distinct colors until the palette wraps.
	assert.NotEqual(t, first["Base"], first["Build"])
	assert.NotEqual(t, first["Build"], first["Peak"])
}

func TestBuildPhaseColors_WrapsModuloPalette(t *testing.T) {
	titles := make([]string, PaletteSize()+1)
	for i := range titles {
		titles[i] = string(rune('A' + i))
	}

	colors := BuildPhaseColors(titles)
	assert.Equal(t, colors[titles[0]], colors[titles[PaletteSize()]])
}

func TestPhaseColor_FallsBackToGray(t *testing.T) {
	colors := BuildPhaseColors([]string{"Base"})
	assert.Equal(t, fallbackColor, PhaseColor("Unknown", colors))
	assert.Equal(t, colors["Base"], PhaseColor("Base", colors))
}
