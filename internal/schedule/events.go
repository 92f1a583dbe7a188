// Package schedule owns the daily-task calendar of the generate-dailies
// stage: the task→event transform used for rendering, the phase color
// table, and the index-addressed task mutations behind add/edit/drag/resize.
package schedule

import (
	"fmt"
	"time"

	"github.com/alexanderramin/strive/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// palette holds the fixed phase colors, assigned in goal_phases order and
// wrapping modulo its length.
var palette = []lipgloss.Color{
	lipgloss.Color("#A3E635"), // lime
	lipgloss.Color("#4ADE80"), // emerald
	lipgloss.Color("#34D399"), // sea green
	lipgloss.Color("#06B6D4"), // cyan
	lipgloss.Color("#3B82F6"), // blue
	lipgloss.Color("#8B5CF6"), // violet
	lipgloss.Color("#EC4899"), // pink
	lipgloss.Color("#F43F5E"), // rose
	lipgloss.Color("#F97316"), // orange
	lipgloss.Color("#FBBF24"), // amber
	lipgloss.Color("#A8A29E"), // stone
	lipgloss.Color("#7C3AED"), // deep purple
}

// fallbackColor is used for tasks whose phase is not in the color map.
var fallbackColor = lipgloss.Color("#e0e0e0")

// PaletteSize returns the number of distinct phase colors before wrapping.
func PaletteSize() int { return len(palette) }

// BuildPhaseColors assigns a palette entry to each phase title by its
// ordinal position. The map is stable for the lifetime of one daily plan.
func BuildPhaseColors(goalPhaseTitles []string) map[string]lipgloss.Color {
	m := make(map[string]lipgloss.Color, len(goalPhaseTitles))
	for i, title := range goalPhaseTitles {
		m[title] = palette[i%len(palette)]
	}
	return m
}

// PhaseColor looks up a phase's color, falling back to gray for titles the
// plan does not know about.
func PhaseColor(phaseTitle string, colors map[string]lipgloss.Color) lipgloss.Color {
	if c, ok := colors[phaseTitle]; ok {
		return c
	}
	return fallbackColor
}

// Event is a calendar-displayable projection of one daily task. It carries
// every field of the source task plus its positional index, so an event can
// reconstruct its task without consulting the task list.
type Event struct {
	Title string
	Start time.Time
	End   time.Time
	Color lipgloss.Color

	// Back-reference to the originating task.
	TaskIndex        int
	PhaseTitle       string
	TaskDescription  string
	Date             string // YYYY-MM-DD
	StartTime        string // HH:MM
	EstimatedMinutes int
}

// Task reconstructs the originating daily task from the event metadata.
func (ev Event) Task() domain.DailyTask {
	return domain.DailyTask{
		PhaseTitle:       ev.PhaseTitle,
		TaskDescription:  ev.TaskDescription,
		Date:             ev.Date,
		StartTime:        ev.StartTime,
		EstimatedMinutes: ev.EstimatedMinutes,
	}
}

// ToEvents projects every task into a display event. The transform is
// total: tasks with unparseable dates still produce an event (with zero
// instants) so cardinality always matches the task list.
func ToEvents(tasks []domain.DailyTask, colors map[string]lipgloss.Color) []Event {
	events := make([]Event, len(tasks))
	for i, task := range tasks {
		start, err := task.StartsAt()
		var end time.Time
		if err == nil {
			end = start.Add(time.Duration(task.EstimatedMinutes) * time.Minute)
		}
		events[i] = Event{
			Title:            fmt.Sprintf("%s: %s", task.PhaseTitle, task.TaskDescription),
			Start:            start,
			End:              end,
			Color:            PhaseColor(task.PhaseTitle, colors),
			TaskIndex:        i,
			PhaseTitle:       task.PhaseTitle,
			TaskDescription:  task.TaskDescription,
			Date:             task.Date,
			StartTime:        task.StartTime,
			EstimatedMinutes: task.EstimatedMinutes,
		}
	}
	return events
}
