package schedule

import "github.com/alexanderramin/strive/internal/domain"

// TaskDraft carries the fields collected by the add/edit form.
type TaskDraft struct {
	PhaseTitle       string
	TaskDescription  string
	Date             string // YYYY-MM-DD
	StartTime        string // HH:MM
	EstimatedMinutes int
}

func (d TaskDraft) task() domain.DailyTask {
	return domain.DailyTask{
		PhaseTitle:       d.PhaseTitle,
		TaskDescription:  d.TaskDescription,
		Date:             d.Date,
		StartTime:        d.StartTime,
		EstimatedMinutes: d.EstimatedMinutes,
	}
}

// Editor holds a private working copy of a generated daily plan. Tasks are
// addressed by position, captured from the render that displayed them; a
// mutation aimed at an index that no longer exists is a silent no-op, never
// an error — a stale index just means the calendar re-rendered underneath
// the gesture.
type Editor struct {
	plan domain.DailyPlan
}

// NewEditor seeds an editor with a deep copy of the plan.
func NewEditor(plan domain.DailyPlan) *Editor {
	return &Editor{plan: plan.Clone()}
}

// Len returns the number of tasks in the working copy.
func (e *Editor) Len() int { return len(e.plan.Tasks) }

// Task returns the task at idx and whether idx is in range.
func (e *Editor) Task(idx int) (domain.DailyTask, bool) {
	if idx < 0 || idx >= len(e.plan.Tasks) {
		return domain.DailyTask{}, false
	}
	return e.plan.Tasks[idx], true
}

// Tasks returns a snapshot copy of the working task list.
func (e *Editor) Tasks() []domain.DailyTask {
	out := make([]domain.DailyTask, len(e.plan.Tasks))
	copy(out, e.plan.Tasks)
	return out
}

// Plan returns the full edited payload, with the phase list and current
// phase carried through unchanged, for handing to the wizard controller.
func (e *Editor) Plan() domain.DailyPlan {
	return e.plan.Clone()
}

// CurrentPhase returns the plan's active phase title.
func (e *Editor) CurrentPhase() string { return e.plan.CurrentPhase }

// GoalPhaseTitles returns the ordered phase titles of the whole goal.
func (e *Editor) GoalPhaseTitles() []string {
	out := make([]string, len(e.plan.GoalPhaseTitles))
	copy(out, e.plan.GoalPhaseTitles)
	return out
}

// AllowedPhases returns the phases a task may be scheduled into: the prefix
// of the goal's phases up to and including the current one. Future phases
// are off limits. If the current phase is missing from the list, every
// phase is allowed.
func (e *Editor) AllowedPhases() []string {
	for i, title := range e.plan.GoalPhaseTitles {
		if title == e.plan.CurrentPhase {
			return e.GoalPhaseTitles()[:i+1]
		}
	}
	return e.GoalPhaseTitles()
}

// Add appends a new task built from the draft. No overlap or capacity
// checking: tasks may freely co-occur.
func (e *Editor) Add(draft TaskDraft) {
	e.plan.Tasks = append(e.plan.Tasks, draft.task())
}

// Edit replaces the task at idx wholesale with the draft's fields.
func (e *Editor) Edit(idx int, draft TaskDraft) {
	if idx < 0 || idx >= len(e.plan.Tasks) {
		return
	}
	e.plan.Tasks[idx] = draft.task()
}

// Delete removes the task at idx; later tasks shift down one position.
func (e *Editor) Delete(idx int) {
	if idx < 0 || idx >= len(e.plan.Tasks) {
		return
	}
	e.plan.Tasks = append(e.plan.Tasks[:idx], e.plan.Tasks[idx+1:]...)
}

// Reschedule moves the task at idx to a new date and start time, leaving
// its duration unchanged. This is the drag gesture.
func (e *Editor) Reschedule(idx int, date, startTime string) {
	if idx < 0 || idx >= len(e.plan.Tasks) {
		return
	}
	e.plan.Tasks[idx].Date = date
	e.plan.Tasks[idx].StartTime = startTime
}

// Resize sets a new duration for the task at idx. Resizing can shift the
// apparent start of the span, so the date and start time are updated too.
func (e *Editor) Resize(idx int, minutes int, date, startTime string) {
	if idx < 0 || idx >= len(e.plan.Tasks) {
		return
	}
	e.plan.Tasks[idx].EstimatedMinutes = minutes
	e.plan.Tasks[idx].Date = date
	e.plan.Tasks[idx].StartTime = startTime
}
