package domain

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// TimeFormat is the wire format for clock times.
const TimeFormat = "15:04"

// Phase is one titled, time-boxed segment of the goal plan. Phases have no
// stable id; identity is the index within the owning PhasePlan.
type Phase struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
	EndDate     string `json:"end_date"`   // YYYY-MM-DD
}

// DurationDays returns the day span between start and end, or 0 when either
// date is missing or malformed.
func (p Phase) DurationDays() int {
	start, err1 := time.Parse(DateFormat, p.StartDate)
	end, err2 := time.Parse(DateFormat, p.EndDate)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

// DailyTask is a single scheduled action within a phase. Like phases, a
// task is addressed by its position in the owning DailyPlan.
type DailyTask struct {
	PhaseTitle       string `json:"phase_title"`
	TaskDescription  string `json:"task_description"`
	Date             string `json:"dailies_date"` // YYYY-MM-DD
	StartTime        string `json:"start_time"`   // HH:MM
	EstimatedMinutes int    `json:"estimated_time_minutes"`
}

// StartsAt combines the task's date and start time into a UTC instant.
func (t DailyTask) StartsAt() (time.Time, error) {
	ts, err := time.Parse(DateFormat+"T"+TimeFormat, t.Date+"T"+t.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing task start %q %q: %w", t.Date, t.StartTime, err)
	}
	return ts.UTC(), nil
}

// EndsAt returns the task end instant: start plus the estimated duration.
func (t DailyTask) EndsAt() (time.Time, error) {
	start, err := t.StartsAt()
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(t.EstimatedMinutes) * time.Minute), nil
}
