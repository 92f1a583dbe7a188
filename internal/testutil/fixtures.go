package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/strive/internal/domain"
	"github.com/google/uuid"
)

// NewTestDefinitions returns a filled goal definition payload.
func NewTestDefinitions() domain.Definitions {
	return domain.Definitions{
		Title:    "Run a marathon",
		Metric:   "Finish under 4 hours",
		Purpose:  "Improve long-term health",
		Deadline: "2026-10-01",
	}
}

// NewTestPhasePlan returns a phase plan with n back-to-back monthly phases
// starting 2026-01-01. Each phase starts the day after the previous one ends,
// so the plan carries no validation findings.
func NewTestPhasePlan(n int) domain.PhasePlan {
	plan := domain.PhasePlan{Phases: make([]domain.Phase, n)}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range plan.Phases {
		end := start.AddDate(0, 1, 0)
		plan.Phases[i] = domain.Phase{
			Title:       fmt.Sprintf("Phase %d", i+1),
			Description: fmt.Sprintf("Work for phase %d", i+1),
			StartDate:   start.Format(domain.DateFormat),
			EndDate:     end.Format(domain.DateFormat),
		}
		start = end.AddDate(0, 0, 1)
	}
	return plan
}

// NewTestDailyPlan returns a daily plan with one task per day starting
// 2026-01-01, all in the first of the given phases.
func NewTestDailyPlan(phases []string, tasks int) domain.DailyPlan {
	plan := domain.DailyPlan{
		Tasks:           make([]domain.DailyTask, tasks),
		GoalPhaseTitles: phases,
	}
	if len(phases) > 0 {
		plan.CurrentPhase = phases[0]
	}
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range plan.Tasks {
		plan.Tasks[i] = domain.DailyTask{
			PhaseTitle:       plan.CurrentPhase,
			TaskDescription:  fmt.Sprintf("Task %d", i+1),
			Date:             day.Format(domain.DateFormat),
			StartTime:        "09:00",
			EstimatedMinutes: 30,
		}
		plan.LastTaskDate = plan.Tasks[i].Date
		day = day.AddDate(0, 0, 1)
	}
	return plan
}

// NewTestMessage returns a transcript message with a fresh id.
func NewTestMessage(role domain.Role, content string) *domain.Message {
	return &domain.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}
