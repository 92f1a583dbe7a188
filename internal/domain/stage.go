package domain

import "fmt"

// Stage identifies one step of the goal-creation pipeline. Stages are
// strictly ordered; a session only moves forward until it completes (or is
// aborted, which starts a fresh session).
type Stage string

const (
	StageDefineGoal       Stage = "define_goal"
	StageGetPrerequisites Stage = "get_prerequisites"
	StageRefinePhases     Stage = "refine_phases"
	StageGenerateDailies  Stage = "generate_dailies"
	StageCompleted        Stage = "completed"
)

// stageOrder maps each stage to its pipeline position.
var stageOrder = map[Stage]int{
	StageDefineGoal:       0,
	StageGetPrerequisites: 1,
	StageRefinePhases:     2,
	StageGenerateDailies:  3,
	StageCompleted:        4,
}

// Valid reports whether s is a known pipeline stage.
func (s Stage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Ordinal returns the stage's position in the pipeline, or -1 for an
// unknown stage.
func (s Stage) Ordinal() int {
	if n, ok := stageOrder[s]; ok {
		return n
	}
	return -1
}

// Before reports whether s comes strictly before other in the pipeline.
// Unknown stages compare before everything.
func (s Stage) Before(other Stage) bool {
	return s.Ordinal() < other.Ordinal()
}

// Label returns the human-readable stage name shown in the stepper.
func (s Stage) Label() string {
	switch s {
	case StageDefineGoal:
		return "Define Goal"
	case StageGetPrerequisites:
		return "Prerequisites"
	case StageRefinePhases:
		return "Phases"
	case StageGenerateDailies:
		return "Daily Tasks"
	case StageCompleted:
		return "Done"
	default:
		return string(s)
	}
}

// PipelineStages lists the stages in order, excluding the completed sentinel.
var PipelineStages = []Stage{
	StageDefineGoal,
	StageGetPrerequisites,
	StageRefinePhases,
	StageGenerateDailies,
}

// ParseStage validates a stage tag from the wire.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown pipeline stage %q", s)
	}
	return st, nil
}
