package domain

import (
	"encoding/json"
	"fmt"
)

// Status is the discriminator carried by every stage response on the wire.
type Status string

const (
	StatusFollowUp    Status = "follow_up_required"
	StatusDefinitions Status = "definitions_extracted"
	StatusPhases      Status = "phases_generated"
	StatusDailies     Status = "dailies_generated"
)

// StageResponse is the tagged union of payloads the backend can return for a
// pipeline stage. Exactly one concrete type is active at a time; callers
// dispatch on the concrete type (or ResponseStatus), never on field probing.
type StageResponse interface {
	ResponseStatus() Status
}

// FollowUp asks the user one more free-text question before the stage can
// produce its structured result.
type FollowUp struct {
	Question string `json:"question_to_user"`
}

func (FollowUp) ResponseStatus() Status { return StatusFollowUp }

// Definitions is the verified goal definition extracted from the
// conversation.
type Definitions struct {
	Title    string `json:"title"`
	Metric   string `json:"metric"`
	Purpose  string `json:"purpose"`
	Deadline string `json:"deadline"` // YYYY-MM-DD
}

func (Definitions) ResponseStatus() Status { return StatusDefinitions }

// PhasePlan is an ordered sequence of time-boxed phases. Phase identity is
// positional: reordering changes identity.
type PhasePlan struct {
	Phases []Phase `json:"phases"`
}

func (PhasePlan) ResponseStatus() Status { return StatusPhases }

// Clone returns a deep copy so editors can mutate freely without aliasing
// the server payload.
func (p PhasePlan) Clone() PhasePlan {
	out := PhasePlan{Phases: make([]Phase, len(p.Phases))}
	copy(out.Phases, p.Phases)
	return out
}

// DailyPlan is the generated daily-task calendar for the current phase,
// together with the phase list needed to color and restrict tasks.
type DailyPlan struct {
	Tasks           []DailyTask `json:"dailies"`
	LastTaskDate    string      `json:"last_dailies_date"` // YYYY-MM-DD
	GoalPhaseTitles []string    `json:"goal_phases"`
	CurrentPhase    string      `json:"curr_phase"`
}

func (DailyPlan) ResponseStatus() Status { return StatusDailies }

// Clone returns a deep copy of the plan.
func (p DailyPlan) Clone() DailyPlan {
	out := p
	out.Tasks = make([]DailyTask, len(p.Tasks))
	copy(out.Tasks, p.Tasks)
	out.GoalPhaseTitles = make([]string, len(p.GoalPhaseTitles))
	copy(out.GoalPhaseTitles, p.GoalPhaseTitles)
	return out
}

// statusEnvelope peeks at the discriminator before full decoding.
type statusEnvelope struct {
	Status Status `json:"status"`
}

// DecodeStageResponse decodes a wire payload into the matching union case
// by its status discriminator.
func DecodeStageResponse(raw []byte) (StageResponse, error) {
	var env statusEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding stage response envelope: %w", err)
	}

	switch env.Status {
	case StatusFollowUp:
		var r FollowUp
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decoding follow-up payload: %w", err)
		}
		return r, nil
	case StatusDefinitions:
		var r Definitions
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decoding definitions payload: %w", err)
		}
		return r, nil
	case StatusPhases:
		var r PhasePlan
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decoding phase plan payload: %w", err)
		}
		return r, nil
	case StatusDailies:
		var r DailyPlan
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decoding daily plan payload: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown stage response status %q", env.Status)
	}
}

// EncodeStageResponse marshals a union case with its status discriminator
// injected, matching what the backend expects in confirm requests.
func EncodeStageResponse(resp StageResponse) ([]byte, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encoding stage response: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("re-reading stage response fields: %w", err)
	}
	tag, err := json.Marshal(resp.ResponseStatus())
	if err != nil {
		return nil, fmt.Errorf("encoding status tag: %w", err)
	}
	fields["status"] = tag

	return json.Marshal(fields)
}
