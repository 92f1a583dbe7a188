package timeline

import "github.com/alexanderramin/strive/internal/domain"

// Field names an editable phase attribute.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldStartDate   Field = "start_date"
	FieldEndDate     Field = "end_date"
)

// Side selects where Insert places the new phase relative to the anchor.
type Side int

const (
	Before Side = iota
	After
)

// Editor holds a private working copy of a generated phase plan. Phases are
// addressed by position; a captured index is valid only until the next
// structural mutation (insert, delete, reorder).
//
// Validation errors are advisory annotations keyed by index. Structural
// mutations do not re-key or re-run them, matching the source behavior: an
// annotation can go stale after a delete or reorder until the next field
// edit refreshes it.
type Editor struct {
	phases []domain.Phase
	errs   map[int]string
}

// NewEditor seeds an editor with a deep copy of the plan. Call it again
// whenever the backend returns a new payload; local edits are replaced,
// never merged.
func NewEditor(plan domain.PhasePlan) *Editor {
	cl := plan.Clone()
	return &Editor{
		phases: cl.Phases,
		errs:   make(map[int]string),
	}
}

// Len returns the number of phases in the working copy.
func (e *Editor) Len() int { return len(e.phases) }

// Phase returns the phase at idx and whether idx is in range.
func (e *Editor) Phase(idx int) (domain.Phase, bool) {
	if idx < 0 || idx >= len(e.phases) {
		return domain.Phase{}, false
	}
	return e.phases[idx], true
}

// Phases returns a snapshot copy of the working sequence, suitable for
// handing to the wizard controller on confirm.
func (e *Editor) Phases() []domain.Phase {
	out := make([]domain.Phase, len(e.phases))
	copy(out, e.phases)
	return out
}

// Plan wraps the current snapshot as a confirmable payload.
func (e *Editor) Plan() domain.PhasePlan {
	return domain.PhasePlan{Phases: e.Phases()}
}

// ErrorAt returns the advisory annotation for idx, or "".
func (e *Editor) ErrorAt(idx int) string { return e.errs[idx] }

// UpdateField edits one field of the phase at idx in place and re-validates
// that index. Out-of-range indices are ignored.
func (e *Editor) UpdateField(idx int, field Field, value string) {
	if idx < 0 || idx >= len(e.phases) {
		return
	}
	switch field {
	case FieldTitle:
		e.phases[idx].Title = value
	case FieldDescription:
		e.phases[idx].Description = value
	case FieldStartDate:
		e.phases[idx].StartDate = value
	case FieldEndDate:
		e.phases[idx].EndDate = value
	default:
		return
	}
	e.revalidate(idx)
}

// SetPhase replaces every field of the phase at idx and re-validates it.
func (e *Editor) SetPhase(idx int, p domain.Phase) {
	if idx < 0 || idx >= len(e.phases) {
		return
	}
	e.phases[idx] = p
	e.revalidate(idx)
}

// Insert adds an empty phase adjacent to idx. The new phase is not
// validated until its first field edit.
func (e *Editor) Insert(idx int, side Side) {
	if idx < 0 || idx >= len(e.phases) {
		if len(e.phases) == 0 && idx == 0 {
			e.phases = append(e.phases, domain.Phase{})
		}
		return
	}
	at := idx
	if side == After {
		at = idx + 1
	}
	e.phases = append(e.phases, domain.Phase{})
	copy(e.phases[at+1:], e.phases[at:])
	e.phases[at] = domain.Phase{}
}

// Delete removes the phase at idx. Only that index's annotation is cleared;
// annotations on later indices keep their old keys.
func (e *Editor) Delete(idx int) {
	if idx < 0 || idx >= len(e.phases) {
		return
	}
	e.phases = append(e.phases[:idx], e.phases[idx+1:]...)
	delete(e.errs, idx)
}

// Reorder moves the phase at from to position to, shifting the phases in
// between. The result is a permutation of the input; no validation runs.
func (e *Editor) Reorder(from, to int) {
	if from < 0 || from >= len(e.phases) || to < 0 || to >= len(e.phases) || from == to {
		return
	}
	p := e.phases[from]
	e.phases = append(e.phases[:from], e.phases[from+1:]...)
	e.phases = append(e.phases, domain.Phase{})
	copy(e.phases[to+1:], e.phases[to:])
	e.phases[to] = p
}

func (e *Editor) revalidate(idx int) {
	if msg := ValidateAt(e.phases, idx); msg != "" {
		e.errs[idx] = msg
	} else {
		delete(e.errs, idx)
	}
}
