// Package timeline owns the editable phase sequence of the refine-phases
// stage: field edits, insertion, deletion, reordering, and the advisory
// date-ordering checks shown alongside each phase card.
package timeline

import (
	"fmt"
	"time"

	"github.com/alexanderramin/strive/internal/domain"
)

// ValidateAt checks the phase at index idx against its own date span and the
// immediately preceding phase. It returns an advisory message, or "" when the
// phase is consistent. The check is deliberately adjacent-only and never
// blocks confirmation; the backend is the final arbiter of the plan.
func ValidateAt(phases []domain.Phase, idx int) string {
	if idx < 0 || idx >= len(phases) {
		return ""
	}
	p := phases[idx]

	start, startOK := parseDate(p.StartDate)
	end, endOK := parseDate(p.EndDate)

	if startOK && endOK && start.After(end) {
		return "start date must be before end date"
	}

	if idx > 0 && startOK {
		if prevEnd, ok := parseDate(phases[idx-1].EndDate); ok && !start.After(prevEnd) {
			return fmt.Sprintf("start date must be after phase %d end date (%s)",
				idx, phases[idx-1].EndDate)
		}
	}

	return ""
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
