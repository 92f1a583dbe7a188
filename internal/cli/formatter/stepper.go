package formatter

import "strings"

// Stepper renders the pipeline progress line shown in the wizard header:
// completed steps green, the current step highlighted, later steps dim.
func Stepper(labels []string, current int) string {
	parts := make([]string, len(labels))
	for i, label := range labels {
		switch {
		case i < current:
			parts[i] = StyleGreen.Render("✓ " + label)
		case i == current:
			parts[i] = StyleHeader.Render("● " + label)
		default:
			parts[i] = Dim("○ " + label)
		}
	}
	return strings.Join(parts, Dim(" ─ "))
}
