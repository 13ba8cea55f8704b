package image

import (
	"strings"
)

// BuildInstruction wraps the user's free-text coloring prompt into the
// instruction sent to the model. The surrounding text keeps providers from
// redrawing the artwork instead of coloring it.
func BuildInstruction(prompt string) string {
	parts := []string{
		"Colorize this line-art illustration.",
	}
	if p := strings.TrimSpace(prompt); p != "" {
		parts = append(parts, "Coloring description: "+p+".")
	}
	parts = append(parts,
		"Preserve the original line work and composition exactly.",
		"Apply clean flat colors with soft shading. Do not add or remove elements.")
	return strings.Join(parts, " ")
}
