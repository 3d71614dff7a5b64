package imagegen

import (
	"strings"

	"interiorai/internal/domain"
)

// BuildInstruction renders the redesign instruction forwarded with an image so
// the service can steer its model toward the chosen style.
func BuildInstruction(style string) string {
	style = domain.NormalizeStyleID(style)
	parts := []string{"Redesign this room in the " + domain.StyleName(style) + " interior style."}
	if s, ok := domain.LookupStyle(style); ok {
		parts = append(parts, s.Description+".")
		if len(s.Tips) > 0 {
			parts = append(parts, "Guidelines: "+strings.Join(s.Tips, "; ")+".")
		}
	}
	parts = append(parts, "Keep the walls, windows, doors and camera angle unchanged. Photorealistic, natural lighting.")
	return strings.Join(parts, " ")
}
