package domain

import "time"

// GeneratedDesign is one generation result paired with its source photo.
type GeneratedDesign struct {
	ID             string    `json:"id"`
	OriginalImage  string    `json:"originalImage"`
	GeneratedImage string    `json:"generatedImage"`
	Style          string    `json:"style"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Prepend returns a new collection with d at the front. The input slice is not modified.
func Prepend(designs []GeneratedDesign, d GeneratedDesign) []GeneratedDesign {
	out := make([]GeneratedDesign, 0, len(designs)+1)
	out = append(out, d)
	return append(out, designs...)
}

// Without returns a new collection lacking the first design with the given id
// and whether one was removed.
func Without(designs []GeneratedDesign, id string) ([]GeneratedDesign, bool) {
	for i := range designs {
		if designs[i].ID != id {
			continue
		}
		out := make([]GeneratedDesign, 0, len(designs)-1)
		out = append(out, designs[:i]...)
		return append(out, designs[i+1:]...), true
	}
	return CloneDesigns(designs), false
}

// CloneDesigns copies a collection so callers can hand out snapshots.
func CloneDesigns(designs []GeneratedDesign) []GeneratedDesign {
	out := make([]GeneratedDesign, len(designs))
	copy(out, designs)
	return out
}
