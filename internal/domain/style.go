package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style describes a decor aesthetic offered by the style picker.
type Style struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Thumbnail   string   `json:"thumbnail"`
	Description string   `json:"description"`
	Tips        []string `json:"tips"`
}

// Styles is the picker catalog in display order.
var Styles = []Style{
	{
		ID:          "modern",
		Name:        "Modern",
		Thumbnail:   "https://images.unsplash.com/photo-1618221195710-dd6b41faaea6?w=300&h=200&fit=crop",
		Description: "Clean lines, minimal decor, and a focus on functionality",
		Tips:        []string{"Use neutral colors", "Incorporate geometric shapes", "Keep surfaces clutter-free"},
	},
	{
		ID:          "minimalist",
		Name:        "Minimalist",
		Thumbnail:   "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=300&h=200&fit=crop",
		Description: "Less is more - focus on essential elements only",
		Tips:        []string{"Limit color palette", "Choose quality over quantity", "Embrace negative space"},
	},
	{
		ID:          "bohemian",
		Name:        "Bohemian",
		Thumbnail:   "https://images.unsplash.com/photo-1616486338812-3dadae4b4ace?w=300&h=200&fit=crop",
		Description: "Eclectic, artistic, and free-spirited design",
		Tips:        []string{"Mix patterns and textures", "Use warm, earthy tones", "Incorporate vintage pieces"},
	},
	{
		ID:          "rustic",
		Name:        "Rustic",
		Thumbnail:   "https://images.unsplash.com/photo-1616486338812-3dadae4b4ace?w=300&h=200&fit=crop",
		Description: "Natural materials and cozy, warm atmosphere",
		Tips:        []string{"Use wood and stone", "Choose warm lighting", "Add vintage accessories"},
	},
	{
		ID:          "industrial",
		Name:        "Industrial",
		Thumbnail:   "https://images.unsplash.com/photo-1618221195710-dd6b41faaea6?w=300&h=200&fit=crop",
		Description: "Raw materials, exposed elements, and urban aesthetic",
		Tips:        []string{"Expose structural elements", "Use metal and concrete", "Keep it open and airy"},
	},
	{
		ID:          "scandinavian",
		Name:        "Scandinavian",
		Thumbnail:   "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=300&h=200&fit=crop",
		Description: "Light, airy, and functional with natural elements",
		Tips:        []string{"Maximize natural light", "Use light wood tones", "Keep it simple and functional"},
	},
}

// KnownStyleIDs lists every style id the generation service understands,
// including ones the picker does not advertise.
var KnownStyleIDs = []string{
	"modern", "minimalist", "bohemian", "rustic",
	"industrial", "eclectic", "scandinavian", "traditional",
}

// FallbackStyleInfo is returned for style ids without a catalog description.
var FallbackStyleInfo = Style{
	Description: "A beautiful interior design style",
	Tips:        []string{"Start with a neutral base", "Add personal touches", "Consider lighting"},
}

// NormalizeStyleID lowercases and trims a style id.
func NormalizeStyleID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// LookupStyle returns the catalog entry for id.
func LookupStyle(id string) (Style, bool) {
	id = NormalizeStyleID(id)
	for _, s := range Styles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}

// StyleName returns the display name for id, title-casing ids outside the catalog.
func StyleName(id string) string {
	if s, ok := LookupStyle(id); ok {
		return s.Name
	}
	return cases.Title(language.Und).String(NormalizeStyleID(id))
}
